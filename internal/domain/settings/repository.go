package settings

import "context"

// SettingsRepository persists the active settings singleton.
type SettingsRepository interface {
	// GetActive retrieves the row with is_active = true.
	// Returns ErrSettingsNotFound when no row exists yet.
	GetActive(ctx context.Context) (AttendanceSettings, error)

	// Create inserts a new settings row.
	Create(ctx context.Context, s AttendanceSettings) (AttendanceSettings, error)

	// Update overwrites the active row.
	Update(ctx context.Context, s AttendanceSettings) (AttendanceSettings, error)
}
