package settings

import "context"

// SettingsService serves the cached settings singleton.
type SettingsService interface {
	// Get always returns populated settings, creating defaults when no
	// row exists. The value may be served from a bounded in-memory memo.
	Get(ctx context.Context) (AttendanceSettings, error)

	// Update merges a partial update into the persisted singleton and
	// invalidates the memo atomically with the write.
	Update(ctx context.Context, req UpdateSettingsRequest) (AttendanceSettings, error)

	// Invalidate drops the memo so the next Get hits the store.
	Invalidate()
}
