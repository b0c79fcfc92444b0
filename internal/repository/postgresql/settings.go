package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/incubase/attendance-backend-go/internal/domain/settings"
	"github.com/incubase/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type settingsRepository struct {
	db *database.DB
}

// GetActive implements settings.SettingsRepository.
func (s *settingsRepository) GetActive(ctx context.Context) (settings.AttendanceSettings, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT id, is_active, shifts, early_check_in_allowance_minutes,
			   timezone, ip_allow_list, auto_absent_hour, sweep_hour,
			   created_at, updated_at
		FROM attendance_settings
		WHERE is_active = TRUE
		LIMIT 1
	`

	var set settings.AttendanceSettings
	var shiftsJSON, ipListJSON []byte
	err := q.QueryRow(ctx, query).Scan(
		&set.ID, &set.IsActive, &shiftsJSON, &set.EarlyCheckInAllowanceMinutes,
		&set.Timezone, &ipListJSON, &set.AutoAbsentHour, &set.SweepHour,
		&set.CreatedAt, &set.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return settings.AttendanceSettings{}, settings.ErrSettingsNotFound
		}
		return settings.AttendanceSettings{}, fmt.Errorf("failed to get active settings: %w", err)
	}

	if err := json.Unmarshal(shiftsJSON, &set.Shifts); err != nil {
		return settings.AttendanceSettings{}, fmt.Errorf("failed to decode shift configs: %w", err)
	}
	if err := json.Unmarshal(ipListJSON, &set.IPAllowList); err != nil {
		return settings.AttendanceSettings{}, fmt.Errorf("failed to decode ip allow list: %w", err)
	}

	return set, nil
}

// Create implements settings.SettingsRepository.
func (s *settingsRepository) Create(ctx context.Context, set settings.AttendanceSettings) (settings.AttendanceSettings, error) {
	q := GetQuerier(ctx, s.db)

	set.ID = uuid.NewString()

	shiftsJSON, err := json.Marshal(set.Shifts)
	if err != nil {
		return settings.AttendanceSettings{}, fmt.Errorf("failed to encode shift configs: %w", err)
	}
	ipListJSON, err := json.Marshal(set.IPAllowList)
	if err != nil {
		return settings.AttendanceSettings{}, fmt.Errorf("failed to encode ip allow list: %w", err)
	}

	query := `
		INSERT INTO attendance_settings (
			id, is_active, shifts, early_check_in_allowance_minutes,
			timezone, ip_allow_list, auto_absent_hour, sweep_hour
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		set.ID,
		set.IsActive,
		shiftsJSON,
		set.EarlyCheckInAllowanceMinutes,
		set.Timezone,
		ipListJSON,
		set.AutoAbsentHour,
		set.SweepHour,
	).Scan(&set.CreatedAt, &set.UpdatedAt)
	if err != nil {
		return settings.AttendanceSettings{}, fmt.Errorf("failed to create settings: %w", err)
	}

	return set, nil
}

// Update implements settings.SettingsRepository.
func (s *settingsRepository) Update(ctx context.Context, set settings.AttendanceSettings) (settings.AttendanceSettings, error) {
	q := GetQuerier(ctx, s.db)

	shiftsJSON, err := json.Marshal(set.Shifts)
	if err != nil {
		return settings.AttendanceSettings{}, fmt.Errorf("failed to encode shift configs: %w", err)
	}
	ipListJSON, err := json.Marshal(set.IPAllowList)
	if err != nil {
		return settings.AttendanceSettings{}, fmt.Errorf("failed to encode ip allow list: %w", err)
	}

	query := `
		UPDATE attendance_settings
		SET shifts = $2,
			early_check_in_allowance_minutes = $3,
			timezone = $4,
			ip_allow_list = $5,
			auto_absent_hour = $6,
			sweep_hour = $7,
			updated_at = NOW()
		WHERE id = $1
		  AND is_active = TRUE
		RETURNING updated_at
	`

	err = q.QueryRow(ctx, query,
		set.ID,
		shiftsJSON,
		set.EarlyCheckInAllowanceMinutes,
		set.Timezone,
		ipListJSON,
		set.AutoAbsentHour,
		set.SweepHour,
	).Scan(&set.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return settings.AttendanceSettings{}, settings.ErrSettingsNotFound
		}
		return settings.AttendanceSettings{}, fmt.Errorf("failed to update settings: %w", err)
	}

	return set, nil
}

func NewSettingsRepository(db *database.DB) settings.SettingsRepository {
	return &settingsRepository{db: db}
}
