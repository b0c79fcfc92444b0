package settings

import (
	"time"
)

// ShiftConfig is the per-shift attendance policy. A shift whose EndHour is
// less than or equal to its StartHour crosses midnight.
type ShiftConfig struct {
	Name                       string  `json:"name"`
	StartHour                  int     `json:"start_hour"`
	EndHour                    int     `json:"end_hour"`
	LateThresholdMinutes       int     `json:"late_threshold_minutes"`
	EarlyLeaveThresholdMinutes int     `json:"early_leave_threshold_minutes"`
	NoCheckoutLateMinutes      int     `json:"no_checkout_late_minutes"`
	MinHoursForPresent         float64 `json:"min_hours_for_present"`
}

// CrossesMidnight reports whether the shift window wraps past 00:00.
func (s ShiftConfig) CrossesMidnight() bool {
	return s.EndHour <= s.StartHour
}

// DurationHours returns the nominal shift length in hours.
func (s ShiftConfig) DurationHours() float64 {
	d := s.EndHour - s.StartHour
	if d <= 0 {
		d += 24
	}
	return float64(d)
}

// AttendanceSettings is the active policy singleton: the shift map plus
// global admission policy. Exactly one row has is_active = true.
type AttendanceSettings struct {
	ID                           string
	IsActive                     bool
	Shifts                       map[string]ShiftConfig
	EarlyCheckInAllowanceMinutes int
	Timezone                     string
	IPAllowList                  []string
	// AutoAbsentHour is accepted and stored but nothing reads it yet;
	// it is reserved for a pass that would materialize absent rows.
	// Today absences exist only in history reporting, derived on read.
	AutoAbsentHour *int
	SweepHour      int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ShiftConfig returns the configuration for a shift name, if present.
func (s AttendanceSettings) ShiftConfig(name string) (ShiftConfig, bool) {
	cfg, ok := s.Shifts[name]
	return cfg, ok
}

// Location resolves the configured timezone, falling back to UTC when the
// name does not load.
func (s AttendanceSettings) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DefaultSettings returns the settings written on first access when no
// singleton row exists yet.
func DefaultSettings(timezone string) AttendanceSettings {
	return AttendanceSettings{
		IsActive: true,
		Shifts: map[string]ShiftConfig{
			"Morning": {
				Name:                       "Morning",
				StartHour:                  9,
				EndHour:                    15,
				LateThresholdMinutes:       60,
				EarlyLeaveThresholdMinutes: 60,
				NoCheckoutLateMinutes:      60,
				MinHoursForPresent:         4,
			},
			"Evening": {
				Name:                       "Evening",
				StartHour:                  15,
				EndHour:                    21,
				LateThresholdMinutes:       60,
				EarlyLeaveThresholdMinutes: 60,
				NoCheckoutLateMinutes:      60,
				MinHoursForPresent:         4,
			},
			"Night": {
				Name:                       "Night",
				StartHour:                  22,
				EndHour:                    6,
				LateThresholdMinutes:       60,
				EarlyLeaveThresholdMinutes: 60,
				NoCheckoutLateMinutes:      60,
				MinHoursForPresent:         5,
			},
		},
		EarlyCheckInAllowanceMinutes: 60,
		Timezone:                     timezone,
		IPAllowList:                  []string{},
		SweepHour:                    23,
	}
}
