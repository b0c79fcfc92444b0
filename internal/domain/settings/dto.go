package settings

import (
	"fmt"

	"github.com/incubase/attendance-backend-go/internal/pkg/validator"
)

// UpdateSettingsRequest carries a partial settings update. Nil fields keep
// their current value; a non-nil Shifts map replaces configs per shift name.
type UpdateSettingsRequest struct {
	Shifts                       map[string]ShiftConfig `json:"shifts,omitempty"`
	EarlyCheckInAllowanceMinutes *int                   `json:"early_check_in_allowance_minutes,omitempty"`
	Timezone                     *string                `json:"timezone,omitempty"`
	IPAllowList                  *[]string              `json:"ip_allow_list,omitempty"`
	AutoAbsentHour               *int                   `json:"auto_absent_hour,omitempty"`
	SweepHour                    *int                   `json:"sweep_hour,omitempty"`
}

func (r *UpdateSettingsRequest) Validate() error {
	var errs validator.ValidationErrors

	for name, cfg := range r.Shifts {
		if validator.IsEmpty(name) {
			errs = append(errs, validator.ValidationError{
				Field:   "shifts",
				Message: "shift name must not be empty",
			})
			continue
		}
		if err := cfg.Validate(); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "shifts." + name,
				Message: err.Error(),
			})
		}
	}

	if r.EarlyCheckInAllowanceMinutes != nil && *r.EarlyCheckInAllowanceMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "early_check_in_allowance_minutes",
			Message: "must not be negative",
		})
	}

	if r.Timezone != nil && !validator.IsValidTimezone(*r.Timezone) {
		errs = append(errs, validator.ValidationError{
			Field:   "timezone",
			Message: "unknown timezone name",
		})
	}

	if r.IPAllowList != nil {
		for _, ip := range *r.IPAllowList {
			if !validator.IsValidIP(ip) {
				errs = append(errs, validator.ValidationError{
					Field:   "ip_allow_list",
					Message: fmt.Sprintf("%q is not a valid IP address", ip),
				})
			}
		}
	}

	if r.AutoAbsentHour != nil && !validator.IsValidHour(*r.AutoAbsentHour) {
		errs = append(errs, validator.ValidationError{
			Field:   "auto_absent_hour",
			Message: "must be between 0 and 23",
		})
	}

	if r.SweepHour != nil && !validator.IsValidHour(*r.SweepHour) {
		errs = append(errs, validator.ValidationError{
			Field:   "sweep_hour",
			Message: "must be between 0 and 23",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Validate enforces the ShiftConfig invariants: hours in range, thresholds
// non-negative, minimum hours strictly below the shift length.
func (c ShiftConfig) Validate() error {
	if !validator.IsValidHour(c.StartHour) || !validator.IsValidHour(c.EndHour) {
		return fmt.Errorf("%w: start and end hour must be between 0 and 23", ErrInvalidShiftConfig)
	}
	if c.LateThresholdMinutes < 0 || c.EarlyLeaveThresholdMinutes < 0 || c.NoCheckoutLateMinutes < 0 {
		return fmt.Errorf("%w: thresholds must not be negative", ErrInvalidShiftConfig)
	}
	if c.MinHoursForPresent < 0 {
		return fmt.Errorf("%w: min hours for present must not be negative", ErrInvalidShiftConfig)
	}
	if c.MinHoursForPresent >= c.DurationHours() {
		return fmt.Errorf("%w: min hours for present must be below the shift length", ErrInvalidShiftConfig)
	}
	return nil
}

// SettingsResponse is the admin-facing settings view.
type SettingsResponse struct {
	Shifts                       map[string]ShiftConfig `json:"shifts"`
	EarlyCheckInAllowanceMinutes int                    `json:"early_check_in_allowance_minutes"`
	Timezone                     string                 `json:"timezone"`
	IPAllowList                  []string               `json:"ip_allow_list"`
	AutoAbsentHour               *int                   `json:"auto_absent_hour,omitempty"`
	SweepHour                    int                    `json:"sweep_hour"`
	UpdatedAt                    string                 `json:"updated_at"`
}

// ToResponse maps the entity to its API view.
func (s AttendanceSettings) ToResponse() SettingsResponse {
	return SettingsResponse{
		Shifts:                       s.Shifts,
		EarlyCheckInAllowanceMinutes: s.EarlyCheckInAllowanceMinutes,
		Timezone:                     s.Timezone,
		IPAllowList:                  s.IPAllowList,
		AutoAbsentHour:               s.AutoAbsentHour,
		SweepHour:                    s.SweepHour,
		UpdatedAt:                    s.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
