package attendance

import (
	"time"

	"github.com/incubase/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type CheckInRequest struct {
	UserID   string `json:"user_id"`
	ClientIP string `json:"-"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	} else if !validator.IsValidUUID(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CheckOutRequest struct {
	UserID   string `json:"user_id"`
	ClientIP string `json:"-"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	} else if !validator.IsValidUUID(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AttendanceResponse struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	UserName     *string `json:"user_name,omitempty"`
	Shift        string  `json:"shift"`
	Date         string  `json:"date"`
	CheckInTime  *string `json:"check_in_time,omitempty"`
	CheckOutTime *string `json:"check_out_time,omitempty"`
	Status       Status  `json:"status"`
	IsLate       bool    `json:"is_late"`
	IsEarlyLeave bool    `json:"is_early_leave"`
	HoursWorked  float64 `json:"hours_worked"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

// ShiftInfo echoes the resolved shift window back to the caller on check-in.
type ShiftInfo struct {
	Shift         string `json:"shift"`
	ShiftStart    string `json:"shift_start"`
	ShiftEnd      string `json:"shift_end"`
	IsLate        bool   `json:"is_late"`
	LateByMinutes int    `json:"late_by_minutes"`
	CheckInTime   string `json:"check_in_time"`
}

type CheckInResponse struct {
	Record    AttendanceResponse `json:"record"`
	ShiftInfo ShiftInfo          `json:"shift_info"`
}

// CheckOutSummary is the closing view returned on check-out.
type CheckOutSummary struct {
	Shift           string  `json:"shift"`
	CheckInTime     string  `json:"check_in_time"`
	CheckOutTime    string  `json:"check_out_time"`
	HoursWorked     float64 `json:"hours_worked"`
	Status          Status  `json:"status"`
	IsLate          bool    `json:"is_late"`
	IsEarlyLeave    bool    `json:"is_early_leave"`
	EarlyByMinutes  int     `json:"early_by_minutes"`
	ValidAttendance bool    `json:"valid_attendance"`
}

type CheckOutResponse struct {
	Record  AttendanceResponse `json:"record"`
	Summary CheckOutSummary    `json:"summary"`
}

// TodayStatusResponse is the live view for a user's current day. When no
// record exists the status is "No Check-in" and Record is nil.
type TodayStatusResponse struct {
	Status        Status              `json:"status"`
	Shift         *string             `json:"shift,omitempty"`
	CanCheckIn    bool                `json:"can_check_in"`
	CheckInDenial *string             `json:"check_in_denial,omitempty"`
	Record        *AttendanceResponse `json:"record,omitempty"`
	HoursWorked   float64             `json:"hours_worked"`
}

type HistoryFilter struct {
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *HistoryFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}

	if f.StartDate != nil && *f.StartDate != "" {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}
	if f.EndDate != nil && *f.EndDate != "" {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// StatusRollup carries per-status counters for a user/range. Absent is only
// meaningful against an expected-days calendar and is filled by the service
// when a date range is given.
type StatusRollup struct {
	TotalDays  int64 `json:"total_days"`
	Present    int64 `json:"present"`
	Late       int64 `json:"late"`
	EarlyLeave int64 `json:"early_leave"`
	NoCheckout int64 `json:"no_checkout"`
	Incomplete int64 `json:"incomplete"`
	Absent     int64 `json:"absent"`
}

type HistoryResponse struct {
	TotalCount int64                `json:"total_count"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
	TotalPages int                  `json:"total_pages"`
	Records    []AttendanceResponse `json:"records"`
	Summary    StatusRollup         `json:"summary"`
	TotalHours float64              `json:"total_hours"`
}

type ListFilter struct {
	UserID    *string `json:"user_id,omitempty"`
	Shift     *string `json:"shift,omitempty"`
	Status    *string `json:"status,omitempty"`
	Date      *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD

	Page  int `json:"page"`
	Limit int `json:"limit"`

	SortBy    string `json:"sort_by"`    // date, check_in_time, check_out_time, status
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *ListFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}

	for field, date := range map[string]*string{
		"date":       f.Date,
		"start_date": f.StartDate,
		"end_date":   f.EndDate,
	} {
		if date != nil && *date != "" {
			if _, ok := validator.IsValidDate(*date); !ok {
				errs = append(errs, validator.ValidationError{
					Field:   field,
					Message: field + " must be in YYYY-MM-DD format",
				})
			}
		}
	}

	if f.SortBy != "" && !validator.IsInSlice(f.SortBy, []string{"date", "check_in_time", "check_out_time", "status"}) {
		errs = append(errs, validator.ValidationError{
			Field:   "sort_by",
			Message: "sort_by must be one of: date, check_in_time, check_out_time, status",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListResponse struct {
	TotalCount int64                `json:"total_count"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
	TotalPages int                  `json:"total_pages"`
	Records    []AttendanceResponse `json:"records"`
}

// UpdateAttendanceRequest allows managers to correct a record. When both
// timestamps and a configured shift end up set, derived fields are
// recomputed rather than trusted from the caller.
type UpdateAttendanceRequest struct {
	ID           string  `json:"-"`
	Shift        *string `json:"shift,omitempty"`
	CheckInTime  *string `json:"check_in_time,omitempty"`  // RFC3339 or "2006-01-02 15:04:05"
	CheckOutTime *string `json:"check_out_time,omitempty"` // RFC3339 or "2006-01-02 15:04:05"
	Status       *string `json:"status,omitempty"`
}

func (r *UpdateAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	for field, ts := range map[string]*string{
		"check_in_time":  r.CheckInTime,
		"check_out_time": r.CheckOutTime,
	} {
		if ts != nil && *ts != "" {
			if _, err := ParseFlexibleTime(*ts); err != nil {
				errs = append(errs, validator.ValidationError{
					Field:   field,
					Message: field + " must be RFC3339 or \"2006-01-02 15:04:05\"",
				})
			}
		}
	}

	if r.Status != nil && *r.Status != "" {
		stored := []string{
			string(StatusPresent), string(StatusLate), string(StatusEarlyLeave),
			string(StatusLateEarlyLeave), string(StatusIncomplete),
			string(StatusNoCheckout), string(StatusLateNoCheckout),
		}
		if !validator.IsInSlice(*r.Status, stored) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status is not a storable attendance status",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ParseFlexibleTime accepts the two timestamp formats admin corrections
// arrive in.
func ParseFlexibleTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", s)
}
