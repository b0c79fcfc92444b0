package attendance

import (
	"time"
)

// Status is the classification of a day's attendance. Open records can
// still flip on re-read; closed records are terminal.
type Status string

const (
	StatusPresent        Status = "Present"
	StatusLate           Status = "Late"
	StatusEarlyLeave     Status = "Early Leave"
	StatusLateEarlyLeave Status = "Late + Early Leave"
	StatusIncomplete     Status = "Incomplete"
	StatusNoCheckout     Status = "No Checkout"
	StatusLateNoCheckout Status = "Late + No Checkout"

	// Reporting-only statuses, never stored on a record.
	StatusAbsent    Status = "Absent"
	StatusNoCheckIn Status = "No Check-in"
)

// Attendance is one record per (user, shift, calendar day). Date is the
// calendar day in the configured timezone; the timestamps are stored UTC.
type Attendance struct {
	ID           string
	UserID       string
	Shift        string
	Date         time.Time
	CheckInTime  *time.Time
	CheckOutTime *time.Time
	Status       Status
	IsLate       bool
	IsEarlyLeave bool
	HoursWorked  float64
	DeletedAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// DTO
	UserName *string
}

// Open reports whether the record has a check-in but no check-out yet.
func (a Attendance) Open() bool {
	return a.CheckInTime != nil && a.CheckOutTime == nil
}
