package attendance

import "errors"

// Attendance domain errors
var (
	// Admission denials
	ErrNetworkRestricted  = errors.New("attendance is restricted to the facility network")
	ErrNoShiftAssigned    = errors.New("no shift assigned to this user")
	ErrOutsideShiftWindow = errors.New("outside the shift check-in window")
	ErrAlreadyCheckedIn   = errors.New("already checked in for this shift today")
	ErrNotCheckedIn       = errors.New("no open check-in found")
	ErrAlreadyCheckedOut  = errors.New("already checked out for this shift today")

	// Configuration fault: a referenced shift has no ShiftConfig.
	ErrShiftNotConfigured = errors.New("no configuration found for the assigned shift")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
)
