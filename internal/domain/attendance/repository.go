package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access for attendance records.
// Every query excludes soft-deleted rows.
type AttendanceRepository interface {
	// Create creates a new attendance record
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetByID retrieves an attendance record by ID
	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByUserShiftAndDate retrieves the record for a user/shift on a
	// calendar day. Returns nil when none exists; used for the
	// double-check-in guard.
	GetByUserShiftAndDate(ctx context.Context, userID string, shift string, date time.Time) (*Attendance, error)

	// GetOpenByUser retrieves the latest open record (check-in set,
	// check-out null) for a user. Returns nil when none exists.
	GetOpenByUser(ctx context.Context, userID string) (*Attendance, error)

	// GetOpenBefore retrieves all open records dated before cutoff,
	// for the sweeper.
	GetOpenBefore(ctx context.Context, cutoff time.Time) ([]Attendance, error)

	// Update updates an existing attendance record
	Update(ctx context.Context, attendance Attendance) error

	// History retrieves a user's records with optional date range and pagination
	History(ctx context.Context, userID string, filter HistoryFilter) ([]Attendance, int64, error)

	// List retrieves attendance records with filters and pagination (admin)
	List(ctx context.Context, filter ListFilter) ([]Attendance, int64, error)

	// StatusRollup aggregates per-status counters for a user and range
	StatusRollup(ctx context.Context, userID string, startDate, endDate *time.Time) (StatusRollup, error)

	// SumClosedHours sums worked hours over fully-closed records only,
	// derived from the timestamps rather than the cached per-record field.
	SumClosedHours(ctx context.Context, userID string, startDate, endDate *time.Time) (float64, error)

	// SoftDelete marks a record deleted
	SoftDelete(ctx context.Context, id string) error
}
