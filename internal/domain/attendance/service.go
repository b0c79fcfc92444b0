package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// CheckIn processes a check-in after admission checks
	CheckIn(ctx context.Context, req CheckInRequest) (CheckInResponse, error)

	// CheckOut closes the open record for today
	CheckOut(ctx context.Context, req CheckOutRequest) (CheckOutResponse, error)

	// TodayStatus returns the live view for a user's current day,
	// self-healing a stale open-record status when it has flipped
	TodayStatus(ctx context.Context, userID string) (TodayStatusResponse, error)

	// History retrieves a user's records plus rollup counters and total hours
	History(ctx context.Context, userID string, filter HistoryFilter) (HistoryResponse, error)

	// List retrieves attendance records with filters (admin)
	List(ctx context.Context, filter ListFilter) (ListResponse, error)

	// Update corrects a record (admin), recomputing derived fields
	Update(ctx context.Context, req UpdateAttendanceRequest) (AttendanceResponse, error)

	// Delete soft deletes a record (admin)
	Delete(ctx context.Context, id string) error
}
