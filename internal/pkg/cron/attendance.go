package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/incubase/attendance-backend-go/internal/domain/attendance"
	"github.com/incubase/attendance-backend-go/internal/domain/settings"
	"github.com/incubase/attendance-backend-go/internal/pkg/database"
	attendancesvc "github.com/incubase/attendance-backend-go/internal/service/attendance"
)

// AttendanceJobs closes forgotten open records so they stop flipping on
// every read and the day ends with a terminal status.
type AttendanceJobs struct {
	attendanceRepo  attendance.AttendanceRepository
	settingsService settings.SettingsService
	calculator      *attendancesvc.StatusCalculator
	db              *database.DB

	now func() time.Time

	// Local calendar day of the last completed sweep. The job ticks
	// hourly but completes once per day, from the configured sweep hour
	// onwards so a failed run can retry on the next tick.
	lastSweepDate string
}

func NewAttendanceJobs(
	attendanceRepo attendance.AttendanceRepository,
	settingsService settings.SettingsService,
	calculator *attendancesvc.StatusCalculator,
	db *database.DB,
) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceRepo:  attendanceRepo,
		settingsService: settingsService,
		calculator:      calculator,
		db:              db,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("sweep_open_attendances", 1*time.Hour, j.SweepOpenAttendances)
}

// SweepOpenAttendances closes open records whose no-checkout grace has
// expired into a terminal Incomplete, stamped with the nominal shift end
// as the checkout time so worked hours never exceed the shift length.
// Open records must not survive into the next calendar day as live
// growing entries.
func (j *AttendanceJobs) SweepOpenAttendances(ctx context.Context) error {
	set, err := j.settingsService.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to load attendance settings: %w", err)
	}
	loc := set.Location()

	nowLocal := j.now().In(loc)
	today := nowLocal.Format("2006-01-02")

	if j.lastSweepDate == today || nowLocal.Hour() < set.SweepHour {
		return nil
	}

	slog.Info("Cron: Starting open attendance sweep", "date", today)

	stale, err := j.attendanceRepo.GetOpenBefore(ctx, j.now())
	if err != nil {
		return fmt.Errorf("failed to get stale open records: %w", err)
	}

	closedCount := 0
	for _, record := range stale {
		shift, ok := set.ShiftConfig(record.Shift)
		if !ok {
			slog.Warn("Cron: Skipping record with unconfigured shift",
				"attendance_id", record.ID, "shift", record.Shift)
			continue
		}

		// The grace check protects shifts still in progress, a night
		// shift checked in this evening included.
		outcome := j.calculator.Calculate(*record.CheckInTime, nil, shift, j.now(), loc)
		if !outcome.NoCheckoutLate {
			continue
		}

		shiftEndUTC := outcome.ShiftEnd.UTC()
		record.CheckOutTime = &shiftEndUTC
		record.Status = attendance.StatusIncomplete
		record.IsLate = outcome.IsLate
		record.HoursWorked = outcome.HoursWorked

		if err := j.attendanceRepo.Update(ctx, record); err != nil {
			slog.Error("Cron: Failed to close stale record",
				"attendance_id", record.ID,
				"user_id", record.UserID,
				"error", err)
			continue
		}
		closedCount++
	}

	j.lastSweepDate = today

	slog.Info("Cron: Open attendance sweep completed",
		"stale_count", len(stale), "closed_count", closedCount)
	return nil
}
