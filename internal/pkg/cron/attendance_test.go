package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/incubase/attendance-backend-go/internal/domain/attendance"
	"github.com/incubase/attendance-backend-go/internal/domain/settings"
	attendancesvc "github.com/incubase/attendance-backend-go/internal/service/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAttendanceRepo struct {
	attendance.AttendanceRepository

	open    []attendance.Attendance
	updated []attendance.Attendance
	getErr  error
}

func (s *stubAttendanceRepo) GetOpenBefore(ctx context.Context, cutoff time.Time) ([]attendance.Attendance, error) {
	if s.getErr != nil {
		err := s.getErr
		s.getErr = nil
		return nil, err
	}
	var out []attendance.Attendance
	for _, att := range s.open {
		if att.CheckInTime.Before(cutoff) {
			out = append(out, att)
		}
	}
	return out, nil
}

func (s *stubAttendanceRepo) Update(ctx context.Context, att attendance.Attendance) error {
	s.updated = append(s.updated, att)
	return nil
}

type stubSettingsService struct {
	set settings.AttendanceSettings
}

func (s *stubSettingsService) Get(ctx context.Context) (settings.AttendanceSettings, error) {
	return s.set, nil
}

func (s *stubSettingsService) Update(ctx context.Context, req settings.UpdateSettingsRequest) (settings.AttendanceSettings, error) {
	return s.set, nil
}

func (s *stubSettingsService) Invalidate() {}

func sweeperSettings() settings.AttendanceSettings {
	set := settings.DefaultSettings("UTC")
	set.SweepHour = 23
	return set
}

func utcTime(day string, hour, minute int) time.Time {
	d, _ := time.Parse("2006-01-02", day)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, time.UTC)
}

func newSweeper(repo *stubAttendanceRepo, now time.Time) *AttendanceJobs {
	jobs := NewAttendanceJobs(repo, &stubSettingsService{set: sweeperSettings()}, attendancesvc.NewStatusCalculator(), nil)
	jobs.now = func() time.Time { return now }
	return jobs
}

func openRecord(id string, checkIn time.Time, shift string, late bool) attendance.Attendance {
	status := attendance.StatusPresent
	if late {
		status = attendance.StatusLate
	}
	date := time.Date(checkIn.Year(), checkIn.Month(), checkIn.Day(), 0, 0, 0, 0, time.UTC)
	return attendance.Attendance{
		ID:          id,
		UserID:      "user-" + id,
		Shift:       shift,
		Date:        date,
		CheckInTime: &checkIn,
		Status:      status,
		IsLate:      late,
	}
}

func TestSweepDoesNothingOutsideSweepHour(t *testing.T) {
	repo := &stubAttendanceRepo{
		open: []attendance.Attendance{openRecord("a", utcTime("2025-03-09", 9, 0), "Morning", false)},
	}
	jobs := newSweeper(repo, utcTime("2025-03-10", 12, 0))

	require.NoError(t, jobs.SweepOpenAttendances(context.Background()))
	assert.Empty(t, repo.updated)
}

func TestSweepClosesStaleRecordsAtShiftEnd(t *testing.T) {
	checkIn := utcTime("2025-03-09", 9, 0)
	repo := &stubAttendanceRepo{
		open: []attendance.Attendance{openRecord("a", checkIn, "Morning", false)},
	}
	jobs := newSweeper(repo, utcTime("2025-03-10", 23, 15))

	require.NoError(t, jobs.SweepOpenAttendances(context.Background()))
	require.Len(t, repo.updated, 1)

	closed := repo.updated[0]
	require.NotNil(t, closed.CheckOutTime)
	// Stamped at the nominal 15:00 shift end of the check-in day.
	assert.Equal(t, utcTime("2025-03-09", 15, 0), closed.CheckOutTime.UTC())
	assert.Equal(t, attendance.StatusIncomplete, closed.Status)
	assert.InDelta(t, 6.0, closed.HoursWorked, 0.001)
}

func TestSweepClosesSameDayRecordPastGrace(t *testing.T) {
	checkIn := utcTime("2025-03-10", 9, 0)
	repo := &stubAttendanceRepo{
		open: []attendance.Attendance{openRecord("a", checkIn, "Morning", false)},
	}
	jobs := newSweeper(repo, utcTime("2025-03-10", 23, 0))

	require.NoError(t, jobs.SweepOpenAttendances(context.Background()))
	require.Len(t, repo.updated, 1)
	assert.Equal(t, attendance.StatusIncomplete, repo.updated[0].Status)
}

func TestSweepLeavesNightShiftInProgress(t *testing.T) {
	checkIn := utcTime("2025-03-10", 22, 0)
	repo := &stubAttendanceRepo{
		open: []attendance.Attendance{openRecord("a", checkIn, "Night", false)},
	}
	jobs := newSweeper(repo, utcTime("2025-03-10", 23, 0))

	require.NoError(t, jobs.SweepOpenAttendances(context.Background()))
	assert.Empty(t, repo.updated)
}

func TestSweepKeepsLateFlagOnClose(t *testing.T) {
	checkIn := utcTime("2025-03-09", 10, 30)
	repo := &stubAttendanceRepo{
		open: []attendance.Attendance{openRecord("a", checkIn, "Morning", true)},
	}
	jobs := newSweeper(repo, utcTime("2025-03-10", 23, 0))

	require.NoError(t, jobs.SweepOpenAttendances(context.Background()))
	require.Len(t, repo.updated, 1)

	assert.Equal(t, attendance.StatusIncomplete, repo.updated[0].Status)
	assert.True(t, repo.updated[0].IsLate)
}

func TestSweepSkipsUnconfiguredShift(t *testing.T) {
	repo := &stubAttendanceRepo{
		open: []attendance.Attendance{openRecord("a", utcTime("2025-03-09", 9, 0), "Graveyard", false)},
	}
	jobs := newSweeper(repo, utcTime("2025-03-10", 23, 0))

	require.NoError(t, jobs.SweepOpenAttendances(context.Background()))
	assert.Empty(t, repo.updated)
}

func TestSweepRunsOncePerDay(t *testing.T) {
	repo := &stubAttendanceRepo{
		open: []attendance.Attendance{openRecord("a", utcTime("2025-03-09", 9, 0), "Morning", false)},
	}
	jobs := newSweeper(repo, utcTime("2025-03-10", 23, 0))

	require.NoError(t, jobs.SweepOpenAttendances(context.Background()))
	require.Len(t, repo.updated, 1)

	// A second tick within the same sweep hour is a no-op.
	require.NoError(t, jobs.SweepOpenAttendances(context.Background()))
	assert.Len(t, repo.updated, 1)

	// The next day it runs again.
	jobs.now = func() time.Time { return utcTime("2025-03-11", 23, 0) }
	require.NoError(t, jobs.SweepOpenAttendances(context.Background()))
	assert.Len(t, repo.updated, 2)
}

func TestSweepRetriesAfterFailedRun(t *testing.T) {
	repo := &stubAttendanceRepo{
		open:   []attendance.Attendance{openRecord("a", utcTime("2025-03-09", 9, 0), "Morning", false)},
		getErr: errors.New("connection reset"),
	}
	set := sweeperSettings()
	set.SweepHour = 22
	jobs := NewAttendanceJobs(repo, &stubSettingsService{set: set}, attendancesvc.NewStatusCalculator(), nil)
	jobs.now = func() time.Time { return utcTime("2025-03-10", 22, 0) }

	require.Error(t, jobs.SweepOpenAttendances(context.Background()))
	assert.Empty(t, repo.updated)

	// The failed run does not burn the day; the next hourly tick retries.
	jobs.now = func() time.Time { return utcTime("2025-03-10", 23, 0) }
	require.NoError(t, jobs.SweepOpenAttendances(context.Background()))
	require.Len(t, repo.updated, 1)

	// And the retry still marks the day done.
	require.NoError(t, jobs.SweepOpenAttendances(context.Background()))
	assert.Len(t, repo.updated, 1)
}
