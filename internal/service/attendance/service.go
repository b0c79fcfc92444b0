package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/incubase/attendance-backend-go/internal/domain/attendance"
	"github.com/incubase/attendance-backend-go/internal/domain/settings"
	"github.com/incubase/attendance-backend-go/internal/domain/user"
	"github.com/incubase/attendance-backend-go/internal/pkg/database"
	"github.com/incubase/attendance-backend-go/internal/repository/postgresql"
	"github.com/jackc/pgx/v5"
)

type AttendanceServiceImpl struct {
	db *database.DB
	attendance.AttendanceRepository
	user.UserRepository
	settingsService settings.SettingsService
	calculator      *StatusCalculator
	gate            *AdmissionGate

	now func() time.Time
}

func NewAttendanceService(
	db *database.DB,
	attendanceRepo attendance.AttendanceRepository,
	userRepo user.UserRepository,
	settingsService settings.SettingsService,
	calculator *StatusCalculator,
	gate *AdmissionGate,
) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{
		db:                   db,
		AttendanceRepository: attendanceRepo,
		UserRepository:       userRepo,
		settingsService:      settingsService,
		calculator:           calculator,
		gate:                 gate,
		now:                  func() time.Time { return time.Now().UTC() },
	}
}

// timePtrToString safely converts a *time.Time to an RFC3339 string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(time.RFC3339)
	return &formatted
}

func toResponse(a attendance.Attendance) attendance.AttendanceResponse {
	return attendance.AttendanceResponse{
		ID:           a.ID,
		UserID:       a.UserID,
		UserName:     a.UserName,
		Shift:        a.Shift,
		Date:         a.Date.Format("2006-01-02"),
		CheckInTime:  timePtrToString(a.CheckInTime),
		CheckOutTime: timePtrToString(a.CheckOutTime),
		Status:       a.Status,
		IsLate:       a.IsLate,
		IsEarlyLeave: a.IsEarlyLeave,
		HoursWorked:  a.HoursWorked,
		CreatedAt:    a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    a.UpdatedAt.Format(time.RFC3339),
	}
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.CheckInResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.CheckInResponse{}, err
	}

	nowUTC := a.now()

	set, err := a.settingsService.Get(ctx)
	if err != nil {
		return attendance.CheckInResponse{}, fmt.Errorf("failed to load attendance settings: %w", err)
	}
	loc := set.Location()

	u, err := a.UserRepository.GetByID(ctx, req.UserID)
	if err != nil {
		return attendance.CheckInResponse{}, err
	}

	if err := a.gate.CheckNetwork(set, req.ClientIP); err != nil {
		return attendance.CheckInResponse{}, err
	}

	shift, err := a.gate.ResolveShift(u, set)
	if err != nil {
		return attendance.CheckInResponse{}, err
	}

	if err := a.gate.CheckInWindow(nowUTC, shift, set.EarlyCheckInAllowanceMinutes, loc); err != nil {
		return attendance.CheckInResponse{}, err
	}

	nowLocal := nowUTC.In(loc)
	date := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, time.UTC)

	existing, err := a.AttendanceRepository.GetByUserShiftAndDate(ctx, u.ID, shift.Name, date)
	if err != nil {
		return attendance.CheckInResponse{}, fmt.Errorf("failed to look up today's record: %w", err)
	}
	if existing == nil && shift.CrossesMidnight() && nowLocal.Hour() < shift.EndHour {
		// A post-midnight arrival belongs to the shift instance dated
		// yesterday.
		existing, err = a.AttendanceRepository.GetByUserShiftAndDate(ctx, u.ID, shift.Name, date.AddDate(0, 0, -1))
		if err != nil {
			return attendance.CheckInResponse{}, fmt.Errorf("failed to look up yesterday's record: %w", err)
		}
	}
	if existing != nil {
		return attendance.CheckInResponse{}, fmt.Errorf("%w at %s",
			attendance.ErrAlreadyCheckedIn, existing.CheckInTime.In(loc).Format("15:04"))
	}

	// A still-open record from any prior instance also blocks a new
	// check-in; the worker has to check out first.
	open, err := a.AttendanceRepository.GetOpenByUser(ctx, u.ID)
	if err != nil {
		return attendance.CheckInResponse{}, fmt.Errorf("failed to look up open record: %w", err)
	}
	if open != nil {
		return attendance.CheckInResponse{}, fmt.Errorf("%w at %s",
			attendance.ErrAlreadyCheckedIn, open.CheckInTime.In(loc).Format("15:04"))
	}

	outcome := a.calculator.Calculate(nowUTC, nil, shift, nowUTC, loc)

	record := attendance.Attendance{
		UserID:      u.ID,
		Shift:       shift.Name,
		Date:        date,
		CheckInTime: &nowUTC,
		Status:      outcome.Status,
		IsLate:      outcome.IsLate,
		HoursWorked: outcome.HoursWorked,
	}

	created, err := a.AttendanceRepository.Create(ctx, record)
	if err != nil {
		return attendance.CheckInResponse{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return attendance.CheckInResponse{
		Record: toResponse(created),
		ShiftInfo: attendance.ShiftInfo{
			Shift:         shift.Name,
			ShiftStart:    outcome.ShiftStart.Format("15:04"),
			ShiftEnd:      outcome.ShiftEnd.Format("15:04"),
			IsLate:        outcome.IsLate,
			LateByMinutes: outcome.LateByMinutes,
			CheckInTime:   nowLocal.Format(time.RFC3339),
		},
	}, nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.CheckOutResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.CheckOutResponse{}, err
	}

	nowUTC := a.now()

	set, err := a.settingsService.Get(ctx)
	if err != nil {
		return attendance.CheckOutResponse{}, fmt.Errorf("failed to load attendance settings: %w", err)
	}
	loc := set.Location()

	u, err := a.UserRepository.GetByID(ctx, req.UserID)
	if err != nil {
		return attendance.CheckOutResponse{}, err
	}

	if err := a.gate.CheckNetwork(set, req.ClientIP); err != nil {
		return attendance.CheckOutResponse{}, err
	}

	// The open record, not today's, so a night shift checking out after
	// midnight still finds yesterday's row.
	open, err := a.AttendanceRepository.GetOpenByUser(ctx, u.ID)
	if err != nil {
		return attendance.CheckOutResponse{}, fmt.Errorf("failed to look up open record: %w", err)
	}
	if open == nil {
		if u.HasShift() {
			nowLocal := nowUTC.In(loc)
			date := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, time.UTC)
			closed, err := a.AttendanceRepository.GetByUserShiftAndDate(ctx, u.ID, *u.Shift, date)
			if err != nil {
				return attendance.CheckOutResponse{}, fmt.Errorf("failed to look up today's record: %w", err)
			}
			if closed != nil && closed.CheckOutTime != nil {
				return attendance.CheckOutResponse{}, fmt.Errorf("%w at %s",
					attendance.ErrAlreadyCheckedOut, closed.CheckOutTime.In(loc).Format("15:04"))
			}
		}
		return attendance.CheckOutResponse{}, attendance.ErrNotCheckedIn
	}

	shift, ok := set.ShiftConfig(open.Shift)
	if !ok {
		return attendance.CheckOutResponse{}, fmt.Errorf("%w: %q", attendance.ErrShiftNotConfigured, open.Shift)
	}

	outcome := a.calculator.Calculate(*open.CheckInTime, &nowUTC, shift, nowUTC, loc)

	open.CheckOutTime = &nowUTC
	open.Status = outcome.Status
	open.IsLate = outcome.IsLate
	open.IsEarlyLeave = outcome.IsEarlyLeave
	open.HoursWorked = outcome.HoursWorked

	if err := a.AttendanceRepository.Update(ctx, *open); err != nil {
		return attendance.CheckOutResponse{}, fmt.Errorf("failed to close attendance record: %w", err)
	}

	return attendance.CheckOutResponse{
		Record: toResponse(*open),
		Summary: attendance.CheckOutSummary{
			Shift:           open.Shift,
			CheckInTime:     open.CheckInTime.In(loc).Format(time.RFC3339),
			CheckOutTime:    nowUTC.In(loc).Format(time.RFC3339),
			HoursWorked:     outcome.HoursWorked,
			Status:          outcome.Status,
			IsLate:          outcome.IsLate,
			IsEarlyLeave:    outcome.IsEarlyLeave,
			EarlyByMinutes:  outcome.EarlyByMinutes,
			ValidAttendance: outcome.HoursWorked >= shift.MinHoursForPresent,
		},
	}, nil
}

// TodayStatus implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) TodayStatus(ctx context.Context, userID string) (attendance.TodayStatusResponse, error) {
	nowUTC := a.now()

	set, err := a.settingsService.Get(ctx)
	if err != nil {
		return attendance.TodayStatusResponse{}, fmt.Errorf("failed to load attendance settings: %w", err)
	}
	loc := set.Location()

	u, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return attendance.TodayStatusResponse{}, err
	}

	if !u.HasShift() {
		return attendance.TodayStatusResponse{}, attendance.ErrNoShiftAssigned
	}
	shift, ok := set.ShiftConfig(*u.Shift)
	if !ok {
		return attendance.TodayStatusResponse{}, fmt.Errorf("%w: %q", attendance.ErrShiftNotConfigured, *u.Shift)
	}

	nowLocal := nowUTC.In(loc)
	date := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, time.UTC)

	record, err := a.AttendanceRepository.GetByUserShiftAndDate(ctx, u.ID, shift.Name, date)
	if err != nil {
		return attendance.TodayStatusResponse{}, fmt.Errorf("failed to look up today's record: %w", err)
	}
	if record == nil && shift.CrossesMidnight() {
		// A night shift started yesterday may still own "today".
		record, err = a.AttendanceRepository.GetOpenByUser(ctx, u.ID)
		if err != nil {
			return attendance.TodayStatusResponse{}, fmt.Errorf("failed to look up open record: %w", err)
		}
	}

	if record == nil {
		resp := attendance.TodayStatusResponse{
			Status: attendance.StatusNoCheckIn,
			Shift:  u.Shift,
		}
		if err := a.gate.CheckInWindow(nowUTC, shift, set.EarlyCheckInAllowanceMinutes, loc); err != nil {
			denial := err.Error()
			resp.CheckInDenial = &denial
		} else {
			resp.CanCheckIn = true
		}
		return resp, nil
	}

	if record.Open() {
		outcome := a.calculator.Calculate(*record.CheckInTime, nil, shift, nowUTC, loc)
		a.reconcile(ctx, record, outcome)
		record.Status = outcome.Status
		record.HoursWorked = outcome.HoursWorked
	}

	rec := toResponse(*record)
	return attendance.TodayStatusResponse{
		Status:      record.Status,
		Shift:       u.Shift,
		Record:      &rec,
		HoursWorked: record.HoursWorked,
	}, nil
}

// reconcile persists a status flip detected on read. The live hours
// estimate changes on every poll and is response-only; a write happens
// only when the classification itself flips. Failures are logged and
// swallowed: the caller still gets the computed view, and the next read
// or the nightly sweep retries the write.
func (a *AttendanceServiceImpl) reconcile(ctx context.Context, record *attendance.Attendance, outcome Outcome) {
	if record.Status == outcome.Status {
		return
	}

	updated := *record
	updated.Status = outcome.Status
	updated.HoursWorked = outcome.HoursWorked
	if err := a.AttendanceRepository.Update(ctx, updated); err != nil {
		slog.WarnContext(ctx, "failed to reconcile attendance status on read",
			slog.String("attendance_id", record.ID),
			slog.String("status", string(outcome.Status)),
			slog.Any("error", err),
		)
	}
}

// History implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) History(ctx context.Context, userID string, filter attendance.HistoryFilter) (attendance.HistoryResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.HistoryResponse{}, err
	}

	if _, err := a.UserRepository.GetByID(ctx, userID); err != nil {
		return attendance.HistoryResponse{}, err
	}

	records, total, err := a.AttendanceRepository.History(ctx, userID, filter)
	if err != nil {
		return attendance.HistoryResponse{}, fmt.Errorf("failed to retrieve attendance history: %w", err)
	}

	var startDate, endDate *time.Time
	if filter.StartDate != nil && *filter.StartDate != "" {
		if t, err := time.Parse("2006-01-02", *filter.StartDate); err == nil {
			startDate = &t
		}
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		if t, err := time.Parse("2006-01-02", *filter.EndDate); err == nil {
			endDate = &t
		}
	}

	rollup, err := a.AttendanceRepository.StatusRollup(ctx, userID, startDate, endDate)
	if err != nil {
		return attendance.HistoryResponse{}, fmt.Errorf("failed to aggregate attendance summary: %w", err)
	}

	totalHours, err := a.AttendanceRepository.SumClosedHours(ctx, userID, startDate, endDate)
	if err != nil {
		return attendance.HistoryResponse{}, fmt.Errorf("failed to sum worked hours: %w", err)
	}

	// Absent only counts against an explicit calendar range.
	if startDate != nil && endDate != nil && !endDate.Before(*startDate) {
		expectedDays := int64(endDate.Sub(*startDate).Hours()/24) + 1
		if absent := expectedDays - rollup.TotalDays; absent > 0 {
			rollup.Absent = absent
		}
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		// Backfill hours on rows written before the field existed.
		if r.HoursWorked == 0 && r.CheckInTime != nil && r.CheckOutTime != nil {
			r.HoursWorked = math.Round(r.CheckOutTime.Sub(*r.CheckInTime).Hours()*100) / 100
		}
		responses = append(responses, toResponse(r))
	}

	return attendance.HistoryResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Records:    responses,
		Summary:    rollup,
		TotalHours: math.Round(totalHours*100) / 100,
	}, nil
}

// List implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) List(ctx context.Context, filter attendance.ListFilter) (attendance.ListResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListResponse{}, err
	}

	records, total, err := a.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListResponse{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, toResponse(r))
	}

	return attendance.ListResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Records:    responses,
	}, nil
}

// Update implements attendance.AttendanceService. The read-modify-write
// runs in one transaction so concurrent corrections cannot interleave.
func (a *AttendanceServiceImpl) Update(ctx context.Context, req attendance.UpdateAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	var resp attendance.AttendanceResponse
	err := postgresql.WithTransaction(ctx, a.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		var err error
		resp, err = a.applyUpdate(txCtx, req)
		return err
	})
	return resp, err
}

func (a *AttendanceServiceImpl) applyUpdate(ctx context.Context, req attendance.UpdateAttendanceRequest) (attendance.AttendanceResponse, error) {
	record, err := a.AttendanceRepository.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	set, err := a.settingsService.Get(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load attendance settings: %w", err)
	}
	loc := set.Location()

	if req.Shift != nil && *req.Shift != "" {
		record.Shift = *req.Shift
	}
	if req.CheckInTime != nil && *req.CheckInTime != "" {
		t, err := attendance.ParseFlexibleTime(*req.CheckInTime)
		if err != nil {
			return attendance.AttendanceResponse{}, err
		}
		t = t.UTC()
		record.CheckInTime = &t
	}
	if req.CheckOutTime != nil && *req.CheckOutTime != "" {
		t, err := attendance.ParseFlexibleTime(*req.CheckOutTime)
		if err != nil {
			return attendance.AttendanceResponse{}, err
		}
		t = t.UTC()
		record.CheckOutTime = &t
	}

	shift, configured := set.ShiftConfig(record.Shift)
	if configured && record.CheckInTime != nil && record.CheckOutTime != nil {
		// Recompute derived fields rather than trusting the caller.
		outcome := a.calculator.Calculate(*record.CheckInTime, record.CheckOutTime, shift, a.now(), loc)
		record.Status = outcome.Status
		record.IsLate = outcome.IsLate
		record.IsEarlyLeave = outcome.IsEarlyLeave
		record.HoursWorked = outcome.HoursWorked
	} else if req.Status != nil && *req.Status != "" {
		record.Status = attendance.Status(*req.Status)
	}

	if err := a.AttendanceRepository.Update(ctx, record); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance record: %w", err)
	}

	return toResponse(record), nil
}

// Delete implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Delete(ctx context.Context, id string) error {
	if _, err := a.AttendanceRepository.GetByID(ctx, id); err != nil {
		return err
	}
	return a.AttendanceRepository.SoftDelete(ctx, id)
}
