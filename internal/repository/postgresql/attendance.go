package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/incubase/attendance-backend-go/internal/domain/attendance"
	"github.com/incubase/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

const attendanceColumns = `
	id, user_id, shift, date, check_in_time, check_out_time,
	status, is_late, is_early_leave, hours_worked,
	created_at, updated_at
`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := row.Scan(
		&att.ID, &att.UserID, &att.Shift, &att.Date, &att.CheckInTime, &att.CheckOutTime,
		&att.Status, &att.IsLate, &att.IsEarlyLeave, &att.HoursWorked,
		&att.CreatedAt, &att.UpdatedAt,
	)
	return att, err
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	newAttendance.ID = uuid.NewString()

	query := `
		INSERT INTO attendance_records (
			id, user_id, shift, date, check_in_time, check_out_time,
			status, is_late, is_early_leave, hours_worked
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		newAttendance.ID,
		newAttendance.UserID,
		newAttendance.Shift,
		newAttendance.Date,
		newAttendance.CheckInTime,
		newAttendance.CheckOutTime,
		newAttendance.Status,
		newAttendance.IsLate,
		newAttendance.IsEarlyLeave,
		newAttendance.HoursWorked,
	).Scan(&newAttendance.CreatedAt, &newAttendance.UpdatedAt)

	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return newAttendance, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE id = $1
		  AND deleted_at IS NULL
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance record: %w", err)
	}

	return att, nil
}

// GetByUserShiftAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByUserShiftAndDate(ctx context.Context, userID string, shift string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE user_id = $1
		  AND shift = $2
		  AND date = $3
		  AND deleted_at IS NULL
		LIMIT 1
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, userID, shift, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance record by user, shift and date: %w", err)
	}

	return &att, nil
}

// GetOpenByUser implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetOpenByUser(ctx context.Context, userID string) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE user_id = $1
		  AND check_in_time IS NOT NULL
		  AND check_out_time IS NULL
		  AND deleted_at IS NULL
		ORDER BY check_in_time DESC
		LIMIT 1
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open attendance record: %w", err)
	}

	return &att, nil
}

// GetOpenBefore implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetOpenBefore(ctx context.Context, cutoff time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE check_in_time IS NOT NULL
		  AND check_out_time IS NULL
		  AND check_in_time < $1
		  AND deleted_at IS NULL
		ORDER BY check_in_time ASC
	`

	rows, err := q.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query open attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate open attendance records: %w", err)
	}

	return records, nil
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records
		SET shift = $2,
			check_in_time = $3,
			check_out_time = $4,
			status = $5,
			is_late = $6,
			is_early_leave = $7,
			hours_worked = $8,
			updated_at = NOW()
		WHERE id = $1
		  AND deleted_at IS NULL
	`

	tag, err := q.Exec(ctx, query,
		att.ID,
		att.Shift,
		att.CheckInTime,
		att.CheckOutTime,
		att.Status,
		att.IsLate,
		att.IsEarlyLeave,
		att.HoursWorked,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// History implements attendance.AttendanceRepository.
func (a *attendanceRepository) History(ctx context.Context, userID string, filter attendance.HistoryFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	baseWhere := "WHERE user_id = $1 AND deleted_at IS NULL"
	args := []interface{}{userID}
	argIdx := 2

	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM attendance_records " + baseWhere
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance history: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT `+attendanceColumns+`
		FROM attendance_records
		%s
		ORDER BY date DESC, check_in_time DESC
		LIMIT $%d OFFSET $%d
	`, baseWhere, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendance history: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, att)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate attendance history: %w", err)
	}

	return records, total, nil
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.ListFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	baseWhere := "WHERE a.deleted_at IS NULL"
	args := []interface{}{}
	argIdx := 1

	if filter.UserID != nil && *filter.UserID != "" {
		baseWhere += fmt.Sprintf(" AND a.user_id = $%d", argIdx)
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.Shift != nil && *filter.Shift != "" {
		baseWhere += fmt.Sprintf(" AND a.shift = $%d", argIdx)
		args = append(args, *filter.Shift)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND a.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.Date != nil && *filter.Date != "" {
		baseWhere += fmt.Sprintf(" AND a.date = $%d", argIdx)
		args = append(args, *filter.Date)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM attendance_records a " + baseWhere
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance records: %w", err)
	}

	// Whitelisted in the filter's Validate, never interpolated from raw input.
	sortBy := "a.date"
	switch filter.SortBy {
	case "check_in_time":
		sortBy = "a.check_in_time"
	case "check_out_time":
		sortBy = "a.check_out_time"
	case "status":
		sortBy = "a.status"
	}
	sortOrder := "DESC"
	if filter.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	query := fmt.Sprintf(`
		SELECT a.id, a.user_id, a.shift, a.date, a.check_in_time, a.check_out_time,
			   a.status, a.is_late, a.is_early_leave, a.hours_worked,
			   a.created_at, a.updated_at,
			   u.full_name
		FROM attendance_records a
		JOIN users u ON u.id = a.user_id
		%s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, baseWhere, sortBy, sortOrder, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		var att attendance.Attendance
		err := rows.Scan(
			&att.ID, &att.UserID, &att.Shift, &att.Date, &att.CheckInTime, &att.CheckOutTime,
			&att.Status, &att.IsLate, &att.IsEarlyLeave, &att.HoursWorked,
			&att.CreatedAt, &att.UpdatedAt,
			&att.UserName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, att)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate attendance records: %w", err)
	}

	return records, total, nil
}

// StatusRollup implements attendance.AttendanceRepository.
func (a *attendanceRepository) StatusRollup(ctx context.Context, userID string, startDate, endDate *time.Time) (attendance.StatusRollup, error) {
	q := GetQuerier(ctx, a.db)

	baseWhere := "WHERE user_id = $1 AND deleted_at IS NULL"
	args := []interface{}{userID}
	argIdx := 2

	if startDate != nil {
		baseWhere += fmt.Sprintf(" AND date >= $%d", argIdx)
		args = append(args, *startDate)
		argIdx++
	}
	if endDate != nil {
		baseWhere += fmt.Sprintf(" AND date <= $%d", argIdx)
		args = append(args, *endDate)
		argIdx++
	}

	query := `
		SELECT
			COUNT(*) AS total_days,
			COALESCE(SUM(CASE WHEN status = 'Present' THEN 1 ELSE 0 END), 0) AS present,
			COALESCE(SUM(CASE WHEN is_late THEN 1 ELSE 0 END), 0) AS late,
			COALESCE(SUM(CASE WHEN is_early_leave THEN 1 ELSE 0 END), 0) AS early_leave,
			COALESCE(SUM(CASE WHEN status IN ('No Checkout', 'Late + No Checkout') THEN 1 ELSE 0 END), 0) AS no_checkout,
			COALESCE(SUM(CASE WHEN status = 'Incomplete' THEN 1 ELSE 0 END), 0) AS incomplete
		FROM attendance_records
	` + baseWhere

	var rollup attendance.StatusRollup
	err := q.QueryRow(ctx, query, args...).Scan(
		&rollup.TotalDays,
		&rollup.Present,
		&rollup.Late,
		&rollup.EarlyLeave,
		&rollup.NoCheckout,
		&rollup.Incomplete,
	)
	if err != nil {
		return attendance.StatusRollup{}, fmt.Errorf("failed to aggregate attendance rollup: %w", err)
	}

	return rollup, nil
}

// SumClosedHours implements attendance.AttendanceRepository.
func (a *attendanceRepository) SumClosedHours(ctx context.Context, userID string, startDate, endDate *time.Time) (float64, error) {
	q := GetQuerier(ctx, a.db)

	baseWhere := `
		WHERE user_id = $1
		  AND check_in_time IS NOT NULL
		  AND check_out_time IS NOT NULL
		  AND deleted_at IS NULL
	`
	args := []interface{}{userID}
	argIdx := 2

	if startDate != nil {
		baseWhere += fmt.Sprintf(" AND date >= $%d", argIdx)
		args = append(args, *startDate)
		argIdx++
	}
	if endDate != nil {
		baseWhere += fmt.Sprintf(" AND date <= $%d", argIdx)
		args = append(args, *endDate)
		argIdx++
	}

	query := `
		SELECT COALESCE(SUM(EXTRACT(EPOCH FROM (check_out_time - check_in_time)) / 3600), 0)
		FROM attendance_records
	` + baseWhere

	var hours float64
	if err := q.QueryRow(ctx, query, args...).Scan(&hours); err != nil {
		return 0, fmt.Errorf("failed to sum worked hours: %w", err)
	}

	return hours, nil
}

// SoftDelete implements attendance.AttendanceRepository.
func (a *attendanceRepository) SoftDelete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records
		SET deleted_at = NOW(),
			updated_at = NOW()
		WHERE id = $1
		  AND deleted_at IS NULL
	`

	tag, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to soft delete attendance record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}
