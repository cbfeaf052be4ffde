package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/busops/transit-backend-go/internal/domain/staff"
	"github.com/busops/transit-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) staff.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `id, staff_id, date::text, status, leave_type, check_in, check_out,
	worked_minutes, ot_minutes, created_at, updated_at`

func scanAttendance(row pgx.Row) (staff.Attendance, error) {
	var a staff.Attendance
	err := row.Scan(
		&a.ID, &a.StaffID, &a.Date, &a.Status, &a.LeaveType, &a.CheckIn, &a.CheckOut,
		&a.WorkedMinutes, &a.OTMinutes, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

// Create implements staff.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, rec staff.Attendance) (staff.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO staff_attendance (staff_id, date, status, leave_type, check_in, check_out, worked_minutes, ot_minutes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + attendanceColumns

	created, err := scanAttendance(q.QueryRow(ctx, query,
		rec.StaffID, rec.Date, rec.Status, rec.LeaveType, rec.CheckIn, rec.CheckOut, rec.WorkedMinutes, rec.OTMinutes,
	))
	if err != nil {
		if strings.Contains(err.Error(), "uk_staff_attendance_day") {
			return staff.Attendance{}, staff.ErrAttendanceExists
		}
		return staff.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}
	return created, nil
}

// GetByDate implements staff.AttendanceRepository.
func (a *attendanceRepository) GetByDate(ctx context.Context, staffID, date string) (staff.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + ` FROM staff_attendance WHERE staff_id = $1 AND date = $2`
	rec, err := scanAttendance(q.QueryRow(ctx, query, staffID, date))
	if err != nil {
		if err == pgx.ErrNoRows {
			return staff.Attendance{}, staff.ErrAttendanceNotFound
		}
		return staff.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return rec, nil
}

// Update implements staff.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, rec staff.Attendance) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE staff_attendance SET
			status = $2, leave_type = $3, check_in = $4, check_out = $5,
			worked_minutes = $6, ot_minutes = $7, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query, rec.ID, rec.Status, rec.LeaveType, rec.CheckIn, rec.CheckOut, rec.WorkedMinutes, rec.OTMinutes)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return staff.ErrAttendanceNotFound
	}
	return nil
}

// RecordCheckOut implements staff.AttendanceRepository.
func (a *attendanceRepository) RecordCheckOut(ctx context.Context, rec staff.Attendance, otHours decimal.Decimal) error {
	return WithTransaction(ctx, a.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := a.Update(ctx, rec); err != nil {
			return err
		}
		if !otHours.IsPositive() {
			return nil
		}
		staffRepo := &staffRepository{db: a.db}
		if err := staffRepo.addOTHours(ctx, rec.StaffID, otHours); err != nil {
			return fmt.Errorf("failed to update overtime aggregate: %w", err)
		}
		return nil
	})
}

// ListBetween implements staff.AttendanceRepository.
func (a *attendanceRepository) ListBetween(ctx context.Context, staffID, from, to string) ([]staff.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM staff_attendance
		WHERE staff_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date
	`
	rows, err := q.Query(ctx, query, staffID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	var records []staff.Attendance
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
