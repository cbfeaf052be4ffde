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

type staffRepository struct {
	db *database.DB
}

func NewStaffRepository(db *database.DB) staff.StaffRepository {
	return &staffRepository{db: db}
}

const staffColumns = `id, name, email, contact_number, role, assigned_bus,
	basic_salary, allowances, bonus, reimbursements, salary_advance, loan, ot_hours,
	shift_start_minute, shift_end_minute, created_at, updated_at`

func scanStaff(row pgx.Row) (staff.Staff, error) {
	var s staff.Staff
	err := row.Scan(
		&s.ID, &s.Name, &s.Email, &s.ContactNumber, &s.Role, &s.AssignedBus,
		&s.BasicSalary, &s.Allowances, &s.Bonus, &s.Reimbursements, &s.SalaryAdvance, &s.Loan, &s.OTHours,
		&s.ShiftStart, &s.ShiftEnd, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

func (r *staffRepository) Create(ctx context.Context, s staff.Staff) (staff.Staff, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO staff (
			name, email, contact_number, role, assigned_bus,
			basic_salary, allowances, bonus, reimbursements, salary_advance, loan,
			shift_start_minute, shift_end_minute
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + staffColumns

	created, err := scanStaff(q.QueryRow(ctx, query,
		s.Name, s.Email, s.ContactNumber, s.Role, s.AssignedBus,
		s.BasicSalary, s.Allowances, s.Bonus, s.Reimbursements, s.SalaryAdvance, s.Loan,
		s.ShiftStart, s.ShiftEnd,
	))
	if err != nil {
		if strings.Contains(err.Error(), "uk_staff_email") {
			return staff.Staff{}, staff.ErrStaffEmailExists
		}
		return staff.Staff{}, fmt.Errorf("failed to create staff: %w", err)
	}
	return created, nil
}

func (r *staffRepository) GetByID(ctx context.Context, id string) (staff.Staff, error) {
	q := GetQuerier(ctx, r.db)

	s, err := scanStaff(q.QueryRow(ctx, `SELECT `+staffColumns+` FROM staff WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return staff.Staff{}, staff.ErrStaffNotFound
		}
		return staff.Staff{}, fmt.Errorf("failed to get staff: %w", err)
	}
	return s, nil
}

func (r *staffRepository) List(ctx context.Context) ([]staff.Staff, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+staffColumns+` FROM staff ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	defer rows.Close()

	var members []staff.Staff
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan staff: %w", err)
		}
		members = append(members, s)
	}
	return members, rows.Err()
}

func (r *staffRepository) Update(ctx context.Context, s staff.Staff) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE staff SET
			name = $2, email = $3, contact_number = $4, role = $5, assigned_bus = $6,
			basic_salary = $7, allowances = $8, bonus = $9, reimbursements = $10,
			salary_advance = $11, loan = $12, shift_start_minute = $13, shift_end_minute = $14,
			updated_at = NOW()
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query,
		s.ID, s.Name, s.Email, s.ContactNumber, s.Role, s.AssignedBus,
		s.BasicSalary, s.Allowances, s.Bonus, s.Reimbursements,
		s.SalaryAdvance, s.Loan, s.ShiftStart, s.ShiftEnd,
	)
	if err != nil {
		if strings.Contains(err.Error(), "uk_staff_email") {
			return staff.ErrStaffEmailExists
		}
		return fmt.Errorf("failed to update staff: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return staff.ErrStaffNotFound
	}
	return nil
}

func (r *staffRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM staff WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete staff: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return staff.ErrStaffNotFound
	}
	return nil
}

// addOTHours increments the running overtime aggregate in place.
func (r *staffRepository) addOTHours(ctx context.Context, id string, hours decimal.Decimal) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE staff SET ot_hours = ot_hours + $2, updated_at = NOW() WHERE id = $1`, id, hours)
	if err != nil {
		return fmt.Errorf("failed to add overtime hours: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return staff.ErrStaffNotFound
	}
	return nil
}
