package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/busops/transit-backend-go/internal/domain/salary"
	"github.com/busops/transit-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type salaryRepository struct {
	db *database.DB
}

func NewSalaryRepository(db *database.DB) salary.SalaryRepository {
	return &salaryRepository{db: db}
}

const salaryColumns = `id, staff_id, month_year, status, basic_salary, gross_salary, total_deductions, net_salary,
	earnings, deductions, default_loan, default_salary_advance, paid_at, created_at, updated_at`

func scanSalary(row pgx.Row) (salary.Salary, error) {
	var s salary.Salary
	var earningsBytes, deductBytes []byte
	err := row.Scan(
		&s.ID, &s.StaffID, &s.MonthYear, &s.Status, &s.BasicSalary, &s.GrossSalary, &s.TotalDeductions, &s.NetSalary,
		&earningsBytes, &deductBytes, &s.DefaultLoan, &s.DefaultSalaryAdvance, &s.PaidAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return salary.Salary{}, err
	}
	if err := json.Unmarshal(earningsBytes, &s.Earnings); err != nil {
		return salary.Salary{}, fmt.Errorf("failed to decode earnings: %w", err)
	}
	if err := json.Unmarshal(deductBytes, &s.Deductions); err != nil {
		return salary.Salary{}, fmt.Errorf("failed to decode deductions: %w", err)
	}
	return s, nil
}

// Create inserts the record. A concurrent save that already took (staff, month)
// is overwritten in place unless it is Paid.
func (r *salaryRepository) Create(ctx context.Context, s salary.Salary) (salary.Salary, error) {
	q := GetQuerier(ctx, r.db)

	earnings, deductions, err := marshalBreakdown(s)
	if err != nil {
		return salary.Salary{}, err
	}

	query := `
		INSERT INTO salaries (
			staff_id, month_year, status, basic_salary, gross_salary, total_deductions, net_salary,
			earnings, deductions, default_loan, default_salary_advance
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT ON CONSTRAINT uk_salaries_staff_month DO UPDATE SET
			status = EXCLUDED.status, basic_salary = EXCLUDED.basic_salary,
			gross_salary = EXCLUDED.gross_salary, total_deductions = EXCLUDED.total_deductions,
			net_salary = EXCLUDED.net_salary, earnings = EXCLUDED.earnings, deductions = EXCLUDED.deductions,
			default_loan = EXCLUDED.default_loan, default_salary_advance = EXCLUDED.default_salary_advance,
			updated_at = NOW()
		WHERE salaries.status <> 'Paid'
		RETURNING ` + salaryColumns

	created, err := scanSalary(q.QueryRow(ctx, query,
		s.StaffID, s.MonthYear, s.Status, s.BasicSalary, s.GrossSalary, s.TotalDeductions, s.NetSalary,
		earnings, deductions, s.DefaultLoan, s.DefaultSalaryAdvance,
	))
	if err != nil {
		// the conflicting row is Paid, so the upsert returned nothing
		if err == pgx.ErrNoRows {
			return salary.Salary{}, salary.ErrSalaryAlreadyPaid
		}
		return salary.Salary{}, fmt.Errorf("failed to create salary: %w", err)
	}
	return created, nil
}

func marshalBreakdown(s salary.Salary) ([]byte, []byte, error) {
	earnings, err := json.Marshal(s.Earnings)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode earnings: %w", err)
	}
	deductions, err := json.Marshal(s.Deductions)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode deductions: %w", err)
	}
	return earnings, deductions, nil
}

func (r *salaryRepository) GetByID(ctx context.Context, id string) (salary.Salary, error) {
	q := GetQuerier(ctx, r.db)

	s, err := scanSalary(q.QueryRow(ctx, `SELECT `+salaryColumns+` FROM salaries WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return salary.Salary{}, salary.ErrSalaryNotFound
		}
		return salary.Salary{}, fmt.Errorf("failed to get salary: %w", err)
	}
	return s, nil
}

func (r *salaryRepository) GetByStaffAndMonth(ctx context.Context, staffID, monthYear string) (salary.Salary, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + salaryColumns + ` FROM salaries WHERE staff_id = $1 AND month_year = $2`
	s, err := scanSalary(q.QueryRow(ctx, query, staffID, monthYear))
	if err != nil {
		if err == pgx.ErrNoRows {
			return salary.Salary{}, salary.ErrSalaryNotFound
		}
		return salary.Salary{}, fmt.Errorf("failed to get salary: %w", err)
	}
	return s, nil
}

func (r *salaryRepository) ListByMonth(ctx context.Context, monthYear string) ([]salary.Salary, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+salaryColumns+` FROM salaries WHERE month_year = $1 ORDER BY created_at`, monthYear)
	if err != nil {
		return nil, fmt.Errorf("failed to list salaries: %w", err)
	}
	defer rows.Close()

	var records []salary.Salary
	for rows.Next() {
		s, err := scanSalary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary: %w", err)
		}
		records = append(records, s)
	}
	return records, rows.Err()
}

func (r *salaryRepository) Update(ctx context.Context, s salary.Salary) error {
	earnings, deductions, err := marshalBreakdown(s)
	if err != nil {
		return err
	}

	return WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		query := `
			UPDATE salaries SET
				month_year = $2, status = $3, basic_salary = $4, gross_salary = $5,
				total_deductions = $6, net_salary = $7, earnings = $8, deductions = $9,
				default_loan = $10, default_salary_advance = $11, updated_at = NOW()
			WHERE id = $1 AND status <> 'Paid'
		`
		tag, err := tx.Exec(ctx, query,
			s.ID, s.MonthYear, s.Status, s.BasicSalary, s.GrossSalary,
			s.TotalDeductions, s.NetSalary, earnings, deductions,
			s.DefaultLoan, s.DefaultSalaryAdvance,
		)
		if err != nil {
			if strings.Contains(err.Error(), "uk_salaries_staff_month") {
				return salary.ErrSalaryExists
			}
			return fmt.Errorf("failed to update salary: %w", err)
		}
		if tag.RowsAffected() > 0 {
			return nil
		}

		// Nothing updated: tell a missing record apart from a paid one.
		var status salary.Status
		if err := tx.QueryRow(ctx, `SELECT status FROM salaries WHERE id = $1`, s.ID).Scan(&status); err != nil {
			if err == pgx.ErrNoRows {
				return salary.ErrSalaryNotFound
			}
			return fmt.Errorf("failed to check salary status: %w", err)
		}
		return salary.ErrSalaryAlreadyPaid
	})
}

func (r *salaryRepository) MarkPaid(ctx context.Context, id string, paidAt time.Time) error {
	return WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE salaries SET status = 'Paid', paid_at = $2, updated_at = NOW() WHERE id = $1 AND status = 'Calculated'`,
			id, paidAt,
		)
		if err != nil {
			return fmt.Errorf("failed to mark salary paid: %w", err)
		}
		if tag.RowsAffected() > 0 {
			return nil
		}

		var status salary.Status
		if err := tx.QueryRow(ctx, `SELECT status FROM salaries WHERE id = $1`, id).Scan(&status); err != nil {
			if err == pgx.ErrNoRows {
				return salary.ErrSalaryNotFound
			}
			return fmt.Errorf("failed to check salary status: %w", err)
		}
		return fmt.Errorf("%w: current status is %s", salary.ErrSalaryNotCalculated, status)
	})
}

func (r *salaryRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM salaries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete salary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return salary.ErrSalaryNotFound
	}
	return nil
}
