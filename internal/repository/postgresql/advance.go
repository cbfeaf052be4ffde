package postgresql

import (
	"context"
	"fmt"

	"github.com/busops/transit-backend-go/internal/domain/advance"
	"github.com/busops/transit-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type advanceRepository struct {
	db *database.DB
}

func NewAdvanceRepository(db *database.DB) advance.AdvanceRepository {
	return &advanceRepository{db: db}
}

const advanceColumns = `id, staff_id, staff_name, basic_salary_snapshot, advance_amount, reason,
	deduction_month, processed_date::text, status, created_at, updated_at`

func scanAdvance(row pgx.Row) (advance.Advance, error) {
	var a advance.Advance
	err := row.Scan(
		&a.ID, &a.StaffID, &a.StaffName, &a.BasicSalarySnapshot, &a.Amount, &a.Reason,
		&a.DeductionMonth, &a.ProcessedDate, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

func (r *advanceRepository) Create(ctx context.Context, a advance.Advance) (advance.Advance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO advances (staff_id, staff_name, basic_salary_snapshot, advance_amount, reason, deduction_month, processed_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + advanceColumns

	created, err := scanAdvance(q.QueryRow(ctx, query,
		a.StaffID, a.StaffName, a.BasicSalarySnapshot, a.Amount, a.Reason, a.DeductionMonth, a.ProcessedDate, a.Status,
	))
	if err != nil {
		return advance.Advance{}, fmt.Errorf("failed to create advance: %w", err)
	}
	return created, nil
}

func (r *advanceRepository) GetByID(ctx context.Context, id string) (advance.Advance, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanAdvance(q.QueryRow(ctx, `SELECT `+advanceColumns+` FROM advances WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return advance.Advance{}, advance.ErrAdvanceNotFound
		}
		return advance.Advance{}, fmt.Errorf("failed to get advance: %w", err)
	}
	return a, nil
}

func (r *advanceRepository) List(ctx context.Context, staffID string) ([]advance.Advance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + advanceColumns + ` FROM advances`
	var args []interface{}
	if staffID != "" {
		query += ` WHERE staff_id = $1`
		args = append(args, staffID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list advances: %w", err)
	}
	defer rows.Close()

	var list []advance.Advance
	for rows.Next() {
		a, err := scanAdvance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan advance: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// Update never touches the salary snapshot.
func (r *advanceRepository) Update(ctx context.Context, a advance.Advance) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE advances SET
			advance_amount = $2, reason = $3, deduction_month = $4, status = $5, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query, a.ID, a.Amount, a.Reason, a.DeductionMonth, a.Status)
	if err != nil {
		return fmt.Errorf("failed to update advance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return advance.ErrAdvanceNotFound
	}
	return nil
}

func (r *advanceRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM advances WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete advance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return advance.ErrAdvanceNotFound
	}
	return nil
}
