package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/busops/transit-backend-go/internal/domain/budget"
	"github.com/busops/transit-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type budgetRepository struct {
	db *database.DB
}

func NewBudgetRepository(db *database.DB) budget.BudgetRepository {
	return &budgetRepository{db: db}
}

const budgetColumns = `id, category, target_amount, source, field, effective_date::text, created_at, updated_at`

func scanBudget(row pgx.Row) (budget.Budget, error) {
	var b budget.Budget
	err := row.Scan(&b.ID, &b.Category, &b.TargetAmount, &b.Source, &b.Field, &b.EffectiveDate, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func collectBudgets(rows pgx.Rows) ([]budget.Budget, error) {
	defer rows.Close()

	var list []budget.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func (r *budgetRepository) Create(ctx context.Context, b budget.Budget) (budget.Budget, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO budgets (category, target_amount, source, field, effective_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + budgetColumns

	created, err := scanBudget(q.QueryRow(ctx, query, b.Category, b.TargetAmount, b.Source, b.Field, b.EffectiveDate))
	if err != nil {
		if strings.Contains(err.Error(), "uk_budgets_category_effective_date") {
			return budget.Budget{}, budget.ErrBudgetDateExists
		}
		return budget.Budget{}, fmt.Errorf("failed to create budget: %w", err)
	}
	return created, nil
}

func (r *budgetRepository) GetByID(ctx context.Context, id string) (budget.Budget, error) {
	q := GetQuerier(ctx, r.db)

	b, err := scanBudget(q.QueryRow(ctx, `SELECT `+budgetColumns+` FROM budgets WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return budget.Budget{}, budget.ErrBudgetNotFound
		}
		return budget.Budget{}, fmt.Errorf("failed to get budget: %w", err)
	}
	return b, nil
}

func (r *budgetRepository) Latest(ctx context.Context, category string) (budget.Budget, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE category = $1 ORDER BY effective_date DESC, created_at DESC LIMIT 1`
	b, err := scanBudget(q.QueryRow(ctx, query, category))
	if err != nil {
		if err == pgx.ErrNoRows {
			return budget.Budget{}, budget.ErrBudgetNotFound
		}
		return budget.Budget{}, fmt.Errorf("failed to get latest budget: %w", err)
	}
	return b, nil
}

func (r *budgetRepository) ListActive(ctx context.Context) ([]budget.Budget, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT DISTINCT ON (category) ` + budgetColumns + `
		FROM budgets
		ORDER BY category, effective_date DESC, created_at DESC
	`
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active budgets: %w", err)
	}
	return collectBudgets(rows)
}

func (r *budgetRepository) History(ctx context.Context, category string) ([]budget.Budget, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE category = $1 ORDER BY effective_date DESC, created_at DESC`
	rows, err := q.Query(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list budget history: %w", err)
	}
	return collectBudgets(rows)
}

func (r *budgetRepository) Update(ctx context.Context, b budget.Budget) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE budgets SET target_amount = $2, source = $3, field = $4, effective_date = $5, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query, b.ID, b.TargetAmount, b.Source, b.Field, b.EffectiveDate)
	if err != nil {
		if strings.Contains(err.Error(), "uk_budgets_category_effective_date") {
			return budget.ErrBudgetDateExists
		}
		return fmt.Errorf("failed to update budget: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return budget.ErrBudgetNotFound
	}
	return nil
}

func (r *budgetRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM budgets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return budget.ErrBudgetNotFound
	}
	return nil
}

// SumActual builds the aggregate from the source whitelist. The column name
// is only interpolated after AllowsField accepts it.
func (r *budgetRepository) SumActual(ctx context.Context, aq budget.ActualQuery) (decimal.Decimal, error) {
	if !aq.Source.Valid() {
		return decimal.Zero, fmt.Errorf("%w: %s", budget.ErrInvalidSource, aq.Source)
	}
	if !aq.Source.AllowsField(aq.Field) {
		return decimal.Zero, fmt.Errorf("%w: %s on %s", budget.ErrFieldNotAllowed, aq.Field, aq.Source)
	}
	column := pgx.Identifier{aq.Field}.Sanitize()

	var (
		query string
		args  []interface{}
	)
	switch aq.Source {
	case budget.SourceExpenses:
		query = `SELECT COALESCE(SUM(` + column + `), 0) FROM expenses WHERE expense_date BETWEEN $1 AND $2`
		args = append(args, aq.From, aq.To)
		if aq.Category != "" {
			query += ` AND category = $3`
			args = append(args, aq.Category)
		}
	case budget.SourceSalaries:
		query = `SELECT COALESCE(SUM(` + column + `), 0) FROM salaries WHERE month_year = $1`
		args = append(args, aq.MonthYear)
	case budget.SourceAdvances:
		query = `SELECT COALESCE(SUM(` + column + `), 0) FROM advances WHERE deduction_month = $1 AND status <> 'Cancelled'`
		args = append(args, aq.MonthYear)
	}

	q := GetQuerier(ctx, r.db)
	var total decimal.Decimal
	if err := q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to aggregate %s.%s: %w", aq.Source, aq.Field, err)
	}
	return total, nil
}

type expenseRepository struct {
	db *database.DB
}

func NewExpenseRepository(db *database.DB) budget.ExpenseRepository {
	return &expenseRepository{db: db}
}

const expenseColumns = `id, category, amount, description, expense_date::text, created_at`

func scanExpense(row pgx.Row) (budget.Expense, error) {
	var e budget.Expense
	err := row.Scan(&e.ID, &e.Category, &e.Amount, &e.Description, &e.ExpenseDate, &e.CreatedAt)
	return e, err
}

func (r *expenseRepository) Create(ctx context.Context, e budget.Expense) (budget.Expense, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO expenses (category, amount, description, expense_date)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + expenseColumns

	created, err := scanExpense(q.QueryRow(ctx, query, e.Category, e.Amount, e.Description, e.ExpenseDate))
	if err != nil {
		return budget.Expense{}, fmt.Errorf("failed to create expense: %w", err)
	}
	return created, nil
}

func (r *expenseRepository) ListBetween(ctx context.Context, from, to string) ([]budget.Expense, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE expense_date BETWEEN $1 AND $2 ORDER BY expense_date, created_at`
	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var list []budget.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func (r *expenseRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return budget.ErrExpenseNotFound
	}
	return nil
}
