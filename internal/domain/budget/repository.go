package budget

import (
	"context"

	"github.com/shopspring/decimal"
)

type BudgetRepository interface {
	Create(ctx context.Context, b Budget) (Budget, error)
	GetByID(ctx context.Context, id string) (Budget, error)
	// Latest returns the active row for a category.
	Latest(ctx context.Context, category string) (Budget, error)
	// ListActive returns the active row of every category.
	ListActive(ctx context.Context) ([]Budget, error)
	// History returns every row of a category, newest effective date first.
	History(ctx context.Context, category string) ([]Budget, error)
	Update(ctx context.Context, b Budget) error
	Delete(ctx context.Context, id string) error
	// SumActual totals q.Field of q.Source for the month. Callers must pass a
	// whitelisted source and field.
	SumActual(ctx context.Context, q ActualQuery) (decimal.Decimal, error)
}

type ExpenseRepository interface {
	Create(ctx context.Context, e Expense) (Expense, error)
	ListBetween(ctx context.Context, from, to string) ([]Expense, error)
	Delete(ctx context.Context, id string) error
}
