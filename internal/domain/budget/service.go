package budget

import "context"

type BudgetService interface {
	CreateBudget(ctx context.Context, req CreateBudgetRequest) (BudgetResponse, error)
	ListActive(ctx context.Context) ([]BudgetResponse, error)
	History(ctx context.Context, category string) ([]BudgetResponse, error)
	// UpdateBudget mutates the active row in place. A changed target on an
	// older row appends a new active row and leaves history untouched.
	UpdateBudget(ctx context.Context, req UpdateBudgetRequest) (UpdateBudgetResponse, error)
	DeleteBudget(ctx context.Context, id string) error
	BudgetVsActual(ctx context.Context, monthYear string) (BudgetVsActualResponse, error)

	CreateExpense(ctx context.Context, req CreateExpenseRequest) (ExpenseResponse, error)
	ListExpenses(ctx context.Context, monthYear string) ([]ExpenseResponse, error)
	DeleteExpense(ctx context.Context, id string) error
}
