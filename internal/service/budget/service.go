package budget

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/busops/transit-backend-go/internal/domain/budget"
	"github.com/busops/transit-backend-go/internal/pkg/clock"
	"github.com/busops/transit-backend-go/internal/pkg/validator"
)

type BudgetServiceImpl struct {
	budgetRepo  budget.BudgetRepository
	expenseRepo budget.ExpenseRepository
	clock       clock.Clock
	loc         *time.Location
}

func NewBudgetService(
	budgetRepo budget.BudgetRepository,
	expenseRepo budget.ExpenseRepository,
	clk clock.Clock,
	loc *time.Location,
) budget.BudgetService {
	return &BudgetServiceImpl{
		budgetRepo:  budgetRepo,
		expenseRepo: expenseRepo,
		clock:       clk,
		loc:         loc,
	}
}

func (s *BudgetServiceImpl) today() string {
	return s.clock.Now().In(s.loc).Format("2006-01-02")
}

// monthRange parses "October 2025" into its canonical form and first/last dates.
func monthRange(monthYear string) (string, string, string, error) {
	year, month, ok := validator.ParseMonthYear(monthYear)
	if !ok {
		return "", "", "", validator.ValidationErrors{{Field: "month", Message: "must look like 'October 2025'"}}
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return validator.FormatMonthYear(year, month), first.Format("2006-01-02"), last.Format("2006-01-02"), nil
}

func (s *BudgetServiceImpl) CreateBudget(ctx context.Context, req budget.CreateBudgetRequest) (budget.BudgetResponse, error) {
	if err := req.Validate(); err != nil {
		return budget.BudgetResponse{}, err
	}

	src := budget.Source(req.Source)
	field := req.Field
	if field == "" {
		field = src.DefaultField()
	}
	effective := s.today()
	if req.EffectiveDate != nil {
		effective = *req.EffectiveDate
	}

	created, err := s.budgetRepo.Create(ctx, budget.Budget{
		Category:      req.Category,
		TargetAmount:  req.TargetAmount,
		Source:        src,
		Field:         field,
		EffectiveDate: effective,
	})
	if err != nil {
		return budget.BudgetResponse{}, err
	}
	return budget.ToResponse(created), nil
}

func (s *BudgetServiceImpl) ListActive(ctx context.Context) ([]budget.BudgetResponse, error) {
	rows, err := s.budgetRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return toResponses(rows), nil
}

func (s *BudgetServiceImpl) History(ctx context.Context, category string) ([]budget.BudgetResponse, error) {
	if validator.IsEmpty(category) {
		return nil, validator.ValidationErrors{{Field: "category", Message: "is required"}}
	}
	rows, err := s.budgetRepo.History(ctx, category)
	if err != nil {
		return nil, err
	}
	return toResponses(rows), nil
}

func toResponses(rows []budget.Budget) []budget.BudgetResponse {
	resp := make([]budget.BudgetResponse, 0, len(rows))
	for _, b := range rows {
		resp = append(resp, budget.ToResponse(b))
	}
	return resp
}

func (s *BudgetServiceImpl) UpdateBudget(ctx context.Context, req budget.UpdateBudgetRequest) (budget.UpdateBudgetResponse, error) {
	if err := req.Validate(); err != nil {
		return budget.UpdateBudgetResponse{}, err
	}

	row, err := s.budgetRepo.GetByID(ctx, req.ID)
	if err != nil {
		return budget.UpdateBudgetResponse{}, err
	}
	latest, err := s.budgetRepo.Latest(ctx, row.Category)
	if err != nil {
		return budget.UpdateBudgetResponse{}, err
	}

	edited := row
	if req.Source != nil && budget.Source(*req.Source) != edited.Source {
		edited.Source = budget.Source(*req.Source)
		edited.Field = edited.Source.DefaultField()
	}
	if req.Field != nil {
		edited.Field = *req.Field
	}
	if !edited.Source.AllowsField(edited.Field) {
		return budget.UpdateBudgetResponse{}, fmt.Errorf("%w: %s on %s", budget.ErrFieldNotAllowed, edited.Field, edited.Source)
	}
	targetChanged := req.TargetAmount != nil && !req.TargetAmount.Equal(row.TargetAmount)
	if req.TargetAmount != nil {
		edited.TargetAmount = *req.TargetAmount
	}

	if row.ID != latest.ID && targetChanged {
		edited.ID = ""
		edited.EffectiveDate = s.today()
		if req.EffectiveDate != nil {
			edited.EffectiveDate = *req.EffectiveDate
		}
		created, err := s.budgetRepo.Create(ctx, edited)
		if err != nil {
			return budget.UpdateBudgetResponse{}, err
		}
		slog.Info("Budget target superseded",
			"category", created.Category,
			"previous_id", row.ID,
			"budget_id", created.ID,
			"effective_date", created.EffectiveDate,
		)
		return budget.UpdateBudgetResponse{Budget: budget.ToResponse(created), Appended: true}, nil
	}

	if req.EffectiveDate != nil {
		edited.EffectiveDate = *req.EffectiveDate
	}
	edited.UpdatedAt = s.clock.Now()
	if err := s.budgetRepo.Update(ctx, edited); err != nil {
		return budget.UpdateBudgetResponse{}, err
	}
	return budget.UpdateBudgetResponse{Budget: budget.ToResponse(edited)}, nil
}

func (s *BudgetServiceImpl) DeleteBudget(ctx context.Context, id string) error {
	return s.budgetRepo.Delete(ctx, id)
}

func (s *BudgetServiceImpl) BudgetVsActual(ctx context.Context, monthYear string) (budget.BudgetVsActualResponse, error) {
	canonical, from, to, err := monthRange(monthYear)
	if err != nil {
		return budget.BudgetVsActualResponse{}, err
	}

	active, err := s.budgetRepo.ListActive(ctx)
	if err != nil {
		return budget.BudgetVsActualResponse{}, err
	}

	resp := budget.BudgetVsActualResponse{MonthYear: canonical, Items: make([]budget.BudgetVsActual, 0, len(active))}
	for _, b := range active {
		q := budget.ActualQuery{
			Source:    b.Source,
			Field:     b.Field,
			MonthYear: canonical,
			From:      from,
			To:        to,
		}
		if b.Source.CategoryScoped() {
			q.Category = b.Category
		}
		actual, err := s.budgetRepo.SumActual(ctx, q)
		if err != nil {
			return budget.BudgetVsActualResponse{}, fmt.Errorf("failed to aggregate %s for %s: %w", b.Source, b.Category, err)
		}
		resp.Items = append(resp.Items, budget.BudgetVsActual{
			BudgetID:     b.ID,
			Category:     b.Category,
			Source:       b.Source,
			Field:        b.Field,
			TargetAmount: b.TargetAmount,
			Actual:       actual.Round(2),
			Variance:     b.TargetAmount.Sub(actual).Round(2),
		})
	}
	return resp, nil
}

func (s *BudgetServiceImpl) CreateExpense(ctx context.Context, req budget.CreateExpenseRequest) (budget.ExpenseResponse, error) {
	if err := req.Validate(); err != nil {
		return budget.ExpenseResponse{}, err
	}
	created, err := s.expenseRepo.Create(ctx, budget.Expense{
		Category:    req.Category,
		Amount:      req.Amount,
		Description: req.Description,
		ExpenseDate: req.ExpenseDate,
	})
	if err != nil {
		return budget.ExpenseResponse{}, err
	}
	return budget.ToExpenseResponse(created), nil
}

func (s *BudgetServiceImpl) ListExpenses(ctx context.Context, monthYear string) ([]budget.ExpenseResponse, error) {
	_, from, to, err := monthRange(monthYear)
	if err != nil {
		return nil, err
	}
	list, err := s.expenseRepo.ListBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	resp := make([]budget.ExpenseResponse, 0, len(list))
	for _, e := range list {
		resp = append(resp, budget.ToExpenseResponse(e))
	}
	return resp, nil
}

func (s *BudgetServiceImpl) DeleteExpense(ctx context.Context, id string) error {
	return s.expenseRepo.Delete(ctx, id)
}
