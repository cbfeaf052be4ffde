package budget

import (
	"time"

	"github.com/busops/transit-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateBudgetRequest struct {
	Category      string          `json:"category"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	Source        string          `json:"source"`
	Field         string          `json:"field,omitempty"`
	EffectiveDate *string         `json:"effective_date,omitempty"`
}

func (r *CreateBudgetRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Category) {
		errs.Add("category", "is required")
	}
	if r.TargetAmount.IsNegative() {
		errs.Add("target_amount", "cannot be negative")
	}
	src := Source(r.Source)
	if !src.Valid() {
		errs.Add("source", "must be expenses, salaries or advances")
	} else if r.Field != "" && !src.AllowsField(r.Field) {
		errs.Add("field", "cannot be aggregated for source "+r.Source)
	}
	if r.EffectiveDate != nil {
		if _, ok := validator.IsValidDate(*r.EffectiveDate); !ok {
			errs.Add("effective_date", "must be in YYYY-MM-DD format")
		}
	}

	return errs.Err()
}

type UpdateBudgetRequest struct {
	ID            string           `json:"-"`
	TargetAmount  *decimal.Decimal `json:"target_amount,omitempty"`
	Source        *string          `json:"source,omitempty"`
	Field         *string          `json:"field,omitempty"`
	EffectiveDate *string          `json:"effective_date,omitempty"`
}

func (r *UpdateBudgetRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.TargetAmount != nil && r.TargetAmount.IsNegative() {
		errs.Add("target_amount", "cannot be negative")
	}
	if r.Source != nil && !Source(*r.Source).Valid() {
		errs.Add("source", "must be expenses, salaries or advances")
	}
	if r.EffectiveDate != nil {
		if _, ok := validator.IsValidDate(*r.EffectiveDate); !ok {
			errs.Add("effective_date", "must be in YYYY-MM-DD format")
		}
	}

	return errs.Err()
}

type BudgetResponse struct {
	ID            string          `json:"id"`
	Category      string          `json:"category"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	Source        Source          `json:"source"`
	Field         string          `json:"field"`
	EffectiveDate string          `json:"effective_date"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func ToResponse(b Budget) BudgetResponse {
	return BudgetResponse{
		ID:            b.ID,
		Category:      b.Category,
		TargetAmount:  b.TargetAmount,
		Source:        b.Source,
		Field:         b.Field,
		EffectiveDate: b.EffectiveDate,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

// UpdateBudgetResponse tells the caller whether the edit appended a new row.
type UpdateBudgetResponse struct {
	Budget   BudgetResponse `json:"budget"`
	Appended bool           `json:"appended"`
}

type BudgetVsActual struct {
	BudgetID     string          `json:"budget_id"`
	Category     string          `json:"category"`
	Source       Source          `json:"source"`
	Field        string          `json:"field"`
	TargetAmount decimal.Decimal `json:"target_amount"`
	Actual       decimal.Decimal `json:"actual"`
	Variance     decimal.Decimal `json:"variance"`
}

type BudgetVsActualResponse struct {
	MonthYear string           `json:"month_year"`
	Items     []BudgetVsActual `json:"items"`
}

type CreateExpenseRequest struct {
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	ExpenseDate string          `json:"expense_date"`
}

func (r *CreateExpenseRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Category) {
		errs.Add("category", "is required")
	}
	if !r.Amount.IsPositive() {
		errs.Add("amount", "must be greater than zero")
	}
	if _, ok := validator.IsValidDate(r.ExpenseDate); !ok {
		errs.Add("expense_date", "must be in YYYY-MM-DD format")
	}

	return errs.Err()
}

type ExpenseResponse struct {
	ID          string          `json:"id"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	ExpenseDate string          `json:"expense_date"`
	CreatedAt   time.Time       `json:"created_at"`
}

func ToExpenseResponse(e Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		Category:    e.Category,
		Amount:      e.Amount,
		Description: e.Description,
		ExpenseDate: e.ExpenseDate,
		CreatedAt:   e.CreatedAt,
	}
}
