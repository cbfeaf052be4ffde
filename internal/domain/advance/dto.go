package advance

import (
	"time"

	"github.com/busops/transit-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateAdvanceRequest struct {
	StaffID        string          `json:"staff_id"`
	Amount         decimal.Decimal `json:"advance_amount"`
	Reason         string          `json:"reason"`
	DeductionMonth string          `json:"deduction_month"`
	ProcessedDate  *string         `json:"processed_date,omitempty"`
}

// Validate checks shape. Amount limits are business rules checked against
// the salary snapshot by the service.
func (r *CreateAdvanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.StaffID) {
		errs.Add("staff_id", "is required")
	}
	if r.Amount.IsZero() {
		errs.Add("advance_amount", "must be greater than zero")
	}
	if !Reason(r.Reason).Valid() {
		errs.Add("reason", "must be one of Medical, Education, Family Emergency, Housing, Other")
	}
	if _, _, ok := validator.ParseMonthYear(r.DeductionMonth); !ok {
		errs.Add("deduction_month", "must look like 'October 2025'")
	}
	if r.ProcessedDate != nil {
		if _, ok := validator.IsValidDate(*r.ProcessedDate); !ok {
			errs.Add("processed_date", "must be in YYYY-MM-DD format")
		}
	}

	return errs.Err()
}

type UpdateAdvanceRequest struct {
	ID             string           `json:"-"`
	Amount         *decimal.Decimal `json:"advance_amount,omitempty"`
	Reason         *string          `json:"reason,omitempty"`
	DeductionMonth *string          `json:"deduction_month,omitempty"`
	Status         *string          `json:"status,omitempty"`
}

func (r *UpdateAdvanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Amount != nil && r.Amount.IsZero() {
		errs.Add("advance_amount", "must be greater than zero")
	}
	if r.Reason != nil && !Reason(*r.Reason).Valid() {
		errs.Add("reason", "must be one of Medical, Education, Family Emergency, Housing, Other")
	}
	if r.DeductionMonth != nil {
		if _, _, ok := validator.ParseMonthYear(*r.DeductionMonth); !ok {
			errs.Add("deduction_month", "must look like 'October 2025'")
		}
	}
	if r.Status != nil {
		if _, err := ParseStatus(*r.Status); err != nil {
			errs.Add("status", "must be Active, Deducted or Cancelled")
		}
	}

	return errs.Err()
}

type AdvanceResponse struct {
	ID                  string          `json:"id"`
	StaffID             string          `json:"staff_id"`
	StaffName           string          `json:"staff_name"`
	BasicSalarySnapshot decimal.Decimal `json:"basic_salary_snapshot"`
	MaxAmount           decimal.Decimal `json:"max_amount"`
	Amount              decimal.Decimal `json:"advance_amount"`
	Reason              Reason          `json:"reason"`
	DeductionMonth      string          `json:"deduction_month"`
	ProcessedDate       string          `json:"processed_date"`
	Status              Status          `json:"status"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

func ToResponse(a Advance) AdvanceResponse {
	return AdvanceResponse{
		ID:                  a.ID,
		StaffID:             a.StaffID,
		StaffName:           a.StaffName,
		BasicSalarySnapshot: a.BasicSalarySnapshot,
		MaxAmount:           Cap(a.BasicSalarySnapshot).Round(2),
		Amount:              a.Amount,
		Reason:              a.Reason,
		DeductionMonth:      a.DeductionMonth,
		ProcessedDate:       a.ProcessedDate,
		Status:              a.Status,
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
	}
}
