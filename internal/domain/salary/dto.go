package salary

import (
	"time"

	"github.com/busops/transit-backend-go/internal/domain/staff"
	"github.com/busops/transit-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type SaveSalaryRequest struct {
	ID             *string         `json:"id,omitempty"`
	StaffID        string          `json:"staff_id"`
	MonthYear      string          `json:"month_year"`
	Allowances     decimal.Decimal `json:"allowances"`
	Reimbursements decimal.Decimal `json:"reimbursements"`
	Bonus          decimal.Decimal `json:"bonus"`
	OTHours        decimal.Decimal `json:"ot_hours"`
	NoPayDays      int             `json:"no_pay_days"`
	SalaryAdvance  decimal.Decimal `json:"salary_advance"`
	Loan           decimal.Decimal `json:"loan"`
}

// Validate checks shape only. Amount rules belong to the calculation.
func (r *SaveSalaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.StaffID) {
		errs.Add("staff_id", "is required")
	}
	if _, _, ok := validator.ParseMonthYear(r.MonthYear); !ok {
		errs.Add("month_year", "must look like 'October 2025'")
	}
	if r.ID != nil && validator.IsEmpty(*r.ID) {
		errs.Add("id", "cannot be empty")
	}

	return errs.Err()
}

func (r *SaveSalaryRequest) Inputs() Inputs {
	return Inputs{
		Allowances:     r.Allowances,
		Reimbursements: r.Reimbursements,
		Bonus:          r.Bonus,
		OTHours:        r.OTHours,
		NoPayDays:      r.NoPayDays,
		SalaryAdvance:  r.SalaryAdvance,
		Loan:           r.Loan,
	}
}

type SalaryResponse struct {
	ID              string          `json:"id,omitempty"`
	StaffID         string          `json:"staff_id"`
	StaffName       string          `json:"staff_name"`
	MonthYear       string          `json:"month_year"`
	Status          Status          `json:"status"`
	BasicSalary     decimal.Decimal `json:"basic_salary"`
	GrossSalary     decimal.Decimal `json:"gross_salary"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetSalary       decimal.Decimal `json:"net_salary"`
	Earnings        Earnings        `json:"earnings"`
	Deductions      Deductions      `json:"deductions"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	CreatedAt       *time.Time      `json:"created_at,omitempty"`
	UpdatedAt       *time.Time      `json:"updated_at,omitempty"`
}

func ToResponse(s Salary, member staff.Staff) SalaryResponse {
	created, updated := s.CreatedAt, s.UpdatedAt
	return SalaryResponse{
		ID:              s.ID,
		StaffID:         s.StaffID,
		StaffName:       member.Name,
		MonthYear:       s.MonthYear,
		Status:          s.Status,
		BasicSalary:     s.BasicSalary,
		GrossSalary:     s.GrossSalary,
		TotalDeductions: s.TotalDeductions,
		NetSalary:       s.NetSalary,
		Earnings:        s.Earnings,
		Deductions:      s.Deductions,
		PaidAt:          s.PaidAt,
		CreatedAt:       &created,
		UpdatedAt:       &updated,
	}
}

// PlaceholderResponse is the list entry for a staff member with no saved
// salary for the month, pre-filled from attendance and staff defaults.
func PlaceholderResponse(member staff.Staff, monthYear string, totals staff.AttendanceTotals) SalaryResponse {
	return SalaryResponse{
		StaffID:     member.ID,
		StaffName:   member.Name,
		MonthYear:   monthYear,
		Status:      StatusPending,
		BasicSalary: member.BasicSalary,
		Earnings: Earnings{
			Allowances:     member.Allowances,
			Reimbursements: member.Reimbursements,
			Bonus:          member.Bonus,
		},
		Deductions: Deductions{
			OTHours:       totals.TotalOTHours,
			NoPayDays:     totals.NoPayDays,
			SalaryAdvance: member.SalaryAdvance,
			Loan:          member.Loan,
		},
	}
}

// UpdatePrepResponse pre-fills the edit form for an existing salary.
type UpdatePrepResponse struct {
	SalaryID       string          `json:"salary_id"`
	StaffID        string          `json:"staff_id"`
	StaffName      string          `json:"staff_name"`
	MonthYear      string          `json:"month_year"`
	Status         Status          `json:"status"`
	BasicSalary    decimal.Decimal `json:"basic_salary"`
	Allowances     decimal.Decimal `json:"allowances"`
	Reimbursements decimal.Decimal `json:"reimbursements"`
	Bonus          decimal.Decimal `json:"bonus"`
	OTHours        decimal.Decimal `json:"ot_hours"`
	NoPayDays      int             `json:"no_pay_days"`
	SalaryAdvance  decimal.Decimal `json:"salary_advance"`
	Loan           decimal.Decimal `json:"loan"`
}

type SlipFile struct {
	Filename string
	Content  []byte
}
