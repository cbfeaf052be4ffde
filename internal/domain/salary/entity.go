package salary

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status of a payroll period. Pending is never stored; it marks list
// placeholders for staff without a saved record.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusCalculated Status = "Calculated"
	StatusPaid       Status = "Paid"
)

var allowedTransitions = map[Status][]Status{
	StatusPending:    {StatusCalculated},
	StatusCalculated: {StatusCalculated, StatusPaid},
	StatusPaid:       {},
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Earnings struct {
	Allowances     decimal.Decimal `json:"allowances"`
	OvertimePay    decimal.Decimal `json:"overtime_pay"`
	Reimbursements decimal.Decimal `json:"reimbursements"`
	Bonus          decimal.Decimal `json:"bonus"`
}

type Deductions struct {
	OTHours        decimal.Decimal `json:"ot_hours"`
	NoPayDays      int             `json:"no_pay_days"`
	SalaryAdvance  decimal.Decimal `json:"salary_advance"`
	Loan           decimal.Decimal `json:"loan"`
	EmployeeEPF    decimal.Decimal `json:"employee_epf"`
	EmployerEPF    decimal.Decimal `json:"employer_epf"`
	EmployerETF    decimal.Decimal `json:"employer_etf"`
	NoPayDeduction decimal.Decimal `json:"no_pay_deduction"`
}

type Salary struct {
	ID              string
	StaffID         string
	MonthYear       string
	Status          Status
	BasicSalary     decimal.Decimal
	GrossSalary     decimal.Decimal
	TotalDeductions decimal.Decimal
	NetSalary       decimal.Decimal
	Earnings        Earnings
	Deductions      Deductions
	// Staff defaults at the time of saving, used by update-prep to tell an
	// edited deduction apart from a changed default.
	DefaultLoan          decimal.Decimal
	DefaultSalaryAdvance decimal.Decimal
	PaidAt               *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Apply stores a fresh calculation and moves the record to Calculated.
func (s *Salary) Apply(basic decimal.Decimal, in Inputs, b Breakdown) error {
	if !s.Status.CanTransitionTo(StatusCalculated) {
		return ErrSalaryAlreadyPaid
	}
	s.Status = StatusCalculated
	s.BasicSalary = basic.Round(2)
	s.GrossSalary = b.GrossSalary
	s.TotalDeductions = b.TotalDeductions
	s.NetSalary = b.NetSalary
	s.Earnings = Earnings{
		Allowances:     in.Allowances.Round(2),
		OvertimePay:    b.OvertimePay,
		Reimbursements: in.Reimbursements.Round(2),
		Bonus:          in.Bonus.Round(2),
	}
	s.Deductions = Deductions{
		OTHours:        in.OTHours.Round(2),
		NoPayDays:      in.NoPayDays,
		SalaryAdvance:  in.SalaryAdvance.Round(2),
		Loan:           in.Loan.Round(2),
		EmployeeEPF:    b.EmployeeEPF,
		EmployerEPF:    b.EmployerEPF,
		EmployerETF:    b.EmployerETF,
		NoPayDeduction: b.NoPayDeduction,
	}
	return nil
}

// MarkPaid is the only way a salary becomes Paid.
func (s *Salary) MarkPaid(at time.Time) error {
	if s.Status != StatusCalculated {
		return fmt.Errorf("%w: current status is %s", ErrSalaryNotCalculated, s.Status)
	}
	s.Status = StatusPaid
	s.PaidAt = &at
	return nil
}

// SlipFilename is the attachment name for a period, e.g. "salary-slip-October-2025.pdf".
func SlipFilename(monthYear string) string {
	return "salary-slip-" + strings.ReplaceAll(strings.TrimSpace(monthYear), " ", "-") + ".pdf"
}
