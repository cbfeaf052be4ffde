package salary

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	EmployeeEPFRate    = decimal.RequireFromString("0.08")
	EmployerEPFRate    = decimal.RequireFromString("0.12")
	EmployerETFRate    = decimal.RequireFromString("0.03")
	OvertimeMultiplier = decimal.RequireFromString("1.5")
	WorkingDays        = decimal.NewFromInt(28)
	HoursPerDay        = decimal.NewFromInt(8)
)

// Inputs is the editable part of a payroll run.
type Inputs struct {
	Allowances     decimal.Decimal
	Reimbursements decimal.Decimal
	Bonus          decimal.Decimal
	OTHours        decimal.Decimal
	NoPayDays      int
	SalaryAdvance  decimal.Decimal
	Loan           decimal.Decimal
}

// Breakdown holds every derived figure, each rounded to two decimals.
type Breakdown struct {
	HourlyRate      decimal.Decimal
	OvertimePay     decimal.Decimal
	GrossSalary     decimal.Decimal
	EmployeeEPF     decimal.Decimal
	EmployerEPF     decimal.Decimal
	EmployerETF     decimal.Decimal
	NoPayDeduction  decimal.Decimal
	TotalDeductions decimal.Decimal
	NetSalary       decimal.Decimal
}

// Calculate derives the salary breakdown. Intermediate values keep full
// precision and only the outputs are rounded.
func Calculate(basic decimal.Decimal, in Inputs) Breakdown {
	hourly := basic.Div(WorkingDays).Div(HoursPerDay)
	overtime := in.OTHours.Mul(hourly).Mul(OvertimeMultiplier)
	gross := basic.Add(in.Allowances).Add(overtime).Add(in.Reimbursements).Add(in.Bonus)
	employeeEPF := gross.Mul(EmployeeEPFRate)
	noPay := decimal.NewFromInt(int64(in.NoPayDays)).Mul(basic.Div(WorkingDays))
	deductions := employeeEPF.Add(noPay).Add(in.Loan).Add(in.SalaryAdvance)

	return Breakdown{
		HourlyRate:      hourly.Round(2),
		OvertimePay:     overtime.Round(2),
		GrossSalary:     gross.Round(2),
		EmployeeEPF:     employeeEPF.Round(2),
		EmployerEPF:     gross.Mul(EmployerEPFRate).Round(2),
		EmployerETF:     gross.Mul(EmployerETFRate).Round(2),
		NoPayDeduction:  noPay.Round(2),
		TotalDeductions: deductions.Round(2),
		NetSalary:       gross.Sub(deductions).Round(2),
	}
}

// ValidateInputs rejects a non-positive basic salary and negative inputs.
func ValidateInputs(basic decimal.Decimal, in Inputs) error {
	if !basic.IsPositive() {
		return ErrInvalidBasicSalary
	}
	fields := []struct {
		name  string
		value decimal.Decimal
	}{
		{"allowances", in.Allowances},
		{"reimbursements", in.Reimbursements},
		{"bonus", in.Bonus},
		{"ot_hours", in.OTHours},
		{"no_pay_days", decimal.NewFromInt(int64(in.NoPayDays))},
		{"salary_advance", in.SalaryAdvance},
		{"loan", in.Loan},
	}
	for _, f := range fields {
		if f.value.IsNegative() {
			return fmt.Errorf("%w: %s is %s", ErrNegativeInput, f.name, f.value.String())
		}
	}
	return nil
}

// CalculateChecked validates the inputs, calculates, and rejects a negative net.
func CalculateChecked(basic decimal.Decimal, in Inputs) (Breakdown, error) {
	if err := ValidateInputs(basic, in); err != nil {
		return Breakdown{}, err
	}
	b := Calculate(basic, in)
	if b.NetSalary.IsNegative() {
		return Breakdown{}, fmt.Errorf("%w: net salary would be %s", ErrNegativeNetSalary, b.NetSalary.StringFixed(2))
	}
	return b, nil
}
