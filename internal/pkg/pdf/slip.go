package pdf

import (
	"bytes"
	"fmt"

	"github.com/busops/transit-backend-go/internal/domain/salary"
	"github.com/busops/transit-backend-go/internal/domain/staff"
	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"
)

// SlipRenderer draws salary slips as single-page A4 documents.
type SlipRenderer struct {
	companyName string
}

func NewSlipRenderer(companyName string) *SlipRenderer {
	return &SlipRenderer{companyName: companyName}
}

func money(d decimal.Decimal) string {
	return "Rs. " + d.StringFixed(2)
}

func (r *SlipRenderer) Render(member staff.Staff, s salary.Salary) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Salary Slip - "+s.MonthYear, false)
	pdf.SetAuthor(r.companyName, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, r.companyName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "SALARY SLIP - "+s.MonthYear, "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 11)
	details := [][2]string{
		{"Employee", member.Name},
		{"Role", member.Role},
		{"Email", member.Email},
		{"Status", string(s.Status)},
	}
	for _, row := range details {
		pdf.CellFormat(40, 7, row[0]+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	section(pdf, "Earnings", [][2]string{
		{"Basic salary", money(s.BasicSalary)},
		{"Allowances", money(s.Earnings.Allowances)},
		{fmt.Sprintf("Overtime (%s h)", s.Deductions.OTHours.StringFixed(2)), money(s.Earnings.OvertimePay)},
		{"Reimbursements", money(s.Earnings.Reimbursements)},
		{"Bonus", money(s.Earnings.Bonus)},
	}, "Gross salary", money(s.GrossSalary))

	section(pdf, "Deductions", [][2]string{
		{"EPF (employee 8%)", money(s.Deductions.EmployeeEPF)},
		{fmt.Sprintf("No-pay (%d days)", s.Deductions.NoPayDays), money(s.Deductions.NoPayDeduction)},
		{"Salary advance", money(s.Deductions.SalaryAdvance)},
		{"Loan", money(s.Deductions.Loan)},
	}, "Total deductions", money(s.TotalDeductions))

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(120, 10, "NET SALARY", "TB", 0, "L", false, 0, "")
	pdf.CellFormat(0, 10, money(s.NetSalary), "TB", 1, "R", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 5, fmt.Sprintf(
		"Employer contributions (not deducted): EPF 12%% %s, ETF 3%% %s.",
		money(s.Deductions.EmployerEPF), money(s.Deductions.EmployerETF),
	), "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render salary slip: %w", err)
	}
	return buf.Bytes(), nil
}

func section(pdf *gofpdf.Fpdf, title string, rows [][2]string, totalLabel, total string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(0, 8, title, "", 1, "L", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, row := range rows {
		pdf.CellFormat(120, 7, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, row[1], "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(120, 7, totalLabel, "T", 0, "L", false, 0, "")
	pdf.CellFormat(0, 7, total, "T", 1, "R", false, 0, "")
	pdf.Ln(4)
}
