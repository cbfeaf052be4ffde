package pdf

import (
	"bytes"
	"testing"

	"github.com/busops/transit-backend-go/internal/domain/salary"
	"github.com/busops/transit-backend-go/internal/domain/staff"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlipRenderer_Render(t *testing.T) {
	basic := decimal.NewFromInt(28000)
	in := salary.Inputs{Allowances: decimal.NewFromInt(1000), OTHours: decimal.NewFromInt(10), NoPayDays: 2}

	s := salary.Salary{MonthYear: "October 2025", Status: salary.StatusPending}
	require.NoError(t, s.Apply(basic, in, salary.Calculate(basic, in)))

	member := staff.Staff{Name: "Nimal Perera", Role: "Driver", Email: "nimal@example.com"}

	doc, err := NewSlipRenderer("City Transit").Render(member, s)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF-")))
	assert.Contains(t, string(doc), "Salary Slip - October 2025")
}
