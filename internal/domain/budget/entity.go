package budget

import (
	"time"

	"github.com/shopspring/decimal"
)

// Source names the table a budget is measured against.
type Source string

const (
	SourceExpenses Source = "expenses"
	SourceSalaries Source = "salaries"
	SourceAdvances Source = "advances"
)

// aggregateFields whitelists the columns each source may be summed over.
// The first entry is the default.
var aggregateFields = map[Source][]string{
	SourceExpenses: {"amount"},
	SourceSalaries: {"net_salary", "gross_salary"},
	SourceAdvances: {"advance_amount"},
}

func (s Source) Valid() bool {
	_, ok := aggregateFields[s]
	return ok
}

// AllowsField reports whether field may be aggregated for s.
func (s Source) AllowsField(field string) bool {
	for _, f := range aggregateFields[s] {
		if f == field {
			return true
		}
	}
	return false
}

func (s Source) DefaultField() string {
	if fields := aggregateFields[s]; len(fields) > 0 {
		return fields[0]
	}
	return ""
}

// CategoryScoped reports whether actuals are filtered by the budget category.
func (s Source) CategoryScoped() bool {
	return s == SourceExpenses
}

// Budget rows are append-only per category: the row with the latest
// EffectiveDate is the active one.
type Budget struct {
	ID            string
	Category      string
	TargetAmount  decimal.Decimal
	Source        Source
	Field         string
	EffectiveDate string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Expense struct {
	ID          string
	Category    string
	Amount      decimal.Decimal
	Description string
	ExpenseDate string
	CreatedAt   time.Time
}

// ActualQuery selects what to sum for one budget in one month.
type ActualQuery struct {
	Source    Source
	Field     string
	Category  string
	MonthYear string
	From      string
	To        string
}
