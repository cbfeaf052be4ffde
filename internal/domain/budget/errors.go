package budget

import "errors"

var (
	ErrBudgetNotFound   = errors.New("budget not found")
	ErrExpenseNotFound  = errors.New("expense not found")
	ErrInvalidSource    = errors.New("unsupported budget source")
	ErrFieldNotAllowed  = errors.New("field cannot be aggregated for this source")
	ErrBudgetDateExists = errors.New("a budget already takes effect on this date for the category")
)
