package salary

import (
	"context"
	"time"
)

type SalaryRepository interface {
	// Create inserts a record. When (staff, month) is already taken the existing
	// record is overwritten in place, or ErrSalaryAlreadyPaid returned if it is Paid.
	Create(ctx context.Context, s Salary) (Salary, error)
	GetByID(ctx context.Context, id string) (Salary, error)
	GetByStaffAndMonth(ctx context.Context, staffID, monthYear string) (Salary, error)
	ListByMonth(ctx context.Context, monthYear string) ([]Salary, error)
	// Update overwrites a record in place. Paid records are never overwritten;
	// moving onto a (staff, month) another record holds fails with ErrSalaryExists.
	Update(ctx context.Context, s Salary) error
	// MarkPaid flips a Calculated record to Paid in one conditional update and
	// fails with ErrSalaryNotCalculated if the record is in any other state.
	MarkPaid(ctx context.Context, id string, paidAt time.Time) error
	Delete(ctx context.Context, id string) error
}
