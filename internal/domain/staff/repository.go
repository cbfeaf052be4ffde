package staff

import (
	"context"

	"github.com/shopspring/decimal"
)

type StaffRepository interface {
	Create(ctx context.Context, s Staff) (Staff, error)
	GetByID(ctx context.Context, id string) (Staff, error)
	List(ctx context.Context) ([]Staff, error)
	Update(ctx context.Context, s Staff) error
	Delete(ctx context.Context, id string) error
}

type AttendanceRepository interface {
	// Create fails with ErrAttendanceExists when the staff member already has
	// a record for the same date.
	Create(ctx context.Context, a Attendance) (Attendance, error)
	GetByDate(ctx context.Context, staffID, date string) (Attendance, error)
	Update(ctx context.Context, a Attendance) error
	// RecordCheckOut saves a and adds otHours to the staff member's overtime
	// aggregate as one unit. Neither write is kept if the other fails.
	RecordCheckOut(ctx context.Context, a Attendance, otHours decimal.Decimal) error
	// ListBetween returns records with from <= date <= to, ordered by date.
	ListBetween(ctx context.Context, staffID, from, to string) ([]Attendance, error)
}
