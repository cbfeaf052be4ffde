package salary

import (
	"context"

	"github.com/busops/transit-backend-go/internal/domain/staff"
)

//go:generate mockgen -source=collaborators.go -destination=collaborators_mock.go -package=salary

// SlipRenderer turns a saved salary into a printable slip document.
type SlipRenderer interface {
	Render(member staff.Staff, s Salary) ([]byte, error)
}

// SlipMailer delivers a rendered slip to a staff member.
type SlipMailer interface {
	SendSalarySlip(ctx context.Context, to, staffName, monthYear string, attachment []byte, filename string) error
}
