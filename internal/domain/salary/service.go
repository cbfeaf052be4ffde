package salary

import (
	"context"

	"github.com/busops/transit-backend-go/internal/domain/maillog"
)

type SalaryService interface {
	// ListSalaries returns one entry per staff member for the month: the saved
	// record, or a Pending placeholder.
	ListSalaries(ctx context.Context, monthYear string) ([]SalaryResponse, error)
	GetSalary(ctx context.Context, id string) (SalaryResponse, error)
	SaveSalary(ctx context.Context, req SaveSalaryRequest) (SalaryResponse, error)
	GetUpdatePrep(ctx context.Context, id string) (UpdatePrepResponse, error)
	SendSlip(ctx context.Context, id string) (SalaryResponse, error)
	DownloadSlip(ctx context.Context, id string) (SlipFile, error)
	ListDeliveries(ctx context.Context, id string) ([]maillog.Delivery, error)
	DeleteSalary(ctx context.Context, id string) error
}
