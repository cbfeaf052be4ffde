package maillog

import "context"

//go:generate mockgen -source=repository.go -destination=repository_mock.go -package=maillog

type DeliveryRepository interface {
	Record(ctx context.Context, d Delivery) error
	// ListBySalary returns attempts newest first.
	ListBySalary(ctx context.Context, salaryID string) ([]Delivery, error)
}

type noopRepository struct{}

// NewNoopRepository is used when no document store is configured.
func NewNoopRepository() DeliveryRepository {
	return noopRepository{}
}

func (noopRepository) Record(context.Context, Delivery) error { return nil }

func (noopRepository) ListBySalary(context.Context, string) ([]Delivery, error) {
	return []Delivery{}, nil
}
