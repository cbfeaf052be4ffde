package advance

import "context"

type AdvanceRepository interface {
	Create(ctx context.Context, a Advance) (Advance, error)
	GetByID(ctx context.Context, id string) (Advance, error)
	// List returns every advance, or only one staff member's when staffID is set.
	List(ctx context.Context, staffID string) ([]Advance, error)
	Update(ctx context.Context, a Advance) error
	Delete(ctx context.Context, id string) error
}
