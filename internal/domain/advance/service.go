package advance

import "context"

type AdvanceService interface {
	CreateAdvance(ctx context.Context, req CreateAdvanceRequest) (AdvanceResponse, error)
	GetAdvance(ctx context.Context, id string) (AdvanceResponse, error)
	ListAdvances(ctx context.Context, staffID string) ([]AdvanceResponse, error)
	UpdateAdvance(ctx context.Context, req UpdateAdvanceRequest) (AdvanceResponse, error)
	DeleteAdvance(ctx context.Context, id string) error
}
