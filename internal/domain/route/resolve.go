package route

import (
	"context"
	"errors"

	"github.com/busops/transit-backend-go/internal/pkg/validator"
)

// Resolve looks a route up by id when the key is a UUID, otherwise by route number.
func Resolve(ctx context.Context, repo RouteRepository, key string) (Route, error) {
	if validator.IsValidUUID(key) {
		r, err := repo.GetByID(ctx, key)
		if !errors.Is(err, ErrRouteNotFound) {
			return r, err
		}
	}
	return repo.GetByRouteNumber(ctx, key)
}
