package route

import "context"

type RouteService interface {
	CreateRoute(ctx context.Context, req CreateRouteRequest) (RouteResponse, error)
	// GetRoute accepts either the route's id or its public route number.
	GetRoute(ctx context.Context, idOrNumber string) (RouteResponse, error)
	ListRoutes(ctx context.Context) ([]RouteResponse, error)
}
