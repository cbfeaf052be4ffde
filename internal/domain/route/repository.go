package route

import "context"

type RouteRepository interface {
	Create(ctx context.Context, r Route) (Route, error)
	GetByID(ctx context.Context, id string) (Route, error)
	GetByRouteNumber(ctx context.Context, routeNumber string) (Route, error)
	List(ctx context.Context) ([]Route, error)
}
