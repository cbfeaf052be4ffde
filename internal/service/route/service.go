package route

import (
	"context"
	"log/slog"
	"strings"

	"github.com/busops/transit-backend-go/internal/domain/route"
)

type RouteServiceImpl struct {
	routeRepo route.RouteRepository
}

func NewRouteService(routeRepo route.RouteRepository) route.RouteService {
	return &RouteServiceImpl{routeRepo: routeRepo}
}

func (s *RouteServiceImpl) CreateRoute(ctx context.Context, req route.CreateRouteRequest) (route.RouteResponse, error) {
	if err := req.Validate(); err != nil {
		return route.RouteResponse{}, err
	}

	stops := make([]string, 0, len(req.Stops))
	for _, stop := range req.Stops {
		if stop = strings.TrimSpace(stop); stop != "" {
			stops = append(stops, stop)
		}
	}

	created, err := s.routeRepo.Create(ctx, route.Route{
		RouteNumber:   strings.TrimSpace(req.RouteNumber),
		StartPoint:    strings.TrimSpace(req.StartPoint),
		EndPoint:      strings.TrimSpace(req.EndPoint),
		Stops:         stops,
		Fare:          req.Fare.Round(2),
		DepartureTime: req.DepartureTime,
	})
	if err != nil {
		return route.RouteResponse{}, err
	}

	slog.Info("Route created", "route_id", created.ID, "route_number", created.RouteNumber)
	return route.ToResponse(created), nil
}

func (s *RouteServiceImpl) GetRoute(ctx context.Context, idOrNumber string) (route.RouteResponse, error) {
	r, err := route.Resolve(ctx, s.routeRepo, idOrNumber)
	if err != nil {
		return route.RouteResponse{}, err
	}
	return route.ToResponse(r), nil
}

func (s *RouteServiceImpl) ListRoutes(ctx context.Context) ([]route.RouteResponse, error) {
	routes, err := s.routeRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]route.RouteResponse, 0, len(routes))
	for _, r := range routes {
		resp = append(resp, route.ToResponse(r))
	}
	return resp, nil
}
