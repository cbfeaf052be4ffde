package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/busops/transit-backend-go/internal/domain/route"
	"github.com/busops/transit-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type routeRepository struct {
	db *database.DB
}

func NewRouteRepository(db *database.DB) route.RouteRepository {
	return &routeRepository{db: db}
}

const routeColumns = `id, route_number, start_point, end_point, stops, fare, departure_time, created_at, updated_at`

func scanRoute(row pgx.Row) (route.Route, error) {
	var r route.Route
	err := row.Scan(&r.ID, &r.RouteNumber, &r.StartPoint, &r.EndPoint, &r.Stops, &r.Fare, &r.DepartureTime, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

func (r *routeRepository) Create(ctx context.Context, rt route.Route) (route.Route, error) {
	q := GetQuerier(ctx, r.db)

	if rt.Stops == nil {
		rt.Stops = []string{}
	}
	query := `
		INSERT INTO routes (route_number, start_point, end_point, stops, fare, departure_time)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + routeColumns

	created, err := scanRoute(q.QueryRow(ctx, query, rt.RouteNumber, rt.StartPoint, rt.EndPoint, rt.Stops, rt.Fare, rt.DepartureTime))
	if err != nil {
		if strings.Contains(err.Error(), "uk_routes_route_number") {
			return route.Route{}, route.ErrRouteNumberExists
		}
		return route.Route{}, fmt.Errorf("failed to create route: %w", err)
	}
	return created, nil
}

func (r *routeRepository) GetByID(ctx context.Context, id string) (route.Route, error) {
	q := GetQuerier(ctx, r.db)

	rt, err := scanRoute(q.QueryRow(ctx, `SELECT `+routeColumns+` FROM routes WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return route.Route{}, route.ErrRouteNotFound
		}
		return route.Route{}, fmt.Errorf("failed to get route: %w", err)
	}
	return rt, nil
}

func (r *routeRepository) GetByRouteNumber(ctx context.Context, routeNumber string) (route.Route, error) {
	q := GetQuerier(ctx, r.db)

	rt, err := scanRoute(q.QueryRow(ctx, `SELECT `+routeColumns+` FROM routes WHERE route_number = $1`, routeNumber))
	if err != nil {
		if err == pgx.ErrNoRows {
			return route.Route{}, route.ErrRouteNotFound
		}
		return route.Route{}, fmt.Errorf("failed to get route: %w", err)
	}
	return rt, nil
}

func (r *routeRepository) List(ctx context.Context) ([]route.Route, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+routeColumns+` FROM routes ORDER BY route_number`)
	if err != nil {
		return nil, fmt.Errorf("failed to list routes: %w", err)
	}
	defer rows.Close()

	var routes []route.Route
	for rows.Next() {
		rt, err := scanRoute(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan route: %w", err)
		}
		routes = append(routes, rt)
	}
	return routes, rows.Err()
}
