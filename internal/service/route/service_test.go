package route

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/busops/transit-backend-go/internal/domain/route"
	"github.com/busops/transit-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRouteRepo struct {
	mu     sync.Mutex
	routes map[string]route.Route
}

func (r *memRouteRepo) Create(_ context.Context, rt route.Route) (route.Route, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.routes {
		if existing.RouteNumber == rt.RouteNumber {
			return route.Route{}, route.ErrRouteNumberExists
		}
	}
	rt.ID = uuid.NewString()
	r.routes[rt.ID] = rt
	return rt, nil
}

func (r *memRouteRepo) GetByID(_ context.Context, id string) (route.Route, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rt, ok := r.routes[id]
	if !ok {
		return route.Route{}, route.ErrRouteNotFound
	}
	return rt, nil
}

func (r *memRouteRepo) GetByRouteNumber(_ context.Context, number string) (route.Route, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rt := range r.routes {
		if rt.RouteNumber == number {
			return rt, nil
		}
	}
	return route.Route{}, route.ErrRouteNotFound
}

func (r *memRouteRepo) List(_ context.Context) ([]route.Route, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]route.Route, 0, len(r.routes))
	for _, rt := range r.routes {
		out = append(out, rt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RouteNumber < out[j].RouteNumber })
	return out, nil
}

func validRouteRequest() route.CreateRouteRequest {
	return route.CreateRouteRequest{
		RouteNumber:   "138",
		StartPoint:    "Colombo",
		EndPoint:      "Kandy",
		Stops:         []string{"Kadawatha", " ", "Kegalle"},
		Fare:          decimal.RequireFromString("450.50"),
		DepartureTime: "06:30",
	}
}

func TestRouteService_CreateAndResolve(t *testing.T) {
	svc := NewRouteService(&memRouteRepo{routes: map[string]route.Route{}})
	ctx := context.Background()

	created, err := svc.CreateRoute(ctx, validRouteRequest())
	require.NoError(t, err)
	assert.Equal(t, "Colombo-Kandy", created.RouteName)
	assert.Equal(t, []string{"Kadawatha", "Kegalle"}, created.Stops)

	byID, err := svc.GetRoute(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "138", byID.RouteNumber)

	byNumber, err := svc.GetRoute(ctx, "138")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byNumber.ID)

	_, err = svc.GetRoute(ctx, "999")
	assert.ErrorIs(t, err, route.ErrRouteNotFound)

	_, err = svc.GetRoute(ctx, uuid.NewString())
	assert.ErrorIs(t, err, route.ErrRouteNotFound)
}

func TestRouteService_CreateRejects(t *testing.T) {
	svc := NewRouteService(&memRouteRepo{routes: map[string]route.Route{}})
	ctx := context.Background()

	_, err := svc.CreateRoute(ctx, validRouteRequest())
	require.NoError(t, err)

	_, err = svc.CreateRoute(ctx, validRouteRequest())
	assert.ErrorIs(t, err, route.ErrRouteNumberExists)

	bad := validRouteRequest()
	bad.Fare = decimal.Zero
	bad.DepartureTime = "25:00"
	_, err = svc.CreateRoute(ctx, bad)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "fare")
	assert.Contains(t, verrs.ToMap(), "departure_time")
}

func TestRouteService_List(t *testing.T) {
	svc := NewRouteService(&memRouteRepo{routes: map[string]route.Route{}})
	ctx := context.Background()

	empty, err := svc.ListRoutes(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	second := validRouteRequest()
	second.RouteNumber = "240"
	_, err = svc.CreateRoute(ctx, second)
	require.NoError(t, err)
	_, err = svc.CreateRoute(ctx, validRouteRequest())
	require.NoError(t, err)

	routes, err := svc.ListRoutes(ctx)
	require.NoError(t, err)
	require.Len(t, routes, 2)
	assert.Equal(t, "138", routes[0].RouteNumber)
}
