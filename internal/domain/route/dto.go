package route

import (
	"regexp"

	"github.com/busops/transit-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

var departureTimeRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

type CreateRouteRequest struct {
	RouteNumber   string          `json:"route_number"`
	StartPoint    string          `json:"start_point"`
	EndPoint      string          `json:"end_point"`
	Stops         []string        `json:"stops,omitempty"`
	Fare          decimal.Decimal `json:"fare"`
	DepartureTime string          `json:"departure_time"`
}

func (r *CreateRouteRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RouteNumber) {
		errs.Add("route_number", "is required")
	}
	if validator.IsEmpty(r.StartPoint) {
		errs.Add("start_point", "is required")
	}
	if validator.IsEmpty(r.EndPoint) {
		errs.Add("end_point", "is required")
	}
	if !r.Fare.IsPositive() {
		errs.Add("fare", "must be greater than zero")
	}
	if !departureTimeRegex.MatchString(r.DepartureTime) {
		errs.Add("departure_time", "must be in HH:MM format")
	}

	return errs.Err()
}

type RouteResponse struct {
	ID            string          `json:"id"`
	RouteNumber   string          `json:"route_number"`
	RouteName     string          `json:"route_name"`
	StartPoint    string          `json:"start_point"`
	EndPoint      string          `json:"end_point"`
	Stops         []string        `json:"stops"`
	Fare          decimal.Decimal `json:"fare"`
	DepartureTime string          `json:"departure_time"`
}

func ToResponse(r Route) RouteResponse {
	stops := r.Stops
	if stops == nil {
		stops = []string{}
	}
	return RouteResponse{
		ID:            r.ID,
		RouteNumber:   r.RouteNumber,
		RouteName:     r.Name(),
		StartPoint:    r.StartPoint,
		EndPoint:      r.EndPoint,
		Stops:         stops,
		Fare:          r.Fare,
		DepartureTime: r.DepartureTime,
	}
}
