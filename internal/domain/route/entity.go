package route

import (
	"time"

	"github.com/shopspring/decimal"
)

type Route struct {
	ID            string
	RouteNumber   string
	StartPoint    string
	EndPoint      string
	Stops         []string
	Fare          decimal.Decimal
	DepartureTime string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Name is the "{start}-{end}" label bookings snapshot.
func (r Route) Name() string {
	return r.StartPoint + "-" + r.EndPoint
}
