package booking

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/busops/transit-backend-go/internal/domain/booking"
	"github.com/busops/transit-backend-go/internal/domain/route"
)

type fakeBookingRepo struct {
	mu       sync.Mutex
	nextID   int64
	bookings map[int64]booking.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{nextID: 1001, bookings: make(map[int64]booking.Booking)}
}

func (r *fakeBookingRepo) seatsTaken(b booking.Booking) bool {
	for id, other := range r.bookings {
		if id == b.ID || other.RouteID != b.RouteID || other.JourneyDate != b.JourneyDate || !other.Status.HoldsSeats() {
			continue
		}
		for _, a := range other.SeatNumbers {
			for _, s := range b.SeatNumbers {
				if a == s {
					return true
				}
			}
		}
	}
	return false
}

func (r *fakeBookingRepo) Create(ctx context.Context, b booking.Booking) (booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.Status.HoldsSeats() && r.seatsTaken(b) {
		return booking.Booking{}, booking.ErrSeatsUnavailable
	}
	b.ID = r.nextID
	r.nextID++
	r.bookings[b.ID] = b
	return b, nil
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, id int64) (booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return booking.Booking{}, booking.ErrBookingNotFound
	}
	return b, nil
}

func (r *fakeBookingRepo) List(ctx context.Context, filter booking.BookingFilter) ([]booking.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []booking.Booking
	for _, b := range r.bookings {
		if filter.UserID != nil && (b.UserID == nil || *b.UserID != *filter.UserID) {
			continue
		}
		if filter.Status != nil && string(b.Status) != *filter.Status {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) ListSeatHolds(ctx context.Context, routeID, journeyDate string) ([]booking.SeatHold, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var holds []booking.SeatHold
	for _, b := range r.bookings {
		if b.RouteID == routeID && b.JourneyDate == journeyDate && b.Status.HoldsSeats() {
			holds = append(holds, booking.SeatHold{Status: b.Status, SeatNumbers: b.SeatNumbers})
		}
	}
	return holds, nil
}

func (r *fakeBookingRepo) Update(ctx context.Context, b booking.Booking, expected booking.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.bookings[b.ID]
	if !ok {
		return booking.ErrBookingNotFound
	}
	if stored.Status != expected {
		return fmt.Errorf("%w: booking is now %s", booking.ErrInvalidTransition, stored.Status)
	}
	if b.Status.HoldsSeats() && r.seatsTaken(b) {
		return booking.ErrSeatsUnavailable
	}
	r.bookings[b.ID] = b
	return nil
}

func (r *fakeBookingRepo) CancelStalePending(ctx context.Context, cutoff, now time.Time, reason string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, b := range r.bookings {
		if b.Status != booking.StatusPending || b.CreatedAt.After(cutoff) {
			continue
		}
		b.Status = booking.StatusCancelled
		b.Cancellation = &booking.CancellationDetails{CancelledAt: now, Reason: reason}
		r.bookings[id] = b
		n++
	}
	return n, nil
}

type fakeRouteRepo struct {
	routes map[string]route.Route
}

func newFakeRouteRepo(routes ...route.Route) *fakeRouteRepo {
	r := &fakeRouteRepo{routes: make(map[string]route.Route)}
	for _, rt := range routes {
		r.routes[rt.ID] = rt
	}
	return r
}

func (r *fakeRouteRepo) Create(ctx context.Context, rt route.Route) (route.Route, error) {
	r.routes[rt.ID] = rt
	return rt, nil
}

func (r *fakeRouteRepo) GetByID(ctx context.Context, id string) (route.Route, error) {
	rt, ok := r.routes[id]
	if !ok {
		return route.Route{}, route.ErrRouteNotFound
	}
	return rt, nil
}

func (r *fakeRouteRepo) GetByRouteNumber(ctx context.Context, number string) (route.Route, error) {
	for _, rt := range r.routes {
		if rt.RouteNumber == number {
			return rt, nil
		}
	}
	return route.Route{}, route.ErrRouteNotFound
}

func (r *fakeRouteRepo) List(ctx context.Context) ([]route.Route, error) {
	var out []route.Route
	for _, rt := range r.routes {
		out = append(out, rt)
	}
	return out, nil
}

// interleavingBookingRepo runs afterRead once, right after the next GetByID,
// to land a concurrent write between a service's read and its write.
type interleavingBookingRepo struct {
	*fakeBookingRepo
	afterRead func()
}

func (r *interleavingBookingRepo) GetByID(ctx context.Context, id int64) (booking.Booking, error) {
	b, err := r.fakeBookingRepo.GetByID(ctx, id)
	if hook := r.afterRead; hook != nil {
		r.afterRead = nil
		hook()
	}
	return b, err
}
