package booking

import (
	"context"
	"time"
)

type BookingRepository interface {
	// Create inserts the booking after checking, under a per route/date lock,
	// that none of its seats is already held. Returns ErrSeatsUnavailable otherwise.
	Create(ctx context.Context, b Booking) (Booking, error)
	GetByID(ctx context.Context, id int64) (Booking, error)
	List(ctx context.Context, filter BookingFilter) ([]Booking, int64, error)
	ListSeatHolds(ctx context.Context, routeID, journeyDate string) ([]SeatHold, error)
	// Update persists every mutable field while the stored status still equals
	// expected, otherwise it returns ErrInvalidTransition. When the booking
	// still holds seats the same seat guard as Create applies, excluding the
	// booking itself.
	Update(ctx context.Context, b Booking, expected Status) error
	// CancelStalePending moves every pending booking created at or before
	// cutoff to cancelled and returns how many rows changed.
	CancelStalePending(ctx context.Context, cutoff, now time.Time, reason string) (int64, error)
}
