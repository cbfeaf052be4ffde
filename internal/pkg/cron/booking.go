package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/busops/transit-backend-go/internal/domain/booking"
)

// BookingSweeper is the part of the booking service the scheduler drives.
type BookingSweeper interface {
	RunAutoCancellationSweep(ctx context.Context) (booking.SweepResult, error)
}

type BookingJobs struct {
	sweeper       BookingSweeper
	sweepInterval time.Duration
}

func NewBookingJobs(sweeper BookingSweeper, sweepInterval time.Duration) *BookingJobs {
	return &BookingJobs{
		sweeper:       sweeper,
		sweepInterval: sweepInterval,
	}
}

func (j *BookingJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("auto_cancel_unpaid_bookings", j.sweepInterval, j.AutoCancelUnpaidBookings)
}

// AutoCancelUnpaidBookings cancels pending bookings older than the payment
// window. Running it again right away cancels nothing.
func (j *BookingJobs) AutoCancelUnpaidBookings(ctx context.Context) error {
	result, err := j.sweeper.RunAutoCancellationSweep(ctx)
	if err != nil {
		return fmt.Errorf("auto-cancellation sweep: %w", err)
	}

	slog.Info("Cron: auto-cancellation sweep finished", "cancelled_count", result.CancelledCount)
	return nil
}
