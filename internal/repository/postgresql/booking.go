package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/busops/transit-backend-go/internal/domain/booking"
	"github.com/busops/transit-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type bookingRepository struct {
	db *database.DB
}

func NewBookingRepository(db *database.DB) booking.BookingRepository {
	return &bookingRepository{db: db}
}

const bookingColumns = `
	id, route_id, route_number, route_name, user_id, passenger_name, mobile_number, email,
	seat_numbers, boarding_point, dropoff_point, gender, journey_date::text, total_fare,
	status, payment_method, bank_transfer_details, cancellation_details, created_at, updated_at
`

var seatHoldingStatuses = []string{
	string(booking.StatusPending),
	string(booking.StatusPendingVerification),
	string(booking.StatusPaid),
}

func scanBooking(row pgx.Row) (booking.Booking, error) {
	var (
		b            booking.Booking
		bankTransfer []byte
		cancellation []byte
	)
	err := row.Scan(
		&b.ID, &b.RouteID, &b.RouteNumber, &b.RouteName, &b.UserID, &b.PassengerName, &b.MobileNumber, &b.Email,
		&b.SeatNumbers, &b.BoardingPoint, &b.DropoffPoint, &b.Gender, &b.JourneyDate, &b.TotalFare,
		&b.Status, &b.PaymentMethod, &bankTransfer, &cancellation, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return booking.Booking{}, err
	}
	if bankTransfer != nil {
		b.BankTransfer = &booking.BankTransferDetails{}
		if err := json.Unmarshal(bankTransfer, b.BankTransfer); err != nil {
			return booking.Booking{}, fmt.Errorf("failed to decode bank transfer details: %w", err)
		}
	}
	if cancellation != nil {
		b.Cancellation = &booking.CancellationDetails{}
		if err := json.Unmarshal(cancellation, b.Cancellation); err != nil {
			return booking.Booking{}, fmt.Errorf("failed to decode cancellation details: %w", err)
		}
	}
	return b, nil
}

func marshalDetails(v any) ([]byte, error) {
	switch d := v.(type) {
	case *booking.BankTransferDetails:
		if d == nil {
			return nil, nil
		}
	case *booking.CancellationDetails:
		if d == nil {
			return nil, nil
		}
	}
	return json.Marshal(v)
}

// guardSeats serialises writers on one route/date and reports whether any of
// seats is held by another booking. Must run inside a transaction.
func guardSeats(ctx context.Context, tx pgx.Tx, b booking.Booking) error {
	if _, err := tx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1::text || ':' || $2::text))`,
		b.RouteID, b.JourneyDate,
	); err != nil {
		return fmt.Errorf("failed to lock seat inventory: %w", err)
	}

	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE route_id = $1 AND journey_date = $2
			  AND status = ANY($3) AND seat_numbers && $4 AND id <> $5
		)
	`
	var taken bool
	if err := tx.QueryRow(ctx, query, b.RouteID, b.JourneyDate, seatHoldingStatuses, b.SeatNumbers, b.ID).Scan(&taken); err != nil {
		return fmt.Errorf("failed to check seat availability: %w", err)
	}
	if taken {
		return booking.ErrSeatsUnavailable
	}
	return nil
}

func (r *bookingRepository) Create(ctx context.Context, b booking.Booking) (booking.Booking, error) {
	bankTransfer, err := marshalDetails(b.BankTransfer)
	if err != nil {
		return booking.Booking{}, err
	}

	var created booking.Booking
	err = WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if b.Status.HoldsSeats() {
			if err := guardSeats(ctx, tx, b); err != nil {
				return err
			}
		}

		query := `
			INSERT INTO bookings (
				route_id, route_number, route_name, user_id, passenger_name, mobile_number, email,
				seat_numbers, boarding_point, dropoff_point, gender, journey_date, total_fare,
				status, payment_method, bank_transfer_details, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
			RETURNING ` + bookingColumns

		var err error
		created, err = scanBooking(tx.QueryRow(ctx, query,
			b.RouteID, b.RouteNumber, b.RouteName, b.UserID, b.PassengerName, b.MobileNumber, b.Email,
			b.SeatNumbers, b.BoardingPoint, b.DropoffPoint, b.Gender, b.JourneyDate, b.TotalFare,
			b.Status, b.PaymentMethod, bankTransfer, b.CreatedAt, b.UpdatedAt,
		))
		if err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}
		return nil
	})
	if err != nil {
		return booking.Booking{}, err
	}
	return created, nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id int64) (booking.Booking, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	b, err := scanBooking(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return booking.Booking{}, booking.ErrBookingNotFound
		}
		return booking.Booking{}, fmt.Errorf("failed to get booking: %w", err)
	}
	return b, nil
}

func (r *bookingRepository) List(ctx context.Context, filter booking.BookingFilter) ([]booking.Booking, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClauses := []string{"1=1"}
	args := []any{}
	paramCount := 0

	if filter.UserID != nil && *filter.UserID != "" {
		paramCount++
		whereClauses = append(whereClauses, fmt.Sprintf("user_id = $%d", paramCount))
		args = append(args, *filter.UserID)
	}
	if filter.Status != nil && *filter.Status != "" {
		paramCount++
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", paramCount))
		args = append(args, *filter.Status)
	}
	if filter.RouteID != nil && *filter.RouteID != "" {
		paramCount++
		whereClauses = append(whereClauses, fmt.Sprintf("route_id = $%d", paramCount))
		args = append(args, *filter.RouteID)
	}
	if filter.JourneyDate != nil && *filter.JourneyDate != "" {
		paramCount++
		whereClauses = append(whereClauses, fmt.Sprintf("journey_date = $%d", paramCount))
		args = append(args, *filter.JourneyDate)
	}

	whereClause := strings.Join(whereClauses, " AND ")

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM bookings WHERE %s`, whereClause)
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM bookings
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, bookingColumns, whereClause, paramCount+1, paramCount+2)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []booking.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating bookings: %w", err)
	}

	return bookings, total, nil
}

func (r *bookingRepository) ListSeatHolds(ctx context.Context, routeID, journeyDate string) ([]booking.SeatHold, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT status, seat_numbers
		FROM bookings
		WHERE route_id = $1 AND journey_date = $2 AND status = ANY($3)
	`
	rows, err := q.Query(ctx, query, routeID, journeyDate, seatHoldingStatuses)
	if err != nil {
		return nil, fmt.Errorf("failed to list seat holds: %w", err)
	}
	defer rows.Close()

	var holds []booking.SeatHold
	for rows.Next() {
		var h booking.SeatHold
		if err := rows.Scan(&h.Status, &h.SeatNumbers); err != nil {
			return nil, fmt.Errorf("failed to scan seat hold: %w", err)
		}
		holds = append(holds, h)
	}
	return holds, rows.Err()
}

func (r *bookingRepository) Update(ctx context.Context, b booking.Booking, expected booking.Status) error {
	bankTransfer, err := marshalDetails(b.BankTransfer)
	if err != nil {
		return err
	}
	cancellation, err := marshalDetails(b.Cancellation)
	if err != nil {
		return err
	}

	return WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if b.Status.HoldsSeats() {
			if err := guardSeats(ctx, tx, b); err != nil {
				return err
			}
		}

		query := `
			UPDATE bookings SET
				passenger_name = $2, mobile_number = $3, email = $4, seat_numbers = $5,
				boarding_point = $6, dropoff_point = $7, gender = $8, journey_date = $9,
				total_fare = $10, status = $11, bank_transfer_details = $12,
				cancellation_details = $13, updated_at = $14
			WHERE id = $1 AND status = $15
		`
		tag, err := tx.Exec(ctx, query,
			b.ID, b.PassengerName, b.MobileNumber, b.Email, b.SeatNumbers,
			b.BoardingPoint, b.DropoffPoint, b.Gender, b.JourneyDate,
			b.TotalFare, b.Status, bankTransfer, cancellation, b.UpdatedAt, expected,
		)
		if err != nil {
			return fmt.Errorf("failed to update booking: %w", err)
		}
		if tag.RowsAffected() == 0 {
			var current booking.Status
			if err := tx.QueryRow(ctx, `SELECT status FROM bookings WHERE id = $1`, b.ID).Scan(&current); err != nil {
				if err == pgx.ErrNoRows {
					return booking.ErrBookingNotFound
				}
				return fmt.Errorf("failed to read booking status: %w", err)
			}
			return fmt.Errorf("%w: booking is now %s", booking.ErrInvalidTransition, current)
		}
		return nil
	})
}

// CancelStalePending is a single conditional UPDATE; rows that left pending
// before it runs are not touched.
func (r *bookingRepository) CancelStalePending(ctx context.Context, cutoff, now time.Time, reason string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	details, err := json.Marshal(booking.CancellationDetails{CancelledAt: now, Reason: reason})
	if err != nil {
		return 0, err
	}

	query := `
		UPDATE bookings
		SET status = $1, cancellation_details = $2, updated_at = $3
		WHERE status = $4 AND created_at <= $5
	`
	tag, err := q.Exec(ctx, query, booking.StatusCancelled, details, now, booking.StatusPending, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cancel stale bookings: %w", err)
	}
	return tag.RowsAffected(), nil
}
