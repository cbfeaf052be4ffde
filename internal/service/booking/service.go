package booking

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"sort"
	"time"

	"github.com/busops/transit-backend-go/internal/domain/booking"
	"github.com/busops/transit-backend-go/internal/domain/route"
	"github.com/busops/transit-backend-go/internal/pkg/clock"
	"github.com/busops/transit-backend-go/internal/pkg/metrics"
	"github.com/busops/transit-backend-go/internal/pkg/validator"
	"github.com/busops/transit-backend-go/internal/service/file"
)

type BookingServiceImpl struct {
	bookingRepo booking.BookingRepository
	routeRepo   route.RouteRepository
	fileService file.FileService
	clock       clock.Clock
	metrics     *metrics.Metrics
}

func NewBookingService(
	bookingRepo booking.BookingRepository,
	routeRepo route.RouteRepository,
	fileService file.FileService,
	clk clock.Clock,
	m *metrics.Metrics,
) booking.BookingService {
	return &BookingServiceImpl{
		bookingRepo: bookingRepo,
		routeRepo:   routeRepo,
		fileService: fileService,
		clock:       clk,
		metrics:     m,
	}
}

func (s *BookingServiceImpl) resolveRoute(ctx context.Context, key string) (route.Route, error) {
	r, err := route.Resolve(ctx, s.routeRepo, key)
	if err != nil {
		if errors.Is(err, route.ErrRouteNotFound) {
			return route.Route{}, validator.ValidationErrors{{Field: "route_id", Message: "route does not exist"}}
		}
		return route.Route{}, err
	}
	return r, nil
}

func (s *BookingServiceImpl) CreateBooking(ctx context.Context, req booking.CreateBookingRequest) (booking.BookingResponse, error) {
	if err := req.Validate(); err != nil {
		return booking.BookingResponse{}, err
	}

	r, err := s.resolveRoute(ctx, req.RouteID)
	if err != nil {
		return booking.BookingResponse{}, err
	}

	method := booking.PaymentMethodCard
	if req.PaymentMethod != nil {
		method = booking.PaymentMethod(*req.PaymentMethod)
	}

	status := booking.StatusPending
	if method == booking.PaymentMethodBankTransfer {
		status = booking.StatusPendingVerification
	}
	if req.Status != nil {
		status = booking.Status(*req.Status)
	}

	seats := append([]int(nil), req.SeatNumbers...)
	sort.Ints(seats)

	now := s.clock.Now()
	b := booking.Booking{
		RouteID:       r.ID,
		RouteNumber:   r.RouteNumber,
		RouteName:     r.Name(),
		UserID:        req.UserID,
		PassengerName: req.PassengerName,
		MobileNumber:  req.MobileNumber,
		Email:         req.Email,
		SeatNumbers:   seats,
		BoardingPoint: req.BoardingPoint,
		DropoffPoint:  req.DropoffPoint,
		Gender:        req.Gender,
		JourneyDate:   req.JourneyDate,
		TotalFare:     req.TotalFare,
		Status:        status,
		PaymentMethod: method,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	created, err := s.bookingRepo.Create(ctx, b)
	if err != nil {
		return booking.BookingResponse{}, err
	}

	s.metrics.BookingCreated(string(created.PaymentMethod))
	slog.Info("Booking created",
		"booking_id", created.ID,
		"route", created.RouteNumber,
		"journey_date", created.JourneyDate,
		"seats", created.SeatNumbers,
		"status", created.Status,
	)

	return booking.ToResponse(created), nil
}

func (s *BookingServiceImpl) GetBookedSeats(ctx context.Context, req booking.BookedSeatsRequest) (booking.BookedSeatsResponse, error) {
	if err := req.Validate(); err != nil {
		return booking.BookedSeatsResponse{}, err
	}

	r, err := route.Resolve(ctx, s.routeRepo, req.Route)
	if err != nil {
		if errors.Is(err, route.ErrRouteNotFound) {
			return booking.BookedSeatsResponse{}, booking.ErrRouteNotFound
		}
		return booking.BookedSeatsResponse{}, err
	}

	holds, err := s.bookingRepo.ListSeatHolds(ctx, r.ID, req.JourneyDate)
	if err != nil {
		return booking.BookedSeatsResponse{}, err
	}

	resp := booking.BookedSeatsResponse{
		RouteID:             r.ID,
		RouteNumber:         r.RouteNumber,
		JourneyDate:         req.JourneyDate,
		Paid:                seatsWithStatus(holds, booking.StatusPaid),
		Pending:             seatsWithStatus(holds, booking.StatusPending),
		PendingVerification: seatsWithStatus(holds, booking.StatusPendingVerification),
	}
	return resp, nil
}

// seatsWithStatus collects the seats of every hold in one tier, sorted and de-duplicated.
func seatsWithStatus(holds []booking.SeatHold, status booking.Status) []int {
	set := make(map[int]struct{})
	for _, h := range holds {
		if h.Status != status {
			continue
		}
		for _, seat := range h.SeatNumbers {
			set[seat] = struct{}{}
		}
	}
	seats := make([]int, 0, len(set))
	for seat := range set {
		seats = append(seats, seat)
	}
	sort.Ints(seats)
	return seats
}

func (s *BookingServiceImpl) GetBooking(ctx context.Context, id int64) (booking.BookingResponse, error) {
	b, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return booking.BookingResponse{}, err
	}
	return booking.ToResponse(b), nil
}

func (s *BookingServiceImpl) ListBookings(ctx context.Context, filter booking.BookingFilter) (booking.ListBookingResponse, error) {
	filter.Normalize()
	if filter.Status != nil {
		if _, err := booking.ParseStatus(*filter.Status); err != nil {
			return booking.ListBookingResponse{}, validator.ValidationErrors{{Field: "status", Message: "unknown booking status"}}
		}
	}
	if filter.JourneyDate != nil {
		if _, ok := validator.IsValidDate(*filter.JourneyDate); !ok {
			return booking.ListBookingResponse{}, validator.ValidationErrors{{Field: "journey_date", Message: "must be in YYYY-MM-DD format"}}
		}
	}

	bookings, total, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		return booking.ListBookingResponse{}, err
	}

	resp := booking.ListBookingResponse{
		Bookings:   make([]booking.BookingResponse, 0, len(bookings)),
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int((total + int64(filter.Limit) - 1) / int64(filter.Limit)),
	}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, booking.ToResponse(b))
	}
	return resp, nil
}

func (s *BookingServiceImpl) UpdateBooking(ctx context.Context, req booking.UpdateBookingRequest) (booking.BookingResponse, error) {
	if err := req.Validate(); err != nil {
		return booking.BookingResponse{}, err
	}

	b, err := s.bookingRepo.GetByID(ctx, req.ID)
	if err != nil {
		return booking.BookingResponse{}, err
	}
	read := b.Status

	if req.PassengerName != nil {
		b.PassengerName = *req.PassengerName
	}
	if req.MobileNumber != nil {
		b.MobileNumber = *req.MobileNumber
	}
	if req.Email != nil {
		b.Email = req.Email
		if *req.Email == "" {
			b.Email = nil
		}
	}
	if req.SeatNumbers != nil {
		seats := append([]int(nil), req.SeatNumbers...)
		sort.Ints(seats)
		b.SeatNumbers = seats
	}
	if req.BoardingPoint != nil {
		b.BoardingPoint = *req.BoardingPoint
	}
	if req.DropoffPoint != nil {
		b.DropoffPoint = *req.DropoffPoint
	}
	if req.Gender != nil {
		b.Gender = *req.Gender
	}
	if req.JourneyDate != nil {
		b.JourneyDate = *req.JourneyDate
	}
	if req.TotalFare != nil {
		b.TotalFare = *req.TotalFare
	}

	return s.save(ctx, b, read)
}

// save writes b back only if the stored status is still read, so a sweep or
// review that landed in between is not overwritten.
func (s *BookingServiceImpl) save(ctx context.Context, b booking.Booking, read booking.Status) (booking.BookingResponse, error) {
	b.UpdatedAt = s.clock.Now()
	if err := s.bookingRepo.Update(ctx, b, read); err != nil {
		return booking.BookingResponse{}, err
	}
	return booking.ToResponse(b), nil
}

func (s *BookingServiceImpl) ConfirmPayment(ctx context.Context, id int64) (booking.BookingResponse, error) {
	b, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return booking.BookingResponse{}, err
	}
	read := b.Status
	if err := b.ConfirmPayment(); err != nil {
		return booking.BookingResponse{}, err
	}
	return s.save(ctx, b, read)
}

func (s *BookingServiceImpl) CancelBooking(ctx context.Context, req booking.CancelBookingRequest) (booking.BookingResponse, error) {
	if err := req.Validate(); err != nil {
		return booking.BookingResponse{}, err
	}

	b, err := s.bookingRepo.GetByID(ctx, req.ID)
	if err != nil {
		return booking.BookingResponse{}, err
	}
	read := b.Status
	if !req.IsAdmin && b.UserID != nil && *b.UserID != req.RequesterID {
		return booking.BookingResponse{}, booking.ErrForbidden
	}

	account := booking.RefundAccount{
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		AccountHolder: req.AccountHolder,
	}
	if err := b.Cancel(s.clock.Now(), account, req.Reason); err != nil {
		return booking.BookingResponse{}, err
	}

	resp, err := s.save(ctx, b, read)
	if err != nil {
		return booking.BookingResponse{}, err
	}
	slog.Info("Booking cancelled by owner", "booking_id", b.ID, "reason", req.Reason)
	return resp, nil
}

func (s *BookingServiceImpl) UpdateRefundStatus(ctx context.Context, req booking.UpdateRefundStatusRequest) (booking.BookingResponse, error) {
	if err := req.Validate(); err != nil {
		return booking.BookingResponse{}, err
	}

	b, err := s.bookingRepo.GetByID(ctx, req.ID)
	if err != nil {
		return booking.BookingResponse{}, err
	}
	read := b.Status

	var processedAt *time.Time
	if req.ProcessedAt != nil {
		t, _ := validator.IsValidDateTime(*req.ProcessedAt)
		processedAt = &t
	}
	var actor *string
	if req.Actor != "" {
		actor = &req.Actor
	}

	if err := b.UpdateRefund(booking.RefundStatus(req.RefundStatus), processedAt, actor, s.clock.Now()); err != nil {
		return booking.BookingResponse{}, err
	}
	return s.save(ctx, b, read)
}

// RunAutoCancellationSweep expires every pending hold older than the
// cancellation window. Running it again immediately cancels nothing.
func (s *BookingServiceImpl) RunAutoCancellationSweep(ctx context.Context) (booking.SweepResult, error) {
	start := time.Now()
	now := s.clock.Now()
	cutoff := now.Add(-booking.CancellationWindow)

	count, err := s.bookingRepo.CancelStalePending(ctx, cutoff, now, booking.AutoCancelReason)
	if err != nil {
		return booking.SweepResult{}, fmt.Errorf("auto-cancellation sweep: %w", err)
	}

	s.metrics.SweepCompleted(count, time.Since(start))
	if count > 0 {
		slog.Info("Auto-cancelled stale pending bookings", "count", count, "cutoff", cutoff)
	}
	return booking.SweepResult{CancelledCount: count}, nil
}

func (s *BookingServiceImpl) UploadTransferReceipt(ctx context.Context, req booking.UploadReceiptRequest, receipt io.Reader) (booking.BookingResponse, error) {
	if err := req.Validate(); err != nil {
		return booking.BookingResponse{}, err
	}

	b, err := s.bookingRepo.GetByID(ctx, req.ID)
	if err != nil {
		return booking.BookingResponse{}, err
	}
	read := b.Status
	if !req.IsAdmin && b.UserID != nil && *b.UserID != req.RequesterID {
		return booking.BookingResponse{}, booking.ErrForbidden
	}
	if b.PaymentMethod != booking.PaymentMethodBankTransfer {
		return booking.BookingResponse{}, booking.ErrNotBankTransfer
	}

	path, err := s.fileService.UploadTransferReceipt(ctx, b.ID, receipt, req.Filename)
	if err != nil {
		switch {
		case errors.Is(err, file.ErrUnsupportedFileType):
			return booking.BookingResponse{}, booking.ErrInvalidReceipt
		case errors.Is(err, file.ErrFileTooLarge):
			return booking.BookingResponse{}, booking.ErrReceiptTooLarge
		}
		return booking.BookingResponse{}, err
	}

	details := booking.BankTransferDetails{
		TransactionReference: req.TransactionReference,
		PayerName:            req.PayerName,
		PaymentDate:          req.PaymentDate,
		Amount:               req.Amount,
	}
	if err := b.AttachReceipt(details, path, s.clock.Now()); err != nil {
		_ = s.fileService.DeleteFile(ctx, path)
		return booking.BookingResponse{}, err
	}

	resp, err := s.save(ctx, b, read)
	if err != nil {
		_ = s.fileService.DeleteFile(ctx, path)
		return booking.BookingResponse{}, err
	}
	return resp, nil
}

func (s *BookingServiceImpl) OpenTransferReceipt(ctx context.Context, id int64) (io.ReadCloser, string, error) {
	b, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if b.BankTransfer == nil || b.BankTransfer.ReceiptPath == nil {
		return nil, "", booking.ErrReceiptNotFound
	}

	rc, err := s.fileService.OpenFile(ctx, *b.BankTransfer.ReceiptPath)
	if err != nil {
		if errors.Is(err, file.ErrFileNotFound) {
			return nil, "", booking.ErrReceiptNotFound
		}
		return nil, "", fmt.Errorf("open receipt for booking %d: %w", id, err)
	}
	return rc, path.Base(*b.BankTransfer.ReceiptPath), nil
}

func (s *BookingServiceImpl) ApproveTransfer(ctx context.Context, req booking.ReviewTransferRequest) (booking.BookingResponse, error) {
	b, err := s.bookingRepo.GetByID(ctx, req.ID)
	if err != nil {
		return booking.BookingResponse{}, err
	}
	read := b.Status
	if err := b.ApproveTransfer(s.clock.Now(), req.Actor); err != nil {
		return booking.BookingResponse{}, err
	}

	resp, err := s.save(ctx, b, read)
	if err != nil {
		return booking.BookingResponse{}, err
	}
	slog.Info("Bank transfer approved", "booking_id", b.ID, "approved_by", req.Actor)
	return resp, nil
}

func (s *BookingServiceImpl) RejectTransfer(ctx context.Context, req booking.ReviewTransferRequest) (booking.BookingResponse, error) {
	b, err := s.bookingRepo.GetByID(ctx, req.ID)
	if err != nil {
		return booking.BookingResponse{}, err
	}
	read := b.Status
	if err := b.RejectTransfer(s.clock.Now(), req.Actor, req.Reason); err != nil {
		return booking.BookingResponse{}, err
	}

	resp, err := s.save(ctx, b, read)
	if err != nil {
		return booking.BookingResponse{}, err
	}
	slog.Info("Bank transfer rejected", "booking_id", b.ID, "rejected_by", req.Actor)
	return resp, nil
}
