package booking

import (
	"context"
	"io"
)

type BookingService interface {
	CreateBooking(ctx context.Context, req CreateBookingRequest) (BookingResponse, error)
	GetBookedSeats(ctx context.Context, req BookedSeatsRequest) (BookedSeatsResponse, error)
	GetBooking(ctx context.Context, id int64) (BookingResponse, error)
	ListBookings(ctx context.Context, filter BookingFilter) (ListBookingResponse, error)
	UpdateBooking(ctx context.Context, req UpdateBookingRequest) (BookingResponse, error)
	ConfirmPayment(ctx context.Context, id int64) (BookingResponse, error)
	CancelBooking(ctx context.Context, req CancelBookingRequest) (BookingResponse, error)
	UpdateRefundStatus(ctx context.Context, req UpdateRefundStatusRequest) (BookingResponse, error)
	RunAutoCancellationSweep(ctx context.Context) (SweepResult, error)
	UploadTransferReceipt(ctx context.Context, req UploadReceiptRequest, file io.Reader) (BookingResponse, error)
	ApproveTransfer(ctx context.Context, req ReviewTransferRequest) (BookingResponse, error)
	RejectTransfer(ctx context.Context, req ReviewTransferRequest) (BookingResponse, error)
	// OpenTransferReceipt returns the stored receipt and its file name.
	OpenTransferReceipt(ctx context.Context, id int64) (io.ReadCloser, string, error)
}
