package booking

import "errors"

var (
	ErrBookingNotFound           = errors.New("booking not found")
	ErrRouteNotFound             = errors.New("route not found")
	ErrSeatsUnavailable          = errors.New("one or more seats are already held for this route and date")
	ErrCancellationWindowExpired = errors.New("booking can only be cancelled within 1 hour of creation")
	ErrBookingAlreadyCancelled   = errors.New("booking is already cancelled")
	ErrBookingNotCancelled       = errors.New("booking has not been cancelled")
	ErrBookingAlreadyPaid        = errors.New("booking is already paid")
	ErrNotBankTransfer           = errors.New("booking is not a bank transfer booking")
	ErrInvalidTransition         = errors.New("invalid booking status transition")
	ErrInvalidStatus             = errors.New("invalid booking status")
	ErrInvalidRefundStatus       = errors.New("invalid refund status")
	ErrInvalidReceipt            = errors.New("receipt must be a jpg, png or pdf file")
	ErrReceiptTooLarge           = errors.New("receipt exceeds the maximum upload size")
	ErrForbidden                 = errors.New("booking belongs to another user")
	ErrReceiptNotFound           = errors.New("booking has no transfer receipt")
)
