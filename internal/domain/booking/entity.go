package booking

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CancellationWindow is how long after checkout an owner may still cancel,
// and how long a pending hold survives before the sweep expires it.
const CancellationWindow = time.Hour

const (
	AutoCancelReason      = "Automatically cancelled: payment not completed within 1 hour"
	DefaultRejectedReason = "Payment could not be verified"
)

// Status is the booking lifecycle state. Values outside the declared
// constants are rejected by ParseStatus; transitions go through Booking methods.
type Status string

const (
	StatusPending             Status = "pending"
	StatusPendingVerification Status = "pending_verification"
	StatusPaid                Status = "paid"
	StatusRejected            Status = "rejected"
	StatusCancelled           Status = "cancelled"
)

var allowedTransitions = map[Status][]Status{
	StatusPending:             {StatusPaid, StatusCancelled, StatusRejected},
	StatusPendingVerification: {StatusPaid, StatusCancelled, StatusRejected},
	StatusPaid:                {StatusCancelled},
	StatusRejected:            {},
	StatusCancelled:           {},
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := allowedTransitions[st]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// HoldsSeats reports whether a booking in this state blocks its seats.
func (s Status) HoldsSeats() bool {
	return s == StatusPending || s == StatusPendingVerification || s == StatusPaid
}

// SeatHoldingStatuses lists the three availability tiers.
var SeatHoldingStatuses = []Status{StatusPaid, StatusPending, StatusPendingVerification}

type PaymentMethod string

const (
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodCard || m == PaymentMethodBankTransfer
}

type RefundStatus string

const (
	RefundStatusPending   RefundStatus = "pending"
	RefundStatusProcessed RefundStatus = "processed"
	RefundStatusFailed    RefundStatus = "failed"
)

func (r RefundStatus) Valid() bool {
	return r == RefundStatusPending || r == RefundStatusProcessed || r == RefundStatusFailed
}

type Booking struct {
	ID            int64
	RouteID       string
	RouteNumber   string
	RouteName     string
	UserID        *string
	PassengerName string
	MobileNumber  string
	Email         *string
	SeatNumbers   []int
	BoardingPoint string
	DropoffPoint  string
	Gender        string
	JourneyDate   string
	TotalFare     decimal.Decimal
	Status        Status
	PaymentMethod PaymentMethod
	BankTransfer  *BankTransferDetails
	Cancellation  *CancellationDetails
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type BankTransferDetails struct {
	TransactionReference *string          `json:"transaction_reference,omitempty"`
	PayerName            *string          `json:"payer_name,omitempty"`
	PaymentDate          *string          `json:"payment_date,omitempty"`
	Amount               *decimal.Decimal `json:"amount,omitempty"`
	ReceiptPath          *string          `json:"receipt_path,omitempty"`
	UploadedAt           *time.Time       `json:"uploaded_at,omitempty"`
	ApprovedAt           *time.Time       `json:"approved_at,omitempty"`
	ApprovedBy           *string          `json:"approved_by,omitempty"`
	RejectedAt           *time.Time       `json:"rejected_at,omitempty"`
	RejectedBy           *string          `json:"rejected_by,omitempty"`
	RejectionReason      *string          `json:"rejection_reason,omitempty"`
}

// CancellationDetails is kept as a nil-able shell for sweep cancellations,
// where no payment was captured and the refund fields stay empty.
type CancellationDetails struct {
	CancelledAt       time.Time     `json:"cancelled_at"`
	Reason            string        `json:"reason"`
	RefundBankName    *string       `json:"refund_bank_name"`
	RefundAccountNo   *string       `json:"refund_account_number"`
	RefundAccountName *string       `json:"refund_account_holder"`
	RefundStatus      *RefundStatus `json:"refund_status"`
	RefundProcessedAt *time.Time    `json:"refund_processed_at,omitempty"`
	RefundProcessedBy *string       `json:"refund_processed_by,omitempty"`
}

// RefundAccount carries the bank details a cancelling owner supplies.
type RefundAccount struct {
	BankName      string
	AccountNumber string
	AccountHolder string
}

func (b *Booking) transition(next Status) error {
	if !b.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: cannot move booking from %s to %s", ErrInvalidTransition, b.Status, next)
	}
	b.Status = next
	return nil
}

// ConfirmPayment marks a card-intent hold as paid.
func (b *Booking) ConfirmPayment() error {
	if b.Status == StatusPaid {
		return ErrBookingAlreadyPaid
	}
	if b.Status != StatusPending {
		return fmt.Errorf("%w: booking is %s", ErrInvalidTransition, b.Status)
	}
	return b.transition(StatusPaid)
}

// Cancel applies an owner cancellation. It is only allowed within
// CancellationWindow of creation and never twice.
func (b *Booking) Cancel(now time.Time, account RefundAccount, reason string) error {
	if now.Sub(b.CreatedAt) > CancellationWindow {
		return ErrCancellationWindowExpired
	}
	if b.Status == StatusCancelled {
		return ErrBookingAlreadyCancelled
	}
	if err := b.transition(StatusCancelled); err != nil {
		return err
	}

	pending := RefundStatusPending
	b.Cancellation = &CancellationDetails{
		CancelledAt:       now,
		Reason:            reason,
		RefundBankName:    &account.BankName,
		RefundAccountNo:   &account.AccountNumber,
		RefundAccountName: &account.AccountHolder,
		RefundStatus:      &pending,
	}
	return nil
}

// ExpireHold cancels a pending booking whose hold outlived the window.
// The bulk sweep applies the same rule in a single UPDATE.
func (b *Booking) ExpireHold(now time.Time) bool {
	if b.Status != StatusPending || b.CreatedAt.After(now.Add(-CancellationWindow)) {
		return false
	}
	b.Status = StatusCancelled
	b.Cancellation = &CancellationDetails{CancelledAt: now, Reason: AutoCancelReason}
	return true
}

// UpdateRefund progresses the refund sub-state of a cancelled booking.
func (b *Booking) UpdateRefund(status RefundStatus, processedAt *time.Time, actor *string, now time.Time) error {
	if b.Cancellation == nil {
		return ErrBookingNotCancelled
	}
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRefundStatus, status)
	}
	b.Cancellation.RefundStatus = &status
	if status == RefundStatusPending {
		b.Cancellation.RefundProcessedAt = nil
		b.Cancellation.RefundProcessedBy = nil
		return nil
	}
	if processedAt == nil {
		processedAt = &now
	}
	b.Cancellation.RefundProcessedAt = processedAt
	b.Cancellation.RefundProcessedBy = actor
	return nil
}

// ApproveTransfer settles a bank-transfer booking after manual review.
func (b *Booking) ApproveTransfer(now time.Time, actor string) error {
	if b.PaymentMethod != PaymentMethodBankTransfer {
		return ErrNotBankTransfer
	}
	if b.Status == StatusPaid {
		return ErrBookingAlreadyPaid
	}
	if err := b.transition(StatusPaid); err != nil {
		return err
	}
	if b.BankTransfer == nil {
		b.BankTransfer = &BankTransferDetails{}
	}
	b.BankTransfer.ApprovedAt = &now
	b.BankTransfer.ApprovedBy = &actor
	return nil
}

// RejectTransfer refuses a bank-transfer booking. An empty reason falls back
// to DefaultRejectedReason.
func (b *Booking) RejectTransfer(now time.Time, actor, reason string) error {
	if b.PaymentMethod != PaymentMethodBankTransfer {
		return ErrNotBankTransfer
	}
	if err := b.transition(StatusRejected); err != nil {
		return err
	}
	if reason == "" {
		reason = DefaultRejectedReason
	}
	if b.BankTransfer == nil {
		b.BankTransfer = &BankTransferDetails{}
	}
	b.BankTransfer.RejectedAt = &now
	b.BankTransfer.RejectedBy = &actor
	b.BankTransfer.RejectionReason = &reason
	return nil
}

// AttachReceipt records an uploaded transfer receipt. Only open
// bank-transfer bookings accept receipts.
func (b *Booking) AttachReceipt(details BankTransferDetails, path string, now time.Time) error {
	if b.PaymentMethod != PaymentMethodBankTransfer {
		return ErrNotBankTransfer
	}
	if b.Status != StatusPending && b.Status != StatusPendingVerification {
		return fmt.Errorf("%w: booking is %s", ErrInvalidTransition, b.Status)
	}
	if b.BankTransfer == nil {
		b.BankTransfer = &BankTransferDetails{}
	}
	b.BankTransfer.TransactionReference = details.TransactionReference
	b.BankTransfer.PayerName = details.PayerName
	b.BankTransfer.PaymentDate = details.PaymentDate
	b.BankTransfer.Amount = details.Amount
	b.BankTransfer.ReceiptPath = &path
	b.BankTransfer.UploadedAt = &now
	if b.Status == StatusPending {
		b.Status = StatusPendingVerification
	}
	return nil
}
