package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Transitions(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusPaid, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusRejected, true},
		{StatusPendingVerification, StatusPaid, true},
		{StatusPendingVerification, StatusRejected, true},
		{StatusPaid, StatusCancelled, true},
		{StatusPaid, StatusPending, false},
		{StatusPaid, StatusRejected, false},
		{StatusCancelled, StatusPaid, false},
		{StatusCancelled, StatusPending, false},
		{StatusRejected, StatusPaid, false},
		{StatusRejected, StatusCancelled, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("pending_verification")
	require.NoError(t, err)
	assert.Equal(t, StatusPendingVerification, st)

	_, err = ParseStatus("refunded")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestStatus_HoldsSeats(t *testing.T) {
	for _, st := range SeatHoldingStatuses {
		assert.True(t, st.HoldsSeats(), st)
	}
	assert.False(t, StatusCancelled.HoldsSeats())
	assert.False(t, StatusRejected.HoldsSeats())
}

func TestBooking_Cancel(t *testing.T) {
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	account := RefundAccount{BankName: "HNB", AccountNumber: "1234", AccountHolder: "A Perera"}

	b := Booking{Status: StatusPaid, CreatedAt: created}
	require.NoError(t, b.Cancel(created.Add(CancellationWindow), account, "sick"))
	assert.Equal(t, StatusCancelled, b.Status)
	assert.Equal(t, RefundStatusPending, *b.Cancellation.RefundStatus)
	assert.Equal(t, "1234", *b.Cancellation.RefundAccountNo)

	late := Booking{Status: StatusPending, CreatedAt: created}
	err := late.Cancel(created.Add(CancellationWindow+time.Second), account, "late")
	assert.ErrorIs(t, err, ErrCancellationWindowExpired)
	assert.Equal(t, StatusPending, late.Status)
	assert.Nil(t, late.Cancellation)

	rejected := Booking{Status: StatusRejected, CreatedAt: created}
	assert.ErrorIs(t, rejected.Cancel(created, account, "x"), ErrInvalidTransition)
}

func TestBooking_ExpireHold(t *testing.T) {
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	b := Booking{Status: StatusPending, CreatedAt: created}
	assert.False(t, b.ExpireHold(created.Add(59*time.Minute)))
	assert.True(t, b.ExpireHold(created.Add(time.Hour)))
	assert.Equal(t, StatusCancelled, b.Status)
	assert.Equal(t, AutoCancelReason, b.Cancellation.Reason)
	assert.Nil(t, b.Cancellation.RefundStatus)

	// Already cancelled, nothing to expire.
	assert.False(t, b.ExpireHold(created.Add(2*time.Hour)))

	verifying := Booking{Status: StatusPendingVerification, CreatedAt: created}
	assert.False(t, verifying.ExpireHold(created.Add(5*time.Hour)))
}

func TestBooking_UpdateRefund(t *testing.T) {
	now := time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)
	actor := "admin"

	b := Booking{Status: StatusPaid}
	assert.ErrorIs(t, b.UpdateRefund(RefundStatusProcessed, nil, &actor, now), ErrBookingNotCancelled)

	pending := RefundStatusPending
	b.Status = StatusCancelled
	b.Cancellation = &CancellationDetails{RefundStatus: &pending}

	require.NoError(t, b.UpdateRefund(RefundStatusFailed, nil, &actor, now))
	assert.Equal(t, RefundStatusFailed, *b.Cancellation.RefundStatus)
	assert.Equal(t, now, *b.Cancellation.RefundProcessedAt)

	require.NoError(t, b.UpdateRefund(RefundStatusPending, nil, &actor, now))
	assert.Nil(t, b.Cancellation.RefundProcessedAt)
	assert.Nil(t, b.Cancellation.RefundProcessedBy)

	assert.ErrorIs(t, b.UpdateRefund("lost", nil, &actor, now), ErrInvalidRefundStatus)
}

func TestBooking_TransferReview(t *testing.T) {
	now := time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)

	card := Booking{Status: StatusPending, PaymentMethod: PaymentMethodCard}
	assert.ErrorIs(t, card.ApproveTransfer(now, "a"), ErrNotBankTransfer)
	assert.ErrorIs(t, card.RejectTransfer(now, "a", ""), ErrNotBankTransfer)

	b := Booking{Status: StatusPendingVerification, PaymentMethod: PaymentMethodBankTransfer}
	require.NoError(t, b.RejectTransfer(now, "a", ""))
	assert.Equal(t, StatusRejected, b.Status)
	assert.Equal(t, DefaultRejectedReason, *b.BankTransfer.RejectionReason)
	assert.ErrorIs(t, b.ApproveTransfer(now, "a"), ErrInvalidTransition)

	paid := Booking{Status: StatusPaid, PaymentMethod: PaymentMethodBankTransfer}
	assert.ErrorIs(t, paid.ApproveTransfer(now, "a"), ErrBookingAlreadyPaid)
}

func TestBooking_AttachReceipt(t *testing.T) {
	now := time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)
	ref := "TX-1"

	b := Booking{Status: StatusPending, PaymentMethod: PaymentMethodBankTransfer}
	require.NoError(t, b.AttachReceipt(BankTransferDetails{TransactionReference: &ref}, "receipts/1/a.pdf", now))
	assert.Equal(t, StatusPendingVerification, b.Status)
	assert.Equal(t, "receipts/1/a.pdf", *b.BankTransfer.ReceiptPath)
	assert.Equal(t, "TX-1", *b.BankTransfer.TransactionReference)

	cancelled := Booking{Status: StatusCancelled, PaymentMethod: PaymentMethodBankTransfer}
	assert.ErrorIs(t, cancelled.AttachReceipt(BankTransferDetails{}, "p", now), ErrInvalidTransition)
}
