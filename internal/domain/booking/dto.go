package booking

import (
	"time"

	"github.com/busops/transit-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

var allowedGenders = []string{"male", "female", "other"}

type CreateBookingRequest struct {
	RouteID       string          `json:"route_id"`
	UserID        *string         `json:"-"`
	PassengerName string          `json:"passenger_name"`
	MobileNumber  string          `json:"mobile_number"`
	Email         *string         `json:"email,omitempty"`
	SeatNumbers   []int           `json:"seat_numbers"`
	BoardingPoint string          `json:"boarding_point"`
	DropoffPoint  string          `json:"dropoff_point"`
	Gender        string          `json:"gender"`
	JourneyDate   string          `json:"journey_date"`
	TotalFare     decimal.Decimal `json:"total_fare"`
	Status        *string         `json:"status,omitempty"`
	PaymentMethod *string         `json:"payment_method,omitempty"`
}

func (r *CreateBookingRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RouteID) {
		errs.Add("route_id", "is required")
	}
	validatePassenger(&errs, r.PassengerName, r.MobileNumber, r.Email)
	validateSeats(&errs, r.SeatNumbers)
	if validator.IsEmpty(r.BoardingPoint) {
		errs.Add("boarding_point", "is required")
	}
	if validator.IsEmpty(r.DropoffPoint) {
		errs.Add("dropoff_point", "is required")
	}
	if !validator.IsInSlice(r.Gender, allowedGenders) {
		errs.Add("gender", "must be 'male', 'female' or 'other'")
	}
	if _, ok := validator.IsValidDate(r.JourneyDate); !ok {
		errs.Add("journey_date", "must be in YYYY-MM-DD format")
	}
	if !r.TotalFare.IsPositive() {
		errs.Add("total_fare", "must be greater than zero")
	}
	if r.PaymentMethod != nil && !PaymentMethod(*r.PaymentMethod).Valid() {
		errs.Add("payment_method", "must be 'card' or 'bank_transfer'")
	}
	if r.Status != nil {
		st := Status(*r.Status)
		if st != StatusPending && st != StatusPendingVerification && st != StatusPaid {
			errs.Add("status", "must be 'pending', 'pending_verification' or 'paid'")
		}
	}

	return errs.Err()
}

func validatePassenger(errs *validator.ValidationErrors, name, mobile string, email *string) {
	if validator.IsEmpty(name) {
		errs.Add("passenger_name", "is required")
	} else if !validator.IsValidPersonName(name) {
		errs.Add("passenger_name", "must contain only letters and spaces")
	}
	if !validator.IsValidMobile(mobile) {
		errs.Add("mobile_number", "must be exactly 10 digits")
	}
	if email != nil && *email != "" && !validator.IsValidEmail(*email) {
		errs.Add("email", "invalid email format")
	}
}

func validateSeats(errs *validator.ValidationErrors, seats []int) {
	if len(seats) == 0 {
		errs.Add("seat_numbers", "at least one seat is required")
		return
	}
	seen := make(map[int]struct{}, len(seats))
	for _, seat := range seats {
		if seat <= 0 {
			errs.Add("seat_numbers", "seat numbers must be positive")
			return
		}
		if _, dup := seen[seat]; dup {
			errs.Add("seat_numbers", "seat numbers must be unique")
			return
		}
		seen[seat] = struct{}{}
	}
}

// UpdateBookingRequest edits descriptive fields. Status is deliberately
// absent; it only moves through the lifecycle operations.
type UpdateBookingRequest struct {
	ID            int64            `json:"-"`
	PassengerName *string          `json:"passenger_name,omitempty"`
	MobileNumber  *string          `json:"mobile_number,omitempty"`
	Email         *string          `json:"email,omitempty"`
	SeatNumbers   []int            `json:"seat_numbers,omitempty"`
	BoardingPoint *string          `json:"boarding_point,omitempty"`
	DropoffPoint  *string          `json:"dropoff_point,omitempty"`
	Gender        *string          `json:"gender,omitempty"`
	JourneyDate   *string          `json:"journey_date,omitempty"`
	TotalFare     *decimal.Decimal `json:"total_fare,omitempty"`
}

func (r *UpdateBookingRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.PassengerName != nil && !validator.IsValidPersonName(*r.PassengerName) {
		errs.Add("passenger_name", "must contain only letters and spaces")
	}
	if r.MobileNumber != nil && !validator.IsValidMobile(*r.MobileNumber) {
		errs.Add("mobile_number", "must be exactly 10 digits")
	}
	if r.Email != nil && *r.Email != "" && !validator.IsValidEmail(*r.Email) {
		errs.Add("email", "invalid email format")
	}
	if r.SeatNumbers != nil {
		validateSeats(&errs, r.SeatNumbers)
	}
	if r.BoardingPoint != nil && validator.IsEmpty(*r.BoardingPoint) {
		errs.Add("boarding_point", "cannot be empty")
	}
	if r.DropoffPoint != nil && validator.IsEmpty(*r.DropoffPoint) {
		errs.Add("dropoff_point", "cannot be empty")
	}
	if r.Gender != nil && !validator.IsInSlice(*r.Gender, allowedGenders) {
		errs.Add("gender", "must be 'male', 'female' or 'other'")
	}
	if r.JourneyDate != nil {
		if _, ok := validator.IsValidDate(*r.JourneyDate); !ok {
			errs.Add("journey_date", "must be in YYYY-MM-DD format")
		}
	}
	if r.TotalFare != nil && !r.TotalFare.IsPositive() {
		errs.Add("total_fare", "must be greater than zero")
	}

	return errs.Err()
}

type CancelBookingRequest struct {
	ID            int64  `json:"-"`
	RequesterID   string `json:"-"`
	IsAdmin       bool   `json:"-"`
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	AccountHolder string `json:"account_holder"`
	Reason        string `json:"reason"`
}

func (r *CancelBookingRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.BankName) {
		errs.Add("bank_name", "is required")
	}
	if validator.IsEmpty(r.AccountNumber) {
		errs.Add("account_number", "is required")
	} else if !validator.IsNumeric(r.AccountNumber) {
		errs.Add("account_number", "must contain only digits")
	}
	if validator.IsEmpty(r.AccountHolder) {
		errs.Add("account_holder", "is required")
	}
	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "is required")
	}

	return errs.Err()
}

type UpdateRefundStatusRequest struct {
	ID           int64   `json:"-"`
	Actor        string  `json:"-"`
	RefundStatus string  `json:"refund_status"`
	ProcessedAt  *string `json:"processed_at,omitempty"`
}

func (r *UpdateRefundStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if !RefundStatus(r.RefundStatus).Valid() {
		errs.Add("refund_status", "must be 'pending', 'processed' or 'failed'")
	}
	if r.ProcessedAt != nil {
		if _, ok := validator.IsValidDateTime(*r.ProcessedAt); !ok {
			errs.Add("processed_at", "must be an RFC3339 timestamp")
		}
	}

	return errs.Err()
}

type ReviewTransferRequest struct {
	ID     int64  `json:"-"`
	Actor  string `json:"-"`
	Reason string `json:"reason,omitempty"`
}

type UploadReceiptRequest struct {
	ID                   int64            `json:"-"`
	RequesterID          string           `json:"-"`
	IsAdmin              bool             `json:"-"`
	TransactionReference *string          `json:"transaction_reference,omitempty"`
	PayerName            *string          `json:"payer_name,omitempty"`
	PaymentDate          *string          `json:"payment_date,omitempty"`
	Amount               *decimal.Decimal `json:"amount,omitempty"`
	Filename             string           `json:"-"`
	Size                 int64            `json:"-"`
}

func (r *UploadReceiptRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.PaymentDate != nil {
		if _, ok := validator.IsValidDate(*r.PaymentDate); !ok {
			errs.Add("payment_date", "must be in YYYY-MM-DD format")
		}
	}
	if r.Amount != nil && !r.Amount.IsPositive() {
		errs.Add("amount", "must be greater than zero")
	}
	if validator.IsEmpty(r.Filename) {
		errs.Add("receipt", "is required")
	}

	return errs.Err()
}

type BookedSeatsRequest struct {
	Route       string
	JourneyDate string
}

func (r *BookedSeatsRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Route) {
		errs.Add("route", "is required")
	}
	if _, ok := validator.IsValidDate(r.JourneyDate); !ok {
		errs.Add("date", "must be in YYYY-MM-DD format")
	}

	return errs.Err()
}

type BookedSeatsResponse struct {
	RouteID             string `json:"route_id"`
	RouteNumber         string `json:"route_number"`
	JourneyDate         string `json:"journey_date"`
	Paid                []int  `json:"paid"`
	Pending             []int  `json:"pending"`
	PendingVerification []int  `json:"pending_verification"`
}

// SeatHold is one booking's claim on seats, as read for the tier query.
type SeatHold struct {
	Status      Status
	SeatNumbers []int
}

type BookingFilter struct {
	UserID      *string
	Status      *string
	RouteID     *string
	JourneyDate *string
	Page        int
	Limit       int
}

func (f *BookingFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
}

type BookingResponse struct {
	ID            int64                `json:"id"`
	RouteID       string               `json:"route_id"`
	RouteNumber   string               `json:"route_number"`
	RouteName     string               `json:"route_name"`
	UserID        *string              `json:"user_id,omitempty"`
	PassengerName string               `json:"passenger_name"`
	MobileNumber  string               `json:"mobile_number"`
	Email         *string              `json:"email,omitempty"`
	SeatNumbers   []int                `json:"seat_numbers"`
	BoardingPoint string               `json:"boarding_point"`
	DropoffPoint  string               `json:"dropoff_point"`
	Gender        string               `json:"gender"`
	JourneyDate   string               `json:"journey_date"`
	TotalFare     decimal.Decimal      `json:"total_fare"`
	Status        Status               `json:"status"`
	PaymentMethod PaymentMethod        `json:"payment_method"`
	BankTransfer  *BankTransferDetails `json:"bank_transfer_details,omitempty"`
	Cancellation  *CancellationDetails `json:"cancellation_details,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

func ToResponse(b Booking) BookingResponse {
	return BookingResponse{
		ID:            b.ID,
		RouteID:       b.RouteID,
		RouteNumber:   b.RouteNumber,
		RouteName:     b.RouteName,
		UserID:        b.UserID,
		PassengerName: b.PassengerName,
		MobileNumber:  b.MobileNumber,
		Email:         b.Email,
		SeatNumbers:   b.SeatNumbers,
		BoardingPoint: b.BoardingPoint,
		DropoffPoint:  b.DropoffPoint,
		Gender:        b.Gender,
		JourneyDate:   b.JourneyDate,
		TotalFare:     b.TotalFare,
		Status:        b.Status,
		PaymentMethod: b.PaymentMethod,
		BankTransfer:  b.BankTransfer,
		Cancellation:  b.Cancellation,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

type ListBookingResponse struct {
	Bookings   []BookingResponse `json:"bookings"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

type SweepResult struct {
	CancelledCount int64 `json:"cancelled_count"`
}
