package response

import (
	"errors"
	"net/http"

	"github.com/busops/transit-backend-go/internal/domain/advance"
	"github.com/busops/transit-backend-go/internal/domain/auth"
	"github.com/busops/transit-backend-go/internal/domain/booking"
	"github.com/busops/transit-backend-go/internal/domain/budget"
	"github.com/busops/transit-backend-go/internal/domain/route"
	"github.com/busops/transit-backend-go/internal/domain/salary"
	"github.com/busops/transit-backend-go/internal/domain/staff"
	"github.com/busops/transit-backend-go/internal/domain/user"
	"github.com/busops/transit-backend-go/internal/pkg/validator"
	"github.com/busops/transit-backend-go/internal/service/file"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")
	case errors.Is(err, booking.ErrForbidden):
		Forbidden(w, err.Error())
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")

	// Not found
	case errors.Is(err, booking.ErrBookingNotFound),
		errors.Is(err, booking.ErrReceiptNotFound),
		errors.Is(err, booking.ErrRouteNotFound),
		errors.Is(err, route.ErrRouteNotFound),
		errors.Is(err, staff.ErrStaffNotFound),
		errors.Is(err, staff.ErrAttendanceNotFound),
		errors.Is(err, salary.ErrSalaryNotFound),
		errors.Is(err, advance.ErrAdvanceNotFound),
		errors.Is(err, budget.ErrBudgetNotFound),
		errors.Is(err, budget.ErrExpenseNotFound),
		errors.Is(err, user.ErrUserNotFound):
		NotFound(w, err.Error())

	// State conflicts carry the wrapped message naming the current state
	case errors.Is(err, booking.ErrBookingAlreadyCancelled),
		errors.Is(err, booking.ErrBookingNotCancelled),
		errors.Is(err, booking.ErrBookingAlreadyPaid),
		errors.Is(err, booking.ErrNotBankTransfer),
		errors.Is(err, booking.ErrInvalidTransition),
		errors.Is(err, booking.ErrCancellationWindowExpired),
		errors.Is(err, booking.ErrSeatsUnavailable),
		errors.Is(err, salary.ErrSalaryNotCalculated),
		errors.Is(err, advance.ErrInvalidTransition),
		errors.Is(err, advance.ErrAdvanceNotActive),
		errors.Is(err, staff.ErrNotCheckedIn),
		errors.Is(err, staff.ErrAlreadyCheckedOut),
		errors.Is(err, staff.ErrInvalidCheckOut):
		StateConflict(w, err.Error())

	// Business rules
	case errors.Is(err, advance.ErrAdvanceExceedsCap),
		errors.Is(err, advance.ErrNegativeAdvance),
		errors.Is(err, salary.ErrNegativeNetSalary),
		errors.Is(err, salary.ErrNegativeInput),
		errors.Is(err, salary.ErrInvalidBasicSalary):
		BusinessRuleViolation(w, err.Error())

	// Bad input that slipped past DTO validation
	case errors.Is(err, booking.ErrInvalidStatus),
		errors.Is(err, booking.ErrInvalidRefundStatus),
		errors.Is(err, booking.ErrInvalidReceipt),
		errors.Is(err, booking.ErrReceiptTooLarge),
		errors.Is(err, file.ErrUnsupportedFileType),
		errors.Is(err, file.ErrFileTooLarge),
		errors.Is(err, advance.ErrInvalidStatus),
		errors.Is(err, budget.ErrInvalidSource),
		errors.Is(err, budget.ErrFieldNotAllowed):
		BadRequest(w, err.Error(), nil)

	// Unique conflicts
	case errors.Is(err, salary.ErrSalaryAlreadyPaid),
		errors.Is(err, salary.ErrSalaryExists),
		errors.Is(err, staff.ErrStaffEmailExists),
		errors.Is(err, staff.ErrAttendanceExists),
		errors.Is(err, route.ErrRouteNumberExists),
		errors.Is(err, budget.ErrBudgetDateExists):
		Conflict(w, err.Error())

	case errors.Is(err, salary.ErrSlipDeliveryFailed):
		SlipDeliveryFailed(w, err.Error())

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred", err)
	}
}
