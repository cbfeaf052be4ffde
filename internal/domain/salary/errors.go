package salary

import "errors"

var (
	ErrSalaryNotFound      = errors.New("salary record not found")
	ErrSalaryExists        = errors.New("a salary record already exists for this staff member and month")
	ErrSalaryAlreadyPaid   = errors.New("salary has already been paid and cannot be recalculated")
	ErrSalaryNotCalculated = errors.New("salary slip can only be sent for a calculated salary")
	ErrSlipDeliveryFailed  = errors.New("failed to deliver salary slip")

	// Calculation rules, one per rejection reason.
	ErrInvalidBasicSalary = errors.New("basic salary must be greater than zero")
	ErrNegativeInput      = errors.New("salary inputs cannot be negative")
	ErrNegativeNetSalary  = errors.New("net salary cannot be negative")
)
