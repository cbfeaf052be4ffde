package staff

import "errors"

var (
	ErrStaffNotFound      = errors.New("staff not found")
	ErrStaffEmailExists   = errors.New("staff email already exists")
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrAttendanceExists   = errors.New("attendance already recorded for this date")
	ErrNotCheckedIn       = errors.New("staff has not checked in today")
	ErrAlreadyCheckedOut  = errors.New("staff has already checked out today")
	ErrInvalidCheckOut    = errors.New("invalid check-out")
)
