package staff

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Staff struct {
	ID             string
	Name           string
	Email          string
	ContactNumber  string
	Role           string
	AssignedBus    *string
	BasicSalary    decimal.Decimal
	Allowances     decimal.Decimal
	Bonus          decimal.Decimal
	Reimbursements decimal.Decimal
	SalaryAdvance  decimal.Decimal
	Loan           decimal.Decimal
	OTHours        decimal.Decimal
	// Shift boundaries as minutes since midnight.
	ShiftStart int
	ShiftEnd   int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "Present"
	AttendanceAbsent  AttendanceStatus = "Absent"
	AttendanceLeave   AttendanceStatus = "Leave"
)

func (s AttendanceStatus) Valid() bool {
	return s == AttendancePresent || s == AttendanceAbsent || s == AttendanceLeave
}

type LeaveType string

const (
	LeaveAnnual LeaveType = "Annual"
	LeaveSick   LeaveType = "Sick"
	LeaveCasual LeaveType = "Casual"
	LeaveNoPay  LeaveType = "NoPay"
)

func (l LeaveType) Valid() bool {
	return l == LeaveAnnual || l == LeaveSick || l == LeaveCasual || l == LeaveNoPay
}

// Attendance is one staff member's record for one calendar day.
type Attendance struct {
	ID            string
	StaffID       string
	Date          string
	Status        AttendanceStatus
	LeaveType     *LeaveType
	CheckIn       *time.Time
	CheckOut      *time.Time
	WorkedMinutes int
	OTMinutes     int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsNoPay reports whether the day is unpaid: absent, or on no-pay leave.
func (a Attendance) IsNoPay() bool {
	if a.Status == AttendanceAbsent {
		return true
	}
	return a.Status == AttendanceLeave && a.LeaveType != nil && *a.LeaveType == LeaveNoPay
}

// CompleteCheckOut closes an open check-in. Overtime is whatever falls past
// the staff member's shift end on the check-out day, never negative.
func (a *Attendance) CompleteCheckOut(at time.Time, shiftEnd int) error {
	if a.CheckIn == nil {
		return ErrNotCheckedIn
	}
	if a.CheckOut != nil {
		return ErrAlreadyCheckedOut
	}
	if at.Before(*a.CheckIn) {
		return fmt.Errorf("%w: check-out precedes check-in", ErrInvalidCheckOut)
	}

	a.CheckOut = &at
	a.WorkedMinutes = int(at.Sub(*a.CheckIn) / time.Minute)

	minuteOfDay := at.Hour()*60 + at.Minute()
	a.OTMinutes = max(0, minuteOfDay-shiftEnd)
	return nil
}

// OTHoursFromMinutes converts overtime minutes to hours at two decimals.
func OTHoursFromMinutes(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(60)).Round(2)
}

// FormatMinuteOfDay renders 510 as "08:30".
func FormatMinuteOfDay(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
