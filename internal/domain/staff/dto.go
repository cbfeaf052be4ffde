package staff

import (
	"regexp"
	"strconv"
	"time"

	"github.com/busops/transit-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

var shiftTimeRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ParseMinuteOfDay converts "HH:MM" into minutes since midnight.
func ParseMinuteOfDay(s string) (int, bool) {
	if !shiftTimeRegex.MatchString(s) {
		return 0, false
	}
	h, _ := strconv.Atoi(s[:2])
	m, _ := strconv.Atoi(s[3:])
	return h*60 + m, true
}

type CreateStaffRequest struct {
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	ContactNumber  string          `json:"contact_number"`
	Role           string          `json:"role"`
	AssignedBus    *string         `json:"assigned_bus,omitempty"`
	BasicSalary    decimal.Decimal `json:"basic_salary"`
	Allowances     decimal.Decimal `json:"allowances"`
	Bonus          decimal.Decimal `json:"bonus"`
	Reimbursements decimal.Decimal `json:"reimbursements"`
	SalaryAdvance  decimal.Decimal `json:"salary_advance"`
	Loan           decimal.Decimal `json:"loan"`
	ShiftStart     string          `json:"shift_start"`
	ShiftEnd       string          `json:"shift_end"`
}

func (r *CreateStaffRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "is required")
	} else if !validator.IsValidPersonName(r.Name) {
		errs.Add("name", "must contain only letters and spaces")
	}
	if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "invalid email format")
	}
	if !validator.IsValidMobile(r.ContactNumber) {
		errs.Add("contact_number", "must be exactly 10 digits")
	}
	if validator.IsEmpty(r.Role) {
		errs.Add("role", "is required")
	}
	if !r.BasicSalary.IsPositive() {
		errs.Add("basic_salary", "must be greater than zero")
	}
	validateMoney(&errs, map[string]decimal.Decimal{
		"allowances":     r.Allowances,
		"bonus":          r.Bonus,
		"reimbursements": r.Reimbursements,
		"salary_advance": r.SalaryAdvance,
		"loan":           r.Loan,
	})
	validateShift(&errs, r.ShiftStart, r.ShiftEnd)

	return errs.Err()
}

func validateMoney(errs *validator.ValidationErrors, fields map[string]decimal.Decimal) {
	for name, v := range fields {
		if v.IsNegative() {
			errs.Add(name, "cannot be negative")
		}
	}
}

func validateShift(errs *validator.ValidationErrors, start, end string) {
	s, okStart := ParseMinuteOfDay(start)
	if !okStart {
		errs.Add("shift_start", "must be in HH:MM format")
	}
	e, okEnd := ParseMinuteOfDay(end)
	if !okEnd {
		errs.Add("shift_end", "must be in HH:MM format")
	}
	if okStart && okEnd && e <= s {
		errs.Add("shift_end", "must be after shift_start")
	}
}

type UpdateStaffRequest struct {
	ID             string           `json:"-"`
	Name           *string          `json:"name,omitempty"`
	Email          *string          `json:"email,omitempty"`
	ContactNumber  *string          `json:"contact_number,omitempty"`
	Role           *string          `json:"role,omitempty"`
	AssignedBus    *string          `json:"assigned_bus,omitempty"`
	BasicSalary    *decimal.Decimal `json:"basic_salary,omitempty"`
	Allowances     *decimal.Decimal `json:"allowances,omitempty"`
	Bonus          *decimal.Decimal `json:"bonus,omitempty"`
	Reimbursements *decimal.Decimal `json:"reimbursements,omitempty"`
	SalaryAdvance  *decimal.Decimal `json:"salary_advance,omitempty"`
	Loan           *decimal.Decimal `json:"loan,omitempty"`
	ShiftStart     *string          `json:"shift_start,omitempty"`
	ShiftEnd       *string          `json:"shift_end,omitempty"`
}

// Apply validates the request against s and returns the edited copy.
func (r *UpdateStaffRequest) Apply(s Staff) (Staff, error) {
	var errs validator.ValidationErrors

	if r.Name != nil {
		if !validator.IsValidPersonName(*r.Name) {
			errs.Add("name", "must contain only letters and spaces")
		}
		s.Name = *r.Name
	}
	if r.Email != nil {
		if !validator.IsValidEmail(*r.Email) {
			errs.Add("email", "invalid email format")
		}
		s.Email = *r.Email
	}
	if r.ContactNumber != nil {
		if !validator.IsValidMobile(*r.ContactNumber) {
			errs.Add("contact_number", "must be exactly 10 digits")
		}
		s.ContactNumber = *r.ContactNumber
	}
	if r.Role != nil {
		if validator.IsEmpty(*r.Role) {
			errs.Add("role", "cannot be empty")
		}
		s.Role = *r.Role
	}
	if r.AssignedBus != nil {
		s.AssignedBus = r.AssignedBus
		if *r.AssignedBus == "" {
			s.AssignedBus = nil
		}
	}
	if r.BasicSalary != nil {
		if !r.BasicSalary.IsPositive() {
			errs.Add("basic_salary", "must be greater than zero")
		}
		s.BasicSalary = *r.BasicSalary
	}
	money := map[string]*decimal.Decimal{}
	set := func(name string, src *decimal.Decimal, dst *decimal.Decimal) {
		if src != nil {
			money[name] = src
			*dst = *src
		}
	}
	set("allowances", r.Allowances, &s.Allowances)
	set("bonus", r.Bonus, &s.Bonus)
	set("reimbursements", r.Reimbursements, &s.Reimbursements)
	set("salary_advance", r.SalaryAdvance, &s.SalaryAdvance)
	set("loan", r.Loan, &s.Loan)
	for name, v := range money {
		if v.IsNegative() {
			errs.Add(name, "cannot be negative")
		}
	}

	start, end := FormatMinuteOfDay(s.ShiftStart), FormatMinuteOfDay(s.ShiftEnd)
	if r.ShiftStart != nil {
		start = *r.ShiftStart
	}
	if r.ShiftEnd != nil {
		end = *r.ShiftEnd
	}
	if r.ShiftStart != nil || r.ShiftEnd != nil {
		validateShift(&errs, start, end)
		s.ShiftStart, _ = ParseMinuteOfDay(start)
		s.ShiftEnd, _ = ParseMinuteOfDay(end)
	}

	if err := errs.Err(); err != nil {
		return Staff{}, err
	}
	return s, nil
}

type StaffResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	ContactNumber  string          `json:"contact_number"`
	Role           string          `json:"role"`
	AssignedBus    *string         `json:"assigned_bus,omitempty"`
	BasicSalary    decimal.Decimal `json:"basic_salary"`
	Allowances     decimal.Decimal `json:"allowances"`
	Bonus          decimal.Decimal `json:"bonus"`
	Reimbursements decimal.Decimal `json:"reimbursements"`
	SalaryAdvance  decimal.Decimal `json:"salary_advance"`
	Loan           decimal.Decimal `json:"loan"`
	OTHours        decimal.Decimal `json:"ot_hours"`
	ShiftStart     string          `json:"shift_start"`
	ShiftEnd       string          `json:"shift_end"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func ToResponse(s Staff) StaffResponse {
	return StaffResponse{
		ID:             s.ID,
		Name:           s.Name,
		Email:          s.Email,
		ContactNumber:  s.ContactNumber,
		Role:           s.Role,
		AssignedBus:    s.AssignedBus,
		BasicSalary:    s.BasicSalary,
		Allowances:     s.Allowances,
		Bonus:          s.Bonus,
		Reimbursements: s.Reimbursements,
		SalaryAdvance:  s.SalaryAdvance,
		Loan:           s.Loan,
		OTHours:        s.OTHours,
		ShiftStart:     FormatMinuteOfDay(s.ShiftStart),
		ShiftEnd:       FormatMinuteOfDay(s.ShiftEnd),
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

type MarkAttendanceRequest struct {
	StaffID   string  `json:"-"`
	Date      string  `json:"date"`
	Status    string  `json:"status"`
	LeaveType *string `json:"leave_type,omitempty"`
}

func (r *MarkAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "must be in YYYY-MM-DD format")
	}
	status := AttendanceStatus(r.Status)
	if !status.Valid() {
		errs.Add("status", "must be 'Present', 'Absent' or 'Leave'")
	}
	if status == AttendanceLeave {
		if r.LeaveType == nil || !LeaveType(*r.LeaveType).Valid() {
			errs.Add("leave_type", "must be 'Annual', 'Sick', 'Casual' or 'NoPay' for leave")
		}
	} else if r.LeaveType != nil {
		errs.Add("leave_type", "only allowed when status is 'Leave'")
	}

	return errs.Err()
}

type AttendanceResponse struct {
	ID            string           `json:"id"`
	StaffID       string           `json:"staff_id"`
	Date          string           `json:"date"`
	Status        AttendanceStatus `json:"status"`
	LeaveType     *LeaveType       `json:"leave_type,omitempty"`
	CheckIn       *time.Time       `json:"check_in,omitempty"`
	CheckOut      *time.Time       `json:"check_out,omitempty"`
	WorkedMinutes int              `json:"worked_minutes"`
	OTMinutes     int              `json:"ot_minutes"`
}

func ToAttendanceResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:            a.ID,
		StaffID:       a.StaffID,
		Date:          a.Date,
		Status:        a.Status,
		LeaveType:     a.LeaveType,
		CheckIn:       a.CheckIn,
		CheckOut:      a.CheckOut,
		WorkedMinutes: a.WorkedMinutes,
		OTMinutes:     a.OTMinutes,
	}
}

type AttendanceSummaryResponse struct {
	StaffID      string               `json:"staff_id"`
	MonthYear    string               `json:"month_year"`
	TotalOTHours decimal.Decimal      `json:"total_ot_hours"`
	NoPayDays    int                  `json:"no_pay_days"`
	Records      []AttendanceResponse `json:"records"`
}
