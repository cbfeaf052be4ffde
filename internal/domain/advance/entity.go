package advance

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive    Status = "Active"
	StatusDeducted  Status = "Deducted"
	StatusCancelled Status = "Cancelled"
)

var allowedTransitions = map[Status][]Status{
	StatusActive:    {StatusDeducted, StatusCancelled},
	StatusDeducted:  {},
	StatusCancelled: {},
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := allowedTransitions[st]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Reason string

const (
	ReasonMedical         Reason = "Medical"
	ReasonEducation       Reason = "Education"
	ReasonFamilyEmergency Reason = "Family Emergency"
	ReasonHousing         Reason = "Housing"
	ReasonOther           Reason = "Other"
)

func (r Reason) Valid() bool {
	switch r {
	case ReasonMedical, ReasonEducation, ReasonFamilyEmergency, ReasonHousing, ReasonOther:
		return true
	}
	return false
}

// Advance is a salary advance paid out ahead of payroll. StaffName and
// BasicSalarySnapshot are frozen at creation.
type Advance struct {
	ID                  string
	StaffID             string
	StaffName           string
	BasicSalarySnapshot decimal.Decimal
	Amount              decimal.Decimal
	Reason              Reason
	DeductionMonth      string
	ProcessedDate       string
	Status              Status
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Cap is the largest amount allowed against a basic salary snapshot.
func Cap(snapshot decimal.Decimal) decimal.Decimal {
	return snapshot.Div(decimal.NewFromInt(2))
}

// CheckAmount applies the advance rules against the snapshot, never the live
// salary.
func CheckAmount(snapshot, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrNegativeAdvance
	}
	if limit := Cap(snapshot); amount.GreaterThan(limit) {
		return fmt.Errorf("%w: maximum is %s", ErrAdvanceExceedsCap, limit.StringFixed(2))
	}
	return nil
}

// SetAmount re-validates against the stored snapshot. Only active advances
// can change amount.
func (a *Advance) SetAmount(amount decimal.Decimal) error {
	if a.Status != StatusActive {
		return fmt.Errorf("%w: current status is %s", ErrAdvanceNotActive, a.Status)
	}
	if err := CheckAmount(a.BasicSalarySnapshot, amount); err != nil {
		return err
	}
	a.Amount = amount
	return nil
}

func (a *Advance) TransitionTo(next Status) error {
	if a.Status == next {
		return nil
	}
	if !a.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, next)
	}
	a.Status = next
	return nil
}
