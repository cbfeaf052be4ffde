package maillog

import "time"

type Result string

const (
	ResultSent   Result = "sent"
	ResultFailed Result = "failed"
)

// Delivery is one attempt to email a salary slip.
type Delivery struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	SalaryID    string    `bson:"salaryId" json:"salary_id"`
	StaffID     string    `bson:"staffId" json:"staff_id"`
	Recipient   string    `bson:"recipient" json:"recipient"`
	MonthYear   string    `bson:"monthYear" json:"month_year"`
	Result      Result    `bson:"result" json:"result"`
	Error       string    `bson:"error,omitempty" json:"error,omitempty"`
	AttemptedAt time.Time `bson:"attemptedAt" json:"attempted_at"`
}
