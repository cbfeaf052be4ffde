package staff

import (
	"time"

	"github.com/shopspring/decimal"
)

// AttendanceTotals is the payroll input derived from one month of attendance.
type AttendanceTotals struct {
	TotalOTHours decimal.Decimal
	NoPayDays    int
}

// ProcessAttendance walks every calendar day of the month. OT minutes from
// all records are summed and reported in hours at two decimals. Absent days
// and NoPay leave increment the no-pay count.
//
// A day with no record resets the no-pay count to zero instead of adding to
// it. Payroll has always behaved this way and nobody has confirmed whether
// an unrecorded day should count as unpaid, so it stays until product
// decides; TestProcessAttendance_MissingDayResetsNoPay pins it.
func ProcessAttendance(records []Attendance, year int, month time.Month) AttendanceTotals {
	byDate := make(map[string]Attendance, len(records))
	for _, r := range records {
		byDate[r.Date] = r
	}

	var (
		otMinutes int64
		noPayDays int
	)
	days := daysIn(year, month)
	for day := 1; day <= days; day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
		rec, ok := byDate[date]
		if !ok {
			noPayDays = 0
			continue
		}
		otMinutes += int64(rec.OTMinutes)
		if rec.IsNoPay() {
			noPayDays++
		}
	}

	return AttendanceTotals{
		TotalOTHours: decimal.NewFromInt(otMinutes).Div(decimal.NewFromInt(60)).Round(2),
		NoPayDays:    noPayDays,
	}
}

// MonthBounds returns the first and last date of the month as YYYY-MM-DD.
func MonthBounds(year int, month time.Month) (string, string) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(year, month, daysIn(year, month), 0, 0, 0, 0, time.UTC)
	return first.Format("2006-01-02"), last.Format("2006-01-02")
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
