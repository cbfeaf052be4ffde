package salary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/busops/transit-backend-go/internal/domain/maillog"
	"github.com/busops/transit-backend-go/internal/domain/salary"
	"github.com/busops/transit-backend-go/internal/domain/staff"
	"github.com/busops/transit-backend-go/internal/pkg/clock"
	"github.com/busops/transit-backend-go/internal/pkg/metrics"
	"github.com/busops/transit-backend-go/internal/pkg/validator"
)

type SalaryServiceImpl struct {
	salaryRepo     salary.SalaryRepository
	staffRepo      staff.StaffRepository
	attendanceRepo staff.AttendanceRepository
	renderer       salary.SlipRenderer
	mailer         salary.SlipMailer
	deliveries     maillog.DeliveryRepository
	clock          clock.Clock
	metrics        *metrics.Metrics
}

func NewSalaryService(
	salaryRepo salary.SalaryRepository,
	staffRepo staff.StaffRepository,
	attendanceRepo staff.AttendanceRepository,
	renderer salary.SlipRenderer,
	mailer salary.SlipMailer,
	deliveries maillog.DeliveryRepository,
	clk clock.Clock,
	m *metrics.Metrics,
) salary.SalaryService {
	return &SalaryServiceImpl{
		salaryRepo:     salaryRepo,
		staffRepo:      staffRepo,
		attendanceRepo: attendanceRepo,
		renderer:       renderer,
		mailer:         mailer,
		deliveries:     deliveries,
		clock:          clk,
		metrics:        m,
	}
}

// attendanceTotals derives OT hours and no-pay days for one staff member and month.
func (s *SalaryServiceImpl) attendanceTotals(ctx context.Context, staffID, monthYear string) (staff.AttendanceTotals, error) {
	year, month, ok := validator.ParseMonthYear(monthYear)
	if !ok {
		return staff.AttendanceTotals{}, validator.ValidationErrors{{Field: "month_year", Message: "must look like 'October 2025'"}}
	}
	from, to := staff.MonthBounds(year, month)
	records, err := s.attendanceRepo.ListBetween(ctx, staffID, from, to)
	if err != nil {
		return staff.AttendanceTotals{}, err
	}
	return staff.ProcessAttendance(records, year, month), nil
}

func (s *SalaryServiceImpl) ListSalaries(ctx context.Context, monthYear string) ([]salary.SalaryResponse, error) {
	year, month, ok := validator.ParseMonthYear(monthYear)
	if !ok {
		return nil, validator.ValidationErrors{{Field: "month", Message: "must look like 'October 2025'"}}
	}
	monthYear = validator.FormatMonthYear(year, month)

	members, err := s.staffRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	saved, err := s.salaryRepo.ListByMonth(ctx, monthYear)
	if err != nil {
		return nil, err
	}
	byStaff := make(map[string]salary.Salary, len(saved))
	for _, rec := range saved {
		byStaff[rec.StaffID] = rec
	}

	resp := make([]salary.SalaryResponse, 0, len(members))
	for _, member := range members {
		if rec, ok := byStaff[member.ID]; ok {
			resp = append(resp, salary.ToResponse(rec, member))
			continue
		}
		totals, err := s.attendanceTotals(ctx, member.ID, monthYear)
		if err != nil {
			return nil, err
		}
		resp = append(resp, salary.PlaceholderResponse(member, monthYear, totals))
	}
	return resp, nil
}

func (s *SalaryServiceImpl) GetSalary(ctx context.Context, id string) (salary.SalaryResponse, error) {
	rec, member, err := s.load(ctx, id)
	if err != nil {
		return salary.SalaryResponse{}, err
	}
	return salary.ToResponse(rec, member), nil
}

func (s *SalaryServiceImpl) load(ctx context.Context, id string) (salary.Salary, staff.Staff, error) {
	rec, err := s.salaryRepo.GetByID(ctx, id)
	if err != nil {
		return salary.Salary{}, staff.Staff{}, err
	}
	member, err := s.staffRepo.GetByID(ctx, rec.StaffID)
	if err != nil {
		return salary.Salary{}, staff.Staff{}, err
	}
	return rec, member, nil
}

// SaveSalary calculates and stores the salary for (staff, month). An existing
// record for the same key, or the one named by req.ID, is overwritten in place.
func (s *SalaryServiceImpl) SaveSalary(ctx context.Context, req salary.SaveSalaryRequest) (salary.SalaryResponse, error) {
	if err := req.Validate(); err != nil {
		return salary.SalaryResponse{}, err
	}
	year, month, _ := validator.ParseMonthYear(req.MonthYear)
	monthYear := validator.FormatMonthYear(year, month)

	member, err := s.staffRepo.GetByID(ctx, req.StaffID)
	if err != nil {
		return salary.SalaryResponse{}, err
	}

	inputs := req.Inputs()
	breakdown, err := salary.CalculateChecked(member.BasicSalary, inputs)
	if err != nil {
		return salary.SalaryResponse{}, err
	}

	var existing salary.Salary
	if req.ID != nil {
		existing, err = s.salaryRepo.GetByID(ctx, *req.ID)
		if err != nil {
			return salary.SalaryResponse{}, err
		}
		if existing.StaffID != member.ID {
			return salary.SalaryResponse{}, validator.ValidationErrors{{Field: "staff_id", Message: "does not match the salary record"}}
		}
		if existing.MonthYear != monthYear {
			return salary.SalaryResponse{}, validator.ValidationErrors{{Field: "month_year", Message: "does not match the salary record"}}
		}
	} else {
		existing, err = s.salaryRepo.GetByStaffAndMonth(ctx, member.ID, monthYear)
		if err != nil && !errors.Is(err, salary.ErrSalaryNotFound) {
			return salary.SalaryResponse{}, err
		}
	}

	isNew := existing.ID == ""
	if isNew {
		existing = salary.Salary{StaffID: member.ID, Status: salary.StatusPending}
	}
	if err := existing.Apply(member.BasicSalary, inputs, breakdown); err != nil {
		return salary.SalaryResponse{}, err
	}
	now := s.clock.Now()
	existing.MonthYear = monthYear
	existing.DefaultLoan = member.Loan
	existing.DefaultSalaryAdvance = member.SalaryAdvance
	existing.UpdatedAt = now

	if isNew {
		existing.CreatedAt = now
		existing, err = s.salaryRepo.Create(ctx, existing)
	} else {
		err = s.salaryRepo.Update(ctx, existing)
	}
	if err != nil {
		return salary.SalaryResponse{}, err
	}

	slog.Info("Salary calculated",
		"salary_id", existing.ID,
		"staff_id", member.ID,
		"month_year", monthYear,
		"net_salary", existing.NetSalary.StringFixed(2),
		"created", isNew,
	)
	return salary.ToResponse(existing, member), nil
}

// GetUpdatePrep re-derives attendance inputs from live records and keeps the
// saved loan and advance unless the staff default moved since the save.
func (s *SalaryServiceImpl) GetUpdatePrep(ctx context.Context, id string) (salary.UpdatePrepResponse, error) {
	rec, member, err := s.load(ctx, id)
	if err != nil {
		return salary.UpdatePrepResponse{}, err
	}

	totals, err := s.attendanceTotals(ctx, member.ID, rec.MonthYear)
	if err != nil {
		return salary.UpdatePrepResponse{}, err
	}

	loan := rec.Deductions.Loan
	if !member.Loan.Equal(rec.DefaultLoan) {
		loan = member.Loan
	}
	advance := rec.Deductions.SalaryAdvance
	if !member.SalaryAdvance.Equal(rec.DefaultSalaryAdvance) {
		advance = member.SalaryAdvance
	}

	return salary.UpdatePrepResponse{
		SalaryID:       rec.ID,
		StaffID:        member.ID,
		StaffName:      member.Name,
		MonthYear:      rec.MonthYear,
		Status:         rec.Status,
		BasicSalary:    member.BasicSalary,
		Allowances:     rec.Earnings.Allowances,
		Reimbursements: rec.Earnings.Reimbursements,
		Bonus:          rec.Earnings.Bonus,
		OTHours:        totals.TotalOTHours,
		NoPayDays:      totals.NoPayDays,
		SalaryAdvance:  advance,
		Loan:           loan,
	}, nil
}

// SendSlip renders and emails the slip. The record becomes Paid only after
// the mailer reports success; any failure leaves it Calculated for a retry.
func (s *SalaryServiceImpl) SendSlip(ctx context.Context, id string) (salary.SalaryResponse, error) {
	rec, member, err := s.load(ctx, id)
	if err != nil {
		return salary.SalaryResponse{}, err
	}
	if rec.Status != salary.StatusCalculated {
		return salary.SalaryResponse{}, fmt.Errorf("%w: current status is %s", salary.ErrSalaryNotCalculated, rec.Status)
	}

	doc, err := s.renderer.Render(member, rec)
	if err != nil {
		s.recordDelivery(ctx, rec, member, err)
		return salary.SalaryResponse{}, fmt.Errorf("failed to render salary slip: %w", err)
	}

	filename := salary.SlipFilename(rec.MonthYear)
	if err := s.mailer.SendSalarySlip(ctx, member.Email, member.Name, rec.MonthYear, doc, filename); err != nil {
		s.recordDelivery(ctx, rec, member, err)
		return salary.SalaryResponse{}, fmt.Errorf("%w: %v", salary.ErrSlipDeliveryFailed, err)
	}

	paidAt := s.clock.Now()
	if err := s.salaryRepo.MarkPaid(ctx, rec.ID, paidAt); err != nil {
		return salary.SalaryResponse{}, err
	}
	if err := rec.MarkPaid(paidAt); err != nil {
		return salary.SalaryResponse{}, err
	}
	rec.UpdatedAt = paidAt
	s.recordDelivery(ctx, rec, member, nil)

	slog.Info("Salary slip sent", "salary_id", rec.ID, "staff_id", member.ID, "to", member.Email)
	return salary.ToResponse(rec, member), nil
}

// recordDelivery is best effort; a broken log store never fails a send.
func (s *SalaryServiceImpl) recordDelivery(ctx context.Context, rec salary.Salary, member staff.Staff, sendErr error) {
	s.metrics.SlipDispatched(sendErr == nil)

	d := maillog.Delivery{
		SalaryID:    rec.ID,
		StaffID:     member.ID,
		Recipient:   member.Email,
		MonthYear:   rec.MonthYear,
		Result:      maillog.ResultSent,
		AttemptedAt: s.clock.Now(),
	}
	if sendErr != nil {
		d.Result = maillog.ResultFailed
		d.Error = sendErr.Error()
	}
	if err := s.deliveries.Record(ctx, d); err != nil {
		slog.Warn("Failed to record slip delivery", "salary_id", rec.ID, "error", err)
	}
}

func (s *SalaryServiceImpl) DownloadSlip(ctx context.Context, id string) (salary.SlipFile, error) {
	rec, member, err := s.load(ctx, id)
	if err != nil {
		return salary.SlipFile{}, err
	}
	doc, err := s.renderer.Render(member, rec)
	if err != nil {
		return salary.SlipFile{}, fmt.Errorf("failed to render salary slip: %w", err)
	}
	return salary.SlipFile{Filename: salary.SlipFilename(rec.MonthYear), Content: doc}, nil
}

func (s *SalaryServiceImpl) ListDeliveries(ctx context.Context, id string) ([]maillog.Delivery, error) {
	if _, err := s.salaryRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.deliveries.ListBySalary(ctx, id)
}

func (s *SalaryServiceImpl) DeleteSalary(ctx context.Context, id string) error {
	return s.salaryRepo.Delete(ctx, id)
}
