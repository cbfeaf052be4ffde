package staff

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/busops/transit-backend-go/internal/domain/staff"
	"github.com/busops/transit-backend-go/internal/pkg/clock"
	"github.com/busops/transit-backend-go/internal/pkg/validator"
)

type StaffServiceImpl struct {
	staffRepo      staff.StaffRepository
	attendanceRepo staff.AttendanceRepository
	clock          clock.Clock
	loc            *time.Location
}

func NewStaffService(
	staffRepo staff.StaffRepository,
	attendanceRepo staff.AttendanceRepository,
	clk clock.Clock,
	loc *time.Location,
) staff.StaffService {
	return &StaffServiceImpl{
		staffRepo:      staffRepo,
		attendanceRepo: attendanceRepo,
		clock:          clk,
		loc:            loc,
	}
}

func (s *StaffServiceImpl) CreateStaff(ctx context.Context, req staff.CreateStaffRequest) (staff.StaffResponse, error) {
	if err := req.Validate(); err != nil {
		return staff.StaffResponse{}, err
	}

	start, _ := staff.ParseMinuteOfDay(req.ShiftStart)
	end, _ := staff.ParseMinuteOfDay(req.ShiftEnd)
	now := s.clock.Now()

	created, err := s.staffRepo.Create(ctx, staff.Staff{
		Name:           req.Name,
		Email:          req.Email,
		ContactNumber:  req.ContactNumber,
		Role:           req.Role,
		AssignedBus:    req.AssignedBus,
		BasicSalary:    req.BasicSalary,
		Allowances:     req.Allowances,
		Bonus:          req.Bonus,
		Reimbursements: req.Reimbursements,
		SalaryAdvance:  req.SalaryAdvance,
		Loan:           req.Loan,
		ShiftStart:     start,
		ShiftEnd:       end,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return staff.StaffResponse{}, err
	}
	return staff.ToResponse(created), nil
}

func (s *StaffServiceImpl) GetStaff(ctx context.Context, id string) (staff.StaffResponse, error) {
	st, err := s.staffRepo.GetByID(ctx, id)
	if err != nil {
		return staff.StaffResponse{}, err
	}
	return staff.ToResponse(st), nil
}

func (s *StaffServiceImpl) ListStaff(ctx context.Context) ([]staff.StaffResponse, error) {
	members, err := s.staffRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]staff.StaffResponse, 0, len(members))
	for _, m := range members {
		resp = append(resp, staff.ToResponse(m))
	}
	return resp, nil
}

func (s *StaffServiceImpl) UpdateStaff(ctx context.Context, req staff.UpdateStaffRequest) (staff.StaffResponse, error) {
	current, err := s.staffRepo.GetByID(ctx, req.ID)
	if err != nil {
		return staff.StaffResponse{}, err
	}

	updated, err := req.Apply(current)
	if err != nil {
		return staff.StaffResponse{}, err
	}
	updated.UpdatedAt = s.clock.Now()

	if err := s.staffRepo.Update(ctx, updated); err != nil {
		return staff.StaffResponse{}, err
	}
	return staff.ToResponse(updated), nil
}

func (s *StaffServiceImpl) DeleteStaff(ctx context.Context, id string) error {
	return s.staffRepo.Delete(ctx, id)
}

func (s *StaffServiceImpl) today() (time.Time, string) {
	now := s.clock.Now().In(s.loc)
	return now, now.Format("2006-01-02")
}

func (s *StaffServiceImpl) CheckIn(ctx context.Context, staffID string) (staff.AttendanceResponse, error) {
	if _, err := s.staffRepo.GetByID(ctx, staffID); err != nil {
		return staff.AttendanceResponse{}, err
	}

	now, date := s.today()
	rec, err := s.attendanceRepo.Create(ctx, staff.Attendance{
		StaffID:   staffID,
		Date:      date,
		Status:    staff.AttendancePresent,
		CheckIn:   &now,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return staff.AttendanceResponse{}, err
	}

	slog.Info("Staff checked in", "staff_id", staffID, "date", date)
	return staff.ToAttendanceResponse(rec), nil
}

func (s *StaffServiceImpl) CheckOut(ctx context.Context, staffID string) (staff.AttendanceResponse, error) {
	member, err := s.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		return staff.AttendanceResponse{}, err
	}

	now, date := s.today()
	rec, err := s.attendanceRepo.GetByDate(ctx, staffID, date)
	if err != nil {
		if errors.Is(err, staff.ErrAttendanceNotFound) {
			return staff.AttendanceResponse{}, staff.ErrNotCheckedIn
		}
		return staff.AttendanceResponse{}, err
	}

	if err := rec.CompleteCheckOut(now, member.ShiftEnd); err != nil {
		return staff.AttendanceResponse{}, err
	}
	rec.UpdatedAt = now

	if err := s.attendanceRepo.RecordCheckOut(ctx, rec, staff.OTHoursFromMinutes(rec.OTMinutes)); err != nil {
		return staff.AttendanceResponse{}, err
	}

	slog.Info("Staff checked out",
		"staff_id", staffID,
		"date", date,
		"worked_minutes", rec.WorkedMinutes,
		"ot_minutes", rec.OTMinutes,
	)
	return staff.ToAttendanceResponse(rec), nil
}

func (s *StaffServiceImpl) MarkAttendance(ctx context.Context, req staff.MarkAttendanceRequest) (staff.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return staff.AttendanceResponse{}, err
	}
	if _, err := s.staffRepo.GetByID(ctx, req.StaffID); err != nil {
		return staff.AttendanceResponse{}, err
	}

	rec := staff.Attendance{
		StaffID: req.StaffID,
		Date:    req.Date,
		Status:  staff.AttendanceStatus(req.Status),
	}
	if req.LeaveType != nil {
		lt := staff.LeaveType(*req.LeaveType)
		rec.LeaveType = &lt
	}
	rec.CreatedAt = s.clock.Now()
	rec.UpdatedAt = rec.CreatedAt

	created, err := s.attendanceRepo.Create(ctx, rec)
	if err != nil {
		return staff.AttendanceResponse{}, err
	}
	return staff.ToAttendanceResponse(created), nil
}

func (s *StaffServiceImpl) AttendanceSummary(ctx context.Context, staffID, monthYear string) (staff.AttendanceSummaryResponse, error) {
	year, month, ok := validator.ParseMonthYear(monthYear)
	if !ok {
		return staff.AttendanceSummaryResponse{}, validator.ValidationErrors{{Field: "month", Message: "must look like 'October 2025'"}}
	}
	if _, err := s.staffRepo.GetByID(ctx, staffID); err != nil {
		return staff.AttendanceSummaryResponse{}, err
	}

	from, to := staff.MonthBounds(year, month)
	records, err := s.attendanceRepo.ListBetween(ctx, staffID, from, to)
	if err != nil {
		return staff.AttendanceSummaryResponse{}, err
	}

	totals := staff.ProcessAttendance(records, year, month)
	resp := staff.AttendanceSummaryResponse{
		StaffID:      staffID,
		MonthYear:    validator.FormatMonthYear(year, month),
		TotalOTHours: totals.TotalOTHours,
		NoPayDays:    totals.NoPayDays,
		Records:      make([]staff.AttendanceResponse, 0, len(records)),
	}
	for _, r := range records {
		resp.Records = append(resp.Records, staff.ToAttendanceResponse(r))
	}
	return resp, nil
}
