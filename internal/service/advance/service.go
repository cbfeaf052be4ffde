package advance

import (
	"context"
	"log/slog"
	"time"

	"github.com/busops/transit-backend-go/internal/domain/advance"
	"github.com/busops/transit-backend-go/internal/domain/staff"
	"github.com/busops/transit-backend-go/internal/pkg/clock"
	"github.com/busops/transit-backend-go/internal/pkg/validator"
)

type AdvanceServiceImpl struct {
	advanceRepo advance.AdvanceRepository
	staffRepo   staff.StaffRepository
	clock       clock.Clock
	loc         *time.Location
}

func NewAdvanceService(
	advanceRepo advance.AdvanceRepository,
	staffRepo staff.StaffRepository,
	clk clock.Clock,
	loc *time.Location,
) advance.AdvanceService {
	return &AdvanceServiceImpl{
		advanceRepo: advanceRepo,
		staffRepo:   staffRepo,
		clock:       clk,
		loc:         loc,
	}
}

func (s *AdvanceServiceImpl) CreateAdvance(ctx context.Context, req advance.CreateAdvanceRequest) (advance.AdvanceResponse, error) {
	if err := req.Validate(); err != nil {
		return advance.AdvanceResponse{}, err
	}

	member, err := s.staffRepo.GetByID(ctx, req.StaffID)
	if err != nil {
		return advance.AdvanceResponse{}, err
	}
	if err := advance.CheckAmount(member.BasicSalary, req.Amount); err != nil {
		return advance.AdvanceResponse{}, err
	}

	year, month, _ := validator.ParseMonthYear(req.DeductionMonth)
	processed := s.clock.Now().In(s.loc).Format("2006-01-02")
	if req.ProcessedDate != nil {
		processed = *req.ProcessedDate
	}

	created, err := s.advanceRepo.Create(ctx, advance.Advance{
		StaffID:             member.ID,
		StaffName:           member.Name,
		BasicSalarySnapshot: member.BasicSalary,
		Amount:              req.Amount,
		Reason:              advance.Reason(req.Reason),
		DeductionMonth:      validator.FormatMonthYear(year, month),
		ProcessedDate:       processed,
		Status:              advance.StatusActive,
	})
	if err != nil {
		return advance.AdvanceResponse{}, err
	}

	slog.Info("Advance created", "advance_id", created.ID, "staff_id", member.ID, "amount", created.Amount.StringFixed(2))
	return advance.ToResponse(created), nil
}

func (s *AdvanceServiceImpl) GetAdvance(ctx context.Context, id string) (advance.AdvanceResponse, error) {
	a, err := s.advanceRepo.GetByID(ctx, id)
	if err != nil {
		return advance.AdvanceResponse{}, err
	}
	return advance.ToResponse(a), nil
}

func (s *AdvanceServiceImpl) ListAdvances(ctx context.Context, staffID string) ([]advance.AdvanceResponse, error) {
	list, err := s.advanceRepo.List(ctx, staffID)
	if err != nil {
		return nil, err
	}
	resp := make([]advance.AdvanceResponse, 0, len(list))
	for _, a := range list {
		resp = append(resp, advance.ToResponse(a))
	}
	return resp, nil
}

// UpdateAdvance applies edits in a fixed order: amount and details first
// while the advance is still active, then the status change.
func (s *AdvanceServiceImpl) UpdateAdvance(ctx context.Context, req advance.UpdateAdvanceRequest) (advance.AdvanceResponse, error) {
	if err := req.Validate(); err != nil {
		return advance.AdvanceResponse{}, err
	}

	a, err := s.advanceRepo.GetByID(ctx, req.ID)
	if err != nil {
		return advance.AdvanceResponse{}, err
	}

	if req.Amount != nil {
		if err := a.SetAmount(*req.Amount); err != nil {
			return advance.AdvanceResponse{}, err
		}
	}
	if req.Reason != nil {
		a.Reason = advance.Reason(*req.Reason)
	}
	if req.DeductionMonth != nil {
		year, month, _ := validator.ParseMonthYear(*req.DeductionMonth)
		a.DeductionMonth = validator.FormatMonthYear(year, month)
	}
	if req.Status != nil {
		next, _ := advance.ParseStatus(*req.Status)
		if err := a.TransitionTo(next); err != nil {
			return advance.AdvanceResponse{}, err
		}
	}
	a.UpdatedAt = s.clock.Now()

	if err := s.advanceRepo.Update(ctx, a); err != nil {
		return advance.AdvanceResponse{}, err
	}
	return advance.ToResponse(a), nil
}

func (s *AdvanceServiceImpl) DeleteAdvance(ctx context.Context, id string) error {
	return s.advanceRepo.Delete(ctx, id)
}
