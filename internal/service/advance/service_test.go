package advance

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/busops/transit-backend-go/internal/domain/advance"
	"github.com/busops/transit-backend-go/internal/domain/staff"
	"github.com/busops/transit-backend-go/internal/pkg/clock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memAdvanceRepo struct {
	seq      int
	advances map[string]advance.Advance
}

func (r *memAdvanceRepo) Create(ctx context.Context, a advance.Advance) (advance.Advance, error) {
	r.seq++
	a.ID = fmt.Sprintf("adv-%d", r.seq)
	r.advances[a.ID] = a
	return a, nil
}

func (r *memAdvanceRepo) GetByID(ctx context.Context, id string) (advance.Advance, error) {
	a, ok := r.advances[id]
	if !ok {
		return advance.Advance{}, advance.ErrAdvanceNotFound
	}
	return a, nil
}

func (r *memAdvanceRepo) List(ctx context.Context, staffID string) ([]advance.Advance, error) {
	var out []advance.Advance
	for i := 1; i <= r.seq; i++ {
		a, ok := r.advances[fmt.Sprintf("adv-%d", i)]
		if ok && (staffID == "" || a.StaffID == staffID) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memAdvanceRepo) Update(ctx context.Context, a advance.Advance) error {
	if _, ok := r.advances[a.ID]; !ok {
		return advance.ErrAdvanceNotFound
	}
	r.advances[a.ID] = a
	return nil
}

func (r *memAdvanceRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.advances[id]; !ok {
		return advance.ErrAdvanceNotFound
	}
	delete(r.advances, id)
	return nil
}

// memStaffRepo only needs lookups and edits for these tests.
type memStaffRepo struct {
	staff.StaffRepository
	members map[string]staff.Staff
}

func (r *memStaffRepo) GetByID(ctx context.Context, id string) (staff.Staff, error) {
	m, ok := r.members[id]
	if !ok {
		return staff.Staff{}, staff.ErrStaffNotFound
	}
	return m, nil
}

func (r *memStaffRepo) Update(ctx context.Context, s staff.Staff) error {
	r.members[s.ID] = s
	return nil
}

func newAdvanceTestEnv() (advance.AdvanceService, *memStaffRepo, *memAdvanceRepo) {
	staffRepo := &memStaffRepo{members: map[string]staff.Staff{
		"staff-1": {ID: "staff-1", Name: "Nimal Perera", BasicSalary: decimal.NewFromInt(20000)},
	}}
	advanceRepo := &memAdvanceRepo{advances: map[string]advance.Advance{}}
	clk := clock.NewFake(time.Date(2025, 10, 15, 4, 0, 0, 0, time.UTC))
	return NewAdvanceService(advanceRepo, staffRepo, clk, time.UTC), staffRepo, advanceRepo
}

func createReq(amount int64) advance.CreateAdvanceRequest {
	return advance.CreateAdvanceRequest{
		StaffID:        "staff-1",
		Amount:         decimal.NewFromInt(amount),
		Reason:         string(advance.ReasonMedical),
		DeductionMonth: "november 2025",
	}
}

func TestCreateAdvance_SnapshotsStaff(t *testing.T) {
	svc, _, _ := newAdvanceTestEnv()

	resp, err := svc.CreateAdvance(context.Background(), createReq(5000))
	require.NoError(t, err)
	assert.Equal(t, "Nimal Perera", resp.StaffName)
	assert.Equal(t, "20000", resp.BasicSalarySnapshot.String())
	assert.Equal(t, "10000.00", resp.MaxAmount.StringFixed(2))
	assert.Equal(t, "November 2025", resp.DeductionMonth)
	assert.Equal(t, "2025-10-15", resp.ProcessedDate)
	assert.Equal(t, advance.StatusActive, resp.Status)
}

func TestCreateAdvance_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		req     advance.CreateAdvanceRequest
		wantErr error
	}{
		{"over cap", createReq(10001), advance.ErrAdvanceExceedsCap},
		{"negative", createReq(-50), advance.ErrNegativeAdvance},
		{"unknown staff", func() advance.CreateAdvanceRequest { r := createReq(100); r.StaffID = "ghost"; return r }(), staff.ErrStaffNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, repo := newAdvanceTestEnv()
			_, err := svc.CreateAdvance(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, repo.advances)
		})
	}

	svc, _, _ := newAdvanceTestEnv()
	bad := createReq(100)
	bad.Reason = "Holiday"
	_, err := svc.CreateAdvance(context.Background(), bad)
	assert.Error(t, err)
}

func TestUpdateAdvance_CapUsesSnapshotNotLiveSalary(t *testing.T) {
	svc, staffRepo, _ := newAdvanceTestEnv()
	ctx := context.Background()

	created, err := svc.CreateAdvance(ctx, createReq(5000))
	require.NoError(t, err)

	// Live salary doubles after the advance was issued.
	member := staffRepo.members["staff-1"]
	member.BasicSalary = decimal.NewFromInt(40000)
	require.NoError(t, staffRepo.Update(ctx, member))

	amount := decimal.NewFromInt(15000)
	_, err = svc.UpdateAdvance(ctx, advance.UpdateAdvanceRequest{ID: created.ID, Amount: &amount})
	assert.ErrorIs(t, err, advance.ErrAdvanceExceedsCap)

	stored, err := svc.GetAdvance(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "5000", stored.Amount.String())

	amount = decimal.NewFromInt(10000)
	updated, err := svc.UpdateAdvance(ctx, advance.UpdateAdvanceRequest{ID: created.ID, Amount: &amount})
	require.NoError(t, err)
	assert.Equal(t, "10000", updated.Amount.String())
}

func TestUpdateAdvance_StatusTransitions(t *testing.T) {
	svc, _, _ := newAdvanceTestEnv()
	ctx := context.Background()

	created, err := svc.CreateAdvance(ctx, createReq(2000))
	require.NoError(t, err)

	deducted := string(advance.StatusDeducted)
	resp, err := svc.UpdateAdvance(ctx, advance.UpdateAdvanceRequest{ID: created.ID, Status: &deducted})
	require.NoError(t, err)
	assert.Equal(t, advance.StatusDeducted, resp.Status)

	active := string(advance.StatusActive)
	_, err = svc.UpdateAdvance(ctx, advance.UpdateAdvanceRequest{ID: created.ID, Status: &active})
	assert.ErrorIs(t, err, advance.ErrInvalidTransition)

	amount := decimal.NewFromInt(100)
	_, err = svc.UpdateAdvance(ctx, advance.UpdateAdvanceRequest{ID: created.ID, Amount: &amount})
	assert.ErrorIs(t, err, advance.ErrAdvanceNotActive)
}

func TestListAndDeleteAdvances(t *testing.T) {
	svc, staffRepo, _ := newAdvanceTestEnv()
	ctx := context.Background()
	staffRepo.members["staff-2"] = staff.Staff{ID: "staff-2", Name: "Kamal Silva", BasicSalary: decimal.NewFromInt(30000)}

	first, err := svc.CreateAdvance(ctx, createReq(1000))
	require.NoError(t, err)
	other := createReq(1000)
	other.StaffID = "staff-2"
	_, err = svc.CreateAdvance(ctx, other)
	require.NoError(t, err)

	all, err := svc.ListAdvances(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := svc.ListAdvances(ctx, "staff-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, first.ID, mine[0].ID)

	require.NoError(t, svc.DeleteAdvance(ctx, first.ID))
	_, err = svc.GetAdvance(ctx, first.ID)
	assert.ErrorIs(t, err, advance.ErrAdvanceNotFound)
	assert.ErrorIs(t, svc.DeleteAdvance(ctx, first.ID), advance.ErrAdvanceNotFound)
}
