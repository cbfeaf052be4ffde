package salary

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/busops/transit-backend-go/internal/domain/maillog"
	"github.com/busops/transit-backend-go/internal/domain/salary"
	"github.com/busops/transit-backend-go/internal/domain/staff"
	"github.com/busops/transit-backend-go/internal/pkg/clock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	driverID    = "staff-driver"
	conductorID = "staff-conductor"
	october     = "October 2025"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type salaryTestEnv struct {
	svc        salary.SalaryService
	salaries   *fakeSalaryRepo
	staff      *fakeStaffRepo
	attendance *fakeAttendanceRepo
	renderer   *salary.MockSlipRenderer
	mailer     *salary.MockSlipMailer
	deliveries *maillog.MockDeliveryRepository
	clock      *clock.Fake
}

func newSalaryTestEnv(t *testing.T) *salaryTestEnv {
	t.Helper()
	ctrl := gomock.NewController(t)

	env := &salaryTestEnv{
		salaries: newFakeSalaryRepo(),
		staff: newFakeStaffRepo(
			staff.Staff{
				ID:          driverID,
				Name:        "Nimal Perera",
				Email:       "nimal@example.com",
				Role:        "Driver",
				BasicSalary: dec("28000"),
				Allowances:  dec("1000"),
				Loan:        dec("500"),
				ShiftEnd:    17 * 60,
			},
			staff.Staff{
				ID:          conductorID,
				Name:        "Kamal Silva",
				Email:       "kamal@example.com",
				Role:        "Conductor",
				BasicSalary: dec("24000"),
				ShiftEnd:    17 * 60,
			},
		),
		attendance: &fakeAttendanceRepo{},
		renderer:   salary.NewMockSlipRenderer(ctrl),
		mailer:     salary.NewMockSlipMailer(ctrl),
		deliveries: maillog.NewMockDeliveryRepository(ctrl),
		clock:      clock.NewFake(time.Date(2025, 11, 2, 9, 0, 0, 0, time.UTC)),
	}
	env.svc = NewSalaryService(env.salaries, env.staff, env.attendance, env.renderer, env.mailer, env.deliveries, env.clock, nil)
	return env
}

func referenceRequest() salary.SaveSalaryRequest {
	return salary.SaveSalaryRequest{
		StaffID:    driverID,
		MonthYear:  october,
		Allowances: dec("1000"),
		OTHours:    dec("10"),
		NoPayDays:  2,
	}
}

func TestSaveSalary_ReferenceExample(t *testing.T) {
	env := newSalaryTestEnv(t)

	resp, err := env.svc.SaveSalary(context.Background(), referenceRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, salary.StatusCalculated, resp.Status)
	assert.Equal(t, "Nimal Perera", resp.StaffName)
	assert.Equal(t, "30875.00", resp.GrossSalary.StringFixed(2))
	assert.Equal(t, "4470.00", resp.TotalDeductions.StringFixed(2))
	assert.Equal(t, "26405.00", resp.NetSalary.StringFixed(2))
	assert.Equal(t, "1875.00", resp.Earnings.OvertimePay.StringFixed(2))
}

func TestSaveSalary_SecondSaveUpdatesInPlace(t *testing.T) {
	env := newSalaryTestEnv(t)
	ctx := context.Background()

	first, err := env.svc.SaveSalary(ctx, referenceRequest())
	require.NoError(t, err)

	req := referenceRequest()
	req.MonthYear = "october 2025"
	req.Bonus = dec("2500")
	second, err := env.svc.SaveSalary(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, env.salaries.count())
	assert.Equal(t, october, second.MonthYear)
	assert.Equal(t, "2500.00", second.Earnings.Bonus.StringFixed(2))
	assert.True(t, second.NetSalary.GreaterThan(first.NetSalary))
}

func TestSaveSalary_ByIDRejectsOtherStaff(t *testing.T) {
	env := newSalaryTestEnv(t)
	ctx := context.Background()

	saved, err := env.svc.SaveSalary(ctx, referenceRequest())
	require.NoError(t, err)

	req := referenceRequest()
	req.ID = &saved.ID
	req.StaffID = conductorID
	_, err = env.svc.SaveSalary(ctx, req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "staff_id")
}

func TestSaveSalary_ByIDKeepsMonthKey(t *testing.T) {
	env := newSalaryTestEnv(t)
	ctx := context.Background()

	oct, err := env.svc.SaveSalary(ctx, referenceRequest())
	require.NoError(t, err)
	novReq := referenceRequest()
	novReq.MonthYear = "November 2025"
	_, err = env.svc.SaveSalary(ctx, novReq)
	require.NoError(t, err)

	req := referenceRequest()
	req.ID = &oct.ID
	req.MonthYear = "November 2025"
	_, err = env.svc.SaveSalary(ctx, req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "month_year")

	stored, err := env.salaries.GetByStaffAndMonth(ctx, driverID, october)
	require.NoError(t, err)
	assert.Equal(t, oct.ID, stored.ID)
	assert.Equal(t, 2, env.salaries.count())
}

func TestSaveSalary_ConcurrentFirstSaveUpdates(t *testing.T) {
	env := newSalaryTestEnv(t)
	ctx := context.Background()

	repo := &racingSalaryRepo{
		fakeSalaryRepo: env.salaries,
		rival: &salary.Salary{
			StaffID:     driverID,
			MonthYear:   october,
			Status:      salary.StatusCalculated,
			BasicSalary: dec("28000"),
		},
	}
	svc := NewSalaryService(repo, env.staff, env.attendance, env.renderer, env.mailer, env.deliveries, env.clock, nil)

	resp, err := svc.SaveSalary(ctx, referenceRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, env.salaries.count())
	assert.Equal(t, "26405.00", resp.NetSalary.StringFixed(2))

	stored, err := env.salaries.GetByStaffAndMonth(ctx, driverID, october)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, resp.ID)
	assert.Equal(t, "26405.00", stored.NetSalary.StringFixed(2))
}

func TestSaveSalary_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *salary.SaveSalaryRequest)
		wantErr error
	}{
		{"unknown staff", func(r *salary.SaveSalaryRequest) { r.StaffID = "nobody" }, staff.ErrStaffNotFound},
		{"negative allowance", func(r *salary.SaveSalaryRequest) { r.Allowances = dec("-1") }, salary.ErrNegativeInput},
		{"negative net", func(r *salary.SaveSalaryRequest) { r.Loan = dec("40000") }, salary.ErrNegativeNetSalary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newSalaryTestEnv(t)
			req := referenceRequest()
			tt.mutate(&req)

			_, err := env.svc.SaveSalary(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, env.salaries.count())
		})
	}
}

func TestSaveSalary_InvalidMonth(t *testing.T) {
	env := newSalaryTestEnv(t)
	req := referenceRequest()
	req.MonthYear = "2025-10"

	_, err := env.svc.SaveSalary(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "month_year")
}

func TestSendSlip_SuccessMarksPaid(t *testing.T) {
	env := newSalaryTestEnv(t)
	ctx := context.Background()

	saved, err := env.svc.SaveSalary(ctx, referenceRequest())
	require.NoError(t, err)

	pdf := []byte("%PDF-1.3 slip")
	env.renderer.EXPECT().Render(gomock.Any(), gomock.Any()).Return(pdf, nil)
	env.mailer.EXPECT().
		SendSalarySlip(gomock.Any(), "nimal@example.com", "Nimal Perera", october, pdf, "salary-slip-October-2025.pdf").
		Return(nil)
	env.deliveries.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, d maillog.Delivery) error {
		assert.Equal(t, maillog.ResultSent, d.Result)
		assert.Equal(t, saved.ID, d.SalaryID)
		return nil
	})

	resp, err := env.svc.SendSlip(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, salary.StatusPaid, resp.Status)
	require.NotNil(t, resp.PaidAt)
	assert.Equal(t, env.clock.Now(), *resp.PaidAt)

	stored, err := env.salaries.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, salary.StatusPaid, stored.Status)
}

func TestSendSlip_MailFailureStaysCalculated(t *testing.T) {
	env := newSalaryTestEnv(t)
	ctx := context.Background()

	saved, err := env.svc.SaveSalary(ctx, referenceRequest())
	require.NoError(t, err)

	env.renderer.EXPECT().Render(gomock.Any(), gomock.Any()).Return([]byte("pdf"), nil)
	env.mailer.EXPECT().
		SendSalarySlip(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("smtp: connection refused"))
	env.deliveries.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, d maillog.Delivery) error {
		assert.Equal(t, maillog.ResultFailed, d.Result)
		assert.Contains(t, d.Error, "connection refused")
		return nil
	})

	_, err = env.svc.SendSlip(ctx, saved.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, salary.ErrSlipDeliveryFailed)

	stored, err := env.salaries.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, salary.StatusCalculated, stored.Status)
	assert.Nil(t, stored.PaidAt)
}

func TestSendSlip_RenderFailureStaysCalculated(t *testing.T) {
	env := newSalaryTestEnv(t)
	ctx := context.Background()

	saved, err := env.svc.SaveSalary(ctx, referenceRequest())
	require.NoError(t, err)

	env.renderer.EXPECT().Render(gomock.Any(), gomock.Any()).Return(nil, errors.New("font missing"))
	env.deliveries.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)

	_, err = env.svc.SendSlip(ctx, saved.ID)
	require.Error(t, err)

	stored, err := env.salaries.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, salary.StatusCalculated, stored.Status)
}

func TestSendSlip_DeliveryLogFailureDoesNotFailSend(t *testing.T) {
	env := newSalaryTestEnv(t)
	ctx := context.Background()

	saved, err := env.svc.SaveSalary(ctx, referenceRequest())
	require.NoError(t, err)

	env.renderer.EXPECT().Render(gomock.Any(), gomock.Any()).Return([]byte("pdf"), nil)
	env.mailer.EXPECT().
		SendSalarySlip(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil)
	env.deliveries.EXPECT().Record(gomock.Any(), gomock.Any()).Return(errors.New("mongo down"))

	resp, err := env.svc.SendSlip(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, salary.StatusPaid, resp.Status)
}

func TestSendSlip_PaidCannotBeResent(t *testing.T) {
	env := newSalaryTestEnv(t)
	ctx := context.Background()

	saved, err := env.svc.SaveSalary(ctx, referenceRequest())
	require.NoError(t, err)
	require.NoError(t, env.salaries.MarkPaid(ctx, saved.ID, env.clock.Now()))

	// No renderer or mailer expectations: nothing must be sent.
	_, err = env.svc.SendSlip(ctx, saved.ID)
	assert.ErrorIs(t, err, salary.ErrSalaryNotCalculated)
}

func TestSaveSalary_PaidCannotBeOverwritten(t *testing.T) {
	env := newSalaryTestEnv(t)
	ctx := context.Background()

	saved, err := env.svc.SaveSalary(ctx, referenceRequest())
	require.NoError(t, err)
	require.NoError(t, env.salaries.MarkPaid(ctx, saved.ID, env.clock.Now()))

	_, err = env.svc.SaveSalary(ctx, referenceRequest())
	assert.ErrorIs(t, err, salary.ErrSalaryAlreadyPaid)
}

func TestDownloadSlip_DoesNotChangeStatus(t *testing.T) {
	env := newSalaryTestEnv(t)
	ctx := context.Background()

	saved, err := env.svc.SaveSalary(ctx, referenceRequest())
	require.NoError(t, err)

	env.renderer.EXPECT().Render(gomock.Any(), gomock.Any()).Return([]byte("pdf"), nil)

	file, err := env.svc.DownloadSlip(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "salary-slip-October-2025.pdf", file.Filename)
	assert.Equal(t, []byte("pdf"), file.Content)

	stored, err := env.salaries.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, salary.StatusCalculated, stored.Status)
}

func TestGetUpdatePrep_LoanFollowsDefaultOnlyWhenChanged(t *testing.T) {
	env := newSalaryTestEnv(t)
	ctx := context.Background()

	// Staff default loan is 500; the saved record uses an edited 300.
	req := referenceRequest()
	req.Loan = dec("300")
	saved, err := env.svc.SaveSalary(ctx, req)
	require.NoError(t, err)

	prep, err := env.svc.GetUpdatePrep(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "300.00", prep.Loan.StringFixed(2), "unchanged default keeps the edited value")

	member, err := env.staff.GetByID(ctx, driverID)
	require.NoError(t, err)
	member.Loan = dec("750")
	require.NoError(t, env.staff.Update(ctx, member))

	prep, err = env.svc.GetUpdatePrep(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "750.00", prep.Loan.StringFixed(2), "a moved default wins")
}

func TestGetUpdatePrep_DerivesAttendanceFromRecords(t *testing.T) {
	env := newSalaryTestEnv(t)
	ctx := context.Background()

	saved, err := env.svc.SaveSalary(ctx, referenceRequest())
	require.NoError(t, err)

	env.attendance.records = []staff.Attendance{
		{ID: "a1", StaffID: driverID, Date: "2025-10-01", Status: staff.AttendancePresent, OTMinutes: 90},
		{ID: "a2", StaffID: driverID, Date: "2025-10-02", Status: staff.AttendanceAbsent},
		{ID: "a3", StaffID: conductorID, Date: "2025-10-01", Status: staff.AttendancePresent, OTMinutes: 600},
	}

	prep, err := env.svc.GetUpdatePrep(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "1.50", prep.OTHours.StringFixed(2))
	assert.Equal(t, "1000.00", prep.Allowances.StringFixed(2))
	assert.Equal(t, october, prep.MonthYear)
}

func TestListSalaries_FillsPendingPlaceholders(t *testing.T) {
	env := newSalaryTestEnv(t)
	ctx := context.Background()

	saved, err := env.svc.SaveSalary(ctx, referenceRequest())
	require.NoError(t, err)

	list, err := env.svc.ListSalaries(ctx, october)
	require.NoError(t, err)
	require.Len(t, list, 2)

	byStaff := map[string]salary.SalaryResponse{}
	for _, r := range list {
		byStaff[r.StaffID] = r
	}

	assert.Equal(t, saved.ID, byStaff[driverID].ID)
	assert.Equal(t, salary.StatusCalculated, byStaff[driverID].Status)

	placeholder := byStaff[conductorID]
	assert.Empty(t, placeholder.ID)
	assert.Equal(t, salary.StatusPending, placeholder.Status)
	assert.Equal(t, "24000.00", placeholder.BasicSalary.StringFixed(2))

	_, err = env.svc.ListSalaries(ctx, "not a month")
	assert.Error(t, err)
}

func TestListDeliveries(t *testing.T) {
	env := newSalaryTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.ListDeliveries(ctx, "missing")
	assert.ErrorIs(t, err, salary.ErrSalaryNotFound)

	saved, err := env.svc.SaveSalary(ctx, referenceRequest())
	require.NoError(t, err)

	want := []maillog.Delivery{{SalaryID: saved.ID, Result: maillog.ResultFailed}}
	env.deliveries.EXPECT().ListBySalary(gomock.Any(), saved.ID).Return(want, nil)

	got, err := env.svc.ListDeliveries(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDeleteSalary(t *testing.T) {
	env := newSalaryTestEnv(t)
	ctx := context.Background()

	saved, err := env.svc.SaveSalary(ctx, referenceRequest())
	require.NoError(t, err)

	require.NoError(t, env.svc.DeleteSalary(ctx, saved.ID))
	_, err = env.svc.GetSalary(ctx, saved.ID)
	assert.ErrorIs(t, err, salary.ErrSalaryNotFound)
}
