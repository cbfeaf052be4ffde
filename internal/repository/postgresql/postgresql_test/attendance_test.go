package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/busops/transit-backend-go/internal/domain/staff"
	"github.com/busops/transit-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttendanceRepository_RecordCheckOut(t *testing.T) {
	setup := NewTestDatabase(t)
	staffRepo := postgresql.NewStaffRepository(setup.DB)
	attendanceRepo := postgresql.NewAttendanceRepository(setup.DB)
	ctx := context.Background()

	member, err := staffRepo.Create(ctx, staff.Staff{
		Name:          "Kamal Silva",
		Email:         "kamal@example.com",
		ContactNumber: "0711234567",
		Role:          "Conductor",
		BasicSalary:   decimal.NewFromInt(25000),
		ShiftStart:    8 * 60,
		ShiftEnd:      17 * 60,
	})
	require.NoError(t, err)

	checkIn := time.Date(2025, 10, 1, 2, 30, 0, 0, time.UTC)
	rec, err := attendanceRepo.Create(ctx, staff.Attendance{
		StaffID: member.ID,
		Date:    "2025-10-01",
		Status:  staff.AttendancePresent,
		CheckIn: &checkIn,
	})
	require.NoError(t, err)

	checkOut := checkIn.Add(10 * time.Hour)
	done := rec
	done.CheckOut = &checkOut
	done.WorkedMinutes = 600
	done.OTMinutes = 90

	t.Run("overtime failure rolls back the attendance write", func(t *testing.T) {
		orphan := done
		orphan.StaffID = "00000000-0000-0000-0000-000000000000"
		err := attendanceRepo.RecordCheckOut(ctx, orphan, decimal.RequireFromString("1.5"))
		assert.ErrorIs(t, err, staff.ErrStaffNotFound)

		stored, err := attendanceRepo.GetByDate(ctx, member.ID, "2025-10-01")
		require.NoError(t, err)
		assert.Nil(t, stored.CheckOut)
		assert.Zero(t, stored.OTMinutes)
	})

	t.Run("both writes land together", func(t *testing.T) {
		require.NoError(t, attendanceRepo.RecordCheckOut(ctx, done, decimal.RequireFromString("1.5")))

		stored, err := attendanceRepo.GetByDate(ctx, member.ID, "2025-10-01")
		require.NoError(t, err)
		require.NotNil(t, stored.CheckOut)
		assert.Equal(t, 90, stored.OTMinutes)

		got, err := staffRepo.GetByID(ctx, member.ID)
		require.NoError(t, err)
		assert.Equal(t, "1.50", got.OTHours.StringFixed(2))
	})
}
