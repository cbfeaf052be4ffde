package staff

import "context"

type StaffService interface {
	CreateStaff(ctx context.Context, req CreateStaffRequest) (StaffResponse, error)
	GetStaff(ctx context.Context, id string) (StaffResponse, error)
	ListStaff(ctx context.Context) ([]StaffResponse, error)
	UpdateStaff(ctx context.Context, req UpdateStaffRequest) (StaffResponse, error)
	DeleteStaff(ctx context.Context, id string) error

	// CheckIn opens today's attendance record; today is taken in the service's time zone.
	CheckIn(ctx context.Context, staffID string) (AttendanceResponse, error)
	// CheckOut closes today's record and adds its overtime to the staff aggregate.
	CheckOut(ctx context.Context, staffID string) (AttendanceResponse, error)
	MarkAttendance(ctx context.Context, req MarkAttendanceRequest) (AttendanceResponse, error)
	AttendanceSummary(ctx context.Context, staffID, monthYear string) (AttendanceSummaryResponse, error)
}
