package salary

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/busops/transit-backend-go/internal/domain/salary"
	"github.com/busops/transit-backend-go/internal/domain/staff"
	"github.com/shopspring/decimal"
)

type fakeSalaryRepo struct {
	mu      sync.Mutex
	seq     int
	records map[string]salary.Salary
}

func newFakeSalaryRepo() *fakeSalaryRepo {
	return &fakeSalaryRepo{records: make(map[string]salary.Salary)}
}

func (r *fakeSalaryRepo) Create(ctx context.Context, s salary.Salary) (salary.Salary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, rec := range r.records {
		if rec.StaffID == s.StaffID && rec.MonthYear == s.MonthYear {
			if rec.Status == salary.StatusPaid {
				return salary.Salary{}, salary.ErrSalaryAlreadyPaid
			}
			s.ID = id
			s.CreatedAt = rec.CreatedAt
			r.records[id] = s
			return s, nil
		}
	}
	r.seq++
	s.ID = fmt.Sprintf("salary-%d", r.seq)
	r.records[s.ID] = s
	return s, nil
}

func (r *fakeSalaryRepo) GetByID(ctx context.Context, id string) (salary.Salary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return salary.Salary{}, salary.ErrSalaryNotFound
	}
	return rec, nil
}

func (r *fakeSalaryRepo) GetByStaffAndMonth(ctx context.Context, staffID, monthYear string) (salary.Salary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.StaffID == staffID && rec.MonthYear == monthYear {
			return rec, nil
		}
	}
	return salary.Salary{}, salary.ErrSalaryNotFound
}

func (r *fakeSalaryRepo) ListByMonth(ctx context.Context, monthYear string) ([]salary.Salary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []salary.Salary
	for _, rec := range r.records {
		if rec.MonthYear == monthYear {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeSalaryRepo) Update(ctx context.Context, s salary.Salary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[s.ID]
	if !ok {
		return salary.ErrSalaryNotFound
	}
	if rec.Status == salary.StatusPaid {
		return salary.ErrSalaryAlreadyPaid
	}
	for id, other := range r.records {
		if id != s.ID && other.StaffID == s.StaffID && other.MonthYear == s.MonthYear {
			return salary.ErrSalaryExists
		}
	}
	r.records[s.ID] = s
	return nil
}

func (r *fakeSalaryRepo) MarkPaid(ctx context.Context, id string, paidAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return salary.ErrSalaryNotFound
	}
	if err := rec.MarkPaid(paidAt); err != nil {
		return err
	}
	rec.UpdatedAt = paidAt
	r.records[id] = rec
	return nil
}

func (r *fakeSalaryRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return salary.ErrSalaryNotFound
	}
	delete(r.records, id)
	return nil
}

func (r *fakeSalaryRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

type fakeStaffRepo struct {
	members map[string]staff.Staff
}

func newFakeStaffRepo(members ...staff.Staff) *fakeStaffRepo {
	r := &fakeStaffRepo{members: make(map[string]staff.Staff)}
	for _, m := range members {
		r.members[m.ID] = m
	}
	return r
}

func (r *fakeStaffRepo) Create(ctx context.Context, s staff.Staff) (staff.Staff, error) {
	r.members[s.ID] = s
	return s, nil
}

func (r *fakeStaffRepo) GetByID(ctx context.Context, id string) (staff.Staff, error) {
	m, ok := r.members[id]
	if !ok {
		return staff.Staff{}, staff.ErrStaffNotFound
	}
	return m, nil
}

func (r *fakeStaffRepo) List(ctx context.Context) ([]staff.Staff, error) {
	var out []staff.Staff
	for _, m := range r.members {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeStaffRepo) Update(ctx context.Context, s staff.Staff) error {
	if _, ok := r.members[s.ID]; !ok {
		return staff.ErrStaffNotFound
	}
	r.members[s.ID] = s
	return nil
}

func (r *fakeStaffRepo) Delete(ctx context.Context, id string) error {
	delete(r.members, id)
	return nil
}

type fakeAttendanceRepo struct {
	records []staff.Attendance
}

func (r *fakeAttendanceRepo) Create(ctx context.Context, a staff.Attendance) (staff.Attendance, error) {
	for _, rec := range r.records {
		if rec.StaffID == a.StaffID && rec.Date == a.Date {
			return staff.Attendance{}, staff.ErrAttendanceExists
		}
	}
	a.ID = fmt.Sprintf("att-%d", len(r.records)+1)
	r.records = append(r.records, a)
	return a, nil
}

func (r *fakeAttendanceRepo) GetByDate(ctx context.Context, staffID, date string) (staff.Attendance, error) {
	for _, rec := range r.records {
		if rec.StaffID == staffID && rec.Date == date {
			return rec, nil
		}
	}
	return staff.Attendance{}, staff.ErrAttendanceNotFound
}

func (r *fakeAttendanceRepo) RecordCheckOut(ctx context.Context, a staff.Attendance, otHours decimal.Decimal) error {
	return r.Update(ctx, a)
}

func (r *fakeAttendanceRepo) Update(ctx context.Context, a staff.Attendance) error {
	for i, rec := range r.records {
		if rec.ID == a.ID {
			r.records[i] = a
			return nil
		}
	}
	return staff.ErrAttendanceNotFound
}

func (r *fakeAttendanceRepo) ListBetween(ctx context.Context, staffID, from, to string) ([]staff.Attendance, error) {
	var out []staff.Attendance
	for _, rec := range r.records {
		if rec.StaffID == staffID && rec.Date >= from && rec.Date <= to {
			out = append(out, rec)
		}
	}
	return out, nil
}

// racingSalaryRepo lets a rival save take (staff, month) between the
// service's lookup and its insert.
type racingSalaryRepo struct {
	*fakeSalaryRepo
	rival *salary.Salary
}

func (r *racingSalaryRepo) GetByStaffAndMonth(ctx context.Context, staffID, monthYear string) (salary.Salary, error) {
	rec, err := r.fakeSalaryRepo.GetByStaffAndMonth(ctx, staffID, monthYear)
	if r.rival != nil {
		rival := *r.rival
		r.rival = nil
		if _, err := r.fakeSalaryRepo.Create(ctx, rival); err != nil {
			return salary.Salary{}, err
		}
	}
	return rec, err
}
