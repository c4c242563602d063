package attendance

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cinetrack/attendance-backend-go/internal/domain/attendance"
	"github.com/cinetrack/attendance-backend-go/internal/domain/employee"
	"github.com/cinetrack/attendance-backend-go/internal/domain/settings"
)

// In-memory repositories so the engine can be tested without a database. The
// real implementations add row locking; single-goroutine tests do not need it.

type fakeTapRepo struct {
	taps    []attendance.Tap
	nextSeq int64
}

func (r *fakeTapRepo) Append(_ context.Context, tap attendance.Tap) (attendance.Tap, error) {
	r.nextSeq++
	tap.Seq = r.nextSeq
	tap.ID = fmt.Sprintf("tap-%d", r.nextSeq)
	tap.CreatedAt = tap.Timestamp
	r.taps = append(r.taps, tap)
	return tap, nil
}

func (r *fakeTapRepo) ListByEmployeeDate(_ context.Context, employeeID string, date time.Time) ([]attendance.Tap, error) {
	from := date
	to := date.AddDate(0, 0, 1)
	var out []attendance.Tap
	for _, tap := range r.taps {
		if tap.EmployeeID == employeeID && !tap.Timestamp.Before(from) && tap.Timestamp.Before(to) {
			out = append(out, tap)
		}
	}
	return out, nil
}

type fakeSummaryRepo struct {
	byKey  map[string]*attendance.DailySummary
	nextID int
}

func newFakeSummaryRepo() *fakeSummaryRepo {
	return &fakeSummaryRepo{byKey: make(map[string]*attendance.DailySummary)}
}

func summaryKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format("2006-01-02")
}

func (r *fakeSummaryRepo) GetOrCreateForUpdate(_ context.Context, employeeID string, date time.Time) (attendance.DailySummary, error) {
	key := summaryKey(employeeID, date)
	if s, ok := r.byKey[key]; ok {
		return *s, nil
	}
	r.nextID++
	s := &attendance.DailySummary{
		ID:            fmt.Sprintf("summary-%d", r.nextID),
		EmployeeID:    employeeID,
		Date:          date,
		CurrentStatus: attendance.ActionOut,
		CreatedAt:     date,
		UpdatedAt:     date,
	}
	r.byKey[key] = s
	return *s, nil
}

func (r *fakeSummaryRepo) GetByIDForUpdate(_ context.Context, id string) (attendance.DailySummary, error) {
	for _, s := range r.byKey {
		if s.ID == id {
			return *s, nil
		}
	}
	return attendance.DailySummary{}, attendance.ErrSummaryNotFound
}

func (r *fakeSummaryRepo) GetByEmployeeDate(_ context.Context, employeeID string, date time.Time) (attendance.DailySummary, error) {
	if s, ok := r.byKey[summaryKey(employeeID, date)]; ok {
		return *s, nil
	}
	return attendance.DailySummary{}, attendance.ErrSummaryNotFound
}

func (r *fakeSummaryRepo) Update(_ context.Context, summary attendance.DailySummary) error {
	for key, s := range r.byKey {
		if s.ID == summary.ID {
			copied := summary
			r.byKey[key] = &copied
			return nil
		}
	}
	return attendance.ErrSummaryNotFound
}

func (r *fakeSummaryRepo) ListOpenByDate(_ context.Context, date time.Time) ([]attendance.DailySummary, error) {
	var out []attendance.DailySummary
	for _, s := range r.byKey {
		if s.Date.Equal(date) && s.CurrentStatus == attendance.ActionIn {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

func (r *fakeSummaryRepo) List(_ context.Context, filter attendance.SummaryFilter) ([]attendance.DailySummary, int64, error) {
	var matched []attendance.DailySummary
	for _, s := range r.byKey {
		if filter.EmployeeID != "" && s.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.DateFrom != nil && s.Date.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && s.Date.After(*filter.DateTo) {
			continue
		}
		matched = append(matched, *s)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Date.Equal(matched[j].Date) {
			return matched[i].Date.After(matched[j].Date)
		}
		return matched[i].EmployeeID < matched[j].EmployeeID
	})

	total := int64(len(matched))
	start := (filter.Page - 1) * filter.Limit
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *fakeSummaryRepo) ListByEmployeeRange(_ context.Context, employeeID string, from, to time.Time) ([]attendance.DailySummary, error) {
	var out []attendance.DailySummary
	for _, s := range r.byKey {
		if s.EmployeeID == employeeID && !s.Date.Before(from) && !s.Date.After(to) {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

type fakeEditRepo struct {
	edits  []attendance.TimesheetEdit
	nextID int
}

func (r *fakeEditRepo) Create(_ context.Context, edit attendance.TimesheetEdit) (attendance.TimesheetEdit, error) {
	r.nextID++
	edit.ID = fmt.Sprintf("edit-%d", r.nextID)
	edit.EditedAt = time.Now().UTC()
	r.edits = append(r.edits, edit)
	return edit, nil
}

func (r *fakeEditRepo) ListBySummary(_ context.Context, summaryID string) ([]attendance.TimesheetEdit, error) {
	var out []attendance.TimesheetEdit
	for _, e := range r.edits {
		if e.SummaryID == summaryID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeEditRepo) List(_ context.Context, page, limit int) ([]attendance.TimesheetEdit, int64, error) {
	total := int64(len(r.edits))
	start := (page - 1) * limit
	if start >= len(r.edits) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(r.edits) {
		end = len(r.edits)
	}
	return r.edits[start:end], total, nil
}

type fakeSettingsRepo struct {
	cfg settings.SystemSettings
}

func (r *fakeSettingsRepo) Load(_ context.Context) (settings.SystemSettings, error) {
	return r.cfg, nil
}

func (r *fakeSettingsRepo) Update(_ context.Context, s settings.SystemSettings) (settings.SystemSettings, error) {
	r.cfg = s
	return s, nil
}

type fakeEmployeeRepo struct {
	byCode map[string]employee.Employee
}

func newFakeEmployeeRepo(emps ...employee.Employee) *fakeEmployeeRepo {
	r := &fakeEmployeeRepo{byCode: make(map[string]employee.Employee)}
	for _, e := range emps {
		r.byCode[e.EmployeeID] = e
	}
	return r
}

func (r *fakeEmployeeRepo) Create(_ context.Context, emp employee.Employee) (employee.Employee, error) {
	r.byCode[emp.EmployeeID] = emp
	return emp, nil
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	for _, e := range r.byCode {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *fakeEmployeeRepo) GetByEmployeeID(_ context.Context, employeeID string) (employee.Employee, error) {
	if e, ok := r.byCode[employeeID]; ok {
		return e, nil
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *fakeEmployeeRepo) GetByPIN(_ context.Context, pin string) (employee.Employee, error) {
	for _, e := range r.byCode {
		if e.PINCode == pin && e.IsActive {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *fakeEmployeeRepo) GetByNFC(_ context.Context, nfcID string) (employee.Employee, error) {
	for _, e := range r.byCode {
		if e.NFCID != nil && *e.NFCID == nfcID && e.IsActive {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *fakeEmployeeRepo) ListActive(_ context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range r.byCode {
		if e.IsActive {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

func (r *fakeEmployeeRepo) Update(_ context.Context, emp employee.Employee) error {
	r.byCode[emp.EmployeeID] = emp
	return nil
}

func (r *fakeEmployeeRepo) Deactivate(_ context.Context, id string) error {
	for code, e := range r.byCode {
		if e.ID == id {
			e.IsActive = false
			r.byCode[code] = e
			return nil
		}
	}
	return employee.ErrEmployeeNotFound
}
