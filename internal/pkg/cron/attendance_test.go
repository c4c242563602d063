package cron

import (
	"context"
	"fmt"
	"math"
	"sort"
	"testing"
	"time"

	"github.com/cinetrack/attendance-backend-go/internal/domain/attendance"
	"github.com/cinetrack/attendance-backend-go/internal/domain/employee"
	"github.com/cinetrack/attendance-backend-go/internal/domain/settings"
	"github.com/cinetrack/attendance-backend-go/internal/pkg/clock"
	"github.com/cinetrack/attendance-backend-go/internal/pkg/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAttendanceService applies the same close semantics the real engine
// does, just without persistence machinery: a synthetic tap on an open day
// closes it, on a closed day it is a detected no-op.
type fakeAttendanceService struct {
	summaries *fakeSummaryStore
	calls     []attendance.TapRequest
	failFor   map[string]error
}

func (s *fakeAttendanceService) RecordTap(_ context.Context, req attendance.TapRequest) (attendance.TapResult, error) {
	s.calls = append(s.calls, req)
	if err := s.failFor[req.EmployeeID]; err != nil {
		return attendance.TapResult{}, err
	}

	summary, ok := s.summaries.byEmployee[req.EmployeeID]
	if !ok {
		return attendance.TapResult{}, attendance.ErrSummaryNotFound
	}
	if req.Source == attendance.SourceSystemAuto && summary.CurrentStatus != attendance.ActionIn {
		return attendance.TapResult{}, attendance.ErrRaceDetectedNoop
	}

	ts := *req.Timestamp
	summary.CurrentStatus = attendance.ActionOut
	summary.LastClockOut = &ts
	summary.TapCount++
	if summary.FirstClockIn != nil {
		raw := math.Round(ts.Sub(*summary.FirstClockIn).Hours()*100) / 100
		final := raw
		if raw > 5.0 {
			final = raw - 0.5
		}
		summary.RawHours = raw
		summary.FinalHours = final
	}

	final := summary.FinalHours
	return attendance.TapResult{
		Action:     attendance.ActionOut,
		EmployeeID: req.EmployeeID,
		Timestamp:  ts.Format("2006-01-02 15:04:05"),
		FinalHours: &final,
	}, nil
}

func (s *fakeAttendanceService) GetCurrentStatus(context.Context, string) (attendance.CurrentStatus, error) {
	panic("not used")
}

func (s *fakeAttendanceService) ApplyManualEdit(context.Context, attendance.ManualEditRequest) (attendance.SummaryResponse, error) {
	panic("not used")
}

func (s *fakeAttendanceService) CreateManualEntry(context.Context, attendance.ManualEntryRequest) (attendance.SummaryResponse, error) {
	panic("not used")
}

func (s *fakeAttendanceService) ListSummaries(context.Context, attendance.SummaryFilter) (attendance.ListSummariesResponse, error) {
	panic("not used")
}

func (s *fakeAttendanceService) ListEdits(context.Context, int, int) ([]attendance.EditResponse, int64, error) {
	panic("not used")
}

type fakeSummaryStore struct {
	byEmployee map[string]*attendance.DailySummary
}

func (s *fakeSummaryStore) GetOrCreateForUpdate(context.Context, string, time.Time) (attendance.DailySummary, error) {
	panic("not used")
}

func (s *fakeSummaryStore) GetByIDForUpdate(context.Context, string) (attendance.DailySummary, error) {
	panic("not used")
}

func (s *fakeSummaryStore) GetByEmployeeDate(context.Context, string, time.Time) (attendance.DailySummary, error) {
	panic("not used")
}

func (s *fakeSummaryStore) Update(context.Context, attendance.DailySummary) error {
	panic("not used")
}

func (s *fakeSummaryStore) ListOpenByDate(_ context.Context, date time.Time) ([]attendance.DailySummary, error) {
	var out []attendance.DailySummary
	for _, summary := range s.byEmployee {
		if summary.Date.Equal(date) && summary.CurrentStatus == attendance.ActionIn {
			out = append(out, *summary)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

func (s *fakeSummaryStore) List(context.Context, attendance.SummaryFilter) ([]attendance.DailySummary, int64, error) {
	panic("not used")
}

func (s *fakeSummaryStore) ListByEmployeeRange(_ context.Context, employeeID string, from, to time.Time) ([]attendance.DailySummary, error) {
	var out []attendance.DailySummary
	for _, summary := range s.byEmployee {
		if summary.EmployeeID == employeeID && !summary.Date.Before(from) && !summary.Date.After(to) {
			out = append(out, *summary)
		}
	}
	return out, nil
}

type fakeEmployees struct {
	byCode map[string]employee.Employee
}

func (r *fakeEmployees) Create(_ context.Context, emp employee.Employee) (employee.Employee, error) {
	return emp, nil
}

func (r *fakeEmployees) GetByID(context.Context, string) (employee.Employee, error) {
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *fakeEmployees) GetByEmployeeID(_ context.Context, code string) (employee.Employee, error) {
	if emp, ok := r.byCode[code]; ok {
		return emp, nil
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *fakeEmployees) GetByPIN(context.Context, string) (employee.Employee, error) {
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *fakeEmployees) GetByNFC(context.Context, string) (employee.Employee, error) {
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *fakeEmployees) ListActive(context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, emp := range r.byCode {
		out = append(out, emp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

func (r *fakeEmployees) Update(context.Context, employee.Employee) error { return nil }

func (r *fakeEmployees) Deactivate(context.Context, string) error { return nil }

type fakeSettingsStore struct {
	cfg settings.SystemSettings
}

func (r *fakeSettingsStore) Load(context.Context) (settings.SystemSettings, error) {
	return r.cfg, nil
}

func (r *fakeSettingsStore) Update(_ context.Context, s settings.SystemSettings) (settings.SystemSettings, error) {
	r.cfg = s
	return s, nil
}

type sentEmail struct {
	kind       string
	to         string
	employeeID string
}

type fakeNotifier struct {
	sent []sentEmail
}

func (n *fakeNotifier) SendAutoClockoutNotification(_ context.Context, to, _, employeeID, _ string) error {
	n.sent = append(n.sent, sentEmail{email.TypeAutoClockout, to, employeeID})
	return nil
}

func (n *fakeNotifier) SendMissedClockoutReminder(_ context.Context, to, _, employeeID, _ string) error {
	n.sent = append(n.sent, sentEmail{email.TypeMissedClockout, to, employeeID})
	return nil
}

func (n *fakeNotifier) SendEarlyClockoutAlert(_ context.Context, to, _, employeeID string, _, _ float64) error {
	n.sent = append(n.sent, sentEmail{email.TypeEarlyClockout, to, employeeID})
	return nil
}

func (n *fakeNotifier) SendWeeklyReport(_ context.Context, to, employeeID string, _ email.WeeklyReportData) error {
	n.sent = append(n.sent, sentEmail{email.TypeWeeklyReport, to, employeeID})
	return nil
}

func (n *fakeNotifier) countByKind(kind string) int {
	count := 0
	for _, s := range n.sent {
		if s.kind == kind {
			count++
		}
	}
	return count
}

type jobsEnv struct {
	jobs      *AttendanceJobs
	service   *fakeAttendanceService
	summaries *fakeSummaryStore
	settings  *fakeSettingsStore
	notifier  *fakeNotifier
}

func sweepSettings() settings.SystemSettings {
	return settings.SystemSettings{
		OfficeStartTime:     "07:00",
		OfficeEndTime:       "17:00",
		RequiredShiftHours:  8.0,
		BreakThresholdHours: 5.0,
		BreakDeductionHours: 0.5,
		GraceMinutes:        30,
		EnableAutoClockout:  true,
		Timezone:            "UTC",
		EnableWeeklyReports: true,
		WeeklyReportDay:     time.Friday,
		WeeklyReportHour:    17,
	}
}

func newJobsEnv(now time.Time, cfg settings.SystemSettings) *jobsEnv {
	summaries := &fakeSummaryStore{byEmployee: make(map[string]*attendance.DailySummary)}
	service := &fakeAttendanceService{summaries: summaries, failFor: map[string]error{}}
	settingsStore := &fakeSettingsStore{cfg: cfg}
	notifier := &fakeNotifier{}
	employees := &fakeEmployees{byCode: map[string]employee.Employee{
		"EMP100": {ID: "id-100", EmployeeID: "EMP100", Name: "Dana Reyes", Email: "dana@example.com", IsActive: true},
		"EMP200": {ID: "id-200", EmployeeID: "EMP200", Name: "Jo Park", Email: "jo@example.com", IsActive: true},
	}}

	return &jobsEnv{
		jobs:      NewAttendanceJobs(service, summaries, employees, settingsStore, notifier, clock.Fixed(now)),
		service:   service,
		summaries: summaries,
		settings:  settingsStore,
		notifier:  notifier,
	}
}

func at(hour, minute int) time.Time {
	return time.Date(2025, 3, 10, hour, minute, 0, 0, time.UTC)
}

func openDay(env *jobsEnv, employeeID string, firstIn time.Time) {
	date := time.Date(firstIn.Year(), firstIn.Month(), firstIn.Day(), 0, 0, 0, 0, time.UTC)
	in := firstIn
	env.summaries.byEmployee[employeeID] = &attendance.DailySummary{
		ID:            "summary-" + employeeID,
		EmployeeID:    employeeID,
		Date:          date,
		FirstClockIn:  &in,
		CurrentStatus: attendance.ActionIn,
		TapCount:      1,
	}
}

func TestAutoClockoutSweep_ClosesAfterOfficeEnd(t *testing.T) {
	now := at(21, 0)
	env := newJobsEnv(now, sweepSettings())
	openDay(env, "EMP100", at(8, 0))

	result, err := env.jobs.RunAutoClockoutSweep(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, SweepResult{Closed: 1}, result)

	require.Len(t, env.service.calls, 1)
	call := env.service.calls[0]
	assert.Equal(t, attendance.SourceSystemAuto, call.Source)
	// Late sweep still closes the day at office end, not at sweep time.
	require.NotNil(t, call.Timestamp)
	assert.True(t, call.Timestamp.Equal(at(17, 0)))

	assert.Equal(t, 1, env.notifier.countByKind(email.TypeAutoClockout))
}

func TestAutoClockoutSweep_ClosesWhenShiftExceededBeforeOfficeEnd(t *testing.T) {
	now := at(15, 30)
	env := newJobsEnv(now, sweepSettings())
	openDay(env, "EMP100", at(7, 0)) // 8.5h elapsed by 15:30

	result, err := env.jobs.RunAutoClockoutSweep(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, SweepResult{Closed: 1}, result)

	call := env.service.calls[0]
	assert.True(t, call.Timestamp.Equal(now))
}

func TestAutoClockoutSweep_SkipsWhenNoTriggerFires(t *testing.T) {
	now := at(16, 0)
	env := newJobsEnv(now, sweepSettings())
	openDay(env, "EMP100", at(9, 0)) // 7h elapsed, office still open

	result, err := env.jobs.RunAutoClockoutSweep(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, SweepResult{Skipped: 1}, result)
	assert.Empty(t, env.service.calls)
}

func TestAutoClockoutSweep_DisabledDoesNothing(t *testing.T) {
	now := at(21, 0)
	cfg := sweepSettings()
	cfg.EnableAutoClockout = false
	env := newJobsEnv(now, cfg)
	openDay(env, "EMP100", at(8, 0))

	result, err := env.jobs.RunAutoClockoutSweep(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, SweepResult{}, result)
	assert.Empty(t, env.service.calls)
}

func TestAutoClockoutSweep_IdempotentAcrossRuns(t *testing.T) {
	now := at(21, 0)
	env := newJobsEnv(now, sweepSettings())
	openDay(env, "EMP100", at(8, 0))

	first, err := env.jobs.RunAutoClockoutSweep(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Closed)

	// The day is now closed; a second pass finds nothing open.
	second, err := env.jobs.RunAutoClockoutSweep(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{}, second)
	assert.Len(t, env.service.calls, 1)
}

func TestAutoClockoutSweep_RaceCountsAsSkipped(t *testing.T) {
	now := at(21, 0)
	env := newJobsEnv(now, sweepSettings())
	openDay(env, "EMP100", at(8, 0))
	// Close behind the sweep's back after the listing.
	env.service.failFor["EMP100"] = attendance.ErrRaceDetectedNoop

	result, err := env.jobs.RunAutoClockoutSweep(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, SweepResult{Skipped: 1}, result)
	assert.Zero(t, env.notifier.countByKind(email.TypeAutoClockout))
}

func TestAutoClockoutSweep_OneFailureDoesNotStopOthers(t *testing.T) {
	now := at(21, 0)
	env := newJobsEnv(now, sweepSettings())
	openDay(env, "EMP100", at(8, 0))
	openDay(env, "EMP200", at(9, 0))
	env.service.failFor["EMP100"] = fmt.Errorf("connection reset")

	result, err := env.jobs.RunAutoClockoutSweep(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, SweepResult{Closed: 1, Failed: 1}, result)
	assert.Equal(t, 1, env.notifier.countByKind(email.TypeAutoClockout))
}

func TestAutoClockoutSweep_EarlyClockoutAlert(t *testing.T) {
	now := at(17, 30)
	cfg := sweepSettings()
	cfg.EnableEarlyClockoutAlerts = true
	env := newJobsEnv(now, cfg)
	openDay(env, "EMP100", at(13, 0)) // only 4h at office end

	result, err := env.jobs.RunAutoClockoutSweep(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Closed)
	assert.Equal(t, 1, env.notifier.countByKind(email.TypeEarlyClockout))
}

func TestMissedClockoutDigest_SendsOncePerEvening(t *testing.T) {
	now := at(20, 10)
	cfg := sweepSettings()
	cfg.EnableAutoClockout = false
	env := newJobsEnv(now, cfg)
	openDay(env, "EMP100", at(8, 0))

	require.NoError(t, env.jobs.RunMissedClockoutDigest(context.Background(), now))
	assert.Equal(t, 1, env.notifier.countByKind(email.TypeMissedClockout))

	// Second tick in the same evening must not re-send.
	require.NoError(t, env.jobs.RunMissedClockoutDigest(context.Background(), now.Add(20*time.Minute)))
	assert.Equal(t, 1, env.notifier.countByKind(email.TypeMissedClockout))
}

func TestMissedClockoutDigest_QuietOutsideWindow(t *testing.T) {
	cfg := sweepSettings()
	cfg.EnableAutoClockout = false
	env := newJobsEnv(at(15, 0), cfg)
	openDay(env, "EMP100", at(8, 0))

	require.NoError(t, env.jobs.RunMissedClockoutDigest(context.Background(), at(15, 0)))
	assert.Empty(t, env.notifier.sent)
}

func TestMissedClockoutDigest_SendsEvenWhenSweepEnabled(t *testing.T) {
	// A late office end can leave days open past digest time with the sweep
	// still waiting on its trigger; the reminder must not depend on the
	// sweep flag, only on the day being open.
	cfg := sweepSettings()
	cfg.OfficeEndTime = "23:00"
	env := newJobsEnv(at(20, 0), cfg)
	openDay(env, "EMP100", at(8, 0))

	require.NoError(t, env.jobs.RunMissedClockoutDigest(context.Background(), at(20, 0)))
	assert.Equal(t, 1, env.notifier.countByKind(email.TypeMissedClockout))
}

func TestMissedClockoutDigest_NothingOpenNothingSent(t *testing.T) {
	env := newJobsEnv(at(20, 0), sweepSettings())

	require.NoError(t, env.jobs.RunMissedClockoutDigest(context.Background(), at(20, 0)))
	assert.Empty(t, env.notifier.sent)
}

func TestWeeklyReports_SendsOnConfiguredSlot(t *testing.T) {
	// 2025-03-14 is a Friday.
	now := time.Date(2025, 3, 14, 17, 5, 0, 0, time.UTC)
	env := newJobsEnv(now, sweepSettings())

	in := at(9, 0)
	out := at(17, 0)
	env.summaries.byEmployee["EMP100"] = &attendance.DailySummary{
		EmployeeID:    "EMP100",
		Date:          at(0, 0),
		FirstClockIn:  &in,
		LastClockOut:  &out,
		FinalHours:    7.5,
		CurrentStatus: attendance.ActionOut,
		TapCount:      2,
	}

	require.NoError(t, env.jobs.RunWeeklyReports(context.Background(), now))
	assert.Equal(t, 2, env.notifier.countByKind(email.TypeWeeklyReport)) // both active employees

	// Same Friday, later tick: already sent.
	require.NoError(t, env.jobs.RunWeeklyReports(context.Background(), now.Add(30*time.Minute)))
	assert.Equal(t, 2, env.notifier.countByKind(email.TypeWeeklyReport))
}

func TestWeeklyReports_QuietOffSchedule(t *testing.T) {
	now := at(17, 0) // Monday
	env := newJobsEnv(now, sweepSettings())

	require.NoError(t, env.jobs.RunWeeklyReports(context.Background(), now))
	assert.Empty(t, env.notifier.sent)
}

func TestStartOfWeek(t *testing.T) {
	monday := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	assert.True(t, startOfWeek(monday).Equal(monday))

	friday := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	assert.True(t, startOfWeek(friday).Equal(monday))

	sunday := time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC)
	assert.True(t, startOfWeek(sunday).Equal(monday))
}

func TestBuildWeeklyReport_Totals(t *testing.T) {
	in1, out1 := at(9, 0), at(17, 0)
	day2 := at(0, 0).AddDate(0, 0, 1)
	in2 := day2.Add(10 * time.Hour)
	out2 := day2.Add(14 * time.Hour)

	data := buildWeeklyReport("Dana Reyes",
		at(0, 0), day2,
		[]attendance.DailySummary{
			{Date: at(0, 0), FirstClockIn: &in1, LastClockOut: &out1, FinalHours: 7.5, TapCount: 2},
			{Date: day2, FirstClockIn: &in2, LastClockOut: &out2, FinalHours: 4.0, TapCount: 2},
		}, time.UTC)

	assert.Equal(t, 2, data.DaysWorked)
	assert.Equal(t, "11.50", data.TotalHours)
	assert.Equal(t, "5.75", data.AvgHours)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, "09:00", data.Rows[0].ClockIn)
}

func TestScheduler_RunOnce(t *testing.T) {
	scheduler := NewScheduler()
	ran := 0
	scheduler.AddJob("counter", time.Hour, func(context.Context) error {
		ran++
		return nil
	})

	scheduler.RunOnce(context.Background())
	scheduler.RunOnce(context.Background())

	assert.Equal(t, 2, ran)
}
