package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cinetrack/attendance-backend-go/internal/domain/attendance"
	"github.com/cinetrack/attendance-backend-go/internal/domain/employee"
	"github.com/cinetrack/attendance-backend-go/internal/domain/settings"
	"github.com/cinetrack/attendance-backend-go/internal/pkg/clock"
	"github.com/cinetrack/attendance-backend-go/internal/pkg/email"
)

// digestHour is the local hour the missed clock-out digest goes out.
const digestHour = 20

// SweepResult summarizes one auto clock-out pass.
type SweepResult struct {
	Closed  int
	Skipped int
	Failed  int
}

// AttendanceJobs owns the scheduled attendance work: the auto clock-out
// sweep, the missed clock-out digest and weekly reports. All clock mutations
// go through the attendance service so the sweep can never bypass the parity
// rule or the summary recompute.
type AttendanceJobs struct {
	attendanceSvc attendance.Service
	summaries     attendance.DailySummaryRepository
	employees     employee.Repository
	settingsRepo  settings.Repository
	notifier      email.Notifier
	clock         clock.Clock

	mu             sync.Mutex
	lastWeeklySent time.Time
	lastDigestSent time.Time
}

func NewAttendanceJobs(
	attendanceSvc attendance.Service,
	summaryRepo attendance.DailySummaryRepository,
	employeeRepo employee.Repository,
	settingsRepo settings.Repository,
	notifier email.Notifier,
	clk clock.Clock,
) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceSvc: attendanceSvc,
		summaries:     summaryRepo,
		employees:     employeeRepo,
		settingsRepo:  settingsRepo,
		notifier:      notifier,
		clock:         clk,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler, sweepInterval time.Duration) {
	scheduler.AddJob("auto_clockout_sweep", sweepInterval, func(ctx context.Context) error {
		_, err := j.RunAutoClockoutSweep(ctx, j.clock.Now())
		return err
	})
	scheduler.AddJob("missed_clockout_digest", 15*time.Minute, func(ctx context.Context) error {
		return j.RunMissedClockoutDigest(ctx, j.clock.Now())
	})
	scheduler.AddJob("weekly_reports", 15*time.Minute, func(ctx context.Context) error {
		return j.RunWeeklyReports(ctx, j.clock.Now())
	})
}

// RunAutoClockoutSweep closes every summary still open once either trigger
// fires: the office has closed, or the employee has been in longer than the
// required shift. One employee failing never stops the rest of the pass.
func (j *AttendanceJobs) RunAutoClockoutSweep(ctx context.Context, now time.Time) (SweepResult, error) {
	cfg, err := j.settingsRepo.Load(ctx)
	if err != nil {
		return SweepResult{}, fmt.Errorf("failed to load settings: %w", err)
	}
	if !cfg.EnableAutoClockout {
		slog.Debug("Cron: auto clock-out disabled, skipping sweep")
		return SweepResult{}, nil
	}

	loc := cfg.Location()
	date := dateOf(now, loc)
	officeEnd := cfg.OfficeEnd(date)

	open, err := j.summaries.ListOpenByDate(ctx, date)
	if err != nil {
		return SweepResult{}, fmt.Errorf("failed to list open summaries: %w", err)
	}
	if len(open) == 0 {
		return SweepResult{}, nil
	}

	slog.Info("Cron: Starting auto clock-out sweep", "date", date.Format("2006-01-02"), "open", len(open))

	var result SweepResult
	for _, summary := range open {
		pastOfficeEnd := !now.Before(officeEnd)
		overShift := summary.FirstClockIn != nil &&
			now.Sub(*summary.FirstClockIn).Hours() >= cfg.RequiredShiftHours

		if !pastOfficeEnd && !overShift {
			result.Skipped++
			continue
		}

		// Clock out at office close when the sweep runs late, so the recorded
		// hours reflect the business day rather than sweep lag.
		clockOut := now
		if pastOfficeEnd {
			clockOut = officeEnd
		}
		if summary.FirstClockIn != nil && clockOut.Before(*summary.FirstClockIn) {
			clockOut = *summary.FirstClockIn
		}

		tapResult, err := j.attendanceSvc.RecordTap(ctx, attendance.TapRequest{
			EmployeeID: summary.EmployeeID,
			Timestamp:  &clockOut,
			Source:     attendance.SourceSystemAuto,
			Notes:      "Auto clock-out",
		})
		if err != nil {
			if errors.Is(err, attendance.ErrRaceDetectedNoop) {
				// Someone tapped out between the listing and the lock.
				result.Skipped++
				continue
			}
			result.Failed++
			slog.Error("Cron: Auto clock-out failed", "employee_id", summary.EmployeeID, "error", err)
			continue
		}

		result.Closed++
		slog.Info("Cron: Auto clocked out employee",
			"employee_id", summary.EmployeeID, "clock_out", tapResult.Timestamp)

		j.notifyAutoClockout(ctx, summary.EmployeeID, clockOut.In(loc).Format("15:04"))

		if cfg.EnableEarlyClockoutAlerts && tapResult.FinalHours != nil &&
			*tapResult.FinalHours < cfg.RequiredShiftHours-cfg.BreakDeductionHours {
			j.notifyEarlyClockout(ctx, summary.EmployeeID, *tapResult.FinalHours, cfg.RequiredShiftHours)
		}
	}

	slog.Info("Cron: Auto clock-out sweep finished",
		"closed", result.Closed, "skipped", result.Skipped, "failed", result.Failed)
	return result, nil
}

// RunMissedClockoutDigest reminds employees who are still clocked in come
// evening. It gates on the day still being open, not on whether the sweep is
// enabled: with a late office end the sweep may not have fired by digest
// time, and an already-swept day simply has no open summaries left.
func (j *AttendanceJobs) RunMissedClockoutDigest(ctx context.Context, now time.Time) error {
	cfg, err := j.settingsRepo.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	loc := cfg.Location()
	local := now.In(loc)
	if local.Hour() != digestHour {
		return nil
	}

	date := dateOf(now, loc)
	j.mu.Lock()
	alreadySent := j.lastDigestSent.Equal(date)
	if !alreadySent {
		j.lastDigestSent = date
	}
	j.mu.Unlock()
	if alreadySent {
		return nil
	}

	open, err := j.summaries.ListOpenByDate(ctx, date)
	if err != nil {
		return fmt.Errorf("failed to list open summaries: %w", err)
	}

	for _, summary := range open {
		emp, err := j.employees.GetByEmployeeID(ctx, summary.EmployeeID)
		if err != nil {
			slog.Error("Cron: Failed to resolve employee for reminder", "employee_id", summary.EmployeeID, "error", err)
			continue
		}

		firstIn := ""
		if summary.FirstClockIn != nil {
			firstIn = summary.FirstClockIn.In(loc).Format("15:04")
		}
		if err := j.notifier.SendMissedClockoutReminder(ctx, emp.Email, emp.Name, emp.EmployeeID, firstIn); err != nil {
			slog.Error("Cron: Missed clock-out reminder failed", "employee_id", emp.EmployeeID, "error", err)
		}
	}

	return nil
}

// RunWeeklyReports emails each active employee their hours for the current
// week. Fires once on the configured local weekday and hour.
func (j *AttendanceJobs) RunWeeklyReports(ctx context.Context, now time.Time) error {
	cfg, err := j.settingsRepo.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if !cfg.EnableWeeklyReports {
		return nil
	}

	loc := cfg.Location()
	local := now.In(loc)
	if local.Weekday() != cfg.WeeklyReportDay || local.Hour() != cfg.WeeklyReportHour {
		return nil
	}

	date := dateOf(now, loc)
	j.mu.Lock()
	alreadySent := j.lastWeeklySent.Equal(date)
	if !alreadySent {
		j.lastWeeklySent = date
	}
	j.mu.Unlock()
	if alreadySent {
		return nil
	}

	weekStart := startOfWeek(date)

	employees, err := j.employees.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list employees: %w", err)
	}

	slog.Info("Cron: Sending weekly reports",
		"week_start", weekStart.Format("2006-01-02"), "employees", len(employees))

	for _, emp := range employees {
		summaries, err := j.summaries.ListByEmployeeRange(ctx, emp.EmployeeID, weekStart, date)
		if err != nil {
			slog.Error("Cron: Failed to load weekly summaries", "employee_id", emp.EmployeeID, "error", err)
			continue
		}

		data := buildWeeklyReport(emp.Name, weekStart, date, summaries, loc)
		if err := j.notifier.SendWeeklyReport(ctx, emp.Email, emp.EmployeeID, data); err != nil {
			slog.Error("Cron: Weekly report failed", "employee_id", emp.EmployeeID, "error", err)
		}
	}

	return nil
}

func (j *AttendanceJobs) notifyAutoClockout(ctx context.Context, employeeID, clockOutTime string) {
	emp, err := j.employees.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		slog.Error("Cron: Failed to resolve employee for notification", "employee_id", employeeID, "error", err)
		return
	}
	if err := j.notifier.SendAutoClockoutNotification(ctx, emp.Email, emp.Name, emp.EmployeeID, clockOutTime); err != nil {
		slog.Error("Cron: Auto clock-out notification failed", "employee_id", employeeID, "error", err)
	}
}

func (j *AttendanceJobs) notifyEarlyClockout(ctx context.Context, employeeID string, finalHours, requiredHours float64) {
	emp, err := j.employees.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		slog.Error("Cron: Failed to resolve employee for alert", "employee_id", employeeID, "error", err)
		return
	}
	if err := j.notifier.SendEarlyClockoutAlert(ctx, emp.Email, emp.Name, emp.EmployeeID, finalHours, requiredHours); err != nil {
		slog.Error("Cron: Early clock-out alert failed", "employee_id", employeeID, "error", err)
	}
}

func dateOf(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// startOfWeek returns the Monday of date's week.
func startOfWeek(date time.Time) time.Time {
	offset := (int(date.Weekday()) + 6) % 7
	return date.AddDate(0, 0, -offset)
}

func buildWeeklyReport(name string, weekStart, weekEnd time.Time, summaries []attendance.DailySummary, loc *time.Location) email.WeeklyReportData {
	data := email.WeeklyReportData{
		EmployeeName: name,
		WeekStart:    weekStart.Format("Jan 2"),
		WeekEnd:      weekEnd.Format("Jan 2, 2006"),
		Year:         weekEnd.Year(),
	}

	var total float64
	for _, s := range summaries {
		if s.TapCount == 0 && s.FirstClockIn == nil {
			continue
		}
		row := email.WeeklyReportRow{
			Day:   s.Date.Format("Mon Jan 2"),
			Hours: fmt.Sprintf("%.2f", s.FinalHours),
		}
		if s.FirstClockIn != nil {
			row.ClockIn = s.FirstClockIn.In(loc).Format("15:04")
		}
		if s.LastClockOut != nil {
			row.ClockOut = s.LastClockOut.In(loc).Format("15:04")
		}
		data.Rows = append(data.Rows, row)
		total += s.FinalHours
		data.DaysWorked++
	}

	data.TotalHours = fmt.Sprintf("%.2f", total)
	if data.DaysWorked > 0 {
		data.AvgHours = fmt.Sprintf("%.2f", total/float64(data.DaysWorked))
	} else {
		data.AvgHours = "0.00"
	}

	return data
}
