package attendance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cinetrack/attendance-backend-go/internal/domain/attendance"
	"github.com/cinetrack/attendance-backend-go/internal/domain/employee"
	"github.com/cinetrack/attendance-backend-go/internal/domain/settings"
	"github.com/cinetrack/attendance-backend-go/internal/pkg/clock"
	"github.com/cinetrack/attendance-backend-go/internal/pkg/database"
	"github.com/cinetrack/attendance-backend-go/internal/pkg/validator"
	"github.com/cinetrack/attendance-backend-go/internal/repository/postgresql"
)

type AttendanceServiceImpl struct {
	db           *database.DB
	clock        clock.Clock
	taps         attendance.TapRepository
	summaries    attendance.DailySummaryRepository
	edits        attendance.TimesheetEditRepository
	settingsRepo settings.Repository
	employees    employee.Repository
}

func NewAttendanceService(
	db *database.DB,
	clk clock.Clock,
	tapRepo attendance.TapRepository,
	summaryRepo attendance.DailySummaryRepository,
	editRepo attendance.TimesheetEditRepository,
	settingsRepo settings.Repository,
	employeeRepo employee.Repository,
) attendance.Service {
	return &AttendanceServiceImpl{
		db:           db,
		clock:        clk,
		taps:         tapRepo,
		summaries:    summaryRepo,
		edits:        editRepo,
		settingsRepo: settingsRepo,
		employees:    employeeRepo,
	}
}

// inTx runs fn inside a database transaction when a pool is configured.
// Without a pool (in-memory repositories) fn runs directly.
func (s *AttendanceServiceImpl) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.db == nil {
		return fn(ctx)
	}
	return postgresql.WithTransaction(ctx, s.db, fn)
}

// businessDate truncates an instant to local midnight in the business
// timezone. All per-day grouping keys come from here.
func businessDate(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// computeHours is the single place day totals are derived. Raw hours span
// first clock-in to last clock-out; the break is deducted only above the
// threshold; the final figure never goes below zero.
func computeHours(firstIn, lastOut time.Time, cfg settings.SystemSettings) (raw, deduction, final float64) {
	raw = round2(lastOut.Sub(firstIn).Hours())
	if raw < 0 {
		raw = 0
	}
	if raw > cfg.BreakThresholdHours {
		deduction = cfg.BreakDeductionHours
	}
	final = round2(raw - deduction)
	if final < 0 {
		final = 0
	}
	return raw, deduction, final
}

// RecordTap implements attendance.Service. Kiosk taps, authenticated web taps
// and the sweep's synthetic taps all land here; the action is derived from
// tap-count parity under a per-(employee, date) row lock.
func (s *AttendanceServiceImpl) RecordTap(ctx context.Context, req attendance.TapRequest) (attendance.TapResult, error) {
	if err := req.Validate(); err != nil {
		return attendance.TapResult{}, err
	}

	now := s.clock.Now()
	if req.Timestamp != nil {
		now = *req.Timestamp
	}

	cfg, err := s.settingsRepo.Load(ctx)
	if err != nil {
		return attendance.TapResult{}, fmt.Errorf("failed to load settings: %w", err)
	}

	loc := cfg.Location()
	date := businessDate(now, loc)

	var result attendance.TapResult
	err = s.inTx(ctx, func(ctx context.Context) error {
		summary, err := s.summaries.GetOrCreateForUpdate(ctx, req.EmployeeID, date)
		if err != nil {
			return err
		}

		// The sweep closes days it observed as open before taking the lock.
		// If someone tapped out in between, the synthetic tap must not flip
		// the day back to IN.
		if req.Source == attendance.SourceSystemAuto && summary.CurrentStatus != attendance.ActionIn {
			return attendance.ErrRaceDetectedNoop
		}

		if req.Source != attendance.SourceSystemAuto && req.Source != attendance.SourceManual {
			grace := time.Duration(cfg.GraceMinutes) * time.Minute
			earliest := cfg.OfficeStart(date).Add(-grace)
			latest := cfg.OfficeEnd(date).Add(grace)
			if now.Before(earliest) || now.After(latest) {
				return attendance.ErrOutsideBusinessHours
			}
		}

		action := attendance.DeriveAction(summary.TapCount)

		notes := req.Notes
		if req.Source == attendance.SourceSystemAuto {
			notes = "Auto clock-out"
		}

		if _, err := s.taps.Append(ctx, attendance.Tap{
			EmployeeID: req.EmployeeID,
			Timestamp:  now,
			Action:     action,
			Source:     req.Source,
			Notes:      notes,
		}); err != nil {
			return err
		}

		summary.TapCount++
		summary.CurrentStatus = action

		switch action {
		case attendance.ActionIn:
			if summary.FirstClockIn == nil {
				ts := now
				summary.FirstClockIn = &ts
			}
		case attendance.ActionOut:
			ts := now
			summary.LastClockOut = &ts
			if summary.FirstClockIn != nil {
				summary.RawHours, summary.BreakDeduction, summary.FinalHours =
					computeHours(*summary.FirstClockIn, *summary.LastClockOut, cfg)
			}
		}

		if err := s.summaries.Update(ctx, summary); err != nil {
			return err
		}

		result = attendance.TapResult{
			Action:     action,
			EmployeeID: req.EmployeeID,
			Timestamp:  now.In(loc).Format("2006-01-02 15:04:05"),
			Date:       date.Format("2006-01-02"),
		}
		if action == attendance.ActionOut {
			final := summary.FinalHours
			result.FinalHours = &final
		}
		return nil
	})
	if err != nil {
		return attendance.TapResult{}, err
	}

	return result, nil
}

// GetCurrentStatus implements attendance.Service.
func (s *AttendanceServiceImpl) GetCurrentStatus(ctx context.Context, employeeID string) (attendance.CurrentStatus, error) {
	cfg, err := s.settingsRepo.Load(ctx)
	if err != nil {
		return attendance.CurrentStatus{}, fmt.Errorf("failed to load settings: %w", err)
	}

	loc := cfg.Location()
	now := s.clock.Now()
	date := businessDate(now, loc)

	status := attendance.CurrentStatus{
		EmployeeID:    employeeID,
		Date:          date.Format("2006-01-02"),
		CurrentStatus: attendance.ActionOut,
	}

	summary, err := s.summaries.GetByEmployeeDate(ctx, employeeID, date)
	if err != nil {
		if errors.Is(err, attendance.ErrSummaryNotFound) {
			return status, nil
		}
		return attendance.CurrentStatus{}, err
	}

	status.CurrentStatus = summary.CurrentStatus
	status.TapCount = summary.TapCount
	status.FirstClockIn = localTimeString(summary.FirstClockIn, loc)
	status.LastClockOut = localTimeString(summary.LastClockOut, loc)
	status.HoursWorked = summary.FinalHours

	// A day still open shows hours as if it were closed right now.
	if summary.CurrentStatus == attendance.ActionIn && summary.FirstClockIn != nil {
		_, _, status.HoursWorked = computeHours(*summary.FirstClockIn, now, cfg)
	}

	return status, nil
}

// ApplyManualEdit implements attendance.Service. Every changed field gets its
// own audit row with the pre-edit value; the recompute is the same one taps
// use.
func (s *AttendanceServiceImpl) ApplyManualEdit(ctx context.Context, req attendance.ManualEditRequest) (attendance.SummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SummaryResponse{}, err
	}

	cfg, err := s.settingsRepo.Load(ctx)
	if err != nil {
		return attendance.SummaryResponse{}, fmt.Errorf("failed to load settings: %w", err)
	}
	loc := cfg.Location()

	var response attendance.SummaryResponse
	err = s.inTx(ctx, func(ctx context.Context) error {
		summary, err := s.summaries.GetByIDForUpdate(ctx, req.SummaryID)
		if err != nil {
			return err
		}

		date := time.Date(summary.Date.Year(), summary.Date.Month(), summary.Date.Day(), 0, 0, 0, 0, loc)

		newFirst := summary.FirstClockIn
		newLast := summary.LastClockOut
		if req.FirstClockIn != nil {
			d, _ := validator.ParseTimeOfDay(*req.FirstClockIn)
			t := date.Add(d)
			newFirst = &t
		}
		if req.LastClockOut != nil {
			d, _ := validator.ParseTimeOfDay(*req.LastClockOut)
			t := date.Add(d)
			newLast = &t
		}

		if newFirst != nil && newLast != nil && newLast.Before(*newFirst) {
			return attendance.ErrClockOutBeforeIn
		}

		type change struct {
			field    string
			oldValue string
			newValue string
		}
		var changes []change

		if req.FirstClockIn != nil && !equalTimePtr(summary.FirstClockIn, newFirst) {
			changes = append(changes, change{
				field:    "first_clock_in",
				oldValue: derefTimeString(summary.FirstClockIn, loc),
				newValue: derefTimeString(newFirst, loc),
			})
		}
		if req.LastClockOut != nil && !equalTimePtr(summary.LastClockOut, newLast) {
			changes = append(changes, change{
				field:    "last_clock_out",
				oldValue: derefTimeString(summary.LastClockOut, loc),
				newValue: derefTimeString(newLast, loc),
			})
		}

		if len(changes) == 0 {
			return attendance.ErrNoFieldsToChange
		}

		for _, c := range changes {
			if _, err := s.edits.Create(ctx, attendance.TimesheetEdit{
				SummaryID:    summary.ID,
				EmployeeID:   summary.EmployeeID,
				Date:         summary.Date,
				EditorID:     req.EditorID,
				Kind:         attendance.EditKindEdit,
				FieldChanged: c.field,
				OldValue:     c.oldValue,
				NewValue:     c.newValue,
				Reason:       req.Reason,
			}); err != nil {
				return err
			}
		}

		summary.FirstClockIn = newFirst
		summary.LastClockOut = newLast
		if summary.FirstClockIn != nil && summary.LastClockOut != nil {
			summary.RawHours, summary.BreakDeduction, summary.FinalHours =
				computeHours(*summary.FirstClockIn, *summary.LastClockOut, cfg)
			summary.CurrentStatus = attendance.ActionOut
			// Closing a still-open day by edit must keep tap-count parity
			// intact, or the employee's next kiosk tap would derive OUT on
			// an already-closed day.
			if summary.TapCount%2 != 0 {
				summary.TapCount++
			}
		}

		if err := s.summaries.Update(ctx, summary); err != nil {
			return err
		}

		response = toSummaryResponse(summary, loc)
		return nil
	})
	if err != nil {
		return attendance.SummaryResponse{}, err
	}

	return response, nil
}

// CreateManualEntry implements attendance.Service. It backfills a whole day
// that has no tap history, leaving a creation audit trail.
func (s *AttendanceServiceImpl) CreateManualEntry(ctx context.Context, req attendance.ManualEntryRequest) (attendance.SummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SummaryResponse{}, err
	}

	if _, err := s.employees.GetByEmployeeID(ctx, req.EmployeeID); err != nil {
		return attendance.SummaryResponse{}, err
	}

	cfg, err := s.settingsRepo.Load(ctx)
	if err != nil {
		return attendance.SummaryResponse{}, fmt.Errorf("failed to load settings: %w", err)
	}
	loc := cfg.Location()

	parsed, _ := time.Parse("2006-01-02", req.Date)
	date := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, loc)

	inOfDay, _ := validator.ParseTimeOfDay(req.FirstClockIn)
	outOfDay, _ := validator.ParseTimeOfDay(req.LastClockOut)
	firstIn := date.Add(inOfDay)
	lastOut := date.Add(outOfDay)

	var response attendance.SummaryResponse
	err = s.inTx(ctx, func(ctx context.Context) error {
		summary, err := s.summaries.GetOrCreateForUpdate(ctx, req.EmployeeID, date)
		if err != nil {
			return err
		}
		if summary.TapCount > 0 {
			return attendance.ErrSummaryHasTaps
		}

		summary.FirstClockIn = &firstIn
		summary.LastClockOut = &lastOut
		summary.TapCount = 2
		summary.CurrentStatus = attendance.ActionOut
		summary.RawHours, summary.BreakDeduction, summary.FinalHours =
			computeHours(firstIn, lastOut, cfg)

		for _, c := range []struct {
			field string
			value string
		}{
			{"first_clock_in", firstIn.In(loc).Format("15:04:05")},
			{"last_clock_out", lastOut.In(loc).Format("15:04:05")},
		} {
			if _, err := s.edits.Create(ctx, attendance.TimesheetEdit{
				SummaryID:    summary.ID,
				EmployeeID:   summary.EmployeeID,
				Date:         summary.Date,
				EditorID:     req.EditorID,
				Kind:         attendance.EditKindCreate,
				FieldChanged: c.field,
				OldValue:     "",
				NewValue:     c.value,
				Reason:       req.Reason,
			}); err != nil {
				return err
			}
		}

		if err := s.summaries.Update(ctx, summary); err != nil {
			return err
		}

		response = toSummaryResponse(summary, loc)
		return nil
	})
	if err != nil {
		return attendance.SummaryResponse{}, err
	}

	return response, nil
}

// ListSummaries implements attendance.Service.
func (s *AttendanceServiceImpl) ListSummaries(ctx context.Context, filter attendance.SummaryFilter) (attendance.ListSummariesResponse, error) {
	filter.Normalize()

	cfg, err := s.settingsRepo.Load(ctx)
	if err != nil {
		return attendance.ListSummariesResponse{}, fmt.Errorf("failed to load settings: %w", err)
	}
	loc := cfg.Location()

	summaries, total, err := s.summaries.List(ctx, filter)
	if err != nil {
		return attendance.ListSummariesResponse{}, err
	}

	resp := attendance.ListSummariesResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Summaries:  make([]attendance.SummaryResponse, 0, len(summaries)),
	}
	for _, summary := range summaries {
		resp.Summaries = append(resp.Summaries, toSummaryResponse(summary, loc))
	}

	return resp, nil
}

// ListEdits implements attendance.Service.
func (s *AttendanceServiceImpl) ListEdits(ctx context.Context, page, limit int) ([]attendance.EditResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	edits, total, err := s.edits.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]attendance.EditResponse, 0, len(edits))
	for _, e := range edits {
		responses = append(responses, attendance.EditResponse{
			ID:           e.ID,
			SummaryID:    e.SummaryID,
			EmployeeID:   e.EmployeeID,
			Date:         e.Date.Format("2006-01-02"),
			EditorID:     e.EditorID,
			EditedAt:     e.EditedAt.UTC().Format(time.RFC3339),
			Kind:         string(e.Kind),
			FieldChanged: e.FieldChanged,
			OldValue:     e.OldValue,
			NewValue:     e.NewValue,
			Reason:       e.Reason,
		})
	}

	return responses, total, nil
}

func toSummaryResponse(s attendance.DailySummary, loc *time.Location) attendance.SummaryResponse {
	return attendance.SummaryResponse{
		ID:             s.ID,
		EmployeeID:     s.EmployeeID,
		EmployeeName:   s.EmployeeName,
		Date:           s.Date.Format("2006-01-02"),
		FirstClockIn:   localTimeString(s.FirstClockIn, loc),
		LastClockOut:   localTimeString(s.LastClockOut, loc),
		RawHours:       s.RawHours,
		BreakDeduction: s.BreakDeduction,
		FinalHours:     s.FinalHours,
		CurrentStatus:  s.CurrentStatus,
		TapCount:       s.TapCount,
	}
}

// localTimeString safely converts a *time.Time to a local clock string.
func localTimeString(t *time.Time, loc *time.Location) *string {
	if t == nil {
		return nil
	}
	formatted := t.In(loc).Format("15:04:05")
	return &formatted
}

func derefTimeString(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format("15:04:05")
}

func equalTimePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
