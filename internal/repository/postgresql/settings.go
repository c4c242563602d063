package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cinetrack/attendance-backend-go/internal/domain/settings"
	"github.com/cinetrack/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// settingsRowID pins the singleton row.
const settingsRowID = 1

type settingsRepository struct {
	db       *database.DB
	defaults settings.SystemSettings
}

// NewSettingsRepository stores the singleton settings row. The defaults are
// returned (and seeded on first write) when the row does not exist yet.
func NewSettingsRepository(db *database.DB, defaults settings.SystemSettings) settings.Repository {
	return &settingsRepository{db: db, defaults: defaults}
}

const settingsColumns = `
	office_start_time, office_end_time, required_shift_hours,
	break_threshold_hours, break_deduction_hours, grace_minutes,
	enable_auto_clockout, timezone, enable_weekly_reports,
	weekly_report_day, weekly_report_hour, enable_early_clockout_alerts,
	updated_at`

func (r *settingsRepository) Load(ctx context.Context) (settings.SystemSettings, error) {
	querier := GetQuerier(ctx, r.db)

	query := `SELECT ` + settingsColumns + ` FROM system_settings WHERE id = $1`

	var s settings.SystemSettings
	var reportDay int
	err := querier.QueryRow(ctx, query, settingsRowID).Scan(
		&s.OfficeStartTime,
		&s.OfficeEndTime,
		&s.RequiredShiftHours,
		&s.BreakThresholdHours,
		&s.BreakDeductionHours,
		&s.GraceMinutes,
		&s.EnableAutoClockout,
		&s.Timezone,
		&s.EnableWeeklyReports,
		&reportDay,
		&s.WeeklyReportHour,
		&s.EnableEarlyClockoutAlerts,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return r.defaults, nil
		}
		return settings.SystemSettings{}, fmt.Errorf("failed to load system settings: %w", err)
	}
	s.WeeklyReportDay = time.Weekday(reportDay)

	return s, nil
}

func (r *settingsRepository) Update(ctx context.Context, s settings.SystemSettings) (settings.SystemSettings, error) {
	querier := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO system_settings (
			id, office_start_time, office_end_time, required_shift_hours,
			break_threshold_hours, break_deduction_hours, grace_minutes,
			enable_auto_clockout, timezone, enable_weekly_reports,
			weekly_report_day, weekly_report_hour, enable_early_clockout_alerts,
			updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW())
		ON CONFLICT (id) DO UPDATE SET
			office_start_time = EXCLUDED.office_start_time,
			office_end_time = EXCLUDED.office_end_time,
			required_shift_hours = EXCLUDED.required_shift_hours,
			break_threshold_hours = EXCLUDED.break_threshold_hours,
			break_deduction_hours = EXCLUDED.break_deduction_hours,
			grace_minutes = EXCLUDED.grace_minutes,
			enable_auto_clockout = EXCLUDED.enable_auto_clockout,
			timezone = EXCLUDED.timezone,
			enable_weekly_reports = EXCLUDED.enable_weekly_reports,
			weekly_report_day = EXCLUDED.weekly_report_day,
			weekly_report_hour = EXCLUDED.weekly_report_hour,
			enable_early_clockout_alerts = EXCLUDED.enable_early_clockout_alerts,
			updated_at = NOW()
		RETURNING updated_at`

	err := querier.QueryRow(ctx, query,
		settingsRowID,
		s.OfficeStartTime,
		s.OfficeEndTime,
		s.RequiredShiftHours,
		s.BreakThresholdHours,
		s.BreakDeductionHours,
		s.GraceMinutes,
		s.EnableAutoClockout,
		s.Timezone,
		s.EnableWeeklyReports,
		int(s.WeeklyReportDay),
		s.WeeklyReportHour,
		s.EnableEarlyClockoutAlerts,
	).Scan(&s.UpdatedAt)
	if err != nil {
		return settings.SystemSettings{}, fmt.Errorf("failed to update system settings: %w", err)
	}

	return s, nil
}
