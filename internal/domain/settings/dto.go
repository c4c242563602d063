package settings

import (
	"time"

	"github.com/cinetrack/attendance-backend-go/internal/pkg/validator"
)

// UpdateSettingsRequest patches the singleton settings row. Nil fields keep
// their current value.
type UpdateSettingsRequest struct {
	OfficeStartTime     *string  `json:"office_start_time,omitempty"`
	OfficeEndTime       *string  `json:"office_end_time,omitempty"`
	RequiredShiftHours  *float64 `json:"required_shift_hours,omitempty"`
	BreakThresholdHours *float64 `json:"break_threshold_hours,omitempty"`
	BreakDeductionHours *float64 `json:"break_deduction_hours,omitempty"`
	GraceMinutes        *int     `json:"grace_minutes,omitempty"`
	EnableAutoClockout  *bool    `json:"enable_auto_clockout,omitempty"`
	Timezone            *string  `json:"timezone,omitempty"`

	EnableWeeklyReports       *bool `json:"enable_weekly_reports,omitempty"`
	WeeklyReportDay           *int  `json:"weekly_report_day,omitempty"` // 0=Sunday .. 6=Saturday
	WeeklyReportHour          *int  `json:"weekly_report_hour,omitempty"`
	EnableEarlyClockoutAlerts *bool `json:"enable_early_clockout_alerts,omitempty"`
}

func (r *UpdateSettingsRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.OfficeStartTime != nil {
		if _, ok := validator.ParseTimeOfDay(*r.OfficeStartTime); !ok {
			errs = append(errs, validator.ValidationError{Field: "office_start_time", Message: "must be a time of day in HH:MM format"})
		}
	}
	if r.OfficeEndTime != nil {
		if _, ok := validator.ParseTimeOfDay(*r.OfficeEndTime); !ok {
			errs = append(errs, validator.ValidationError{Field: "office_end_time", Message: "must be a time of day in HH:MM format"})
		}
	}
	if r.RequiredShiftHours != nil && (*r.RequiredShiftHours <= 0 || *r.RequiredShiftHours > 24) {
		errs = append(errs, validator.ValidationError{Field: "required_shift_hours", Message: "must be between 0 and 24"})
	}
	if r.BreakThresholdHours != nil && *r.BreakThresholdHours < 0 {
		errs = append(errs, validator.ValidationError{Field: "break_threshold_hours", Message: "cannot be negative"})
	}
	if r.BreakDeductionHours != nil && *r.BreakDeductionHours < 0 {
		errs = append(errs, validator.ValidationError{Field: "break_deduction_hours", Message: "cannot be negative"})
	}
	if r.GraceMinutes != nil && *r.GraceMinutes < 0 {
		errs = append(errs, validator.ValidationError{Field: "grace_minutes", Message: "cannot be negative"})
	}
	if r.Timezone != nil {
		if _, err := time.LoadLocation(*r.Timezone); err != nil {
			errs = append(errs, validator.ValidationError{Field: "timezone", Message: "must be a valid IANA timezone name"})
		}
	}
	if r.WeeklyReportDay != nil && (*r.WeeklyReportDay < 0 || *r.WeeklyReportDay > 6) {
		errs = append(errs, validator.ValidationError{Field: "weekly_report_day", Message: "must be 0 (Sunday) through 6 (Saturday)"})
	}
	if r.WeeklyReportHour != nil && (*r.WeeklyReportHour < 0 || *r.WeeklyReportHour > 23) {
		errs = append(errs, validator.ValidationError{Field: "weekly_report_hour", Message: "must be 0 through 23"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Apply overlays the request onto the current settings.
func (r *UpdateSettingsRequest) Apply(current SystemSettings) SystemSettings {
	if r.OfficeStartTime != nil {
		current.OfficeStartTime = *r.OfficeStartTime
	}
	if r.OfficeEndTime != nil {
		current.OfficeEndTime = *r.OfficeEndTime
	}
	if r.RequiredShiftHours != nil {
		current.RequiredShiftHours = *r.RequiredShiftHours
	}
	if r.BreakThresholdHours != nil {
		current.BreakThresholdHours = *r.BreakThresholdHours
	}
	if r.BreakDeductionHours != nil {
		current.BreakDeductionHours = *r.BreakDeductionHours
	}
	if r.GraceMinutes != nil {
		current.GraceMinutes = *r.GraceMinutes
	}
	if r.EnableAutoClockout != nil {
		current.EnableAutoClockout = *r.EnableAutoClockout
	}
	if r.Timezone != nil {
		current.Timezone = *r.Timezone
	}
	if r.EnableWeeklyReports != nil {
		current.EnableWeeklyReports = *r.EnableWeeklyReports
	}
	if r.WeeklyReportDay != nil {
		current.WeeklyReportDay = time.Weekday(*r.WeeklyReportDay)
	}
	if r.WeeklyReportHour != nil {
		current.WeeklyReportHour = *r.WeeklyReportHour
	}
	if r.EnableEarlyClockoutAlerts != nil {
		current.EnableEarlyClockoutAlerts = *r.EnableEarlyClockoutAlerts
	}
	return current
}

type SettingsResponse struct {
	OfficeStartTime     string  `json:"office_start_time"`
	OfficeEndTime       string  `json:"office_end_time"`
	RequiredShiftHours  float64 `json:"required_shift_hours"`
	BreakThresholdHours float64 `json:"break_threshold_hours"`
	BreakDeductionHours float64 `json:"break_deduction_hours"`
	GraceMinutes        int     `json:"grace_minutes"`
	EnableAutoClockout  bool    `json:"enable_auto_clockout"`
	Timezone            string  `json:"timezone"`

	EnableWeeklyReports       bool `json:"enable_weekly_reports"`
	WeeklyReportDay           int  `json:"weekly_report_day"`
	WeeklyReportHour          int  `json:"weekly_report_hour"`
	EnableEarlyClockoutAlerts bool `json:"enable_early_clockout_alerts"`
}

func ToResponse(s SystemSettings) SettingsResponse {
	return SettingsResponse{
		OfficeStartTime:     s.OfficeStartTime,
		OfficeEndTime:       s.OfficeEndTime,
		RequiredShiftHours:  s.RequiredShiftHours,
		BreakThresholdHours: s.BreakThresholdHours,
		BreakDeductionHours: s.BreakDeductionHours,
		GraceMinutes:        s.GraceMinutes,
		EnableAutoClockout:  s.EnableAutoClockout,
		Timezone:            s.Timezone,

		EnableWeeklyReports:       s.EnableWeeklyReports,
		WeeklyReportDay:           int(s.WeeklyReportDay),
		WeeklyReportHour:          s.WeeklyReportHour,
		EnableEarlyClockoutAlerts: s.EnableEarlyClockoutAlerts,
	}
}
