package settings

import (
	"time"
)

// SystemSettings is the process-wide singleton configuration row. It is
// loaded once per operation and passed by value; writes take effect only for
// computations that start after the write.
type SystemSettings struct {
	OfficeStartTime     string  // local time of day, "07:00"
	OfficeEndTime       string  // local time of day, "17:00"
	RequiredShiftHours  float64 // shift length including break
	BreakThresholdHours float64 // deduct break only above this many raw hours
	BreakDeductionHours float64 // unpaid break length
	GraceMinutes        int     // tap window tolerance around office hours
	EnableAutoClockout  bool
	Timezone            string // IANA name, e.g. "Australia/Sydney"

	EnableWeeklyReports       bool
	WeeklyReportDay           time.Weekday
	WeeklyReportHour          int // local hour, 24h clock
	EnableEarlyClockoutAlerts bool

	UpdatedAt time.Time
}

// Location resolves the business timezone, falling back to UTC when the
// identifier cannot be loaded.
func (s SystemSettings) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// OfficeStart returns the office opening instant on the given business date.
func (s SystemSettings) OfficeStart(date time.Time) time.Time {
	return atTimeOfDay(date, s.OfficeStartTime, s.Location())
}

// OfficeEnd returns the office closing instant on the given business date.
func (s SystemSettings) OfficeEnd(date time.Time) time.Time {
	return atTimeOfDay(date, s.OfficeEndTime, s.Location())
}

func atTimeOfDay(date time.Time, clock string, loc *time.Location) time.Time {
	t, err := time.Parse("15:04:05", clock)
	if err != nil {
		t, err = time.Parse("15:04", clock)
		if err != nil {
			t = time.Time{}
		}
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), t.Second(), 0, loc)
}
