package attendance

import "errors"

// Attendance domain errors
var (
	// Tap errors
	ErrOutsideBusinessHours = errors.New("clock in/out is only allowed during office hours")
	ErrRaceDetectedNoop     = errors.New("synthetic clock-out targeted an already closed summary")

	// Manual correction errors
	ErrSummaryNotFound  = errors.New("daily summary not found")
	ErrSummaryHasTaps   = errors.New("a summary with tap history already exists for this date")
	ErrClockOutBeforeIn = errors.New("last clock-out cannot be before first clock-in")
	ErrNoFieldsToChange = errors.New("no editable fields were supplied")
)
