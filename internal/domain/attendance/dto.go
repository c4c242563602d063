package attendance

import (
	"time"

	"github.com/cinetrack/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// TAP DTOs
// ========================================

type TapRequest struct {
	EmployeeID string     `json:"employee_id"`
	Timestamp  *time.Time `json:"timestamp,omitempty"` // defaults to now; set by synthetic callers
	Source     TapSource  `json:"source"`
	Notes      string     `json:"notes,omitempty"`
}

func (r *TapRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	switch r.Source {
	case SourcePIN, SourceNFC, SourceJWT, SourceSystemAuto, SourceManual:
	default:
		errs = append(errs, validator.ValidationError{
			Field:   "source",
			Message: "source must be one of PIN, NFC, JWT, SYSTEM_AUTO, MANUAL",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TapResult struct {
	Action     TapAction `json:"action"`
	EmployeeID string    `json:"employee_id"`
	Timestamp  string    `json:"timestamp"` // local time, "2006-01-02 15:04:05"
	Date       string    `json:"date"`
	FinalHours *float64  `json:"final_hours,omitempty"` // set only when this tap closed the day
}

type CurrentStatus struct {
	EmployeeID    string    `json:"employee_id"`
	Date          string    `json:"date"`
	CurrentStatus TapAction `json:"current_status"`
	FirstClockIn  *string   `json:"first_clock_in"`
	LastClockOut  *string   `json:"last_clock_out"`
	HoursWorked   float64   `json:"hours_worked"`
	TapCount      int       `json:"tap_count"`
}

// ========================================
// MANUAL CORRECTION DTOs
// ========================================

// ManualEditRequest carries a manager correction to an existing summary.
// Times are local time-of-day strings ("15:04" or "15:04:05") on the
// summary's business date.
type ManualEditRequest struct {
	SummaryID    string  `json:"-"`
	FirstClockIn *string `json:"first_clock_in,omitempty"`
	LastClockOut *string `json:"last_clock_out,omitempty"`
	Reason       string  `json:"reason"`
	EditorID     string  `json:"-"`
}

func (r *ManualEditRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if r.FirstClockIn == nil && r.LastClockOut == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "changes",
			Message: "at least one of first_clock_in, last_clock_out is required",
		})
	}

	if r.FirstClockIn != nil {
		if _, ok := validator.ParseTimeOfDay(*r.FirstClockIn); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "first_clock_in",
				Message: "must be a time of day in HH:MM or HH:MM:SS format",
			})
		}
	}

	if r.LastClockOut != nil {
		if _, ok := validator.ParseTimeOfDay(*r.LastClockOut); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "last_clock_out",
				Message: "must be a time of day in HH:MM or HH:MM:SS format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ManualEntryRequest creates a whole summary for a day with no taps at all.
type ManualEntryRequest struct {
	EmployeeID   string `json:"employee_id"`
	Date         string `json:"date"` // "2006-01-02"
	FirstClockIn string `json:"first_clock_in"`
	LastClockOut string `json:"last_clock_out"`
	Reason       string `json:"reason"`
	EditorID     string `json:"-"`
}

func (r *ManualEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	in, inOK := validator.ParseTimeOfDay(r.FirstClockIn)
	if !inOK {
		errs = append(errs, validator.ValidationError{
			Field:   "first_clock_in",
			Message: "must be a time of day in HH:MM or HH:MM:SS format",
		})
	}

	out, outOK := validator.ParseTimeOfDay(r.LastClockOut)
	if !outOK {
		errs = append(errs, validator.ValidationError{
			Field:   "last_clock_out",
			Message: "must be a time of day in HH:MM or HH:MM:SS format",
		})
	}

	if inOK && outOK && out < in {
		errs = append(errs, validator.ValidationError{
			Field:   "last_clock_out",
			Message: "last_clock_out cannot be before first_clock_in",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========================================
// LIST DTOs
// ========================================

type SummaryFilter struct {
	EmployeeID string
	DateFrom   *time.Time
	DateTo     *time.Time
	Page       int
	Limit      int
}

func (f *SummaryFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
}

type SummaryResponse struct {
	ID             string    `json:"id"`
	EmployeeID     string    `json:"employee_id"`
	EmployeeName   *string   `json:"employee_name,omitempty"`
	Date           string    `json:"date"`
	FirstClockIn   *string   `json:"first_clock_in"`
	LastClockOut   *string   `json:"last_clock_out"`
	RawHours       float64   `json:"raw_hours"`
	BreakDeduction float64   `json:"break_deduction"`
	FinalHours     float64   `json:"final_hours"`
	CurrentStatus  TapAction `json:"current_status"`
	TapCount       int       `json:"tap_count"`
}

type ListSummariesResponse struct {
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	Summaries  []SummaryResponse `json:"summaries"`
}

type EditResponse struct {
	ID           string `json:"id"`
	SummaryID    string `json:"summary_id"`
	EmployeeID   string `json:"employee_id"`
	Date         string `json:"date"`
	EditorID     string `json:"editor_id"`
	EditedAt     string `json:"edited_at"`
	Kind         string `json:"kind"`
	FieldChanged string `json:"field_changed"`
	OldValue     string `json:"old_value"`
	NewValue     string `json:"new_value"`
	Reason       string `json:"reason"`
}
