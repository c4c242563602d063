package til

import (
	"time"

	"github.com/cinetrack/attendance-backend-go/internal/pkg/validator"
)

// maxFutureDays bounds how far ahead a TIL request may be dated.
const maxFutureDays = 366

type RequestTILRequest struct {
	EmployeeID string  `json:"employee_id"`
	Type       Type    `json:"til_type"`
	Hours      float64 `json:"hours"`
	Date       string  `json:"date"` // "2006-01-02"
	Reason     string  `json:"reason"`
}

func (r *RequestTILRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}

	switch r.Type {
	case TypeEarnedOvertime, TypeEarnedEarlyStart, TypeUsed:
		if r.Hours <= 0 {
			errs = append(errs, validator.ValidationError{Field: "hours", Message: "hours must be greater than zero"})
		}
	case TypeAdjusted:
		if r.Hours == 0 {
			errs = append(errs, validator.ValidationError{Field: "hours", Message: "adjustment hours cannot be zero"})
		}
	default:
		errs = append(errs, validator.ValidationError{
			Field:   "til_type",
			Message: "til_type must be one of EARNED_OVERTIME, EARNED_EARLY_START, USED, ADJUSTED",
		})
	}

	if date, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be in YYYY-MM-DD format"})
	} else if date.After(time.Now().AddDate(0, 0, maxFutureDays)) {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "date is too far in the future"})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "reason is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RejectTILRequest struct {
	RecordID   string `json:"-"`
	ApproverID string `json:"-"`
	Reason     string `json:"reason"`
}

func (r *RejectTILRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "rejection reason is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RecordResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	Type            Type    `json:"til_type"`
	Hours           float64 `json:"hours"`
	Date            string  `json:"date"`
	Reason          string  `json:"reason"`
	Status          Status  `json:"status"`
	ApproverID      *string `json:"approver_id,omitempty"`
	ApprovedAt      *string `json:"approved_at,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
}
