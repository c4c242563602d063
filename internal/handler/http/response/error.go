package response

import (
	"errors"
	"net/http"

	"github.com/cinetrack/attendance-backend-go/internal/domain/attendance"
	"github.com/cinetrack/attendance-backend-go/internal/domain/auth"
	"github.com/cinetrack/attendance-backend-go/internal/domain/employee"
	"github.com/cinetrack/attendance-backend-go/internal/domain/til"
	"github.com/cinetrack/attendance-backend-go/internal/domain/user"
	"github.com/cinetrack/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrManagerPrivilegeRequired):
		Forbidden(w, "Manager privilege required")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrInvalidPIN):
		Unauthorized(w, "Invalid PIN")
	case errors.Is(err, employee.ErrInvalidNFC):
		Unauthorized(w, "Unrecognized NFC tag")
	case errors.Is(err, employee.ErrPINExists):
		Conflict(w, "PIN already in use")
	case errors.Is(err, employee.ErrEmployeeCodeExists):
		Conflict(w, "Employee code already exists")
	case errors.Is(err, employee.ErrEmployeeInactive):
		Forbidden(w, "Employee is deactivated")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrOutsideBusinessHours):
		BadRequest(w, "Clock in/out is only allowed during office hours", nil)
	case errors.Is(err, attendance.ErrSummaryNotFound):
		NotFound(w, "Daily summary not found")
	case errors.Is(err, attendance.ErrSummaryHasTaps):
		Conflict(w, "A summary with tap history already exists for this date")
	case errors.Is(err, attendance.ErrClockOutBeforeIn):
		BadRequest(w, "Last clock-out cannot be before first clock-in", nil)
	case errors.Is(err, attendance.ErrNoFieldsToChange):
		BadRequest(w, "No editable fields were supplied", nil)

	// TIL domain errors
	case errors.Is(err, til.ErrRecordNotFound):
		NotFound(w, "TIL record not found")
	case errors.Is(err, til.ErrAlreadyProcessed):
		Conflict(w, "TIL record has already been approved or rejected")
	case errors.Is(err, til.ErrInsufficientBalance):
		BadRequest(w, "Insufficient TIL balance", nil)

	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
