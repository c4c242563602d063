package employee

import (
	"github.com/cinetrack/attendance-backend-go/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	EmployeeID string  `json:"employee_id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	PINCode    string  `json:"pin_code"`
	NFCID      *string `json:"nfc_id,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	}
	if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "a valid email is required"})
	}
	if !validator.IsValidPIN(r.PINCode) {
		errs = append(errs, validator.ValidationError{Field: "pin_code", Message: "PIN must be 4-6 digits"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateEmployeeRequest struct {
	ID      string  `json:"-"`
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	PINCode *string `json:"pin_code,omitempty"`
	NFCID   *string `json:"nfc_id,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name cannot be empty"})
	}
	if r.Email != nil && !validator.IsValidEmail(*r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "a valid email is required"})
	}
	if r.PINCode != nil && !validator.IsValidPIN(*r.PINCode) {
		errs = append(errs, validator.ValidationError{Field: "pin_code", Message: "PIN must be 4-6 digits"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeResponse struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	NFCID      *string `json:"nfc_id,omitempty"`
	IsActive   bool    `json:"is_active"`
}
