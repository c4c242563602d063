package employee

import "errors"

// Employee domain errors
var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrInvalidPIN         = errors.New("invalid PIN")
	ErrInvalidNFC         = errors.New("unrecognized NFC tag")
	ErrPINExists          = errors.New("PIN already in use")
	ErrEmployeeCodeExists = errors.New("employee code already exists")
	ErrEmployeeInactive   = errors.New("employee is deactivated")
)
