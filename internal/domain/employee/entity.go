package employee

import "time"

// Employee is a registry entry. PINCode and NFCID are plain lookup keys for
// the kiosk; they carry no cryptographic meaning.
type Employee struct {
	ID         string
	EmployeeID string // human-facing code, e.g. "EMP042"
	Name       string
	Email      string
	PINCode    string
	NFCID      *string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
