package user

import "time"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
)

// Elevated reports whether the role may apply manual timesheet corrections
// and decide TIL requests.
func (r Role) Elevated() bool {
	return r == RoleAdmin || r == RoleManager
}

// User is a back-office account (managers, HR admins). Kiosk employees are
// not users; they authenticate by PIN or NFC against the employee registry.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
