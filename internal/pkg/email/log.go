package email

import (
	"context"
	"time"
)

type LogStatus string

const (
	LogStatusSuccess LogStatus = "SUCCESS"
	LogStatusFailed  LogStatus = "FAILED"
)

const (
	TypeAutoClockout   = "AUTO_CLOCKOUT"
	TypeMissedClockout = "MISSED_CLOCKOUT"
	TypeEarlyClockout  = "EARLY_CLOCKOUT"
	TypeWeeklyReport   = "WEEKLY_REPORT"
)

// Log records the outcome of every outbound notification so admins can see
// what was (or was not) sent without digging through server logs.
type Log struct {
	ID         string
	EmailType  string
	Recipient  string
	EmployeeID string
	Status     LogStatus
	Details    string
	CreatedAt  time.Time
}

type LogRepository interface {
	Create(ctx context.Context, log Log) error
	List(ctx context.Context, page, limit int) ([]Log, int64, error)
}
