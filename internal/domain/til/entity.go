package til

import (
	"math"
	"time"
)

type Type string

const (
	TypeEarnedOvertime   Type = "EARNED_OVERTIME"
	TypeEarnedEarlyStart Type = "EARNED_EARLY_START"
	TypeUsed             Type = "USED"
	TypeAdjusted         Type = "ADJUSTED"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Record is an append-only ledger entry. Hours is a positive magnitude for
// earned and used types; the sign is applied at the accounting layer. For
// ADJUSTED the stored value may be negative. Status moves PENDING→APPROVED or
// PENDING→REJECTED exactly once.
type Record struct {
	ID              string
	EmployeeID      string
	Type            Type
	Hours           float64
	Date            time.Time
	Reason          string
	Status          Status
	ApproverID      *string
	ApprovedAt      *time.Time
	RejectionReason *string
	CreatedAt       time.Time
}

// Signed returns the record's contribution to the balance: positive for
// earned types, negative for USED, as stored for ADJUSTED.
func (r Record) Signed() float64 {
	switch r.Type {
	case TypeUsed:
		return -r.Hours
	default:
		return r.Hours
	}
}

// Overtime is credited in two tiers: the first tier at time-and-a-half,
// anything beyond at double time.
const (
	overtimeTierHours      = 3.0
	overtimeTierMultiplier = 1.5
	overtimeRestMultiplier = 2.0
)

// CreditForOvertime converts worked overtime hours into ledger credit.
func CreditForOvertime(worked float64) float64 {
	if worked <= 0 {
		return 0
	}
	credit := worked * overtimeTierMultiplier
	if worked > overtimeTierHours {
		credit = overtimeTierHours*overtimeTierMultiplier + (worked-overtimeTierHours)*overtimeRestMultiplier
	}
	return math.Round(credit*100) / 100
}

// Balance is a projection over APPROVED records, never a source of truth. It
// must always equal a full replay of the ledger.
type Balance struct {
	EmployeeID     string  `json:"employee_id"`
	CurrentBalance float64 `json:"current_balance"`
	EarnedHours    float64 `json:"earned_hours"`
	UsedHours      float64 `json:"used_hours"`
	AdjustedHours  float64 `json:"adjusted_hours"`
}
