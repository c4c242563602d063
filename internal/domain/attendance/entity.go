package attendance

import (
	"time"
)

type TapAction string

const (
	ActionIn  TapAction = "IN"
	ActionOut TapAction = "OUT"
)

type TapSource string

const (
	SourcePIN        TapSource = "PIN"
	SourceNFC        TapSource = "NFC"
	SourceJWT        TapSource = "JWT"
	SourceSystemAuto TapSource = "SYSTEM_AUTO"
	SourceManual     TapSource = "MANUAL"
)

// Tap is an immutable clock event. Rows are append-only; ordering within an
// employee-day is by Timestamp with Seq breaking ties.
type Tap struct {
	ID         string
	Seq        int64
	EmployeeID string
	Timestamp  time.Time // UTC
	Action     TapAction
	Source     TapSource
	Notes      string
	CreatedAt  time.Time
}

// DailySummary is the derived ledger row for one (employee, business date).
// Invariants: TapCount is even iff CurrentStatus is OUT; FinalHours >= 0;
// LastClockOut, when set, is never before FirstClockIn.
type DailySummary struct {
	ID             string
	EmployeeID     string
	Date           time.Time // business date at local midnight
	FirstClockIn   *time.Time
	LastClockOut   *time.Time
	RawHours       float64
	BreakDeduction float64
	FinalHours     float64
	CurrentStatus  TapAction
	TapCount       int
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// DTO
	EmployeeName *string
}

type EditKind string

const (
	EditKindEdit   EditKind = "edit"
	EditKindCreate EditKind = "create"
)

// TimesheetEdit is an immutable audit record, one per field changed per
// successful manual correction.
type TimesheetEdit struct {
	ID           string
	SummaryID    string
	EmployeeID   string
	Date         time.Time
	EditorID     string
	EditedAt     time.Time
	Kind         EditKind
	FieldChanged string
	OldValue     string
	NewValue     string
	Reason       string
}

// DeriveAction is the single authoritative parity rule: the Nth tap of a day
// alternates strictly, starting with IN.
func DeriveAction(tapCount int) TapAction {
	if tapCount%2 == 0 {
		return ActionIn
	}
	return ActionOut
}
