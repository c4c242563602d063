package attendance

import (
	"context"
	"time"
)

// TapRepository is the append-only clock store. Taps are never updated or
// deleted; a full recompute of any summary is always possible from this log.
type TapRepository interface {
	// Append stores a new tap and fills in its ID, Seq and CreatedAt.
	Append(ctx context.Context, tap Tap) (Tap, error)

	// ListByEmployeeDate returns all taps for one employee-day ordered by
	// timestamp, ties broken by insertion sequence.
	ListByEmployeeDate(ctx context.Context, employeeID string, date time.Time) ([]Tap, error)
}

// DailySummaryRepository maintains the derived per-day ledger rows.
type DailySummaryRepository interface {
	// GetOrCreateForUpdate fetches the summary for (employee, date), creating
	// an empty one if missing, and locks the row for the duration of the
	// surrounding transaction. This is the per-(employee, date) serialization
	// point: concurrent taps for the same key queue behind the lock.
	GetOrCreateForUpdate(ctx context.Context, employeeID string, date time.Time) (DailySummary, error)

	// GetByIDForUpdate locks an existing summary by primary key.
	GetByIDForUpdate(ctx context.Context, id string) (DailySummary, error)

	// GetByEmployeeDate is a read-only fetch; returns ErrSummaryNotFound if
	// no row exists.
	GetByEmployeeDate(ctx context.Context, employeeID string, date time.Time) (DailySummary, error)

	// Update persists the mutable fields of an existing summary.
	Update(ctx context.Context, summary DailySummary) error

	// ListOpenByDate returns every summary still IN for the given business
	// date. Used by the auto clock-out sweep and the missed clock-out digest.
	ListOpenByDate(ctx context.Context, date time.Time) ([]DailySummary, error)

	// List returns summaries matching the filter with a total count.
	List(ctx context.Context, filter SummaryFilter) ([]DailySummary, int64, error)

	// ListByEmployeeRange returns summaries for one employee between two
	// business dates inclusive, ordered by date.
	ListByEmployeeRange(ctx context.Context, employeeID string, from, to time.Time) ([]DailySummary, error)
}

// TimesheetEditRepository is the append-only audit trail.
type TimesheetEditRepository interface {
	Create(ctx context.Context, edit TimesheetEdit) (TimesheetEdit, error)
	ListBySummary(ctx context.Context, summaryID string) ([]TimesheetEdit, error)
	List(ctx context.Context, page, limit int) ([]TimesheetEdit, int64, error)
}
