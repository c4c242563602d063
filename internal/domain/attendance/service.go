package attendance

import (
	"context"
)

// Service is the attendance engine. Every path that can change a summary's
// hour fields goes through here: kiosk taps, synthetic sweep taps, and
// manager corrections all share one computation.
type Service interface {
	// RecordTap appends a tap and updates the day's summary. The action is
	// derived from tap-count parity, never supplied by the caller.
	RecordTap(ctx context.Context, req TapRequest) (TapResult, error)

	// GetCurrentStatus returns today's projection for dashboards.
	GetCurrentStatus(ctx context.Context, employeeID string) (CurrentStatus, error)

	// ApplyManualEdit corrects first/last clock times on an existing summary,
	// writing one audit row per changed field.
	ApplyManualEdit(ctx context.Context, req ManualEditRequest) (SummaryResponse, error)

	// CreateManualEntry creates a summary for a day with no taps at all.
	CreateManualEntry(ctx context.Context, req ManualEntryRequest) (SummaryResponse, error)

	// ListSummaries returns summaries for the manager timesheet view.
	ListSummaries(ctx context.Context, filter SummaryFilter) (ListSummariesResponse, error)

	// ListEdits returns the audit trail, newest first.
	ListEdits(ctx context.Context, page, limit int) ([]EditResponse, int64, error)
}
