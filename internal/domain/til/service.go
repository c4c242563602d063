package til

import "context"

// Service manages the time-in-lieu ledger. Balances are always derived from
// APPROVED records; there is no independently editable balance state.
type Service interface {
	// Request creates a PENDING record. USED requests are not blocked on
	// insufficient balance here; that is an approval-time concern.
	Request(ctx context.Context, req RequestTILRequest) (RecordResponse, error)

	// Approve transitions PENDING→APPROVED exactly once.
	Approve(ctx context.Context, recordID, approverID string) (RecordResponse, error)

	// Reject transitions PENDING→REJECTED exactly once.
	Reject(ctx context.Context, req RejectTILRequest) (RecordResponse, error)

	// GetBalance replays the employee's approved ledger entries.
	GetBalance(ctx context.Context, employeeID string) (Balance, error)

	ListByEmployee(ctx context.Context, employeeID string) ([]RecordResponse, error)
	ListPending(ctx context.Context) ([]RecordResponse, error)
}
