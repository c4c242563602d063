package til

import "context"

type Repository interface {
	Create(ctx context.Context, record Record) (Record, error)

	// GetByIDForUpdate locks the record for the duration of the surrounding
	// transaction so a decision cannot race another approver.
	GetByIDForUpdate(ctx context.Context, id string) (Record, error)

	// UpdateDecision persists the one-shot status transition fields.
	UpdateDecision(ctx context.Context, record Record) error

	ListByEmployee(ctx context.Context, employeeID string) ([]Record, error)
	ListPending(ctx context.Context) ([]Record, error)
}
