package employee

import "context"

type Repository interface {
	Create(ctx context.Context, emp Employee) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (Employee, error)

	// GetByPIN and GetByNFC resolve kiosk taps. Only active employees match.
	GetByPIN(ctx context.Context, pin string) (Employee, error)
	GetByNFC(ctx context.Context, nfcID string) (Employee, error)

	ListActive(ctx context.Context) ([]Employee, error)
	Update(ctx context.Context, emp Employee) error
	Deactivate(ctx context.Context, id string) error
}
