package employee

import "context"

type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	Get(ctx context.Context, id string) (EmployeeResponse, error)
	List(ctx context.Context) ([]EmployeeResponse, error)
	Update(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Deactivate(ctx context.Context, id string) error

	// ResolveByPIN and ResolveByNFC identify the employee behind a kiosk tap.
	ResolveByPIN(ctx context.Context, pin string) (Employee, error)
	ResolveByNFC(ctx context.Context, nfcID string) (Employee, error)

	// ResolveByCode looks up an employee by the human-facing code.
	ResolveByCode(ctx context.Context, employeeID string) (Employee, error)
}
