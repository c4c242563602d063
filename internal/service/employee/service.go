package employee

import (
	"context"
	"errors"
	"fmt"

	"github.com/cinetrack/attendance-backend-go/internal/domain/employee"
	"github.com/jackc/pgx/v5/pgconn"
)

type EmployeeServiceImpl struct {
	employees employee.Repository
}

func NewEmployeeService(employeeRepo employee.Repository) employee.Service {
	return &EmployeeServiceImpl{employees: employeeRepo}
}

// Create implements employee.Service.
func (s *EmployeeServiceImpl) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	created, err := s.employees.Create(ctx, employee.Employee{
		EmployeeID: req.EmployeeID,
		Name:       req.Name,
		Email:      req.Email,
		PINCode:    req.PINCode,
		NFCID:      req.NFCID,
		IsActive:   true,
	})
	if err != nil {
		return employee.EmployeeResponse{}, mapUniqueViolation(err, "failed to create employee")
	}

	return toResponse(created), nil
}

// Get implements employee.Service.
func (s *EmployeeServiceImpl) Get(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	emp, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return toResponse(emp), nil
}

// List implements employee.Service.
func (s *EmployeeServiceImpl) List(ctx context.Context) ([]employee.EmployeeResponse, error) {
	employees, err := s.employees.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		responses = append(responses, toResponse(emp))
	}
	return responses, nil
}

// Update implements employee.Service.
func (s *EmployeeServiceImpl) Update(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	emp, err := s.employees.GetByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if req.Name != nil {
		emp.Name = *req.Name
	}
	if req.Email != nil {
		emp.Email = *req.Email
	}
	if req.PINCode != nil {
		emp.PINCode = *req.PINCode
	}
	if req.NFCID != nil {
		emp.NFCID = req.NFCID
	}

	if err := s.employees.Update(ctx, emp); err != nil {
		return employee.EmployeeResponse{}, mapUniqueViolation(err, "failed to update employee")
	}

	return toResponse(emp), nil
}

// Deactivate implements employee.Service. Deactivation keeps history; there
// is no hard delete because taps and summaries reference the employee code.
func (s *EmployeeServiceImpl) Deactivate(ctx context.Context, id string) error {
	return s.employees.Deactivate(ctx, id)
}

// ResolveByPIN implements employee.Service.
func (s *EmployeeServiceImpl) ResolveByPIN(ctx context.Context, pin string) (employee.Employee, error) {
	emp, err := s.employees.GetByPIN(ctx, pin)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, employee.ErrInvalidPIN
		}
		return employee.Employee{}, err
	}
	return emp, nil
}

// ResolveByNFC implements employee.Service.
func (s *EmployeeServiceImpl) ResolveByNFC(ctx context.Context, nfcID string) (employee.Employee, error) {
	emp, err := s.employees.GetByNFC(ctx, nfcID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, employee.ErrInvalidNFC
		}
		return employee.Employee{}, err
	}
	return emp, nil
}

// ResolveByCode implements employee.Service.
func (s *EmployeeServiceImpl) ResolveByCode(ctx context.Context, employeeID string) (employee.Employee, error) {
	return s.employees.GetByEmployeeID(ctx, employeeID)
}

// mapUniqueViolation translates constraint failures into domain errors.
func mapUniqueViolation(err error, action string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			switch pgErr.ConstraintName {
			case "employees_pin_code_key":
				return employee.ErrPINExists
			case "employees_employee_id_key":
				return employee.ErrEmployeeCodeExists
			}
			return employee.ErrEmployeeCodeExists
		}
	}
	return fmt.Errorf("%s: %w", action, err)
}

func toResponse(emp employee.Employee) employee.EmployeeResponse {
	return employee.EmployeeResponse{
		ID:         emp.ID,
		EmployeeID: emp.EmployeeID,
		Name:       emp.Name,
		Email:      emp.Email,
		NFCID:      emp.NFCID,
		IsActive:   emp.IsActive,
	}
}
