package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cinetrack/attendance-backend-go/internal/domain/employee"
	"github.com/cinetrack/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.Repository {
	return &employeeRepository{db: db}
}

const employeeColumns = `
	id, employee_id, name, email, pin_code, nfc_id, is_active, created_at, updated_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID,
		&emp.EmployeeID,
		&emp.Name,
		&emp.Email,
		&emp.PINCode,
		&emp.NFCID,
		&emp.IsActive,
		&emp.CreatedAt,
		&emp.UpdatedAt,
	)
	return emp, err
}

func (r *employeeRepository) Create(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	querier := GetQuerier(ctx, r.db)

	if emp.ID == "" {
		emp.ID = uuid.New().String()
	}

	query := `
		INSERT INTO employees (id, employee_id, name, email, pin_code, nfc_id, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	err := querier.QueryRow(ctx, query,
		emp.ID,
		emp.EmployeeID,
		emp.Name,
		emp.Email,
		emp.PINCode,
		emp.NFCID,
		emp.IsActive,
	).Scan(&emp.CreatedAt, &emp.UpdatedAt)
	if err != nil {
		return employee.Employee{}, err
	}

	return emp, nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

func (r *employeeRepository) GetByEmployeeID(ctx context.Context, employeeID string) (employee.Employee, error) {
	return r.getOne(ctx, `WHERE employee_id = $1`, employeeID)
}

func (r *employeeRepository) GetByPIN(ctx context.Context, pin string) (employee.Employee, error) {
	return r.getOne(ctx, `WHERE pin_code = $1 AND is_active = TRUE`, pin)
}

func (r *employeeRepository) GetByNFC(ctx context.Context, nfcID string) (employee.Employee, error) {
	return r.getOne(ctx, `WHERE nfc_id = $1 AND is_active = TRUE`, nfcID)
}

func (r *employeeRepository) getOne(ctx context.Context, where string, arg interface{}) (employee.Employee, error) {
	querier := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees ` + where

	emp, err := scanEmployee(querier.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return emp, nil
}

func (r *employeeRepository) ListActive(ctx context.Context) ([]employee.Employee, error) {
	querier := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE is_active = TRUE
		ORDER BY employee_id ASC`

	rows, err := querier.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}

func (r *employeeRepository) Update(ctx context.Context, emp employee.Employee) error {
	querier := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET name = $2, email = $3, pin_code = $4, nfc_id = $5, is_active = $6, updated_at = NOW()
		WHERE id = $1`

	tag, err := querier.Exec(ctx, query,
		emp.ID,
		emp.Name,
		emp.Email,
		emp.PINCode,
		emp.NFCID,
		emp.IsActive,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}

	return nil
}

func (r *employeeRepository) Deactivate(ctx context.Context, id string) error {
	querier := GetQuerier(ctx, r.db)

	tag, err := querier.Exec(ctx, `UPDATE employees SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}

	return nil
}
