package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cinetrack/attendance-backend-go/internal/domain/til"
	"github.com/cinetrack/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type tilRepository struct {
	db *database.DB
}

func NewTILRepository(db *database.DB) til.Repository {
	return &tilRepository{db: db}
}

const tilColumns = `
	id, employee_id, til_type, hours, date, reason, status,
	approver_id, approved_at, rejection_reason, created_at`

func scanTILRecord(row pgx.Row) (til.Record, error) {
	var rec til.Record
	err := row.Scan(
		&rec.ID,
		&rec.EmployeeID,
		&rec.Type,
		&rec.Hours,
		&rec.Date,
		&rec.Reason,
		&rec.Status,
		&rec.ApproverID,
		&rec.ApprovedAt,
		&rec.RejectionReason,
		&rec.CreatedAt,
	)
	return rec, err
}

func (r *tilRepository) Create(ctx context.Context, record til.Record) (til.Record, error) {
	querier := GetQuerier(ctx, r.db)

	if record.ID == "" {
		record.ID = uuid.New().String()
	}

	query := `
		INSERT INTO til_records (id, employee_id, til_type, hours, date, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err := querier.QueryRow(ctx, query,
		record.ID,
		record.EmployeeID,
		record.Type,
		record.Hours,
		record.Date,
		record.Reason,
		record.Status,
	).Scan(&record.CreatedAt)
	if err != nil {
		return til.Record{}, fmt.Errorf("failed to insert TIL record: %w", err)
	}

	return record, nil
}

func (r *tilRepository) GetByIDForUpdate(ctx context.Context, id string) (til.Record, error) {
	querier := GetQuerier(ctx, r.db)

	query := `SELECT ` + tilColumns + ` FROM til_records WHERE id = $1 FOR UPDATE`

	record, err := scanTILRecord(querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return til.Record{}, til.ErrRecordNotFound
		}
		return til.Record{}, fmt.Errorf("failed to lock TIL record: %w", err)
	}

	return record, nil
}

func (r *tilRepository) UpdateDecision(ctx context.Context, record til.Record) error {
	querier := GetQuerier(ctx, r.db)

	query := `
		UPDATE til_records
		SET status = $2, approver_id = $3, approved_at = $4, rejection_reason = $5
		WHERE id = $1`

	tag, err := querier.Exec(ctx, query,
		record.ID,
		record.Status,
		record.ApproverID,
		record.ApprovedAt,
		record.RejectionReason,
	)
	if err != nil {
		return fmt.Errorf("failed to update TIL record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return til.ErrRecordNotFound
	}

	return nil
}

func (r *tilRepository) ListByEmployee(ctx context.Context, employeeID string) ([]til.Record, error) {
	querier := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + tilColumns + `
		FROM til_records
		WHERE employee_id = $1
		ORDER BY created_at DESC, id ASC`

	rows, err := querier.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query TIL records: %w", err)
	}
	defer rows.Close()

	return collectTILRecords(rows)
}

func (r *tilRepository) ListPending(ctx context.Context) ([]til.Record, error) {
	querier := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + tilColumns + `
		FROM til_records
		WHERE status = 'PENDING'
		ORDER BY created_at ASC, id ASC`

	rows, err := querier.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending TIL records: %w", err)
	}
	defer rows.Close()

	return collectTILRecords(rows)
}

func collectTILRecords(rows pgx.Rows) ([]til.Record, error) {
	var records []til.Record
	for rows.Next() {
		record, err := scanTILRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan TIL record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate TIL records: %w", err)
	}
	return records, nil
}
