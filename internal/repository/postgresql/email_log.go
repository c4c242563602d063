package postgresql

import (
	"context"
	"fmt"

	"github.com/cinetrack/attendance-backend-go/internal/pkg/database"
	"github.com/cinetrack/attendance-backend-go/internal/pkg/email"
	"github.com/google/uuid"
)

type emailLogRepository struct {
	db *database.DB
}

func NewEmailLogRepository(db *database.DB) email.LogRepository {
	return &emailLogRepository{db: db}
}

func (r *emailLogRepository) Create(ctx context.Context, log email.Log) error {
	querier := GetQuerier(ctx, r.db)

	if log.ID == "" {
		log.ID = uuid.New().String()
	}

	query := `
		INSERT INTO email_logs (id, email_type, recipient, employee_id, status, details)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.Exec(ctx, query,
		log.ID,
		log.EmailType,
		log.Recipient,
		log.EmployeeID,
		log.Status,
		log.Details,
	)
	if err != nil {
		return fmt.Errorf("failed to insert email log: %w", err)
	}

	return nil
}

func (r *emailLogRepository) List(ctx context.Context, page, limit int) ([]email.Log, int64, error) {
	querier := GetQuerier(ctx, r.db)

	var total int64
	if err := querier.QueryRow(ctx, `SELECT COUNT(*) FROM email_logs`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count email logs: %w", err)
	}

	query := `
		SELECT id, email_type, recipient, employee_id, status, details, created_at
		FROM email_logs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := querier.Query(ctx, query, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query email logs: %w", err)
	}
	defer rows.Close()

	var logs []email.Log
	for rows.Next() {
		var l email.Log
		if err := rows.Scan(
			&l.ID,
			&l.EmailType,
			&l.Recipient,
			&l.EmployeeID,
			&l.Status,
			&l.Details,
			&l.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan email log: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate email logs: %w", err)
	}

	return logs, total, nil
}
