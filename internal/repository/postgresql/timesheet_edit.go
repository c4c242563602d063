package postgresql

import (
	"context"
	"fmt"

	"github.com/cinetrack/attendance-backend-go/internal/domain/attendance"
	"github.com/cinetrack/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type timesheetEditRepository struct {
	db *database.DB
}

func NewTimesheetEditRepository(db *database.DB) attendance.TimesheetEditRepository {
	return &timesheetEditRepository{db: db}
}

func (r *timesheetEditRepository) Create(ctx context.Context, edit attendance.TimesheetEdit) (attendance.TimesheetEdit, error) {
	querier := GetQuerier(ctx, r.db)

	if edit.ID == "" {
		edit.ID = uuid.New().String()
	}

	query := `
		INSERT INTO timesheet_edits (id, summary_id, employee_id, date, editor_id, kind, field_changed, old_value, new_value, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING edited_at`

	err := querier.QueryRow(ctx, query,
		edit.ID,
		edit.SummaryID,
		edit.EmployeeID,
		edit.Date,
		edit.EditorID,
		edit.Kind,
		edit.FieldChanged,
		edit.OldValue,
		edit.NewValue,
		edit.Reason,
	).Scan(&edit.EditedAt)
	if err != nil {
		return attendance.TimesheetEdit{}, fmt.Errorf("failed to insert timesheet edit: %w", err)
	}

	return edit, nil
}

func (r *timesheetEditRepository) ListBySummary(ctx context.Context, summaryID string) ([]attendance.TimesheetEdit, error) {
	querier := GetQuerier(ctx, r.db)

	query := editSelect + `
		WHERE summary_id = $1
		ORDER BY edited_at ASC, id ASC`

	rows, err := querier.Query(ctx, query, summaryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query timesheet edits: %w", err)
	}
	defer rows.Close()

	return collectEdits(rows)
}

func (r *timesheetEditRepository) List(ctx context.Context, page, limit int) ([]attendance.TimesheetEdit, int64, error) {
	querier := GetQuerier(ctx, r.db)

	var total int64
	if err := querier.QueryRow(ctx, `SELECT COUNT(*) FROM timesheet_edits`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count timesheet edits: %w", err)
	}

	query := editSelect + `
		ORDER BY edited_at DESC, id ASC
		LIMIT $1 OFFSET $2`

	rows, err := querier.Query(ctx, query, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query timesheet edits: %w", err)
	}
	defer rows.Close()

	edits, err := collectEdits(rows)
	if err != nil {
		return nil, 0, err
	}

	return edits, total, nil
}

const editSelect = `
	SELECT id, summary_id, employee_id, date, editor_id, edited_at, kind, field_changed, old_value, new_value, reason
	FROM timesheet_edits`

func collectEdits(rows pgx.Rows) ([]attendance.TimesheetEdit, error) {
	var edits []attendance.TimesheetEdit
	for rows.Next() {
		var e attendance.TimesheetEdit
		if err := rows.Scan(
			&e.ID,
			&e.SummaryID,
			&e.EmployeeID,
			&e.Date,
			&e.EditorID,
			&e.EditedAt,
			&e.Kind,
			&e.FieldChanged,
			&e.OldValue,
			&e.NewValue,
			&e.Reason,
		); err != nil {
			return nil, fmt.Errorf("failed to scan timesheet edit: %w", err)
		}
		edits = append(edits, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate timesheet edits: %w", err)
	}
	return edits, nil
}
