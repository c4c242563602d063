package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cinetrack/attendance-backend-go/internal/domain/attendance"
	"github.com/cinetrack/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type dailySummaryRepository struct {
	db *database.DB
}

func NewDailySummaryRepository(db *database.DB) attendance.DailySummaryRepository {
	return &dailySummaryRepository{db: db}
}

const summaryColumns = `
	ds.id, ds.employee_id, ds.date, ds.first_clock_in, ds.last_clock_out,
	ds.raw_hours, ds.break_deduction, ds.final_hours, ds.current_status,
	ds.tap_count, ds.created_at, ds.updated_at`

func scanSummary(row pgx.Row) (attendance.DailySummary, error) {
	var s attendance.DailySummary
	err := row.Scan(
		&s.ID,
		&s.EmployeeID,
		&s.Date,
		&s.FirstClockIn,
		&s.LastClockOut,
		&s.RawHours,
		&s.BreakDeduction,
		&s.FinalHours,
		&s.CurrentStatus,
		&s.TapCount,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	return s, err
}

// GetOrCreateForUpdate inserts an empty row if the (employee, date) pair is
// new, then locks whichever row exists. Concurrent taps for the same pair
// serialize on the row lock; the loser of the insert race simply locks the
// winner's row.
func (r *dailySummaryRepository) GetOrCreateForUpdate(ctx context.Context, employeeID string, date time.Time) (attendance.DailySummary, error) {
	querier := GetQuerier(ctx, r.db)

	insert := `
		INSERT INTO daily_summaries (id, employee_id, date)
		VALUES ($1, $2, $3)
		ON CONFLICT (employee_id, date) DO NOTHING`
	if _, err := querier.Exec(ctx, insert, uuid.New().String(), employeeID, date); err != nil {
		return attendance.DailySummary{}, fmt.Errorf("failed to insert daily summary: %w", err)
	}

	query := `
		SELECT ` + summaryColumns + `
		FROM daily_summaries ds
		WHERE ds.employee_id = $1 AND ds.date = $2
		FOR UPDATE`

	summary, err := scanSummary(querier.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		return attendance.DailySummary{}, fmt.Errorf("failed to lock daily summary: %w", err)
	}

	return summary, nil
}

func (r *dailySummaryRepository) GetByIDForUpdate(ctx context.Context, id string) (attendance.DailySummary, error) {
	querier := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + summaryColumns + `
		FROM daily_summaries ds
		WHERE ds.id = $1
		FOR UPDATE`

	summary, err := scanSummary(querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.DailySummary{}, attendance.ErrSummaryNotFound
		}
		return attendance.DailySummary{}, fmt.Errorf("failed to lock daily summary: %w", err)
	}

	return summary, nil
}

func (r *dailySummaryRepository) GetByEmployeeDate(ctx context.Context, employeeID string, date time.Time) (attendance.DailySummary, error) {
	querier := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + summaryColumns + `
		FROM daily_summaries ds
		WHERE ds.employee_id = $1 AND ds.date = $2`

	summary, err := scanSummary(querier.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.DailySummary{}, attendance.ErrSummaryNotFound
		}
		return attendance.DailySummary{}, fmt.Errorf("failed to get daily summary: %w", err)
	}

	return summary, nil
}

func (r *dailySummaryRepository) Update(ctx context.Context, summary attendance.DailySummary) error {
	querier := GetQuerier(ctx, r.db)

	query := `
		UPDATE daily_summaries
		SET first_clock_in = $2, last_clock_out = $3, raw_hours = $4,
		    break_deduction = $5, final_hours = $6, current_status = $7,
		    tap_count = $8, updated_at = NOW()
		WHERE id = $1`

	tag, err := querier.Exec(ctx, query,
		summary.ID,
		summary.FirstClockIn,
		summary.LastClockOut,
		summary.RawHours,
		summary.BreakDeduction,
		summary.FinalHours,
		summary.CurrentStatus,
		summary.TapCount,
	)
	if err != nil {
		return fmt.Errorf("failed to update daily summary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrSummaryNotFound
	}

	return nil
}

func (r *dailySummaryRepository) ListOpenByDate(ctx context.Context, date time.Time) ([]attendance.DailySummary, error) {
	querier := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + summaryColumns + `
		FROM daily_summaries ds
		WHERE ds.date = $1 AND ds.current_status = 'IN'
		ORDER BY ds.employee_id ASC`

	rows, err := querier.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query open summaries: %w", err)
	}
	defer rows.Close()

	return collectSummaries(rows)
}

func (r *dailySummaryRepository) List(ctx context.Context, filter attendance.SummaryFilter) ([]attendance.DailySummary, int64, error) {
	querier := GetQuerier(ctx, r.db)

	where := " WHERE 1=1"
	args := []interface{}{}
	argPos := 1

	if filter.EmployeeID != "" {
		where += fmt.Sprintf(" AND ds.employee_id = $%d", argPos)
		args = append(args, filter.EmployeeID)
		argPos++
	}
	if filter.DateFrom != nil {
		where += fmt.Sprintf(" AND ds.date >= $%d", argPos)
		args = append(args, *filter.DateFrom)
		argPos++
	}
	if filter.DateTo != nil {
		where += fmt.Sprintf(" AND ds.date <= $%d", argPos)
		args = append(args, *filter.DateTo)
		argPos++
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM daily_summaries ds" + where
	if err := querier.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count summaries: %w", err)
	}

	query := `
		SELECT ` + summaryColumns + `, e.name
		FROM daily_summaries ds
		LEFT JOIN employees e ON e.employee_id = ds.employee_id` + where +
		fmt.Sprintf(" ORDER BY ds.date DESC, ds.employee_id ASC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := querier.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query summaries: %w", err)
	}
	defer rows.Close()

	var summaries []attendance.DailySummary
	for rows.Next() {
		var s attendance.DailySummary
		if err := rows.Scan(
			&s.ID,
			&s.EmployeeID,
			&s.Date,
			&s.FirstClockIn,
			&s.LastClockOut,
			&s.RawHours,
			&s.BreakDeduction,
			&s.FinalHours,
			&s.CurrentStatus,
			&s.TapCount,
			&s.CreatedAt,
			&s.UpdatedAt,
			&s.EmployeeName,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate summaries: %w", err)
	}

	return summaries, total, nil
}

func (r *dailySummaryRepository) ListByEmployeeRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.DailySummary, error) {
	querier := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + summaryColumns + `
		FROM daily_summaries ds
		WHERE ds.employee_id = $1 AND ds.date >= $2 AND ds.date <= $3
		ORDER BY ds.date ASC`

	rows, err := querier.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query summaries by range: %w", err)
	}
	defer rows.Close()

	return collectSummaries(rows)
}

func collectSummaries(rows pgx.Rows) ([]attendance.DailySummary, error) {
	var summaries []attendance.DailySummary
	for rows.Next() {
		summary, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate summaries: %w", err)
	}
	return summaries, nil
}
