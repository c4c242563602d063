package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cinetrack/attendance-backend-go/internal/domain/attendance"
	"github.com/cinetrack/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
)

type tapRepository struct {
	db *database.DB
}

func NewTapRepository(db *database.DB) attendance.TapRepository {
	return &tapRepository{db: db}
}

func (r *tapRepository) Append(ctx context.Context, tap attendance.Tap) (attendance.Tap, error) {
	querier := GetQuerier(ctx, r.db)

	if tap.ID == "" {
		tap.ID = uuid.New().String()
	}

	query := `
		INSERT INTO attendance_taps (id, employee_id, ts, action, source, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING seq, created_at`

	err := querier.QueryRow(ctx, query,
		tap.ID,
		tap.EmployeeID,
		tap.Timestamp,
		tap.Action,
		tap.Source,
		tap.Notes,
	).Scan(&tap.Seq, &tap.CreatedAt)
	if err != nil {
		return attendance.Tap{}, fmt.Errorf("failed to insert attendance tap: %w", err)
	}

	return tap, nil
}

func (r *tapRepository) ListByEmployeeDate(ctx context.Context, employeeID string, date time.Time) ([]attendance.Tap, error) {
	querier := GetQuerier(ctx, r.db)

	from := date
	to := date.AddDate(0, 0, 1)

	query := `
		SELECT id, seq, employee_id, ts, action, source, notes, created_at
		FROM attendance_taps
		WHERE employee_id = $1 AND ts >= $2 AND ts < $3
		ORDER BY ts ASC, seq ASC`

	rows, err := querier.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance taps: %w", err)
	}
	defer rows.Close()

	var taps []attendance.Tap
	for rows.Next() {
		var tap attendance.Tap
		if err := rows.Scan(
			&tap.ID,
			&tap.Seq,
			&tap.EmployeeID,
			&tap.Timestamp,
			&tap.Action,
			&tap.Source,
			&tap.Notes,
			&tap.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance tap: %w", err)
		}
		taps = append(taps, tap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance taps: %w", err)
	}

	return taps, nil
}
