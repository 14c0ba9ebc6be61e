package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/programhub/internal/db"
	"github.com/alexanderramin/programhub/internal/domain"
)

// SQLiteSnapshotRepo implements SnapshotRepo using a SQLite database.
type SQLiteSnapshotRepo struct {
	db db.DBTX
}

func NewSQLiteSnapshotRepo(conn db.DBTX) *SQLiteSnapshotRepo {
	return &SQLiteSnapshotRepo{db: conn}
}

const snapshotColumns = `id, program_id, date, total_points, completed_points, percent_complete,
	workstream_data, created_at, updated_at`

// Upsert inserts the snapshot or, when the program already has one for the
// same month, overwrites its totals in place. The stored row keeps its
// original id and created_at; s is updated to match.
func (r *SQLiteSnapshotRepo) Upsert(ctx context.Context, s *domain.BurnSnapshot) error {
	data, err := encodeWorkstreamData(s.Workstreams)
	if err != nil {
		return err
	}
	query := `INSERT INTO burn_snapshots (` + snapshotColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(program_id, date) DO UPDATE SET
			total_points = excluded.total_points,
			completed_points = excluded.completed_points,
			percent_complete = excluded.percent_complete,
			workstream_data = excluded.workstream_data,
			updated_at = excluded.updated_at
		RETURNING id, created_at`
	var id, createdAt string
	err = r.db.QueryRowContext(ctx, query,
		s.ID,
		s.ProgramID,
		s.Date,
		s.TotalPoints,
		s.CompletedPoints,
		s.PercentComplete,
		data,
		s.CreatedAt.Format(time.RFC3339),
		s.UpdatedAt.Format(time.RFC3339),
	).Scan(&id, &createdAt)
	if err != nil {
		return fmt.Errorf("upserting burn snapshot: %w", err)
	}
	s.ID = id
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		s.CreatedAt = t
	}
	return nil
}

func (r *SQLiteSnapshotRepo) GetByDate(ctx context.Context, programID, date string) (*domain.BurnSnapshot, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+snapshotColumns+` FROM burn_snapshots WHERE program_id = ? AND date = ?`, programID, date)
	return scanSnapshot(row)
}

// ListByProgram returns a program's snapshots ordered by month.
func (r *SQLiteSnapshotRepo) ListByProgram(ctx context.Context, programID string) ([]*domain.BurnSnapshot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+snapshotColumns+` FROM burn_snapshots WHERE program_id = ? ORDER BY date`, programID)
	if err != nil {
		return nil, fmt.Errorf("listing burn snapshots: %w", err)
	}
	defer rows.Close()

	var out []*domain.BurnSnapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating burn snapshots: %w", err)
	}
	return out, nil
}

func encodeWorkstreamData(ws map[string]domain.WorkstreamSnapshot) (interface{}, error) {
	if ws == nil {
		return nil, nil
	}
	b, err := json.Marshal(ws)
	if err != nil {
		return nil, fmt.Errorf("encoding workstream data: %w", err)
	}
	return string(b), nil
}

func scanSnapshot(row rowScanner) (*domain.BurnSnapshot, error) {
	var s domain.BurnSnapshot
	var data sql.NullString
	var createdAt, updatedAt string
	err := row.Scan(
		&s.ID, &s.ProgramID, &s.Date, &s.TotalPoints, &s.CompletedPoints, &s.PercentComplete,
		&data, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("burn snapshot: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning burn snapshot: %w", err)
	}
	if data.Valid && data.String != "" {
		if err := json.Unmarshal([]byte(data.String), &s.Workstreams); err != nil {
			return nil, fmt.Errorf("decoding workstream data for %s: %w", s.Date, err)
		}
	}
	s.CreatedAt, s.UpdatedAt, err = parseTimestamps(createdAt, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing burn snapshot timestamps: %w", err)
	}
	return &s, nil
}
