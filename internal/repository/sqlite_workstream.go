package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/programhub/internal/db"
	"github.com/alexanderramin/programhub/internal/domain"
)

// SQLiteWorkstreamRepo implements WorkstreamRepo using a SQLite database.
type SQLiteWorkstreamRepo struct {
	db db.DBTX
}

func NewSQLiteWorkstreamRepo(conn db.DBTX) *SQLiteWorkstreamRepo {
	return &SQLiteWorkstreamRepo{db: conn}
}

const workstreamColumns = `id, program_id, name, target_completion_date, order_index, created_at, updated_at`

func (r *SQLiteWorkstreamRepo) Create(ctx context.Context, ws *domain.Workstream) error {
	query := `INSERT INTO workstreams (` + workstreamColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		ws.ID,
		ws.ProgramID,
		ws.Name,
		ws.TargetCompletionDate,
		ws.OrderIndex,
		ws.CreatedAt.Format(time.RFC3339),
		ws.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting workstream: %w", err)
	}
	return nil
}

func (r *SQLiteWorkstreamRepo) GetByID(ctx context.Context, id string) (*domain.Workstream, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+workstreamColumns+` FROM workstreams WHERE id = ?`, id)
	return scanWorkstream(row)
}

func (r *SQLiteWorkstreamRepo) ListByProgram(ctx context.Context, programID string) ([]*domain.Workstream, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+workstreamColumns+` FROM workstreams WHERE program_id = ? ORDER BY order_index, created_at`, programID)
	if err != nil {
		return nil, fmt.Errorf("listing workstreams: %w", err)
	}
	defer rows.Close()

	var out []*domain.Workstream
	for rows.Next() {
		ws, err := scanWorkstream(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ws)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating workstreams: %w", err)
	}
	return out, nil
}

func (r *SQLiteWorkstreamRepo) Update(ctx context.Context, ws *domain.Workstream) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE workstreams SET name = ?, target_completion_date = ?, order_index = ?, updated_at = ? WHERE id = ?`,
		ws.Name, ws.TargetCompletionDate, ws.OrderIndex, ws.UpdatedAt.Format(time.RFC3339), ws.ID)
	if err != nil {
		return fmt.Errorf("updating workstream: %w", err)
	}
	return requireAffected(res, "workstream")
}

func (r *SQLiteWorkstreamRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM workstreams WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting workstream: %w", err)
	}
	return requireAffected(res, "workstream")
}

func scanWorkstream(row rowScanner) (*domain.Workstream, error) {
	var ws domain.Workstream
	var createdAt, updatedAt string
	err := row.Scan(&ws.ID, &ws.ProgramID, &ws.Name, &ws.TargetCompletionDate, &ws.OrderIndex, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("workstream: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning workstream: %w", err)
	}
	ws.CreatedAt, ws.UpdatedAt, err = parseTimestamps(createdAt, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing workstream timestamps: %w", err)
	}
	return &ws, nil
}
