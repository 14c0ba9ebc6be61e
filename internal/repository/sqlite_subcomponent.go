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

// SQLiteSubcomponentRepo implements SubcomponentRepo using a SQLite database.
type SQLiteSubcomponentRepo struct {
	db db.DBTX
}

func NewSQLiteSubcomponentRepo(conn db.DBTX) *SQLiteSubcomponentRepo {
	return &SQLiteSubcomponentRepo{db: conn}
}

const subcomponentColumns = `sc.id, sc.workstream_id, sc.name, sc.status, sc.total_points, sc.owner_id,
	sc.owner_initials, sc.planned_start, sc.planned_end, sc.order_index, sc.created_at, sc.updated_at`

func (r *SQLiteSubcomponentRepo) Create(ctx context.Context, sc *domain.Subcomponent) error {
	query := `INSERT INTO subcomponents (id, workstream_id, name, status, total_points, owner_id,
		owner_initials, planned_start, planned_end, order_index, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		sc.ID,
		sc.WorkstreamID,
		sc.Name,
		string(sc.Status),
		sc.TotalPoints,
		sc.OwnerID,
		sc.OwnerInitials,
		sc.PlannedStart,
		sc.PlannedEnd,
		sc.OrderIndex,
		sc.CreatedAt.Format(time.RFC3339),
		sc.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting subcomponent: %w", err)
	}
	return nil
}

func (r *SQLiteSubcomponentRepo) GetByID(ctx context.Context, id string) (*domain.Subcomponent, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+subcomponentColumns+` FROM subcomponents sc WHERE sc.id = ?`, id)
	return scanSubcomponent(row)
}

func (r *SQLiteSubcomponentRepo) ListByWorkstream(ctx context.Context, workstreamID string) ([]*domain.Subcomponent, error) {
	return r.list(ctx, `SELECT `+subcomponentColumns+` FROM subcomponents sc
		WHERE sc.workstream_id = ? ORDER BY sc.order_index, sc.created_at`, workstreamID)
}

// ListByProgram returns every subcomponent of a program ordered by workstream.
func (r *SQLiteSubcomponentRepo) ListByProgram(ctx context.Context, programID string) ([]*domain.Subcomponent, error) {
	return r.list(ctx, `SELECT `+subcomponentColumns+` FROM subcomponents sc
		JOIN workstreams ws ON ws.id = sc.workstream_id
		WHERE ws.program_id = ?
		ORDER BY ws.order_index, ws.created_at, sc.order_index, sc.created_at`, programID)
}

func (r *SQLiteSubcomponentRepo) list(ctx context.Context, query string, args ...any) ([]*domain.Subcomponent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing subcomponents: %w", err)
	}
	defer rows.Close()

	var out []*domain.Subcomponent
	for rows.Next() {
		sc, err := scanSubcomponent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating subcomponents: %w", err)
	}
	return out, nil
}

func (r *SQLiteSubcomponentRepo) Update(ctx context.Context, sc *domain.Subcomponent) error {
	query := `UPDATE subcomponents SET name = ?, status = ?, total_points = ?, owner_id = ?, owner_initials = ?,
		planned_start = ?, planned_end = ?, order_index = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		sc.Name,
		string(sc.Status),
		sc.TotalPoints,
		sc.OwnerID,
		sc.OwnerInitials,
		sc.PlannedStart,
		sc.PlannedEnd,
		sc.OrderIndex,
		sc.UpdatedAt.Format(time.RFC3339),
		sc.ID,
	)
	if err != nil {
		return fmt.Errorf("updating subcomponent: %w", err)
	}
	return requireAffected(res, "subcomponent")
}

func (r *SQLiteSubcomponentRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM subcomponents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting subcomponent: %w", err)
	}
	return requireAffected(res, "subcomponent")
}

func scanSubcomponent(row rowScanner) (*domain.Subcomponent, error) {
	var sc domain.Subcomponent
	var status, createdAt, updatedAt string
	err := row.Scan(
		&sc.ID, &sc.WorkstreamID, &sc.Name, &status, &sc.TotalPoints, &sc.OwnerID,
		&sc.OwnerInitials, &sc.PlannedStart, &sc.PlannedEnd, &sc.OrderIndex, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("subcomponent: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning subcomponent: %w", err)
	}
	sc.Status = domain.WorkStatus(status)
	sc.CreatedAt, sc.UpdatedAt, err = parseTimestamps(createdAt, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing subcomponent timestamps: %w", err)
	}
	return &sc, nil
}
