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

// SQLiteSubtaskRepo implements SubtaskRepo using a SQLite database.
type SQLiteSubtaskRepo struct {
	db db.DBTX
}

func NewSQLiteSubtaskRepo(conn db.DBTX) *SQLiteSubtaskRepo {
	return &SQLiteSubtaskRepo{db: conn}
}

const subtaskColumns = `st.id, st.subcomponent_id, st.title, st.points, st.completion_percent, st.status,
	st.estimated_days, st.unknowns, st.integration, st.is_added_scope, st.assigned_organization,
	st.order_index, st.created_at, st.updated_at`

func (r *SQLiteSubtaskRepo) Create(ctx context.Context, st *domain.Subtask) error {
	days, unknowns, integration := estimationToValues(st.Estimation)
	query := `INSERT INTO subtasks (id, subcomponent_id, title, points, completion_percent, status,
		estimated_days, unknowns, integration, is_added_scope, assigned_organization,
		order_index, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		st.ID,
		st.SubcomponentID,
		st.Title,
		st.Points,
		st.CompletionPercent,
		string(st.Status),
		days, unknowns, integration,
		boolToInt(st.IsAddedScope),
		st.AssignedOrganization,
		st.OrderIndex,
		st.CreatedAt.Format(time.RFC3339),
		st.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting subtask: %w", err)
	}
	return nil
}

func (r *SQLiteSubtaskRepo) GetByID(ctx context.Context, id string) (*domain.Subtask, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+subtaskColumns+` FROM subtasks st WHERE st.id = ?`, id)
	return scanSubtask(row)
}

func (r *SQLiteSubtaskRepo) ListBySubcomponent(ctx context.Context, subcomponentID string) ([]*domain.Subtask, error) {
	return r.list(ctx, `SELECT `+subtaskColumns+` FROM subtasks st
		WHERE st.subcomponent_id = ? ORDER BY st.order_index, st.created_at`, subcomponentID)
}

// ListByProgram returns every subtask of a program in tree order.
func (r *SQLiteSubtaskRepo) ListByProgram(ctx context.Context, programID string) ([]*domain.Subtask, error) {
	return r.list(ctx, `SELECT `+subtaskColumns+` FROM subtasks st
		JOIN subcomponents sc ON sc.id = st.subcomponent_id
		JOIN workstreams ws ON ws.id = sc.workstream_id
		WHERE ws.program_id = ?
		ORDER BY ws.order_index, sc.order_index, st.order_index, st.created_at`, programID)
}

func (r *SQLiteSubtaskRepo) list(ctx context.Context, query string, args ...any) ([]*domain.Subtask, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing subtasks: %w", err)
	}
	defer rows.Close()

	var out []*domain.Subtask
	for rows.Next() {
		st, err := scanSubtask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating subtasks: %w", err)
	}
	return out, nil
}

func (r *SQLiteSubtaskRepo) Update(ctx context.Context, st *domain.Subtask) error {
	days, unknowns, integration := estimationToValues(st.Estimation)
	query := `UPDATE subtasks SET title = ?, points = ?, completion_percent = ?, status = ?,
		estimated_days = ?, unknowns = ?, integration = ?, is_added_scope = ?,
		assigned_organization = ?, order_index = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		st.Title,
		st.Points,
		st.CompletionPercent,
		string(st.Status),
		days, unknowns, integration,
		boolToInt(st.IsAddedScope),
		st.AssignedOrganization,
		st.OrderIndex,
		st.UpdatedAt.Format(time.RFC3339),
		st.ID,
	)
	if err != nil {
		return fmt.Errorf("updating subtask: %w", err)
	}
	return requireAffected(res, "subtask")
}

func (r *SQLiteSubtaskRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM subtasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting subtask: %w", err)
	}
	return requireAffected(res, "subtask")
}

func estimationToValues(e *domain.Estimation) (days, unknowns, integration interface{}) {
	if e == nil {
		return nil, nil, nil
	}
	return e.Days, string(e.Unknowns), string(e.Integration)
}

func scanSubtask(row rowScanner) (*domain.Subtask, error) {
	var st domain.Subtask
	var status, createdAt, updatedAt string
	var days sql.NullFloat64
	var unknowns, integration sql.NullString
	var addedScope int

	err := row.Scan(
		&st.ID, &st.SubcomponentID, &st.Title, &st.Points, &st.CompletionPercent, &status,
		&days, &unknowns, &integration, &addedScope, &st.AssignedOrganization,
		&st.OrderIndex, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("subtask: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning subtask: %w", err)
	}

	st.Status = domain.WorkStatus(status)
	st.IsAddedScope = intToBool(addedScope)
	if days.Valid {
		st.Estimation = &domain.Estimation{
			Days:        days.Float64,
			Unknowns:    domain.UnknownsLevel(unknowns.String),
			Integration: domain.IntegrationLevel(integration.String),
		}
	}
	st.CreatedAt, st.UpdatedAt, err = parseTimestamps(createdAt, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing subtask timestamps: %w", err)
	}
	return &st, nil
}
