package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/programhub/internal/db"
	"github.com/alexanderramin/programhub/internal/domain"
)

// SQLiteCompletionNoteRepo implements CompletionNoteRepo using a SQLite database.
type SQLiteCompletionNoteRepo struct {
	db db.DBTX
}

// noteTimeLayout is fixed width so created_at sorts lexically.
const noteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func NewSQLiteCompletionNoteRepo(conn db.DBTX) *SQLiteCompletionNoteRepo {
	return &SQLiteCompletionNoteRepo{db: conn}
}

func (r *SQLiteCompletionNoteRepo) Append(ctx context.Context, n *domain.CompletionNote) error {
	query := `INSERT INTO completion_notes (id, subtask_id, previous_percent, new_percent, reason, actor_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		n.ID,
		n.SubtaskID,
		n.PreviousPercent,
		n.NewPercent,
		n.Reason,
		nullableStringToValue(n.ActorID),
		n.CreatedAt.UTC().Format(noteTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("appending completion note: %w", err)
	}
	return nil
}

// ListBySubtask returns a subtask's notes oldest first.
func (r *SQLiteCompletionNoteRepo) ListBySubtask(ctx context.Context, subtaskID string) ([]*domain.CompletionNote, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, subtask_id, previous_percent, new_percent, reason, actor_id, created_at
		FROM completion_notes WHERE subtask_id = ? ORDER BY created_at, rowid`, subtaskID)
	if err != nil {
		return nil, fmt.Errorf("listing completion notes: %w", err)
	}
	defer rows.Close()

	var notes []*domain.CompletionNote
	for rows.Next() {
		var n domain.CompletionNote
		var actor sql.NullString
		var createdAt string
		if err := rows.Scan(&n.ID, &n.SubtaskID, &n.PreviousPercent, &n.NewPercent, &n.Reason, &actor, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning completion note: %w", err)
		}
		if actor.Valid {
			a := actor.String
			n.ActorID = &a
		}
		n.CreatedAt, err = time.Parse(noteTimeLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing completion note created_at: %w", err)
		}
		notes = append(notes, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating completion notes: %w", err)
	}
	return notes, nil
}
