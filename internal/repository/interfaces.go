package repository

import (
	"context"

	"github.com/alexanderramin/programhub/internal/domain"
)

type ProgramRepo interface {
	Create(ctx context.Context, p *domain.Program) error
	GetByID(ctx context.Context, id string) (*domain.Program, error)
	GetByShortID(ctx context.Context, shortID string) (*domain.Program, error)
	List(ctx context.Context) ([]*domain.Program, error)
	Update(ctx context.Context, p *domain.Program) error
	Delete(ctx context.Context, id string) error
}

type WorkstreamRepo interface {
	Create(ctx context.Context, ws *domain.Workstream) error
	GetByID(ctx context.Context, id string) (*domain.Workstream, error)
	ListByProgram(ctx context.Context, programID string) ([]*domain.Workstream, error)
	Update(ctx context.Context, ws *domain.Workstream) error
	Delete(ctx context.Context, id string) error
}

type SubcomponentRepo interface {
	Create(ctx context.Context, sc *domain.Subcomponent) error
	GetByID(ctx context.Context, id string) (*domain.Subcomponent, error)
	ListByWorkstream(ctx context.Context, workstreamID string) ([]*domain.Subcomponent, error)
	ListByProgram(ctx context.Context, programID string) ([]*domain.Subcomponent, error)
	Update(ctx context.Context, sc *domain.Subcomponent) error
	Delete(ctx context.Context, id string) error
}

type SubtaskRepo interface {
	Create(ctx context.Context, st *domain.Subtask) error
	GetByID(ctx context.Context, id string) (*domain.Subtask, error)
	ListBySubcomponent(ctx context.Context, subcomponentID string) ([]*domain.Subtask, error)
	ListByProgram(ctx context.Context, programID string) ([]*domain.Subtask, error)
	Update(ctx context.Context, st *domain.Subtask) error
	Delete(ctx context.Context, id string) error
}

// CompletionNoteRepo is append-only: notes are never edited or removed
// except by cascade when their subtask is deleted.
type CompletionNoteRepo interface {
	Append(ctx context.Context, n *domain.CompletionNote) error
	ListBySubtask(ctx context.Context, subtaskID string) ([]*domain.CompletionNote, error)
}

type SnapshotRepo interface {
	// Upsert writes the snapshot for (ProgramID, Date), replacing any existing
	// totals for that month.
	Upsert(ctx context.Context, s *domain.BurnSnapshot) error
	GetByDate(ctx context.Context, programID, date string) (*domain.BurnSnapshot, error)
	ListByProgram(ctx context.Context, programID string) ([]*domain.BurnSnapshot, error)
}
