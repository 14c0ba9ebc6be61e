package service

import (
	"context"

	"github.com/alexanderramin/programhub/internal/app"
	"github.com/alexanderramin/programhub/internal/domain"
	"github.com/alexanderramin/programhub/internal/estimate"
	"github.com/alexanderramin/programhub/internal/importer"
)

type ProgramService interface {
	Create(ctx context.Context, p *domain.Program) error
	GetByID(ctx context.Context, id string) (*domain.Program, error)
	// Resolve accepts either a short ID (case-insensitive) or a full ID.
	Resolve(ctx context.Context, ref string) (*domain.Program, error)
	List(ctx context.Context) ([]*domain.Program, error)
	Update(ctx context.Context, p *domain.Program) error
	Delete(ctx context.Context, id string) error
	// LoadTree returns the program with workstreams, subcomponents and
	// subtasks attached.
	LoadTree(ctx context.Context, id string) (*domain.Program, error)
}

type HierarchyService interface {
	CreateWorkstream(ctx context.Context, ws *domain.Workstream) error
	GetWorkstream(ctx context.Context, id string) (*domain.Workstream, error)
	ListWorkstreams(ctx context.Context, programID string) ([]*domain.Workstream, error)
	UpdateWorkstream(ctx context.Context, ws *domain.Workstream) error
	DeleteWorkstream(ctx context.Context, id string) error

	CreateSubcomponent(ctx context.Context, sc *domain.Subcomponent) error
	GetSubcomponent(ctx context.Context, id string) (*domain.Subcomponent, error)
	ListSubcomponents(ctx context.Context, workstreamID string) ([]*domain.Subcomponent, error)
	UpdateSubcomponent(ctx context.Context, sc *domain.Subcomponent) error
	DeleteSubcomponent(ctx context.Context, id string) error
}

type SubtaskService interface {
	Create(ctx context.Context, st *domain.Subtask) error
	GetByID(ctx context.Context, id string) (*domain.Subtask, error)
	ListBySubcomponent(ctx context.Context, subcomponentID string) ([]*domain.Subtask, error)
	UpdateEstimation(ctx context.Context, id string, est domain.Estimation) (*domain.Subtask, estimate.Result, error)
	SetManualPoints(ctx context.Context, id string, points int) (*domain.Subtask, error)
	UpdateCompletion(ctx context.Context, req app.CompletionUpdate) (*app.CompletionResult, error)
	History(ctx context.Context, id string) ([]*domain.CompletionNote, error)
	Delete(ctx context.Context, id string) error
}

type SnapshotService interface {
	SaveCurrent(ctx context.Context, programID string) (*domain.BurnSnapshot, error)
	// Save writes the snapshot for dateKey, which must be the current month.
	Save(ctx context.Context, programID, dateKey string) (*domain.BurnSnapshot, error)
	List(ctx context.Context, programID string) ([]*domain.BurnSnapshot, error)
}

type StatusService interface {
	GetStatus(ctx context.Context, req app.StatusRequest) (*app.StatusResponse, error)
}

type BurndownService interface {
	Burndown(ctx context.Context, req app.BurndownRequest) (*app.BurndownResponse, error)
}

type ImportService interface {
	ImportProgram(ctx context.Context, filePath string) (*app.ImportResult, error)
	ImportProgramFromSchema(ctx context.Context, schema *importer.ImportSchema) (*app.ImportResult, error)
}

var (
	_ app.StatusUseCase           = (*statusService)(nil)
	_ app.BurndownUseCase         = (*burndownService)(nil)
	_ app.SaveSnapshotUseCase     = (*snapshotService)(nil)
	_ app.UpdateCompletionUseCase = (*subtaskService)(nil)
	_ app.ImportProgramUseCase    = (*importService)(nil)
)
