package app

import (
	"context"

	"github.com/alexanderramin/programhub/internal/domain"
	"github.com/alexanderramin/programhub/internal/importer"
)

type StatusUseCase interface {
	GetStatus(ctx context.Context, req StatusRequest) (*StatusResponse, error)
}

type BurndownUseCase interface {
	Burndown(ctx context.Context, req BurndownRequest) (*BurndownResponse, error)
}

type SaveSnapshotUseCase interface {
	SaveCurrent(ctx context.Context, programID string) (*domain.BurnSnapshot, error)
}

type UpdateCompletionUseCase interface {
	UpdateCompletion(ctx context.Context, req CompletionUpdate) (*CompletionResult, error)
}

type ImportProgramUseCase interface {
	ImportProgram(ctx context.Context, filePath string) (*ImportResult, error)
	ImportProgramFromSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error)
}
