package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/programhub/internal/app"
	"github.com/alexanderramin/programhub/internal/db"
	"github.com/alexanderramin/programhub/internal/importer"
	"github.com/alexanderramin/programhub/internal/period"
	"github.com/alexanderramin/programhub/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	clock    period.Clock
	observer UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, clock period.Clock, observers ...UseCaseObserver) ImportService {
	return &importService{
		uow:      uow,
		clock:    clockOrSystem(clock),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *importService) ImportProgram(ctx context.Context, filePath string) (*app.ImportResult, error) {
	schema, err := importer.LoadImportSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.importSchema(ctx, schema)
}

func (s *importService) ImportProgramFromSchema(ctx context.Context, schema *importer.ImportSchema) (*app.ImportResult, error) {
	return s.importSchema(ctx, schema)
}

func (s *importService) importSchema(ctx context.Context, schema *importer.ImportSchema) (result *app.ImportResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"short_id": schema.Program.ShortID}
	defer observe(ctx, s.observer, "import-program", startedAt, fields, &err)

	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		fields["validation_errors"] = len(errs)
		return nil, formatValidationErrors(errs)
	}

	generated, err := importer.Convert(schema, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("converting import schema: %w", err)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		programs := repository.NewSQLiteProgramRepo(tx)
		workstreams := repository.NewSQLiteWorkstreamRepo(tx)
		subcomponents := repository.NewSQLiteSubcomponentRepo(tx)
		subtasks := repository.NewSQLiteSubtaskRepo(tx)

		if err := programs.Create(ctx, generated.Program); err != nil {
			return fmt.Errorf("creating program: %w", err)
		}
		for _, ws := range generated.Workstreams {
			if err := workstreams.Create(ctx, ws); err != nil {
				return fmt.Errorf("creating workstream %q: %w", ws.Name, err)
			}
		}
		for _, sc := range generated.Subcomponents {
			if err := subcomponents.Create(ctx, sc); err != nil {
				return fmt.Errorf("creating subcomponent %q: %w", sc.Name, err)
			}
		}
		for _, st := range generated.Subtasks {
			if err := subtasks.Create(ctx, st); err != nil {
				return fmt.Errorf("creating subtask %q: %w", st.Title, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields["program_id"] = generated.Program.ID
	return &app.ImportResult{
		Program:           generated.Program,
		WorkstreamCount:   len(generated.Workstreams),
		SubcomponentCount: len(generated.Subcomponents),
		SubtaskCount:      len(generated.Subtasks),
	}, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}
