package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/programhub/internal/db"
	"github.com/alexanderramin/programhub/internal/domain"
	"github.com/alexanderramin/programhub/internal/repository"
)

// treeLoader assembles a program's full hierarchy from the flat repositories.
type treeLoader struct {
	programs      repository.ProgramRepo
	workstreams   repository.WorkstreamRepo
	subcomponents repository.SubcomponentRepo
	subtasks      repository.SubtaskRepo
}

// Repos bundles the repositories services read from.
type Repos struct {
	Programs      repository.ProgramRepo
	Workstreams   repository.WorkstreamRepo
	Subcomponents repository.SubcomponentRepo
	Subtasks      repository.SubtaskRepo
	Notes         repository.CompletionNoteRepo
	Snapshots     repository.SnapshotRepo
}

// NewRepos wires the SQLite repositories over conn.
func NewRepos(conn db.DBTX) Repos {
	return Repos{
		Programs:      repository.NewSQLiteProgramRepo(conn),
		Workstreams:   repository.NewSQLiteWorkstreamRepo(conn),
		Subcomponents: repository.NewSQLiteSubcomponentRepo(conn),
		Subtasks:      repository.NewSQLiteSubtaskRepo(conn),
		Notes:         repository.NewSQLiteCompletionNoteRepo(conn),
		Snapshots:     repository.NewSQLiteSnapshotRepo(conn),
	}
}

func (r Repos) loader() treeLoader {
	return treeLoader{
		programs:      r.Programs,
		workstreams:   r.Workstreams,
		subcomponents: r.Subcomponents,
		subtasks:      r.Subtasks,
	}
}

func (l treeLoader) load(ctx context.Context, programID string) (*domain.Program, error) {
	p, err := l.programs.GetByID(ctx, programID)
	if err != nil {
		return nil, err
	}
	workstreams, err := l.workstreams.ListByProgram(ctx, programID)
	if err != nil {
		return nil, fmt.Errorf("listing workstreams: %w", err)
	}
	subcomponents, err := l.subcomponents.ListByProgram(ctx, programID)
	if err != nil {
		return nil, fmt.Errorf("listing subcomponents: %w", err)
	}
	subtasks, err := l.subtasks.ListByProgram(ctx, programID)
	if err != nil {
		return nil, fmt.Errorf("listing subtasks: %w", err)
	}

	wsByID := make(map[string]*domain.Workstream, len(workstreams))
	for _, ws := range workstreams {
		ws.Subcomponents = nil
		wsByID[ws.ID] = ws
	}
	scByID := make(map[string]*domain.Subcomponent, len(subcomponents))
	for _, sc := range subcomponents {
		sc.Subtasks = nil
		scByID[sc.ID] = sc
		if ws, ok := wsByID[sc.WorkstreamID]; ok {
			ws.Subcomponents = append(ws.Subcomponents, sc)
		}
	}
	for _, st := range subtasks {
		if sc, ok := scByID[st.SubcomponentID]; ok {
			sc.Subtasks = append(sc.Subtasks, st)
		}
	}

	p.Workstreams = workstreams
	return p, nil
}

// resolveProgram looks a program up by short ID first, then by full ID.
func resolveProgram(ctx context.Context, programs repository.ProgramRepo, ref string) (*domain.Program, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("program reference is required: %w", ErrInvalidInput)
	}
	p, err := programs.GetByShortID(ctx, strings.ToUpper(ref))
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return programs.GetByID(ctx, ref)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidInput)
}
