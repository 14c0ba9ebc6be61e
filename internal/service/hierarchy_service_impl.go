package service

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/programhub/internal/domain"
	"github.com/alexanderramin/programhub/internal/period"
	"github.com/alexanderramin/programhub/internal/repository"
	"github.com/google/uuid"
)

type hierarchyService struct {
	workstreams   repository.WorkstreamRepo
	subcomponents repository.SubcomponentRepo
	clock         period.Clock
	observer      UseCaseObserver
}

func NewHierarchyService(repos Repos, clock period.Clock, observers ...UseCaseObserver) HierarchyService {
	return &hierarchyService{
		workstreams:   repos.Workstreams,
		subcomponents: repos.Subcomponents,
		clock:         clockOrSystem(clock),
		observer:      useCaseObserverOrNoop(observers),
	}
}

func (s *hierarchyService) now() time.Time {
	return s.clock.Now().UTC().Truncate(time.Second)
}

func (s *hierarchyService) CreateWorkstream(ctx context.Context, ws *domain.Workstream) (err error) {
	startedAt := time.Now().UTC()
	defer observe(ctx, s.observer, "create-workstream", startedAt, map[string]any{"program_id": ws.ProgramID}, &err)

	if err := validateWorkstream(ws); err != nil {
		return err
	}
	if ws.ID == "" {
		ws.ID = uuid.New().String()
	}
	if ws.OrderIndex == 0 {
		existing, err := s.workstreams.ListByProgram(ctx, ws.ProgramID)
		if err != nil {
			return err
		}
		ws.OrderIndex = len(existing)
	}
	now := s.now()
	ws.CreatedAt = now
	ws.UpdatedAt = now
	return s.workstreams.Create(ctx, ws)
}

func (s *hierarchyService) GetWorkstream(ctx context.Context, id string) (*domain.Workstream, error) {
	return s.workstreams.GetByID(ctx, id)
}

func (s *hierarchyService) ListWorkstreams(ctx context.Context, programID string) ([]*domain.Workstream, error) {
	return s.workstreams.ListByProgram(ctx, programID)
}

func (s *hierarchyService) UpdateWorkstream(ctx context.Context, ws *domain.Workstream) error {
	if err := validateWorkstream(ws); err != nil {
		return err
	}
	ws.UpdatedAt = s.now()
	return s.workstreams.Update(ctx, ws)
}

func (s *hierarchyService) DeleteWorkstream(ctx context.Context, id string) error {
	return s.workstreams.Delete(ctx, id)
}

func (s *hierarchyService) CreateSubcomponent(ctx context.Context, sc *domain.Subcomponent) (err error) {
	startedAt := time.Now().UTC()
	defer observe(ctx, s.observer, "create-subcomponent", startedAt, map[string]any{"workstream_id": sc.WorkstreamID}, &err)

	if err := validateSubcomponent(sc); err != nil {
		return err
	}
	if sc.ID == "" {
		sc.ID = uuid.New().String()
	}
	if sc.OrderIndex == 0 {
		existing, err := s.subcomponents.ListByWorkstream(ctx, sc.WorkstreamID)
		if err != nil {
			return err
		}
		sc.OrderIndex = len(existing)
	}
	now := s.now()
	sc.CreatedAt = now
	sc.UpdatedAt = now
	return s.subcomponents.Create(ctx, sc)
}

func (s *hierarchyService) GetSubcomponent(ctx context.Context, id string) (*domain.Subcomponent, error) {
	return s.subcomponents.GetByID(ctx, id)
}

func (s *hierarchyService) ListSubcomponents(ctx context.Context, workstreamID string) ([]*domain.Subcomponent, error) {
	return s.subcomponents.ListByWorkstream(ctx, workstreamID)
}

func (s *hierarchyService) UpdateSubcomponent(ctx context.Context, sc *domain.Subcomponent) error {
	if err := validateSubcomponent(sc); err != nil {
		return err
	}
	sc.UpdatedAt = s.now()
	return s.subcomponents.Update(ctx, sc)
}

func (s *hierarchyService) DeleteSubcomponent(ctx context.Context, id string) error {
	return s.subcomponents.Delete(ctx, id)
}

func validateWorkstream(ws *domain.Workstream) error {
	ws.Name = strings.TrimSpace(ws.Name)
	ws.TargetCompletionDate = strings.TrimSpace(ws.TargetCompletionDate)
	if ws.ProgramID == "" {
		return invalid("workstream program is required")
	}
	if ws.Name == "" {
		return invalid("workstream name is required")
	}
	return nil
}

func validateSubcomponent(sc *domain.Subcomponent) error {
	sc.Name = strings.TrimSpace(sc.Name)
	if sc.WorkstreamID == "" {
		return invalid("subcomponent workstream is required")
	}
	if sc.Name == "" {
		return invalid("subcomponent name is required")
	}
	if sc.Status == "" {
		sc.Status = domain.StatusNotStarted
	}
	sc.Status = domain.WorkStatus(strings.ToUpper(string(sc.Status)))
	if !domain.ValidWorkStatuses[string(sc.Status)] {
		return invalid("subcomponent status %q is not one of NOT_STARTED, IN_PROGRESS, DONE", sc.Status)
	}
	if sc.TotalPoints < 0 {
		return invalid("subcomponent total points must be >= 0 (got %d)", sc.TotalPoints)
	}
	for _, m := range []string{sc.PlannedStart, sc.PlannedEnd} {
		if m == "" {
			continue
		}
		if _, err := time.Parse("2006-01", m); err != nil {
			return invalid("planned month %q must be YYYY-MM", m)
		}
	}
	if sc.PlannedStart != "" && sc.PlannedEnd != "" && sc.PlannedEnd < sc.PlannedStart {
		return invalid("planned end %s is before planned start %s", sc.PlannedEnd, sc.PlannedStart)
	}
	return nil
}
