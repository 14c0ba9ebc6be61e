package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/programhub/internal/domain"
	"github.com/alexanderramin/programhub/internal/period"
	"github.com/alexanderramin/programhub/internal/repository"
	"github.com/google/uuid"
)

type programService struct {
	programs repository.ProgramRepo
	tree     treeLoader
	clock    period.Clock
	observer UseCaseObserver
}

func NewProgramService(repos Repos, clock period.Clock, observers ...UseCaseObserver) ProgramService {
	return &programService{
		programs: repos.Programs,
		tree:     repos.loader(),
		clock:    clockOrSystem(clock),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *programService) Create(ctx context.Context, p *domain.Program) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"short_id": p.ShortID}
	defer observe(ctx, s.observer, "create-program", startedAt, fields, &err)

	if err := validateProgram(p); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := s.clock.Now().UTC().Truncate(time.Second)
	p.CreatedAt = now
	p.UpdatedAt = now
	fields["program_id"] = p.ID
	return s.programs.Create(ctx, p)
}

func (s *programService) GetByID(ctx context.Context, id string) (*domain.Program, error) {
	return s.programs.GetByID(ctx, id)
}

func (s *programService) Resolve(ctx context.Context, ref string) (*domain.Program, error) {
	return resolveProgram(ctx, s.programs, ref)
}

func (s *programService) List(ctx context.Context) ([]*domain.Program, error) {
	return s.programs.List(ctx)
}

func (s *programService) Update(ctx context.Context, p *domain.Program) error {
	if err := validateProgram(p); err != nil {
		return err
	}
	p.UpdatedAt = s.clock.Now().UTC().Truncate(time.Second)
	return s.programs.Update(ctx, p)
}

func (s *programService) Delete(ctx context.Context, id string) (err error) {
	startedAt := time.Now().UTC()
	defer observe(ctx, s.observer, "delete-program", startedAt, map[string]any{"program_id": id}, &err)
	return s.programs.Delete(ctx, id)
}

func (s *programService) LoadTree(ctx context.Context, id string) (*domain.Program, error) {
	return s.tree.load(ctx, id)
}

func validateProgram(p *domain.Program) error {
	p.ShortID = strings.ToUpper(strings.TrimSpace(p.ShortID))
	if err := p.ValidateShortID(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if strings.TrimSpace(p.Name) == "" {
		return invalid("program name is required")
	}
	if err := p.ValidateFiscalYears(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if p.StartDate != nil && p.TargetDate != nil && !p.TargetDate.After(*p.StartDate) {
		return invalid("target date %s must be after start date %s",
			p.TargetDate.Format("2006-01-02"), p.StartDate.Format("2006-01-02"))
	}
	return nil
}

func clockOrSystem(clock period.Clock) period.Clock {
	if clock == nil {
		return period.SystemClock{}
	}
	return clock
}
