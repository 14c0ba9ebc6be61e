package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/programhub/internal/domain"
	"github.com/alexanderramin/programhub/internal/period"
	"github.com/alexanderramin/programhub/internal/repository"
	"github.com/alexanderramin/programhub/internal/rollup"
	"github.com/google/uuid"
)

type snapshotService struct {
	snapshots repository.SnapshotRepo
	tree      treeLoader
	clock     period.Clock
	observer  UseCaseObserver
}

func NewSnapshotService(repos Repos, clock period.Clock, observers ...UseCaseObserver) SnapshotService {
	return &snapshotService{
		snapshots: repos.Snapshots,
		tree:      repos.loader(),
		clock:     clockOrSystem(clock),
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *snapshotService) SaveCurrent(ctx context.Context, programID string) (*domain.BurnSnapshot, error) {
	return s.Save(ctx, programID, period.CurrentPeriod(s.clock).DateKey)
}

func (s *snapshotService) Save(ctx context.Context, programID, dateKey string) (snap *domain.BurnSnapshot, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"program_id": programID, "date": dateKey}
	defer observe(ctx, s.observer, "save-snapshot", startedAt, fields, &err)

	current := period.CurrentPeriod(s.clock)
	if dateKey != current.DateKey {
		return nil, fmt.Errorf("%s requested, current month is %s: %w", dateKey, current.DateKey, ErrSnapshotNotCurrent)
	}

	p, err := s.tree.load(ctx, programID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC().Truncate(time.Second)
	snap = snapshotFromTree(p, dateKey)
	snap.ID = uuid.New().String()
	snap.CreatedAt = now
	snap.UpdatedAt = now
	if err := s.snapshots.Upsert(ctx, snap); err != nil {
		return nil, err
	}
	fields["total_points"] = snap.TotalPoints
	fields["completed_points"] = snap.CompletedPoints
	return snap, nil
}

func (s *snapshotService) List(ctx context.Context, programID string) ([]*domain.BurnSnapshot, error) {
	return s.snapshots.ListByProgram(ctx, programID)
}

// snapshotFromTree records the weighted progress of the program and of every
// workstream and subcomponent in it.
func snapshotFromTree(p *domain.Program, dateKey string) *domain.BurnSnapshot {
	total := rollup.InitiativeProgress(p.Workstreams)
	snap := &domain.BurnSnapshot{
		ProgramID:       p.ID,
		Date:            dateKey,
		TotalPoints:     total.Total,
		CompletedPoints: total.CompletedRounded(),
		PercentComplete: total.Percent(),
		Workstreams:     make(map[string]domain.WorkstreamSnapshot, len(p.Workstreams)),
	}
	for _, ws := range p.Workstreams {
		wsProgress := rollup.WorkstreamProgress(ws)
		entry := domain.WorkstreamSnapshot{
			TotalPoints:     wsProgress.Total,
			CompletedPoints: wsProgress.CompletedRounded(),
			Subcomponents:   make(map[string]domain.PointsPair, len(ws.Subcomponents)),
		}
		for _, sc := range ws.Subcomponents {
			scProgress := rollup.SubcomponentProgress(sc)
			entry.Subcomponents[sc.ID] = domain.PointsPair{
				TotalPoints:     scProgress.Total,
				CompletedPoints: scProgress.CompletedRounded(),
			}
		}
		snap.Workstreams[ws.ID] = entry
	}
	return snap
}
