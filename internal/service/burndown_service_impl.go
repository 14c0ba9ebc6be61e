package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/programhub/internal/app"
	"github.com/alexanderramin/programhub/internal/burndown"
	"github.com/alexanderramin/programhub/internal/domain"
	"github.com/alexanderramin/programhub/internal/period"
	"github.com/alexanderramin/programhub/internal/repository"
	"github.com/alexanderramin/programhub/internal/rollup"
)

type burndownService struct {
	snapshots repository.SnapshotRepo
	tree      treeLoader
	clock     period.Clock
	observer  UseCaseObserver
}

func NewBurndownService(repos Repos, clock period.Clock, observers ...UseCaseObserver) BurndownService {
	return &burndownService{
		snapshots: repos.Snapshots,
		tree:      repos.loader(),
		clock:     clockOrSystem(clock),
		observer:  useCaseObserverOrNoop(observers),
	}
}

// burndownScope is the slice of the tree a chart is drawn for.
type burndownScope struct {
	label       string
	workstreams []*domain.Workstream // bound the timeline
	live        rollup.Progress
	scope       rollup.Scope
	selector    burndown.Selector
}

func (s *burndownService) Burndown(ctx context.Context, req app.BurndownRequest) (resp *app.BurndownResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"program_id": req.ProgramID, "scope": string(req.Kind())}
	defer observe(ctx, s.observer, "burndown", startedAt, fields, &err)

	selected := 0
	for _, id := range []string{req.WorkstreamID, req.SubcomponentID, req.OwnerID} {
		if id != "" {
			selected++
		}
	}
	if selected > 1 {
		return nil, invalid("choose at most one of workstream, subcomponent or owner")
	}

	p, err := s.tree.load(ctx, req.ProgramID)
	if err != nil {
		return nil, err
	}
	snaps, err := s.snapshots.ListByProgram(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}

	sc, err := selectScope(p, req)
	if err != nil {
		return nil, err
	}

	periods := period.Timeline(p, sc.workstreams)
	current := period.CurrentPeriod(s.clock)
	history := burndown.SnapshotTotals(snaps, sc.selector)

	// Manual fallback totals belong to the baseline; only subtasks can be
	// flagged as added scope.
	startTotal := sc.live.Total - sc.scope.Added()
	if startTotal < 0 {
		startTotal = 0
	}

	points := burndown.BuildChartData(periods, history, startTotal, sc.live.Remaining(), sc.live.Total, current)

	resp = &app.BurndownResponse{
		Program:    p,
		Kind:       req.Kind(),
		ScopeLabel: sc.label,
		Periods:    periods,
		Points:     points,
		Current:    current,
		StartTotal: startTotal,
		PeakScope:  burndown.PeakScope(points),
		Live:       burndown.Totals{TotalPoints: sc.live.Total, CompletedPoints: sc.live.CompletedRounded()},
		Scope:      sc.scope,
	}
	resp.Warnings = burndownWarnings(resp, len(snaps)-len(history))
	fields["periods"] = len(periods)
	fields["snapshots"] = len(history)
	return resp, nil
}

func selectScope(p *domain.Program, req app.BurndownRequest) (burndownScope, error) {
	switch req.Kind() {
	case app.ScopeWorkstream:
		ws := p.FindWorkstream(req.WorkstreamID)
		if ws == nil {
			return burndownScope{}, fmt.Errorf("workstream %s in program %s: %w", req.WorkstreamID, p.DisplayID(), repository.ErrNotFound)
		}
		return burndownScope{
			label:       ws.Name,
			workstreams: []*domain.Workstream{ws},
			live:        rollup.WorkstreamProgress(ws),
			scope:       rollup.WorkstreamScope(ws),
			selector:    burndown.WorkstreamSelector(ws.ID),
		}, nil

	case app.ScopeSubcomponent:
		ws, sc := p.FindSubcomponent(req.SubcomponentID)
		if sc == nil {
			return burndownScope{}, fmt.Errorf("subcomponent %s in program %s: %w", req.SubcomponentID, p.DisplayID(), repository.ErrNotFound)
		}
		return burndownScope{
			label:       ws.Name + " / " + sc.Name,
			workstreams: []*domain.Workstream{ws},
			live:        rollup.SubcomponentProgress(sc),
			scope:       rollup.SubcomponentScope(sc),
			selector:    burndown.SubcomponentSelector(ws.ID, sc.ID),
		}, nil

	case app.ScopeOwner:
		ids := make(map[string][]string)
		var workstreams []*domain.Workstream
		for _, ws := range p.Workstreams {
			for _, sc := range ws.Subcomponents {
				if sc.OwnerID != req.OwnerID {
					continue
				}
				if len(ids[ws.ID]) == 0 {
					workstreams = append(workstreams, ws)
				}
				ids[ws.ID] = append(ids[ws.ID], sc.ID)
			}
		}
		if len(ids) == 0 {
			return burndownScope{}, invalid("no subcomponents in program %s are owned by %q", p.DisplayID(), req.OwnerID)
		}
		return burndownScope{
			label:       "Owner " + req.OwnerID,
			workstreams: workstreams,
			live:        rollup.OwnerProgress(p.Workstreams, req.OwnerID),
			scope:       rollup.OwnerScope(p.Workstreams, req.OwnerID),
			selector:    burndown.OwnerSelector(ids),
		}, nil

	default:
		return burndownScope{
			label:       p.Name,
			workstreams: p.Workstreams,
			live:        rollup.InitiativeProgress(p.Workstreams),
			scope:       rollup.InitiativeScope(p.Workstreams),
			selector:    burndown.ProgramSelector(),
		}, nil
	}
}

func burndownWarnings(resp *app.BurndownResponse, skipped int) []string {
	var warnings []string

	prev := 0
	for i, pt := range resp.Points {
		if i > 0 && pt.ScopeChanged {
			warnings = append(warnings, fmt.Sprintf("scope changed in %s: %d -> %d points", pt.Label, prev, pt.Scope))
		}
		prev = pt.Scope
	}

	if len(resp.Periods) > 0 && period.Index(resp.Periods, resp.Current.DateKey) < 0 {
		first, last := resp.Periods[0], resp.Periods[len(resp.Periods)-1]
		warnings = append(warnings, fmt.Sprintf("current month %s is outside the timeline %s to %s; live totals are not plotted",
			resp.Current.ShortLabel, first.ShortLabel, last.ShortLabel))
	}
	if skipped > 0 {
		warnings = append(warnings, fmt.Sprintf("%d snapshot(s) have no breakdown for this scope and were skipped", skipped))
	}
	if added := resp.Scope.Added(); added > 0 {
		warnings = append(warnings, fmt.Sprintf("%d point(s) of added scope since baseline", added))
	}
	return warnings
}
