package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/programhub/internal/app"
	"github.com/alexanderramin/programhub/internal/domain"
	"github.com/alexanderramin/programhub/internal/period"
	"github.com/alexanderramin/programhub/internal/rollup"
)

type statusService struct {
	tree     treeLoader
	clock    period.Clock
	observer UseCaseObserver
}

func NewStatusService(repos Repos, clock period.Clock, observers ...UseCaseObserver) StatusService {
	return &statusService{
		tree:     repos.loader(),
		clock:    clockOrSystem(clock),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *statusService) GetStatus(ctx context.Context, req app.StatusRequest) (resp *app.StatusResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"program_id": req.ProgramID}
	if req.OwnerID != "" {
		fields["owner_id"] = req.OwnerID
	}
	defer observe(ctx, s.observer, "status", startedAt, fields, &err)

	p, err := s.tree.load(ctx, req.ProgramID)
	if err != nil {
		return nil, err
	}

	resp = &app.StatusResponse{
		Program:     p,
		GeneratedAt: s.clock.Now(),
	}

	var all []*domain.Subcomponent
	for _, ws := range p.Workstreams {
		var included []*domain.Subcomponent
		view := app.WorkstreamStatusView{
			WorkstreamID:         ws.ID,
			Name:                 ws.Name,
			TargetCompletionDate: ws.TargetCompletionDate,
		}
		for _, sc := range ws.Subcomponents {
			if req.OwnerID != "" && sc.OwnerID != req.OwnerID {
				continue
			}
			included = append(included, sc)
			view.Subcomponents = append(view.Subcomponents, subcomponentView(sc))
			resp.Warnings = append(resp.Warnings, pointsDriftWarnings(sc)...)
		}
		if req.OwnerID != "" && len(included) == 0 {
			continue
		}
		if ws.TargetCompletionDate != "" {
			if _, ok := period.ParseTargetMonth(ws.TargetCompletionDate); !ok {
				resp.Warnings = append(resp.Warnings,
					fmt.Sprintf("workstream %q: target completion %q is not a recognised month and is ignored", ws.Name, ws.TargetCompletionDate))
			}
		}
		view.Points = summarize(included)
		resp.Workstreams = append(resp.Workstreams, view)
		all = append(all, included...)
	}

	if req.OwnerID != "" && len(all) == 0 {
		resp.Warnings = append(resp.Warnings, fmt.Sprintf("no subcomponents are owned by %q", req.OwnerID))
	}
	resp.Summary = summarize(all)
	fields["total_points"] = resp.Summary.TotalPoints
	fields["completed_points"] = resp.Summary.CompletedPoints
	fields["progress_total"] = resp.Summary.Progress.Total
	fields["progress_completed"] = resp.Summary.Progress.Completed
	return resp, nil
}

func subcomponentView(sc *domain.Subcomponent) app.SubcomponentStatusView {
	return app.SubcomponentStatusView{
		SubcomponentID: sc.ID,
		Name:           sc.Name,
		Status:         sc.Status,
		OwnerID:        sc.OwnerID,
		OwnerInitials:  sc.OwnerInitials,
		PlannedStart:   sc.PlannedStart,
		PlannedEnd:     sc.PlannedEnd,
		SubtaskCount:   len(sc.Subtasks),
		ManualFallback: !sc.HasSubtasks(),
		Points:         summarize([]*domain.Subcomponent{sc}),
	}
}

// summarize rolls a set of subcomponents up into both completion notions.
func summarize(scs []*domain.Subcomponent) app.PointsSummary {
	var sum app.PointsSummary
	for _, sc := range scs {
		sum.TotalPoints += rollup.SubcomponentTotalPoints(sc)
		sum.CompletedPoints += rollup.SubcomponentCompletedPoints(sc)

		p := rollup.SubcomponentProgress(sc)
		sum.Progress.Total += p.Total
		sum.Progress.Completed += p.Completed

		scope := rollup.SubcomponentScope(sc)
		sum.Scope.Base += scope.Base
		sum.Scope.Current += scope.Current
	}
	sum.Percent = rollup.Percent(float64(sum.CompletedPoints), float64(sum.TotalPoints))
	return sum
}

// pointsDriftWarnings flags estimated subtasks whose stored points no longer
// match the estimator, e.g. rows written by older releases.
func pointsDriftWarnings(sc *domain.Subcomponent) []string {
	var warnings []string
	for _, st := range sc.Subtasks {
		if !st.Estimation.Active() {
			continue
		}
		if want := rollup.EffectivePoints(st); want != st.Points {
			warnings = append(warnings,
				fmt.Sprintf("subtask %q stores %d points but its estimate rounds to %d", st.Title, st.Points, want))
		}
	}
	return warnings
}
