package rollup

import (
	"math"

	"github.com/alexanderramin/programhub/internal/domain"
)

// Progress is the total/completed pair used by progress views and burndown.
// Completed is weighted by completion percentage.
type Progress struct {
	Total     int
	Completed float64
}

// CompletedRounded returns Completed rounded to whole points.
func (p Progress) CompletedRounded() int {
	return int(math.Round(p.Completed))
}

// Remaining returns total minus rounded completed points, never negative.
func (p Progress) Remaining() int {
	r := p.Total - p.CompletedRounded()
	if r < 0 {
		return 0
	}
	return r
}

// Percent applies the shared percentage rule.
func (p Progress) Percent() int {
	return Percent(p.Completed, float64(p.Total))
}

func (p Progress) add(o Progress) Progress {
	return Progress{Total: p.Total + o.Total, Completed: p.Completed + o.Completed}
}

// statusFraction is the completion heuristic for a subcomponent without subtasks.
func statusFraction(s domain.WorkStatus) float64 {
	switch s {
	case domain.StatusDone:
		return 1
	case domain.StatusInProgress:
		return 0.5
	default:
		return 0
	}
}

// SubcomponentProgress derives progress from subtasks when there are any.
// Without subtasks the manual TotalPoints is credited by status.
func SubcomponentProgress(sc *domain.Subcomponent) Progress {
	if sc == nil {
		return Progress{}
	}
	if !sc.HasSubtasks() {
		total := sc.TotalPoints
		if total < 0 {
			total = 0
		}
		return Progress{Total: total, Completed: float64(total) * statusFraction(sc.Status)}
	}
	return Progress{
		Total:     SubcomponentTotalPoints(sc),
		Completed: SubcomponentWeightedCompletedPoints(sc),
	}
}

func WorkstreamProgress(ws *domain.Workstream) Progress {
	var p Progress
	if ws == nil {
		return p
	}
	for _, sc := range ws.Subcomponents {
		p = p.add(SubcomponentProgress(sc))
	}
	return p
}

func InitiativeProgress(workstreams []*domain.Workstream) Progress {
	var p Progress
	for _, ws := range workstreams {
		p = p.add(WorkstreamProgress(ws))
	}
	return p
}

// OwnerProgress restricts progress to subcomponents owned by ownerID.
func OwnerProgress(workstreams []*domain.Workstream, ownerID string) Progress {
	var p Progress
	for _, sc := range OwnerSubcomponents(workstreams, ownerID) {
		p = p.add(SubcomponentProgress(sc))
	}
	return p
}
