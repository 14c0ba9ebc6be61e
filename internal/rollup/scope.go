package rollup

import "github.com/alexanderramin/programhub/internal/domain"

// Scope separates baseline work from work added after the baseline was set.
type Scope struct {
	Base    int // points of subtasks not flagged as added scope
	Current int // points of all subtasks
}

// Added returns the points introduced after the baseline.
func (s Scope) Added() int {
	return s.Current - s.Base
}

func (s Scope) add(o Scope) Scope {
	return Scope{Base: s.Base + o.Base, Current: s.Current + o.Current}
}

// BaseScopePoints sums effective points of subtasks that are not added scope.
func BaseScopePoints(subtasks []*domain.Subtask) int {
	total := 0
	for _, st := range subtasks {
		if !st.IsAddedScope {
			total += EffectivePoints(st)
		}
	}
	return total
}

// CurrentScopePoints sums effective points of every subtask.
func CurrentScopePoints(subtasks []*domain.Subtask) int {
	total := 0
	for _, st := range subtasks {
		total += EffectivePoints(st)
	}
	return total
}

// SubcomponentScope is the scope split of one subcomponent's subtasks. Like
// the strict totals it ignores the manual total, so a subcomponent without
// subtasks has no scope.
func SubcomponentScope(sc *domain.Subcomponent) Scope {
	if sc == nil {
		return Scope{}
	}
	return Scope{Base: BaseScopePoints(sc.Subtasks), Current: CurrentScopePoints(sc.Subtasks)}
}

func WorkstreamScope(ws *domain.Workstream) Scope {
	var s Scope
	if ws == nil {
		return s
	}
	for _, sc := range ws.Subcomponents {
		s = s.add(SubcomponentScope(sc))
	}
	return s
}

func InitiativeScope(workstreams []*domain.Workstream) Scope {
	var s Scope
	for _, ws := range workstreams {
		s = s.add(WorkstreamScope(ws))
	}
	return s
}

func OwnerScope(workstreams []*domain.Workstream, ownerID string) Scope {
	var s Scope
	for _, sc := range OwnerSubcomponents(workstreams, ownerID) {
		s = s.add(SubcomponentScope(sc))
	}
	return s
}
