// Package rollup aggregates story points bottom-up through the program
// hierarchy: subtask -> subcomponent -> workstream -> program.
//
// Two notions of "completed" coexist. The strict functions count a subtask's
// points only once it is DONE. The weighted functions credit partial progress
// by completion percentage and are what progress views and burndown use.
package rollup

import (
	"math"

	"github.com/alexanderramin/programhub/internal/domain"
	"github.com/alexanderramin/programhub/internal/estimate"
)

// EffectivePoints resolves a subtask's points: the estimator's output while an
// estimation is active, otherwise the manually entered value.
func EffectivePoints(st *domain.Subtask) int {
	if st == nil {
		return 0
	}
	if st.Estimation.Active() {
		return estimate.FinalAsNumber(estimate.ForEstimation(*st.Estimation).Final)
	}
	if st.Points < 0 {
		return 0
	}
	return st.Points
}

// Percent applies the shared rule round(completed/total*100), 0 for an empty total.
func Percent(completed, total float64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(completed / total * 100))
}

// SubcomponentTotalPoints sums effective subtask points. The subcomponent's
// own TotalPoints field is never consulted.
func SubcomponentTotalPoints(sc *domain.Subcomponent) int {
	if sc == nil {
		return 0
	}
	total := 0
	for _, st := range sc.Subtasks {
		total += EffectivePoints(st)
	}
	return total
}

// SubcomponentCompletedPoints sums the points of DONE subtasks only.
func SubcomponentCompletedPoints(sc *domain.Subcomponent) int {
	if sc == nil {
		return 0
	}
	done := 0
	for _, st := range sc.Subtasks {
		if st.IsDone() {
			done += EffectivePoints(st)
		}
	}
	return done
}

// SubcomponentWeightedCompletedPoints credits each subtask by its completion percentage.
func SubcomponentWeightedCompletedPoints(sc *domain.Subcomponent) float64 {
	if sc == nil {
		return 0
	}
	var done float64
	for _, st := range sc.Subtasks {
		done += float64(EffectivePoints(st)) * float64(creditPercent(st)) / 100
	}
	return done
}

// creditPercent is the completion credited to a subtask. DONE always counts in full.
func creditPercent(st *domain.Subtask) int {
	if st.IsDone() {
		return 100
	}
	return domain.ClampPercent(st.CompletionPercent)
}

func SubcomponentPercent(sc *domain.Subcomponent) int {
	return Percent(float64(SubcomponentCompletedPoints(sc)), float64(SubcomponentTotalPoints(sc)))
}

func WorkstreamTotalPoints(ws *domain.Workstream) int {
	if ws == nil {
		return 0
	}
	total := 0
	for _, sc := range ws.Subcomponents {
		total += SubcomponentTotalPoints(sc)
	}
	return total
}

func WorkstreamCompletedPoints(ws *domain.Workstream) int {
	if ws == nil {
		return 0
	}
	done := 0
	for _, sc := range ws.Subcomponents {
		done += SubcomponentCompletedPoints(sc)
	}
	return done
}

func WorkstreamWeightedCompletedPoints(ws *domain.Workstream) float64 {
	if ws == nil {
		return 0
	}
	var done float64
	for _, sc := range ws.Subcomponents {
		done += SubcomponentWeightedCompletedPoints(sc)
	}
	return done
}

func WorkstreamPercent(ws *domain.Workstream) int {
	return Percent(float64(WorkstreamCompletedPoints(ws)), float64(WorkstreamTotalPoints(ws)))
}

// InitiativeTotalPoints sums every workstream of a program.
func InitiativeTotalPoints(workstreams []*domain.Workstream) int {
	total := 0
	for _, ws := range workstreams {
		total += WorkstreamTotalPoints(ws)
	}
	return total
}

func InitiativeCompletedPoints(workstreams []*domain.Workstream) int {
	done := 0
	for _, ws := range workstreams {
		done += WorkstreamCompletedPoints(ws)
	}
	return done
}

func InitiativeWeightedCompletedPoints(workstreams []*domain.Workstream) float64 {
	var done float64
	for _, ws := range workstreams {
		done += WorkstreamWeightedCompletedPoints(ws)
	}
	return done
}

func InitiativePercent(workstreams []*domain.Workstream) int {
	return Percent(float64(InitiativeCompletedPoints(workstreams)), float64(InitiativeTotalPoints(workstreams)))
}

// OwnerSubcomponents returns the subcomponents owned by ownerID across all workstreams.
func OwnerSubcomponents(workstreams []*domain.Workstream, ownerID string) []*domain.Subcomponent {
	var owned []*domain.Subcomponent
	for _, ws := range workstreams {
		if ws == nil {
			continue
		}
		for _, sc := range ws.Subcomponents {
			if sc.OwnerID == ownerID {
				owned = append(owned, sc)
			}
		}
	}
	return owned
}

func OwnerTotalPoints(workstreams []*domain.Workstream, ownerID string) int {
	total := 0
	for _, sc := range OwnerSubcomponents(workstreams, ownerID) {
		total += SubcomponentTotalPoints(sc)
	}
	return total
}

func OwnerCompletedPoints(workstreams []*domain.Workstream, ownerID string) int {
	done := 0
	for _, sc := range OwnerSubcomponents(workstreams, ownerID) {
		done += SubcomponentCompletedPoints(sc)
	}
	return done
}

func OwnerPercent(workstreams []*domain.Workstream, ownerID string) int {
	return Percent(float64(OwnerCompletedPoints(workstreams, ownerID)), float64(OwnerTotalPoints(workstreams, ownerID)))
}
