package app

import (
	"github.com/alexanderramin/programhub/internal/burndown"
	"github.com/alexanderramin/programhub/internal/domain"
	"github.com/alexanderramin/programhub/internal/period"
	"github.com/alexanderramin/programhub/internal/rollup"
)

// BurndownRequest selects the scope of a burndown. At most one of
// WorkstreamID, SubcomponentID and OwnerID may be set; none means the whole
// program.
type BurndownRequest struct {
	ProgramID      string
	WorkstreamID   string
	SubcomponentID string
	OwnerID        string
}

// Kind reports which scope the request selects.
func (r BurndownRequest) Kind() ScopeKind {
	switch {
	case r.SubcomponentID != "":
		return ScopeSubcomponent
	case r.WorkstreamID != "":
		return ScopeWorkstream
	case r.OwnerID != "":
		return ScopeOwner
	default:
		return ScopeProgram
	}
}

type BurndownResponse struct {
	Program    *domain.Program
	Kind       ScopeKind
	ScopeLabel string
	Periods    []period.Period
	Points     []burndown.ChartPoint
	Current    period.Period
	StartTotal int
	PeakScope  int
	// Live holds the totals computed from the current hierarchy.
	Live     burndown.Totals
	Scope    rollup.Scope
	Warnings []string
}
