package app

import (
	"time"

	"github.com/alexanderramin/programhub/internal/domain"
	"github.com/alexanderramin/programhub/internal/rollup"
)

type StatusRequest struct {
	ProgramID string
	// OwnerID restricts the view to subcomponents owned by this person.
	OwnerID string
}

// PointsSummary carries both completion notions side by side: the strict
// DONE-only figures and the weighted progress figures.
type PointsSummary struct {
	TotalPoints     int
	CompletedPoints int
	Percent         int
	Progress        rollup.Progress
	Scope           rollup.Scope
}

type SubcomponentStatusView struct {
	SubcomponentID string
	Name           string
	Status         domain.WorkStatus
	OwnerID        string
	OwnerInitials  string
	PlannedStart   string
	PlannedEnd     string
	SubtaskCount   int
	// ManualFallback is set when totals come from the subcomponent's own
	// TotalPoints because it has no subtasks.
	ManualFallback bool
	Points         PointsSummary
}

type WorkstreamStatusView struct {
	WorkstreamID         string
	Name                 string
	TargetCompletionDate string
	Points               PointsSummary
	Subcomponents        []SubcomponentStatusView
}

type StatusResponse struct {
	Program     *domain.Program
	GeneratedAt time.Time
	Summary     PointsSummary
	Workstreams []WorkstreamStatusView
	Warnings    []string
}
