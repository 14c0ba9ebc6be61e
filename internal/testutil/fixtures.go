package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/programhub/internal/domain"
	"github.com/google/uuid"
)

var testShortIDCounter atomic.Int64

func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// Program options
type ProgramOption func(*domain.Program)

func WithShortID(id string) ProgramOption {
	return func(p *domain.Program) {
		p.ShortID = id
	}
}

func WithFiscalYears(start, end int) ProgramOption {
	return func(p *domain.Program) {
		p.FYStartYear = start
		p.FYEndYear = end
	}
}

func WithStartDate(d time.Time) ProgramOption {
	return func(p *domain.Program) {
		p.StartDate = &d
	}
}

func WithTargetDate(d time.Time) ProgramOption {
	return func(p *domain.Program) {
		p.TargetDate = &d
	}
}

func defaultShortID(name string) string {
	upper := strings.ToUpper(name)
	var letters []byte
	for i := 0; i < len(upper) && len(letters) < 3; i++ {
		if upper[i] >= 'A' && upper[i] <= 'Z' {
			letters = append(letters, upper[i])
		}
	}
	for len(letters) < 3 {
		letters = append(letters, 'X')
	}
	n := testShortIDCounter.Add(1)
	return fmt.Sprintf("%s%02d", string(letters), n)
}

func NewTestProgram(name string, opts ...ProgramOption) *domain.Program {
	ts := now()
	p := &domain.Program{
		ID:          uuid.New().String(),
		ShortID:     defaultShortID(name),
		Name:        name,
		FYStartYear: 26,
		FYEndYear:   28,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Workstream options
type WorkstreamOption func(*domain.Workstream)

func WithTargetCompletion(s string) WorkstreamOption {
	return func(ws *domain.Workstream) {
		ws.TargetCompletionDate = s
	}
}

func WithWorkstreamOrder(i int) WorkstreamOption {
	return func(ws *domain.Workstream) {
		ws.OrderIndex = i
	}
}

func NewTestWorkstream(programID, name string, opts ...WorkstreamOption) *domain.Workstream {
	ts := now()
	ws := &domain.Workstream{
		ID:        uuid.New().String(),
		ProgramID: programID,
		Name:      name,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	for _, opt := range opts {
		opt(ws)
	}
	return ws
}

// Subcomponent options
type SubcomponentOption func(*domain.Subcomponent)

func WithOwner(id, initials string) SubcomponentOption {
	return func(sc *domain.Subcomponent) {
		sc.OwnerID = id
		sc.OwnerInitials = initials
	}
}

func WithManualTotal(points int, status domain.WorkStatus) SubcomponentOption {
	return func(sc *domain.Subcomponent) {
		sc.TotalPoints = points
		sc.Status = status
	}
}

func WithPlannedWindow(start, end string) SubcomponentOption {
	return func(sc *domain.Subcomponent) {
		sc.PlannedStart = start
		sc.PlannedEnd = end
	}
}

func NewTestSubcomponent(workstreamID, name string, opts ...SubcomponentOption) *domain.Subcomponent {
	ts := now()
	sc := &domain.Subcomponent{
		ID:           uuid.New().String(),
		WorkstreamID: workstreamID,
		Name:         name,
		Status:       domain.StatusNotStarted,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	for _, opt := range opts {
		opt(sc)
	}
	return sc
}

// Subtask options
type SubtaskOption func(*domain.Subtask)

func WithPoints(p int) SubtaskOption {
	return func(st *domain.Subtask) {
		st.Points = p
	}
}

func WithCompletion(pct int) SubtaskOption {
	return func(st *domain.Subtask) {
		st.CompletionPercent = domain.ClampPercent(pct)
		st.Status = domain.StatusFromCompletion(st.CompletionPercent)
	}
}

func WithEstimation(days float64, unknowns domain.UnknownsLevel, integration domain.IntegrationLevel) SubtaskOption {
	return func(st *domain.Subtask) {
		st.Estimation = &domain.Estimation{Days: days, Unknowns: unknowns, Integration: integration}
	}
}

func AsAddedScope() SubtaskOption {
	return func(st *domain.Subtask) {
		st.IsAddedScope = true
	}
}

func WithOrganization(org string) SubtaskOption {
	return func(st *domain.Subtask) {
		st.AssignedOrganization = org
	}
}

func NewTestSubtask(subcomponentID, title string, opts ...SubtaskOption) *domain.Subtask {
	ts := now()
	st := &domain.Subtask{
		ID:             uuid.New().String(),
		SubcomponentID: subcomponentID,
		Title:          title,
		Status:         domain.StatusNotStarted,
		CreatedAt:      ts,
		UpdatedAt:      ts,
	}
	for _, opt := range opts {
		opt(st)
	}
	return st
}

// NewTestSnapshot builds a program-level snapshot without breakdown.
func NewTestSnapshot(programID, date string, total, completed int) *domain.BurnSnapshot {
	ts := now()
	pct := 0
	if total > 0 {
		pct = completed * 100 / total
	}
	return &domain.BurnSnapshot{
		ID:              uuid.New().String(),
		ProgramID:       programID,
		Date:            date,
		TotalPoints:     total,
		CompletedPoints: completed,
		PercentComplete: pct,
		CreatedAt:       ts,
		UpdatedAt:       ts,
	}
}
