package domain

import "time"

// PointsPair is a total/completed pair recorded inside a snapshot.
type PointsPair struct {
	TotalPoints     int `json:"totalPoints"`
	CompletedPoints int `json:"completedPoints"`
}

// WorkstreamSnapshot is the per-workstream breakdown of a BurnSnapshot.
// Subcomponents is nil when the breakdown was not recorded.
type WorkstreamSnapshot struct {
	TotalPoints     int                   `json:"totalPoints"`
	CompletedPoints int                   `json:"completedPoints"`
	Subcomponents   map[string]PointsPair `json:"subcomponents,omitempty"`
}

// BurnSnapshot is the monthly record of a program's totals, keyed by
// (ProgramID, Date). Workstreams is nil when no breakdown was stored.
type BurnSnapshot struct {
	ID              string
	ProgramID       string
	Date            string // YYYY-MM
	TotalPoints     int
	CompletedPoints int
	PercentComplete int
	Workstreams     map[string]WorkstreamSnapshot
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Remaining returns total minus completed points.
func (s *BurnSnapshot) Remaining() int {
	return s.TotalPoints - s.CompletedPoints
}

// Workstream returns the recorded breakdown for a workstream, if any.
func (s *BurnSnapshot) Workstream(id string) (WorkstreamSnapshot, bool) {
	if s.Workstreams == nil {
		return WorkstreamSnapshot{}, false
	}
	ws, ok := s.Workstreams[id]
	return ws, ok
}

// Subcomponent returns the recorded pair for a subcomponent, if any.
func (s *BurnSnapshot) Subcomponent(workstreamID, subcomponentID string) (PointsPair, bool) {
	ws, ok := s.Workstream(workstreamID)
	if !ok || ws.Subcomponents == nil {
		return PointsPair{}, false
	}
	pair, ok := ws.Subcomponents[subcomponentID]
	return pair, ok
}

// CompletionNote is an append-only record of a completion change.
type CompletionNote struct {
	ID              string
	SubtaskID       string
	PreviousPercent int
	NewPercent      int
	Reason          string
	ActorID         *string
	CreatedAt       time.Time
}
