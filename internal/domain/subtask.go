package domain

import (
	"fmt"
	"time"
)

// Estimation holds the inputs the story point estimator works from. A subtask
// with a nil or inactive Estimation carries manually entered points.
type Estimation struct {
	Days        float64
	Unknowns    UnknownsLevel
	Integration IntegrationLevel
}

// Active reports whether the estimation should drive the subtask's points.
func (e *Estimation) Active() bool {
	return e != nil && e.Days > 0
}

// Normalized returns a copy with empty levels replaced by defaults.
func (e Estimation) Normalized() Estimation {
	if e.Days < 0 {
		e.Days = 0
	}
	e.Unknowns = ParseUnknownsLevel(string(e.Unknowns))
	e.Integration = ParseIntegrationLevel(string(e.Integration))
	return e
}

type Subtask struct {
	ID                   string
	SubcomponentID       string
	Title                string
	Points               int
	CompletionPercent    int
	Status               WorkStatus
	Estimation           *Estimation
	IsAddedScope         bool
	AssignedOrganization string
	OrderIndex           int
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// ClampPercent limits a completion percentage to 0..100.
func ClampPercent(pct int) int {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// SetCompletion records a new completion percentage and re-derives status.
// It returns the previous percentage.
func (s *Subtask) SetCompletion(pct int, now time.Time) int {
	prev := s.CompletionPercent
	s.CompletionPercent = ClampPercent(pct)
	s.Status = StatusFromCompletion(s.CompletionPercent)
	s.UpdatedAt = now
	return prev
}

// SetManualPoints switches the subtask to manually entered points.
func (s *Subtask) SetManualPoints(points int, now time.Time) error {
	if points < 0 {
		return fmt.Errorf("points must be >= 0 (got %d)", points)
	}
	s.Points = points
	s.Estimation = nil
	s.UpdatedAt = now
	return nil
}

// IsDone reports whether the subtask counts as completed.
func (s *Subtask) IsDone() bool {
	return s.Status == StatusDone
}
