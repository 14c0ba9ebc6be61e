package domain

import "time"

type Workstream struct {
	ID        string
	ProgramID string
	Name      string
	// Free text such as "March 2027". Unparseable values are ignored when
	// bounding timelines.
	TargetCompletionDate string
	OrderIndex           int
	CreatedAt            time.Time
	UpdatedAt            time.Time

	Subcomponents []*Subcomponent
}

// Subcomponent groups subtasks under a workstream.
type Subcomponent struct {
	ID           string
	WorkstreamID string
	Name         string
	Status       WorkStatus
	// Manual fallback, used only while the subcomponent has no subtasks.
	TotalPoints   int
	OwnerID       string
	OwnerInitials string
	PlannedStart  string // YYYY-MM or empty
	PlannedEnd    string // YYYY-MM or empty
	OrderIndex    int
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Subtasks []*Subtask
}

// HasSubtasks reports whether point totals derive from subtasks.
func (s *Subcomponent) HasSubtasks() bool {
	return len(s.Subtasks) > 0
}
