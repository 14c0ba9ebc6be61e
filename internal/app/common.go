// Package app holds the request and response shapes shared by services and
// the CLI.
package app

import "github.com/alexanderramin/programhub/internal/domain"

// CompletionUpdate records a new completion percentage for a subtask.
type CompletionUpdate struct {
	SubtaskID string
	Percent   int
	Reason    string
	ActorID   *string
}

// CompletionResult reports the outcome of a completion update. Note is nil
// when the percentage did not change.
type CompletionResult struct {
	Subtask *domain.Subtask
	Note    *domain.CompletionNote
}

// ImportResult holds the outcome of a program plan import.
type ImportResult struct {
	Program           *domain.Program
	WorkstreamCount   int
	SubcomponentCount int
	SubtaskCount      int
}

// ScopeKind names the slice of a program a view is computed for.
type ScopeKind string

const (
	ScopeProgram      ScopeKind = "program"
	ScopeWorkstream   ScopeKind = "workstream"
	ScopeSubcomponent ScopeKind = "subcomponent"
	ScopeOwner        ScopeKind = "owner"
)
