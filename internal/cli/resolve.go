package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/alexanderramin/programhub/internal/domain"
)

// loadProgramTree resolves a short ID or full ID and loads the program with
// its hierarchy.
func loadProgramTree(ctx context.Context, app *App, ref string) (*domain.Program, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, fmt.Errorf("program ID is required")
	}
	p, err := app.Programs.Resolve(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", ref, err)
	}
	return app.Programs.LoadTree(ctx, p.ID)
}

// findWorkstream matches ref against a loaded program's workstreams: exact
// ID, then case-insensitive name, then unique ID prefix.
func findWorkstream(p *domain.Program, ref string) (*domain.Workstream, error) {
	var byPrefix []*domain.Workstream
	for _, ws := range p.Workstreams {
		if ws.ID == ref {
			return ws, nil
		}
	}
	for _, ws := range p.Workstreams {
		if strings.EqualFold(ws.Name, ref) {
			return ws, nil
		}
		if strings.HasPrefix(ws.ID, ref) {
			byPrefix = append(byPrefix, ws)
		}
	}
	switch len(byPrefix) {
	case 0:
		return nil, fmt.Errorf("workstream not found in %s: %q", p.DisplayID(), ref)
	case 1:
		return byPrefix[0], nil
	default:
		return nil, fmt.Errorf("workstream %q is ambiguous (%d matches)", ref, len(byPrefix))
	}
}

// findSubcomponent matches ref the same way across every workstream. A name
// may be qualified as "Workstream/Subcomponent".
func findSubcomponent(p *domain.Program, ref string) (*domain.Subcomponent, error) {
	wsRef, scRef, qualified := strings.Cut(ref, "/")
	if !qualified {
		scRef = ref
	}

	var candidates []*domain.Subcomponent
	for _, ws := range p.Workstreams {
		if qualified && ws.ID != wsRef && !strings.EqualFold(ws.Name, wsRef) {
			continue
		}
		for _, sc := range ws.Subcomponents {
			if sc.ID == scRef {
				return sc, nil
			}
			candidates = append(candidates, sc)
		}
	}

	var matches []*domain.Subcomponent
	for _, sc := range candidates {
		if strings.EqualFold(sc.Name, scRef) {
			matches = append(matches, sc)
		}
	}
	if len(matches) == 0 {
		for _, sc := range candidates {
			if strings.HasPrefix(sc.ID, scRef) {
				matches = append(matches, sc)
			}
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("subcomponent not found in %s: %q", p.DisplayID(), ref)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("subcomponent %q is ambiguous (%d matches); qualify it as Workstream/Subcomponent", ref, len(matches))
	}
}

// findSubtask matches ref against every subtask in the program: exact ID,
// then case-insensitive title, then unique ID prefix.
func findSubtask(p *domain.Program, ref string) (*domain.Subtask, error) {
	var all []*domain.Subtask
	for _, ws := range p.Workstreams {
		for _, sc := range ws.Subcomponents {
			for _, st := range sc.Subtasks {
				if st.ID == ref {
					return st, nil
				}
				all = append(all, st)
			}
		}
	}

	var matches []*domain.Subtask
	for _, st := range all {
		if strings.EqualFold(st.Title, ref) {
			matches = append(matches, st)
		}
	}
	if len(matches) == 0 {
		for _, st := range all {
			if strings.HasPrefix(st.ID, ref) {
				matches = append(matches, st)
			}
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("subtask not found in %s: %q", p.DisplayID(), ref)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("subtask %q is ambiguous (%d matches); use its ID", ref, len(matches))
	}
}

func parseOptionalDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s date %q (want YYYY-MM-DD)", field, value)
	}
	return &t, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
