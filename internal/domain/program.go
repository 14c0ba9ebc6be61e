package domain

import (
	"fmt"
	"regexp"
	"time"
)

var shortIDPattern = regexp.MustCompile(`^[A-Z]{3,6}[0-9]{2,4}$`)

// Program is the top level of the hierarchy. FYStartYear and FYEndYear are
// two-digit fiscal years (26 means 2026).
type Program struct {
	ID          string
	ShortID     string
	Name        string
	FYStartYear int
	FYEndYear   int
	StartDate   *time.Time
	TargetDate  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Populated when a full tree is loaded.
	Workstreams []*Workstream
}

// ValidateShortID checks that ShortID is non-empty and matches the required
// format: 3-6 uppercase letters followed by 2-4 digits (e.g. NRN01).
func (p *Program) ValidateShortID() error {
	if p.ShortID == "" {
		return fmt.Errorf("short ID is required (use --id flag)")
	}
	if !shortIDPattern.MatchString(p.ShortID) {
		return fmt.Errorf("short ID %q must be 3-6 uppercase letters followed by 2-4 digits (e.g. NRN01)", p.ShortID)
	}
	return nil
}

// ValidateFiscalYears rejects ranges that end before they start.
func (p *Program) ValidateFiscalYears() error {
	if p.FYStartYear < 0 || p.FYEndYear < 0 || p.FYStartYear > 99 || p.FYEndYear > 99 {
		return fmt.Errorf("fiscal years must be two-digit values (got FY%d-FY%d)", p.FYStartYear, p.FYEndYear)
	}
	if p.FYEndYear < p.FYStartYear {
		return fmt.Errorf("fiscal end year FY%d is before start year FY%d", p.FYEndYear, p.FYStartYear)
	}
	return nil
}

// DisplayID returns the best short identifier for display.
// It prefers ShortID; if empty it truncates ID to 8 characters.
func (p *Program) DisplayID() string {
	if p.ShortID != "" {
		return p.ShortID
	}
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}

// FYLabel renders the fiscal range as "FY26–FY28".
func (p *Program) FYLabel() string {
	return fmt.Sprintf("FY%02d–FY%02d", p.FYStartYear, p.FYEndYear)
}

// FindWorkstream returns the loaded workstream with the given ID.
func (p *Program) FindWorkstream(id string) *Workstream {
	for _, ws := range p.Workstreams {
		if ws.ID == id {
			return ws
		}
	}
	return nil
}

// FindSubcomponent searches every loaded workstream for a subcomponent.
func (p *Program) FindSubcomponent(id string) (*Workstream, *Subcomponent) {
	for _, ws := range p.Workstreams {
		for _, sc := range ws.Subcomponents {
			if sc.ID == id {
				return ws, sc
			}
		}
	}
	return nil, nil
}
