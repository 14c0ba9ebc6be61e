package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/programhub/internal/domain"
)

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

// ValidateImportSchema checks the plan for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	errs = append(errs, validateProgram(&schema.Program)...)
	errs = append(errs, validateDefaults(schema.Defaults)...)

	if len(schema.Workstreams) == 0 {
		errs = append(errs, fmt.Errorf("workstreams: at least one workstream is required"))
	}
	wsNames := make(map[string]bool)
	for i := range schema.Workstreams {
		ws := &schema.Workstreams[i]
		path := fmt.Sprintf("workstreams[%d]", i)
		errs = append(errs, validateWorkstream(path, ws)...)
		key := strings.ToLower(strings.TrimSpace(ws.Name))
		if key != "" {
			if wsNames[key] {
				errs = append(errs, fmt.Errorf("%s.name: duplicate workstream %q", path, ws.Name))
			}
			wsNames[key] = true
		}
	}

	return errs
}

func validateProgram(p *ProgramImport) []error {
	var errs []error

	if p.ShortID == "" {
		errs = append(errs, fmt.Errorf("program.short_id is required"))
	} else {
		candidate := domain.Program{ShortID: strings.ToUpper(p.ShortID)}
		if err := candidate.ValidateShortID(); err != nil {
			errs = append(errs, fmt.Errorf("program.short_id: %w", err))
		}
	}
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, fmt.Errorf("program.name is required"))
	}
	fy := domain.Program{FYStartYear: p.FYStart, FYEndYear: p.FYEnd}
	if err := fy.ValidateFiscalYears(); err != nil {
		errs = append(errs, fmt.Errorf("program: %w", err))
	}

	start, startErr := parseOptionalDate("program.start_date", p.StartDate)
	if startErr != nil {
		errs = append(errs, startErr)
	}
	target, targetErr := parseOptionalDate("program.target_date", p.TargetDate)
	if targetErr != nil {
		errs = append(errs, targetErr)
	}
	if start != nil && target != nil && !target.After(*start) {
		errs = append(errs, fmt.Errorf("program.target_date %q must be after start_date %q", *p.TargetDate, *p.StartDate))
	}

	return errs
}

func validateDefaults(d *DefaultsImport) []error {
	if d == nil {
		return nil
	}
	return validateLevels("defaults", d.Unknowns, d.Integration)
}

func validateLevels(path, unknowns, integration string) []error {
	var errs []error
	if unknowns != "" {
		if _, ok := domain.LookupUnknownsLevel(unknowns); !ok {
			errs = append(errs, fmt.Errorf("%s.unknowns: invalid value %q", path, unknowns))
		}
	}
	if integration != "" {
		if _, ok := domain.LookupIntegrationLevel(integration); !ok {
			errs = append(errs, fmt.Errorf("%s.integration: invalid value %q", path, integration))
		}
	}
	return errs
}

func validateWorkstream(path string, ws *WorkstreamImport) []error {
	var errs []error

	if strings.TrimSpace(ws.Name) == "" {
		errs = append(errs, fmt.Errorf("%s.name is required", path))
	}
	for i := range ws.Subcomponents {
		errs = append(errs, validateSubcomponent(fmt.Sprintf("%s.subcomponents[%d]", path, i), &ws.Subcomponents[i])...)
	}

	return errs
}

func validateSubcomponent(path string, sc *SubcomponentImport) []error {
	var errs []error

	if strings.TrimSpace(sc.Name) == "" {
		errs = append(errs, fmt.Errorf("%s.name is required", path))
	}
	if sc.Status != "" && !domain.ValidWorkStatuses[strings.ToUpper(sc.Status)] {
		errs = append(errs, fmt.Errorf("%s.status: invalid value %q", path, sc.Status))
	}
	if sc.TotalPoints != nil && *sc.TotalPoints < 0 {
		errs = append(errs, fmt.Errorf("%s.total_points must be >= 0", path))
	}
	if sc.TotalPoints != nil && len(sc.Subtasks) > 0 {
		errs = append(errs, fmt.Errorf("%s.total_points cannot be set when subtasks are listed", path))
	}

	startOK := validMonth(sc.PlannedStart)
	endOK := validMonth(sc.PlannedEnd)
	if !startOK {
		errs = append(errs, fmt.Errorf("%s.planned_start: invalid month %q (expected YYYY-MM)", path, sc.PlannedStart))
	}
	if !endOK {
		errs = append(errs, fmt.Errorf("%s.planned_end: invalid month %q (expected YYYY-MM)", path, sc.PlannedEnd))
	}
	if startOK && endOK && sc.PlannedStart != "" && sc.PlannedEnd != "" && sc.PlannedEnd < sc.PlannedStart {
		errs = append(errs, fmt.Errorf("%s.planned_end %q is before planned_start %q", path, sc.PlannedEnd, sc.PlannedStart))
	}

	for i := range sc.Subtasks {
		errs = append(errs, validateSubtask(fmt.Sprintf("%s.subtasks[%d]", path, i), &sc.Subtasks[i])...)
	}

	return errs
}

func validateSubtask(path string, st *SubtaskImport) []error {
	var errs []error

	if strings.TrimSpace(st.Title) == "" {
		errs = append(errs, fmt.Errorf("%s.title is required", path))
	}
	if st.Points != nil && *st.Points < 0 {
		errs = append(errs, fmt.Errorf("%s.points must be >= 0", path))
	}
	if st.Completion != nil && (*st.Completion < 0 || *st.Completion > 100) {
		errs = append(errs, fmt.Errorf("%s.completion must be between 0 and 100 (got %d)", path, *st.Completion))
	}
	if st.Estimate != nil {
		if st.Points != nil {
			errs = append(errs, fmt.Errorf("%s: points and estimate are mutually exclusive", path))
		}
		if st.Estimate.Days <= 0 {
			errs = append(errs, fmt.Errorf("%s.estimate.days must be > 0", path))
		}
		errs = append(errs, validateLevels(path+".estimate", st.Estimate.Unknowns, st.Estimate.Integration)...)
	}

	return errs
}

func validMonth(s string) bool {
	if s == "" {
		return true
	}
	_, err := time.Parse(monthLayout, s)
	return err == nil
}

func parseOptionalDate(field string, s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", field, *s)
	}
	return &t, nil
}
