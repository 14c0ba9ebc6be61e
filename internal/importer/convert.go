package importer

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/alexanderramin/programhub/internal/domain"
	"github.com/alexanderramin/programhub/internal/estimate"
	"github.com/google/uuid"
)

// GeneratedProgram is a converted plan. Program carries the nested tree; the
// flat slices list the same records in insertion order.
type GeneratedProgram struct {
	Program       *domain.Program
	Workstreams   []*domain.Workstream
	Subcomponents []*domain.Subcomponent
	Subtasks      []*domain.Subtask
}

// Convert transforms a validated ImportSchema into domain objects ready for persistence.
// Call ValidateImportSchema first; Convert assumes the schema is valid.
func Convert(schema *ImportSchema, now time.Time) (*GeneratedProgram, error) {
	now = now.UTC().Truncate(time.Second)

	startDate, err := parseOptionalDate("program.start_date", schema.Program.StartDate)
	if err != nil {
		return nil, err
	}
	targetDate, err := parseOptionalDate("program.target_date", schema.Program.TargetDate)
	if err != nil {
		return nil, err
	}

	program := &domain.Program{
		ID:          uuid.New().String(),
		ShortID:     strings.ToUpper(schema.Program.ShortID),
		Name:        strings.TrimSpace(schema.Program.Name),
		FYStartYear: schema.Program.FYStart,
		FYEndYear:   schema.Program.FYEnd,
		StartDate:   startDate,
		TargetDate:  targetDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	gen := &GeneratedProgram{Program: program}

	var defUnknowns, defIntegration string
	if schema.Defaults != nil {
		defUnknowns = schema.Defaults.Unknowns
		defIntegration = schema.Defaults.Integration
	}

	for wi, wsIn := range schema.Workstreams {
		ws := &domain.Workstream{
			ID:                   uuid.New().String(),
			ProgramID:            program.ID,
			Name:                 strings.TrimSpace(wsIn.Name),
			TargetCompletionDate: strings.TrimSpace(wsIn.TargetCompletion),
			OrderIndex:           wi,
			CreatedAt:            now,
			UpdatedAt:            now,
		}
		program.Workstreams = append(program.Workstreams, ws)
		gen.Workstreams = append(gen.Workstreams, ws)

		for si, scIn := range wsIn.Subcomponents {
			status := domain.StatusNotStarted
			if scIn.Status != "" {
				status = domain.WorkStatus(strings.ToUpper(scIn.Status))
			}
			sc := &domain.Subcomponent{
				ID:            uuid.New().String(),
				WorkstreamID:  ws.ID,
				Name:          strings.TrimSpace(scIn.Name),
				Status:        status,
				TotalPoints:   domain.ValueOr(scIn.TotalPoints, 0),
				OwnerID:       strings.TrimSpace(scIn.Owner),
				OwnerInitials: domain.CoalesceStr(scIn.OwnerInitials, initials(scIn.Owner)),
				PlannedStart:  scIn.PlannedStart,
				PlannedEnd:    scIn.PlannedEnd,
				OrderIndex:    si,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			ws.Subcomponents = append(ws.Subcomponents, sc)
			gen.Subcomponents = append(gen.Subcomponents, sc)

			for ti, stIn := range scIn.Subtasks {
				st := &domain.Subtask{
					ID:                   uuid.New().String(),
					SubcomponentID:       sc.ID,
					Title:                strings.TrimSpace(stIn.Title),
					Points:               domain.ValueOr(stIn.Points, 0),
					IsAddedScope:         domain.ValueOr(stIn.AddedScope, false),
					AssignedOrganization: strings.TrimSpace(stIn.Organization),
					OrderIndex:           ti,
					CreatedAt:            now,
				}
				if stIn.Estimate != nil {
					est := domain.Estimation{
						Days:        stIn.Estimate.Days,
						Unknowns:    domain.UnknownsLevel(domain.CoalesceStr(stIn.Estimate.Unknowns, defUnknowns)),
						Integration: domain.IntegrationLevel(domain.CoalesceStr(stIn.Estimate.Integration, defIntegration)),
					}.Normalized()
					if !est.Active() {
						return nil, fmt.Errorf("subtask %q: estimate.days must be > 0", st.Title)
					}
					st.Estimation = &est
					st.Points = estimate.FinalAsNumber(estimate.ForEstimation(est).Final)
				}
				st.SetCompletion(domain.ValueOr(stIn.Completion, 0), now)
				sc.Subtasks = append(sc.Subtasks, st)
				gen.Subtasks = append(gen.Subtasks, st)
			}
		}
	}

	return gen, nil
}

// initials derives "JD" from "Jane Doe". Single words yield their first two
// letters.
func initials(name string) string {
	words := strings.Fields(name)
	switch len(words) {
	case 0:
		return ""
	case 1:
		r := []rune(words[0])
		if len(r) > 2 {
			r = r[:2]
		}
		return strings.ToUpper(string(r))
	}
	var b strings.Builder
	for _, w := range words[:2] {
		b.WriteRune(unicode.ToUpper([]rune(w)[0]))
	}
	return b.String()
}
