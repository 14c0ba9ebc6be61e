package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptrStr(s string) *string { return &s }
func ptrInt(i int) *int       { return &i }
func ptrBool(b bool) *bool    { return &b }

func validMinimalSchema() *ImportSchema {
	return &ImportSchema{
		Program: ProgramImport{
			ShortID: "NRN01",
			Name:    "Project Neuron",
			FYStart: 26,
			FYEnd:   28,
		},
		Workstreams: []WorkstreamImport{
			{
				Name: "Platform",
				Subcomponents: []SubcomponentImport{
					{Name: "Ingestion", Subtasks: []SubtaskImport{{Title: "Parser", Points: ptrInt(3)}}},
				},
			},
		},
	}
}

func errorsContain(errs []error, substr string) bool {
	for _, err := range errs {
		if strings.Contains(err.Error(), substr) {
			return true
		}
	}
	return false
}

func TestValidateImportSchema_ValidMinimal(t *testing.T) {
	assert.Empty(t, ValidateImportSchema(validMinimalSchema()))
}

func TestValidateImportSchema_ValidFull(t *testing.T) {
	schema := &ImportSchema{
		Program: ProgramImport{
			ShortID:    "nrn01",
			Name:       "Project Neuron",
			FYStart:    26,
			FYEnd:      28,
			StartDate:  ptrStr("2025-10-01"),
			TargetDate: ptrStr("2028-11-30"),
		},
		Defaults: &DefaultsImport{Unknowns: "low", Integration: "1-2 systems"},
		Workstreams: []WorkstreamImport{
			{
				Name:             "Platform",
				TargetCompletion: "March 2027",
				Subcomponents: []SubcomponentImport{
					{
						Name: "Ingestion", Owner: "Jane Doe", Status: "in_progress",
						PlannedStart: "2026-01", PlannedEnd: "2026-06",
						Subtasks: []SubtaskImport{
							{Title: "Parser", Points: ptrInt(5), Completion: ptrInt(40)},
							{Title: "Spike", Estimate: &EstimateImport{Days: 4, Unknowns: "Very High / Exploratory"}},
							{Title: "Late ask", Points: ptrInt(2), AddedScope: ptrBool(true), Organization: "Data"},
						},
					},
					{Name: "Manual only", Status: "DONE", TotalPoints: ptrInt(8)},
				},
			},
			{Name: "Rollout"},
		},
	}
	assert.Empty(t, ValidateImportSchema(schema))
}

func TestValidateImportSchema_CollectsAllErrors(t *testing.T) {
	schema := &ImportSchema{
		Program: ProgramImport{ShortID: "N1", FYStart: 28, FYEnd: 26, StartDate: ptrStr("2026/01/01")},
		Workstreams: []WorkstreamImport{
			{Subcomponents: []SubcomponentImport{{
				Status:      "blocked",
				PlannedEnd:  "June 2026",
				TotalPoints: ptrInt(-1),
				Subtasks: []SubtaskImport{{
					Points:     ptrInt(-3),
					Completion: ptrInt(140),
				}},
			}}},
		},
	}
	errs := ValidateImportSchema(schema)

	for _, want := range []string{
		"program.short_id",
		"program.name is required",
		"fiscal end year",
		"program.start_date: invalid date format",
		"workstreams[0].name is required",
		"subcomponents[0].name is required",
		"status: invalid value \"blocked\"",
		"planned_end: invalid month",
		"total_points must be >= 0",
		"total_points cannot be set when subtasks are listed",
		"subtasks[0].title is required",
		"points must be >= 0",
		"completion must be between 0 and 100",
	} {
		assert.True(t, errorsContain(errs, want), "missing error %q in %v", want, errs)
	}
}

func TestValidateImportSchema_NoWorkstreams(t *testing.T) {
	schema := validMinimalSchema()
	schema.Workstreams = nil
	assert.True(t, errorsContain(ValidateImportSchema(schema), "at least one workstream"))
}

func TestValidateImportSchema_DuplicateWorkstream(t *testing.T) {
	schema := validMinimalSchema()
	schema.Workstreams = append(schema.Workstreams, WorkstreamImport{Name: " platform "})
	assert.True(t, errorsContain(ValidateImportSchema(schema), "duplicate workstream"))
}

func TestValidateImportSchema_TargetBeforeStart(t *testing.T) {
	schema := validMinimalSchema()
	schema.Program.StartDate = ptrStr("2026-05-01")
	schema.Program.TargetDate = ptrStr("2026-04-01")
	assert.True(t, errorsContain(ValidateImportSchema(schema), "must be after start_date"))
}

func TestValidateImportSchema_EstimateRules(t *testing.T) {
	schema := validMinimalSchema()
	schema.Defaults = &DefaultsImport{Unknowns: "catastrophic"}
	schema.Workstreams[0].Subcomponents[0].Subtasks = []SubtaskImport{
		{Title: "both", Points: ptrInt(3), Estimate: &EstimateImport{Days: 2}},
		{Title: "zero days", Estimate: &EstimateImport{Days: 0}},
		{Title: "bad integration", Estimate: &EstimateImport{Days: 2, Integration: "galactic"}},
	}
	errs := ValidateImportSchema(schema)

	assert.True(t, errorsContain(errs, "defaults.unknowns: invalid value"))
	assert.True(t, errorsContain(errs, "subtasks[0]: points and estimate are mutually exclusive"))
	assert.True(t, errorsContain(errs, "subtasks[1].estimate.days must be > 0"))
	assert.True(t, errorsContain(errs, "subtasks[2].estimate.integration: invalid value"))
}

func TestValidateImportSchema_PlannedWindowOrder(t *testing.T) {
	schema := validMinimalSchema()
	sc := &schema.Workstreams[0].Subcomponents[0]
	sc.PlannedStart = "2026-06"
	sc.PlannedEnd = "2026-02"
	assert.True(t, errorsContain(ValidateImportSchema(schema), "is before planned_start"))
}
