package importer

import (
	"testing"
	"time"

	"github.com/alexanderramin/programhub/internal/domain"
	"github.com/alexanderramin/programhub/internal/rollup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var convertNow = time.Date(2026, 3, 10, 9, 30, 15, 500, time.UTC)

func TestConvert_MinimalProgram(t *testing.T) {
	gen, err := Convert(validMinimalSchema(), convertNow)
	require.NoError(t, err)

	p := gen.Program
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "NRN01", p.ShortID)
	assert.Equal(t, "Project Neuron", p.Name)
	assert.Equal(t, 26, p.FYStartYear)
	assert.Equal(t, 28, p.FYEndYear)
	assert.Nil(t, p.StartDate)
	assert.Nil(t, p.TargetDate)
	assert.Equal(t, convertNow.Truncate(time.Second), p.CreatedAt)

	require.Len(t, gen.Workstreams, 1)
	require.Len(t, gen.Subcomponents, 1)
	require.Len(t, gen.Subtasks, 1)
	assert.Same(t, gen.Workstreams[0], p.Workstreams[0])
	assert.Equal(t, p.ID, gen.Workstreams[0].ProgramID)
	assert.Equal(t, gen.Workstreams[0].ID, gen.Subcomponents[0].WorkstreamID)
	assert.Equal(t, gen.Subcomponents[0].ID, gen.Subtasks[0].SubcomponentID)

	sc := gen.Subcomponents[0]
	assert.Equal(t, domain.StatusNotStarted, sc.Status)
	st := gen.Subtasks[0]
	assert.Equal(t, 3, st.Points)
	assert.Nil(t, st.Estimation)
	assert.Equal(t, domain.StatusNotStarted, st.Status)
}

func TestConvert_EstimatesDrivePoints(t *testing.T) {
	schema := validMinimalSchema()
	schema.Defaults = &DefaultsImport{Integration: "cross-team"}
	schema.Workstreams[0].Subcomponents[0].Subtasks = []SubtaskImport{
		{Title: "Spike", Estimate: &EstimateImport{Days: 4, Unknowns: "exploratory"}},
		{Title: "Defaulted", Estimate: &EstimateImport{Days: 2, Unknowns: "low"}},
		{Title: "Huge", Estimate: &EstimateImport{Days: 45}},
	}

	gen, err := Convert(schema, convertNow)
	require.NoError(t, err)
	require.Len(t, gen.Subtasks, 3)

	spike := gen.Subtasks[0]
	require.NotNil(t, spike.Estimation)
	assert.Equal(t, domain.UnknownsVeryHigh, spike.Estimation.Unknowns)
	assert.Equal(t, domain.IntegrationCrossTeam, spike.Estimation.Integration)
	// base 5 + 5 + 1 = 11, bias up -> 13
	assert.Equal(t, 13, spike.Points)

	defaulted := gen.Subtasks[1]
	// base 3 + 1 + 1 = 5
	assert.Equal(t, 5, defaulted.Points)

	huge := gen.Subtasks[2]
	assert.Equal(t, 21, huge.Points)

	for _, st := range gen.Subtasks {
		assert.Equal(t, st.Points, rollup.EffectivePoints(st), st.Title)
	}
}

func TestConvert_CompletionStatusAndScope(t *testing.T) {
	schema := validMinimalSchema()
	sc := &schema.Workstreams[0].Subcomponents[0]
	sc.Owner = "Jane Doe"
	sc.Status = "in_progress"
	sc.Subtasks = []SubtaskImport{
		{Title: "Half", Points: ptrInt(4), Completion: ptrInt(50)},
		{Title: "Done", Points: ptrInt(2), Completion: ptrInt(100), AddedScope: ptrBool(true), Organization: " Data "},
	}

	gen, err := Convert(schema, convertNow)
	require.NoError(t, err)

	got := gen.Subcomponents[0]
	assert.Equal(t, domain.StatusInProgress, got.Status)
	assert.Equal(t, "Jane Doe", got.OwnerID)
	assert.Equal(t, "JD", got.OwnerInitials)

	assert.Equal(t, domain.StatusInProgress, gen.Subtasks[0].Status)
	assert.Equal(t, 50, gen.Subtasks[0].CompletionPercent)
	assert.Equal(t, domain.StatusDone, gen.Subtasks[1].Status)
	assert.True(t, gen.Subtasks[1].IsAddedScope)
	assert.Equal(t, "Data", gen.Subtasks[1].AssignedOrganization)

	scope := rollup.InitiativeScope(gen.Program.Workstreams)
	assert.Equal(t, 4, scope.Base)
	assert.Equal(t, 6, scope.Current)
}

func TestConvert_DatesAndOrdering(t *testing.T) {
	schema := validMinimalSchema()
	schema.Program.StartDate = ptrStr("2025-10-01")
	schema.Program.TargetDate = ptrStr("2028-06-30")
	schema.Workstreams = append(schema.Workstreams, WorkstreamImport{Name: "Rollout", TargetCompletion: " March 2029 "})

	gen, err := Convert(schema, convertNow)
	require.NoError(t, err)

	require.NotNil(t, gen.Program.StartDate)
	assert.Equal(t, time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC), *gen.Program.StartDate)
	require.NotNil(t, gen.Program.TargetDate)
	assert.Equal(t, 2028, gen.Program.TargetDate.Year())

	require.Len(t, gen.Workstreams, 2)
	assert.Equal(t, 0, gen.Workstreams[0].OrderIndex)
	assert.Equal(t, 1, gen.Workstreams[1].OrderIndex)
	assert.Equal(t, "March 2029", gen.Workstreams[1].TargetCompletionDate)
}

func TestInitials(t *testing.T) {
	assert.Equal(t, "JD", initials("jane doe"))
	assert.Equal(t, "JD", initials("Jane Dee Doe"))
	assert.Equal(t, "AL", initials("alex"))
	assert.Equal(t, "", initials("  "))
}
