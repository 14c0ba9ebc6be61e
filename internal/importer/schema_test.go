package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePlanYAML = `
program:
  short_id: NRN01
  name: Project Neuron
  fy_start: 26
  fy_end: 28
  start_date: "2026-01-05"
defaults:
  unknowns: Low
workstreams:
  - name: Platform
    target_completion: March 2027
    subcomponents:
      - name: Ingestion
        owner: Jane Doe
        planned_start: "2026-01"
        subtasks:
          - title: Parser
            points: 5
            completion: 40
          - title: Spike
            estimate:
              days: 4
              unknowns: Very High / Exploratory
          - title: Late ask
            points: 2
            added_scope: true
`

const samplePlanJSON = `{
  "program": {"short_id": "NRN02", "name": "JSON plan", "fy_start": 26, "fy_end": 27},
  "workstreams": [{"name": "Only", "subcomponents": [{"name": "Manual", "status": "DONE", "total_points": 8}]}]
}`

func writePlan(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadImportSchema_YAML(t *testing.T) {
	schema, err := LoadImportSchema(writePlan(t, "plan.yaml", samplePlanYAML))
	require.NoError(t, err)

	assert.Equal(t, "NRN01", schema.Program.ShortID)
	require.NotNil(t, schema.Program.StartDate)
	assert.Equal(t, "2026-01-05", *schema.Program.StartDate)
	require.NotNil(t, schema.Defaults)
	assert.Equal(t, "Low", schema.Defaults.Unknowns)

	require.Len(t, schema.Workstreams, 1)
	sc := schema.Workstreams[0].Subcomponents[0]
	assert.Equal(t, "Jane Doe", sc.Owner)
	require.Len(t, sc.Subtasks, 3)
	require.NotNil(t, sc.Subtasks[0].Points)
	assert.Equal(t, 5, *sc.Subtasks[0].Points)
	require.NotNil(t, sc.Subtasks[1].Estimate)
	assert.Equal(t, 4.0, sc.Subtasks[1].Estimate.Days)
	require.NotNil(t, sc.Subtasks[2].AddedScope)
	assert.True(t, *sc.Subtasks[2].AddedScope)

	assert.Empty(t, ValidateImportSchema(schema))
}

func TestLoadImportSchema_JSONByDefault(t *testing.T) {
	schema, err := LoadImportSchema(writePlan(t, "plan.json", samplePlanJSON))
	require.NoError(t, err)
	assert.Equal(t, "NRN02", schema.Program.ShortID)
	require.NotNil(t, schema.Workstreams[0].Subcomponents[0].TotalPoints)
	assert.Equal(t, 8, *schema.Workstreams[0].Subcomponents[0].TotalPoints)
	assert.Empty(t, ValidateImportSchema(schema))
}

func TestLoadImportSchema_Errors(t *testing.T) {
	_, err := LoadImportSchema(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadImportSchema(writePlan(t, "bad.yml", "program: [unclosed"))
	assert.ErrorContains(t, err, "parsing plan YAML")

	_, err = LoadImportSchema(writePlan(t, "bad.json", "{"))
	assert.ErrorContains(t, err, "parsing plan JSON")
}
