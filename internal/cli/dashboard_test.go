package cli

import (
	"context"
	"errors"
	"testing"

	hubapp "github.com/alexanderramin/programhub/internal/app"
	"github.com/alexanderramin/programhub/internal/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDashboardDriver(t *testing.T) (*teatest.Driver, *App) {
	t.Helper()
	app := testApp(t)
	p := seedProgram(t, app)
	d := teatest.New(t, newDashboardModel(context.Background(), app, p.ID), teatest.WithSize(120, 40))
	d.DrainInit()
	return d, app
}

func TestDashboard_ListsHierarchy(t *testing.T) {
	d, _ := newDashboardDriver(t)

	view := stripANSI(d.View())
	assert.Contains(t, view, "Neuron NRN01")
	assert.Contains(t, view, "Platform")
	assert.Contains(t, view, "Ingestion")
	assert.Contains(t, view, "Training")
	assert.Contains(t, view, "Total: 5/10 pts")
	assert.Contains(t, view, "b burndown")

	m := d.Model.(dashboardModel)
	require.Len(t, m.rows, 4)
	assert.Empty(t, m.rows[0].subcomponentID)
	assert.NotEmpty(t, m.rows[1].subcomponentID)
}

func TestDashboard_BurndownForSelectedRow(t *testing.T) {
	d, _ := newDashboardDriver(t)

	d.PressDown()
	d.PressKey('b')

	m := d.Model.(dashboardModel)
	require.NotNil(t, m.burndown)
	assert.Equal(t, hubapp.ScopeSubcomponent, m.burndown.Kind)
	view := stripANSI(d.View())
	assert.Contains(t, view, "Burndown")
	assert.Contains(t, view, "b/esc back")

	d.PressEsc()
	m = d.Model.(dashboardModel)
	assert.Nil(t, m.burndown)
	assert.Contains(t, stripANSI(d.View()), "Ingestion")
}

func TestDashboard_WorkstreamRowBurnsDownWorkstream(t *testing.T) {
	d, _ := newDashboardDriver(t)

	d.PressEnter()

	m := d.Model.(dashboardModel)
	require.NotNil(t, m.burndown)
	assert.Equal(t, hubapp.ScopeWorkstream, m.burndown.Kind)
	assert.Equal(t, 5, m.burndown.Live.CompletedPoints)

	d.PressEnter()
	assert.Nil(t, d.Model.(dashboardModel).burndown)
}

func TestDashboard_RefreshPicksUpChanges(t *testing.T) {
	d, app := newDashboardDriver(t)
	ctx := context.Background()

	m := d.Model.(dashboardModel)
	p, err := app.Programs.LoadTree(ctx, m.programID)
	require.NoError(t, err)
	st, err := findSubtask(p, "Loader")
	require.NoError(t, err)
	_, err = app.Subtasks.UpdateCompletion(ctx, hubapp.CompletionUpdate{SubtaskID: st.ID, Percent: 100})
	require.NoError(t, err)

	d.PressKey('r')
	assert.Contains(t, stripANSI(d.View()), "Total: 10/10 pts")
}

func TestDashboard_ShowsErrors(t *testing.T) {
	d, _ := newDashboardDriver(t)

	d.Send(dashboardErrMsg{errors.New("database is locked")})
	view := d.View()
	assert.Contains(t, view, "Error: database is locked")
	assert.Contains(t, view, "r retry")
}

func TestDashboard_Quit(t *testing.T) {
	d, _ := newDashboardDriver(t)

	d.PressKey('q')
	assert.True(t, d.Quitting)
}
