package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/programhub/internal/app"
	"github.com/alexanderramin/programhub/internal/period"
	"github.com/alexanderramin/programhub/internal/repository"
	"github.com/alexanderramin/programhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBurndownService_EndToEndLiveOnly(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()

	program := testutil.NewTestProgram("Neuron", testutil.WithFiscalYears(26, 28))
	require.NoError(t, repos.Programs.Create(ctx, program))
	ws := testutil.NewTestWorkstream(program.ID, "Platform")
	require.NoError(t, repos.Workstreams.Create(ctx, ws))
	sc := testutil.NewTestSubcomponent(ws.ID, "Ingestion")
	require.NoError(t, repos.Subcomponents.Create(ctx, sc))
	done := testutil.NewTestSubtask(sc.ID, "A", testutil.WithPoints(5), testutil.WithCompletion(100))
	todo := testutil.NewTestSubtask(sc.ID, "B", testutil.WithPoints(5))
	todo.OrderIndex = 1
	require.NoError(t, repos.Subtasks.Create(ctx, done))
	require.NoError(t, repos.Subtasks.Create(ctx, todo))

	svc := NewBurndownService(repos, testClock())
	resp, err := svc.Burndown(ctx, app.BurndownRequest{ProgramID: program.ID})
	require.NoError(t, err)

	assert.Equal(t, app.ScopeProgram, resp.Kind)
	assert.Equal(t, "Neuron", resp.ScopeLabel)
	require.Len(t, resp.Periods, 35)
	assert.Equal(t, "2026-01", resp.Periods[0].DateKey)
	assert.Equal(t, "2028-11", resp.Periods[34].DateKey)
	assert.Equal(t, 10, resp.StartTotal)
	assert.Equal(t, 10, resp.PeakScope)
	assert.Equal(t, 5, resp.Live.Remaining())
	assert.Empty(t, resp.Warnings)

	idx := period.Index(resp.Periods, "2027-03")
	require.Equal(t, 14, idx)
	for i, pt := range resp.Points {
		switch i {
		case 0:
			require.NotNil(t, pt.Remaining)
			assert.Equal(t, 10, *pt.Remaining)
		case idx:
			require.NotNil(t, pt.Remaining)
			assert.Equal(t, 5, *pt.Remaining)
			assert.True(t, pt.IsCurrent)
		default:
			assert.Nil(t, pt.Remaining, pt.Date)
		}
	}
	assert.Equal(t, 0, resp.Points[34].Ideal)
}

func TestBurndownService_ProgramWithSnapshots(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()
	tr := seedTree(t, repos)
	require.NoError(t, repos.Snapshots.Upsert(ctx, testutil.NewTestSnapshot(tr.program.ID, "2026-06", 12, 2)))

	svc := NewBurndownService(repos, testClock())
	resp, err := svc.Burndown(ctx, app.BurndownRequest{ProgramID: tr.program.ID})
	require.NoError(t, err)

	assert.Equal(t, 18, resp.StartTotal)
	assert.Equal(t, 18, resp.PeakScope)

	june := period.Index(resp.Periods, "2026-06")
	require.NotNil(t, resp.Points[june].Remaining)
	assert.Equal(t, 10, *resp.Points[june].Remaining)
	assert.Equal(t, 12, resp.Points[june].Scope)
	assert.True(t, resp.Points[june].ScopeChanged)

	current := period.Index(resp.Periods, "2027-03")
	require.NotNil(t, resp.Points[current].Remaining)
	assert.Equal(t, 9, *resp.Points[current].Remaining)
	assert.Equal(t, 18, resp.Points[current].Scope)

	assert.Equal(t, []string{
		"scope changed in Jun '26: 18 -> 12 points",
		"scope changed in Mar '27: 12 -> 18 points",
	}, resp.Warnings)
}

func TestBurndownService_WorkstreamSkipsSnapshotsWithoutBreakdown(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()
	tr := seedTree(t, repos)

	require.NoError(t, repos.Snapshots.Upsert(ctx, testutil.NewTestSnapshot(tr.program.ID, "2026-05", 20, 0)))
	snapshots := NewSnapshotService(repos, period.FixedClock(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)))
	_, err := snapshots.SaveCurrent(ctx, tr.program.ID)
	require.NoError(t, err)

	svc := NewBurndownService(repos, testClock())
	resp, err := svc.Burndown(ctx, app.BurndownRequest{ProgramID: tr.program.ID, WorkstreamID: tr.platform.ID})
	require.NoError(t, err)

	assert.Equal(t, app.ScopeWorkstream, resp.Kind)
	assert.Equal(t, "Platform", resp.ScopeLabel)
	assert.Equal(t, 10, resp.StartTotal)

	sept := period.Index(resp.Periods, "2026-09")
	require.NotNil(t, resp.Points[sept].Remaining)
	assert.Equal(t, 5, *resp.Points[sept].Remaining)
	assert.Nil(t, resp.Points[period.Index(resp.Periods, "2026-05")].Remaining)

	assert.Contains(t, resp.Warnings, "1 snapshot(s) have no breakdown for this scope and were skipped")
}

func TestBurndownService_SubcomponentAndOwner(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()
	tr := seedTree(t, repos)
	svc := NewBurndownService(repos, testClock())

	resp, err := svc.Burndown(ctx, app.BurndownRequest{ProgramID: tr.program.ID, SubcomponentID: tr.training.ID})
	require.NoError(t, err)
	assert.Equal(t, app.ScopeSubcomponent, resp.Kind)
	assert.Equal(t, "Rollout / Training", resp.ScopeLabel)
	assert.Equal(t, 8, resp.StartTotal, "manual totals count as baseline")
	assert.Equal(t, 4, resp.Live.Remaining())

	resp, err = svc.Burndown(ctx, app.BurndownRequest{ProgramID: tr.program.ID, OwnerID: "jd"})
	require.NoError(t, err)
	assert.Equal(t, app.ScopeOwner, resp.Kind)
	assert.Equal(t, 10, resp.Live.TotalPoints)
	assert.Equal(t, 5, resp.Live.CompletedPoints)

	_, err = svc.Burndown(ctx, app.BurndownRequest{ProgramID: tr.program.ID, OwnerID: "nobody"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestBurndownService_AddedScopeLowersStartTotal(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()
	tr := seedTree(t, repos)

	late := testutil.NewTestSubtask(tr.ingestion.ID, "Late ask", testutil.WithPoints(3), testutil.AsAddedScope())
	late.OrderIndex = 2
	require.NoError(t, repos.Subtasks.Create(ctx, late))

	svc := NewBurndownService(repos, testClock())
	resp, err := svc.Burndown(ctx, app.BurndownRequest{ProgramID: tr.program.ID, WorkstreamID: tr.platform.ID})
	require.NoError(t, err)

	assert.Equal(t, 10, resp.StartTotal)
	assert.Equal(t, 13, resp.PeakScope)
	assert.Equal(t, 13, resp.Points[0].ScopeLine)
	assert.Equal(t, 10, resp.Points[0].Ideal)
	assert.Contains(t, resp.Warnings, "3 point(s) of added scope since baseline")
}

func TestBurndownService_Errors(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()
	tr := seedTree(t, repos)
	svc := NewBurndownService(repos, testClock())

	_, err := svc.Burndown(ctx, app.BurndownRequest{ProgramID: tr.program.ID, WorkstreamID: tr.platform.ID, OwnerID: "jd"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Burndown(ctx, app.BurndownRequest{ProgramID: tr.program.ID, WorkstreamID: "missing"})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = svc.Burndown(ctx, app.BurndownRequest{ProgramID: tr.program.ID, SubcomponentID: "missing"})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = svc.Burndown(ctx, app.BurndownRequest{ProgramID: "missing"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestBurndownService_CurrentMonthOutsideTimeline(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()
	tr := seedTree(t, repos)
	svc := NewBurndownService(repos, period.FixedClock(time.Date(2031, 2, 1, 0, 0, 0, 0, time.UTC)))

	resp, err := svc.Burndown(ctx, app.BurndownRequest{ProgramID: tr.program.ID})
	require.NoError(t, err)
	for _, pt := range resp.Points[1:] {
		assert.Nil(t, pt.Remaining)
		assert.False(t, pt.IsCurrent)
	}
	assert.Contains(t, resp.Warnings, "current month Feb '31 is outside the timeline Jan '26 to Nov '28; live totals are not plotted")
}
