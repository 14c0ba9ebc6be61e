package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/programhub/internal/app"
	"github.com/alexanderramin/programhub/internal/domain"
	"github.com/alexanderramin/programhub/internal/period"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotService_SaveCurrentRecordsBreakdown(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()
	tr := seedTree(t, repos)
	obs := &recordingObserver{}
	svc := NewSnapshotService(repos, testClock(), obs)

	snap, err := svc.SaveCurrent(ctx, tr.program.ID)
	require.NoError(t, err)
	assert.Equal(t, "2027-03", snap.Date)
	// 10 points of subtasks (5 done) plus 8 manual points credited at 50%.
	assert.Equal(t, 18, snap.TotalPoints)
	assert.Equal(t, 9, snap.CompletedPoints)
	assert.Equal(t, 50, snap.PercentComplete)

	platform, ok := snap.Workstream(tr.platform.ID)
	require.True(t, ok)
	assert.Equal(t, 10, platform.TotalPoints)
	assert.Equal(t, 5, platform.CompletedPoints)

	training, ok := snap.Subcomponent(tr.rollout.ID, tr.training.ID)
	require.True(t, ok)
	assert.Equal(t, domain.PointsPair{TotalPoints: 8, CompletedPoints: 4}, training)

	stored, err := repos.Snapshots.GetByDate(ctx, tr.program.ID, "2027-03")
	require.NoError(t, err)
	assert.Equal(t, snap.ID, stored.ID)
	assert.Equal(t, snap.Workstreams, stored.Workstreams)

	ev := obs.last(t)
	assert.Equal(t, "save-snapshot", ev.Name)
	assert.Equal(t, 18, ev.Fields["total_points"])
}

func TestSnapshotService_SaveIsIdempotentPerMonth(t *testing.T) {
	repos, uow := setupRepos(t)
	ctx := context.Background()
	tr := seedTree(t, repos)
	svc := NewSnapshotService(repos, testClock())

	first, err := svc.SaveCurrent(ctx, tr.program.ID)
	require.NoError(t, err)

	subtasks := NewSubtaskService(repos, uow, testClock())
	_, err = subtasks.UpdateCompletion(ctx, app.CompletionUpdate{SubtaskID: tr.todo.ID, Percent: 100})
	require.NoError(t, err)

	second, err := svc.Save(ctx, tr.program.ID, "2027-03")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "same month reuses the stored row")
	assert.Equal(t, 14, second.CompletedPoints)

	all, err := svc.List(ctx, tr.program.ID)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 14, all[0].CompletedPoints)
}

func TestSnapshotService_RejectsOtherMonths(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()
	tr := seedTree(t, repos)
	svc := NewSnapshotService(repos, testClock())

	for _, key := range []string{"2027-02", "2027-04", "2026-03"} {
		_, err := svc.Save(ctx, tr.program.ID, key)
		assert.ErrorIs(t, err, ErrSnapshotNotCurrent, key)
	}

	all, err := svc.List(ctx, tr.program.ID)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSnapshotService_UsesClockLocation(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()
	tr := seedTree(t, repos)

	// 23:30 UTC on 31 March is already April in UTC+2.
	instant := time.Date(2027, 3, 31, 23, 30, 0, 0, time.UTC)
	clock := period.FixedClock(instant.In(time.FixedZone("CEST", 2*3600)))
	svc := NewSnapshotService(repos, clock)

	snap, err := svc.SaveCurrent(ctx, tr.program.ID)
	require.NoError(t, err)
	assert.Equal(t, "2027-04", snap.Date)
}
