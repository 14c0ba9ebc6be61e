package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/programhub/internal/db"
	"github.com/alexanderramin/programhub/internal/domain"
	"github.com/alexanderramin/programhub/internal/period"
	"github.com/alexanderramin/programhub/internal/testutil"
	"github.com/stretchr/testify/require"
)

// March 2027 sits inside the default FY26-FY28 timeline.
var testNow = time.Date(2027, 3, 15, 10, 0, 0, 0, time.UTC)

func testClock() period.Clock { return period.FixedClock(testNow) }

func setupRepos(t *testing.T) (Repos, db.UnitOfWork) {
	t.Helper()
	database := testutil.NewTestDB(t)
	return NewRepos(database), testutil.NewTestUoW(database)
}

// seededTree is the fixture most service tests start from:
//
//	Platform: Ingestion (owner JD, subtasks 5 DONE + 5 NOT_STARTED)
//	Rollout:  Training (owner AB, manual 8 points IN_PROGRESS)
type seededTree struct {
	program   *domain.Program
	platform  *domain.Workstream
	rollout   *domain.Workstream
	ingestion *domain.Subcomponent
	training  *domain.Subcomponent
	done      *domain.Subtask
	todo      *domain.Subtask
}

func seedTree(t *testing.T, repos Repos) seededTree {
	t.Helper()
	ctx := context.Background()

	var tr seededTree
	tr.program = testutil.NewTestProgram("Neuron", testutil.WithShortID("NRN01"))
	require.NoError(t, repos.Programs.Create(ctx, tr.program))

	tr.platform = testutil.NewTestWorkstream(tr.program.ID, "Platform", testutil.WithTargetCompletion("March 2027"))
	tr.rollout = testutil.NewTestWorkstream(tr.program.ID, "Rollout", testutil.WithWorkstreamOrder(1))
	require.NoError(t, repos.Workstreams.Create(ctx, tr.platform))
	require.NoError(t, repos.Workstreams.Create(ctx, tr.rollout))

	tr.ingestion = testutil.NewTestSubcomponent(tr.platform.ID, "Ingestion", testutil.WithOwner("jd", "JD"))
	tr.training = testutil.NewTestSubcomponent(tr.rollout.ID, "Training",
		testutil.WithOwner("ab", "AB"), testutil.WithManualTotal(8, domain.StatusInProgress))
	require.NoError(t, repos.Subcomponents.Create(ctx, tr.ingestion))
	require.NoError(t, repos.Subcomponents.Create(ctx, tr.training))

	tr.done = testutil.NewTestSubtask(tr.ingestion.ID, "Parser", testutil.WithPoints(5), testutil.WithCompletion(100))
	tr.todo = testutil.NewTestSubtask(tr.ingestion.ID, "Loader", testutil.WithPoints(5))
	tr.todo.OrderIndex = 1
	require.NoError(t, repos.Subtasks.Create(ctx, tr.done))
	require.NoError(t, repos.Subtasks.Create(ctx, tr.todo))

	return tr
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) last(t *testing.T) UseCaseEvent {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	require.NotEmpty(t, o.events)
	return o.events[len(o.events)-1]
}
