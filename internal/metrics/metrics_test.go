package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/programhub/internal/app"
	"github.com/alexanderramin/programhub/internal/period"
	"github.com/alexanderramin/programhub/internal/service"
	fixtures "github.com/alexanderramin/programhub/internal/testutil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	assert.NotNil(t, m.UseCasesTotal)
	assert.NotNil(t, m.UseCaseDuration)
	assert.NotNil(t, m.SnapshotPoints)

	// Separate registries never collide.
	assert.NotPanics(t, func() { New(nil); New(nil) })
}

func TestObserveUseCase_CountsOutcomes(t *testing.T) {
	m := New(nil)
	ctx := context.Background()

	var obs service.UseCaseObserver = m
	obs.ObserveUseCase(ctx, service.UseCaseEvent{Name: "burndown", Success: true, Duration: 20 * time.Millisecond})
	obs.ObserveUseCase(ctx, service.UseCaseEvent{Name: "burndown", Success: true})
	obs.ObserveUseCase(ctx, service.UseCaseEvent{Name: "burndown", Err: errors.New("boom")})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.UseCasesTotal.WithLabelValues("burndown", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UseCasesTotal.WithLabelValues("burndown", "error")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.UseCaseDuration))
}

func TestObserveUseCase_SnapshotGauge(t *testing.T) {
	m := New(nil)
	m.ObserveUseCase(context.Background(), service.UseCaseEvent{
		Name:    "save-snapshot",
		Success: true,
		Fields:  map[string]any{"program_id": "p1", "total_points": 18, "completed_points": 9},
	})
	assert.Equal(t, 18.0, testutil.ToFloat64(m.SnapshotPoints.WithLabelValues("p1", "total")))
	assert.Equal(t, 9.0, testutil.ToFloat64(m.SnapshotPoints.WithLabelValues("p1", "completed")))

	m.ObserveUseCase(context.Background(), service.UseCaseEvent{
		Name:   "save-snapshot",
		Fields: map[string]any{"program_id": "p1", "total_points": 99},
	})
	assert.Equal(t, 18.0, testutil.ToFloat64(m.SnapshotPoints.WithLabelValues("p1", "total")), "failed saves leave the gauge alone")
}

func TestNewMux_ServesMetricsAndHealth(t *testing.T) {
	m := New(nil)
	m.ObserveUseCase(context.Background(), service.UseCaseEvent{Name: "status", Success: true})

	ts := httptest.NewServer(m.NewMux())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok\n", string(body))

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `programhub_use_cases_total{outcome="success",use_case="status"} 1`)
	assert.Contains(t, string(body), `programhub_http_requests_total{method="GET",path="/healthz",status="200"} 1`)

	expected := `
# HELP programhub_use_cases_total Service use cases executed, by outcome.
# TYPE programhub_use_cases_total counter
programhub_use_cases_total{outcome="success",use_case="status"} 1
`
	assert.NoError(t, testutil.CollectAndCompare(m.UseCasesTotal, strings.NewReader(expected)))
}

func TestObserveUseCase_ProgramGaugeSkipsOwnerViews(t *testing.T) {
	m := New(nil)
	m.ObserveUseCase(context.Background(), service.UseCaseEvent{
		Name:    "status",
		Success: true,
		Fields: map[string]any{
			"program_id": "p1", "total_points": 10, "completed_points": 5,
			"progress_total": 18, "progress_completed": 9.0,
		},
	})
	m.ObserveUseCase(context.Background(), service.UseCaseEvent{
		Name:    "status",
		Success: true,
		Fields:  map[string]any{"program_id": "p1", "owner_id": "ab", "total_points": 0},
	})

	assert.Equal(t, 10.0, testutil.ToFloat64(m.ProgramPoints.WithLabelValues("p1", "total")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.ProgramPoints.WithLabelValues("p1", "completed")))
	assert.Equal(t, 18.0, testutil.ToFloat64(m.ProgramPoints.WithLabelValues("p1", "progress_total")))
	assert.Equal(t, 9.0, testutil.ToFloat64(m.ProgramPoints.WithLabelValues("p1", "progress_completed")))
}

func TestNewMux_ExposesStatusComputedInProcess(t *testing.T) {
	ctx := context.Background()
	database := fixtures.NewTestDB(t)
	repos := service.NewRepos(database)
	clock := period.FixedClock(time.Date(2027, 3, 15, 10, 0, 0, 0, time.UTC))

	p := fixtures.NewTestProgram("Neuron", fixtures.WithShortID("NRN01"))
	require.NoError(t, repos.Programs.Create(ctx, p))
	ws := fixtures.NewTestWorkstream(p.ID, "Platform")
	require.NoError(t, repos.Workstreams.Create(ctx, ws))
	sc := fixtures.NewTestSubcomponent(ws.ID, "Ingestion")
	require.NoError(t, repos.Subcomponents.Create(ctx, sc))
	require.NoError(t, repos.Subtasks.Create(ctx, fixtures.NewTestSubtask(sc.ID, "Parser",
		fixtures.WithPoints(5), fixtures.WithCompletion(100))))
	require.NoError(t, repos.Subtasks.Create(ctx, fixtures.NewTestSubtask(sc.ID, "Loader",
		fixtures.WithPoints(8), fixtures.WithCompletion(50))))

	m := New(nil)
	status := service.NewStatusService(repos, clock, m)
	_, err := status.GetStatus(ctx, app.StatusRequest{ProgramID: p.ID})
	require.NoError(t, err)

	ts := httptest.NewServer(m.NewMux())
	defer ts.Close()
	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	out := string(body)
	assert.Contains(t, out, `programhub_use_cases_total{outcome="success",use_case="status"} 1`)
	assert.Contains(t, out, `programhub_program_points{kind="total",program_id="`+p.ID+`"} 13`)
	assert.Contains(t, out, `programhub_program_points{kind="completed",program_id="`+p.ID+`"} 5`)
	assert.Contains(t, out, `programhub_program_points{kind="progress_completed",program_id="`+p.ID+`"} 9`)
}
