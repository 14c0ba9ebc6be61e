package cli

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/programhub/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeMetrics_ServesUntilCancelled(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})
	app := &App{Metrics: mux}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serveMetrics(ctx, app, ln, serveOptions{}) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

// scrape returns the body at url, or "" when the request fails.
func scrape(url string) string {
	resp, err := http.Get(url)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return string(body)
}

func TestServeMetrics_RefreshExportsProgramPoints(t *testing.T) {
	m := metrics.New(nil)
	app := observedTestApp(t, m)
	app.Metrics = m.NewMux()
	p := seedProgram(t, app)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serveMetrics(ctx, app, ln, serveOptions{refresh: time.Hour, snapshots: true})
	}()

	url := "http://" + ln.Addr().String() + "/metrics"
	want := []string{
		`programhub_program_points{kind="total",program_id="` + p.ID + `"} 10`,
		`programhub_program_points{kind="completed",program_id="` + p.ID + `"} 5`,
		`programhub_snapshot_points{kind="total",program_id="` + p.ID + `"} 18`,
		`programhub_use_cases_total{outcome="success",use_case="status"} 1`,
	}
	require.Eventually(t, func() bool {
		body := scrape(url)
		for _, w := range want {
			if !strings.Contains(body, w) {
				return false
			}
		}
		return true
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	snaps, err := app.Snapshots.List(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, "2027-03", snaps[0].Date)
}

func TestServeCmd_RejectsNonPositiveRefresh(t *testing.T) {
	app := testApp(t)
	app.Metrics = http.NewServeMux()
	_, err := executeCmd(t, app, "serve", "--addr", "127.0.0.1:0", "--refresh", "0s")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--refresh must be positive")
}
