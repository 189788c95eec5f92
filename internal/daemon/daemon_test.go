package daemon

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/wjhuron/Huronalytics/internal/config"
	"github.com/wjhuron/Huronalytics/internal/pipeline"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Source: config.SourceConfig{
			URL:         "https://example.com/export?format=xlsx",
			Destination: filepath.Join(t.TempDir(), "sheet.xlsx"),
		},
		Build: config.BuildConfig{Command: "true"},
		Git: config.GitConfig{
			RepoPath: t.TempDir(),
			Remote:   "origin",
			Branch:   "main",
		},
		Daemon: config.DaemonConfig{
			Interval: "1m",
			HTTPAddr: "127.0.0.1:0",
		},
	}
}

func TestNewDaemonWithHistory(t *testing.T) {
	cfg := testConfig(t)
	cfg.Daemon.HistoryDB = filepath.Join(t.TempDir(), "runs.db")

	d, err := New(cfg, "")
	require.NoError(t, err)
	require.NotNil(t, d.store)
	require.NoError(t, d.store.Close())
}

func TestHealthEndpoint(t *testing.T) {
	d := &Daemon{
		cfg:       testConfig(t),
		registry:  prom.NewRegistry(),
		startedAt: time.Now().Add(-time.Minute),
	}
	srv := newHTTPServer(d)

	rec := httptest.NewRecorder()
	srv.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "healthy", resp.Status)
	require.NotEmpty(t, resp.Uptime)
}

func TestStatusEndpointIncludesLastRun(t *testing.T) {
	d := &Daemon{
		cfg:       testConfig(t),
		registry:  prom.NewRegistry(),
		startedAt: time.Now(),
		lastReport: &pipeline.Report{
			RunID:   "run-1",
			Outcome: pipeline.OutcomeSuccess,
		},
	}
	srv := newHTTPServer(d)

	rec := httptest.NewRecorder()
	srv.handleStatus(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp statusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.LastRun)
}

func TestTriggerEndpointRejectsGet(t *testing.T) {
	d := &Daemon{cfg: testConfig(t), registry: prom.NewRegistry(), startedAt: time.Now()}
	srv := newHTTPServer(d)

	rec := httptest.NewRecorder()
	srv.handleTrigger(rec, httptest.NewRequest(http.MethodGet, "/trigger", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestPrometheusRecorderWiredIntoRegistry(t *testing.T) {
	cfg := testConfig(t)
	d, err := New(cfg, "")
	require.NoError(t, err)

	d.recorder.IncRunOutcome("success")
	mfs, err := d.registry.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, mfs)

	var found bool
	for _, mf := range mfs {
		if mf.GetName() == "huronsync_run_outcomes_total" {
			found = true
		}
	}
	require.True(t, found, "pipeline metrics must be registered on the daemon registry")
}

func TestReloadAppliesNewConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	writeConfigFile(t, cfgPath, "10m")

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	d, err := New(cfg, cfgPath)
	require.NoError(t, err)

	writeConfigFile(t, cfgPath, "5m")
	require.NoError(t, d.Reload())
	require.Equal(t, 5*time.Minute, d.cfg.Daemon.IntervalDuration())
}

func TestReloadKeepsConfigOnError(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	writeConfigFile(t, cfgPath, "10m")

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	d, err := New(cfg, cfgPath)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(cfgPath, []byte(":::not yaml"), 0o644))
	require.Error(t, d.Reload())
	require.Equal(t, 10*time.Minute, d.cfg.Daemon.IntervalDuration())
}

func writeConfigFile(t *testing.T, path, interval string) {
	t.Helper()
	body := `source:
  url: https://example.com/export?format=xlsx
  destination: ` + filepath.Join(t.TempDir(), "sheet.xlsx") + `
build:
  command: "true"
git:
  repo_path: ` + t.TempDir() + `
daemon:
  interval: ` + interval + `
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}
