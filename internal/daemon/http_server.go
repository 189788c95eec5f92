package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wjhuron/Huronalytics/internal/logfields"
	"github.com/wjhuron/Huronalytics/internal/version"
)

// httpServer exposes health, status, metrics, and a manual trigger endpoint.
type httpServer struct {
	daemon *Daemon
	srv    *http.Server
}

func newHTTPServer(d *Daemon) *httpServer { return &httpServer{daemon: d} }

// healthResponse is the /healthz payload.
type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    string    `json:"uptime"`
	Version   string    `json:"version"`
}

// statusResponse is the /status payload.
type statusResponse struct {
	Uptime  string `json:"uptime"`
	LastRun any    `json:"last_run,omitempty"`
	History any    `json:"history,omitempty"`
}

// Start begins serving on addr. Listening errors after startup are logged,
// not propagated; the daemon keeps running without its HTTP surface.
func (h *httpServer) Start(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.handleHealth)
	mux.HandleFunc("/status", h.handleStatus)
	mux.HandleFunc("/trigger", h.handleTrigger)
	mux.Handle("/metrics", promhttp.HandlerFor(h.daemon.registry, promhttp.HandlerOpts{}))

	h.srv = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := h.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server stopped", logfields.Error(err))
		}
	}()
	return nil
}

func (h *httpServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Uptime:    h.daemon.Uptime().Round(time.Second).String(),
		Version:   version.Version,
	})
}

func (h *httpServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{Uptime: h.daemon.Uptime().Round(time.Second).String()}
	if rep := h.daemon.LastReport(); rep != nil {
		resp.LastRun = rep
	}
	if h.daemon.store != nil {
		if runs, err := h.daemon.store.Recent(r.Context(), 20); err == nil {
			resp.History = runs
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleTrigger runs the pipeline now. POST only; the run mutex serializes it
// against any in-flight scheduled run.
func (h *httpServer) handleTrigger(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	rep := h.daemon.TriggerRun(r.Context())
	writeJSON(w, http.StatusOK, rep)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Failed to encode response", logfields.Error(err))
	}
}

// Stop shuts the server down gracefully.
func (h *httpServer) Stop(ctx context.Context) error {
	if h.srv == nil {
		return nil
	}
	return h.srv.Shutdown(ctx)
}
