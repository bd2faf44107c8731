package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/specialistvlad/shipgrid/internal/ctxlog"
)

// taskStatus is one row of the /status document.
type taskStatus struct {
	Name       string `json:"name"`
	Group      string `json:"group,omitempty"`
	Action     string `json:"action"`
	State      string `json:"state"`
	DurationMS int64  `json:"duration_ms,omitempty"`
	Error      string `json:"error,omitempty"`
}

// statusRouter serves liveness, Prometheus metrics and live task states.
func (a *App) statusRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", a.healthHandler)
	r.Get("/status", a.statusHandler)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(a.metrics.Registry, promhttp.HandlerOpts{}))
	return r
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (a *App) statusHandler(w http.ResponseWriter, r *http.Request) {
	tasks := a.graph.Tasks()
	rows := make([]taskStatus, 0, len(tasks))
	for _, t := range tasks {
		row := taskStatus{
			Name:       t.Name,
			Group:      t.Group,
			Action:     t.Action.Kind(),
			State:      t.State().String(),
			DurationMS: t.Duration().Milliseconds(),
		}
		if err := t.Err(); err != nil {
			row.Error = err.Error()
		}
		rows = append(rows, row)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(rows); err != nil {
		a.logger.Error("Failed to encode status.", "error", err)
	}
}

// startStatusServer runs the status server in the background.
func (a *App) startStatusServer(ctx context.Context, port int) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Configuring status server.")

	addr := fmt.Sprintf(":%d", port)
	a.httpServer = &http.Server{
		Addr:              addr,
		Handler:           a.statusRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	srv := a.httpServer
	go func() {
		logger.Info("🩺 Status server starting", "address", fmt.Sprintf("http://localhost%s/status", addr))
		// ListenAndServe returns ErrServerClosed on graceful shutdown.
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Status server failed unexpectedly", "error", err)
		}
	}()
}

func (a *App) closeStatusServer(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	if a.httpServer == nil {
		logger.Debug("Status server was not running.")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	logger.Info("🩺 Shutting down status server...")
	if err := a.httpServer.Shutdown(ctx); err != nil {
		logger.Error("Status server shutdown failed", "error", err)
		return err
	}
	a.httpServer = nil
	logger.Debug("Status server shut down gracefully.")
	return nil
}
