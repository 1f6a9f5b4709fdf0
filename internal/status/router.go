// DingDong - Remote-Controlled Doorbell Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dingdong

package status

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/dingdong/internal/logging"
	"github.com/tomtom215/dingdong/internal/state"
	agentsync "github.com/tomtom215/dingdong/internal/sync"
	"github.com/tomtom215/dingdong/internal/trigger"
)

// SyncReporter reports the poll loop status.
type SyncReporter interface {
	Status() agentsync.Status
}

// TriggerReporter reports button statistics.
type TriggerReporter interface {
	Stats() trigger.Stats
}

// BreakerReporter reports the circuit breaker state.
type BreakerReporter interface {
	State() string
}

// Sources are the components the status endpoints read. Only State is required.
type Sources struct {
	State   *state.AgentState
	Sync    SyncReporter
	Trigger TriggerReporter
	Breaker BreakerReporter
	Version string
}

// Response is the /status body.
type Response struct {
	Status    string            `json:"status"`
	Version   string            `json:"version,omitempty"`
	Uptime    float64           `json:"uptime_seconds"`
	Agent     state.Snapshot    `json:"agent"`
	Sync      *agentsync.Status `json:"sync,omitempty"`
	Trigger   *trigger.Stats    `json:"trigger,omitempty"`
	Breaker   string            `json:"circuit_breaker,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

type handler struct {
	src     Sources
	started time.Time
}

// NewRouter returns the status routes.
func NewRouter(src Sources) http.Handler {
	h := &handler{src: src, started: time.Now()}

	r := chi.NewRouter()
	r.Use(correlationID)
	r.Use(instrument)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", h.health)
	r.Get("/status", h.status)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// NewServer returns an http.Server for the status routes on addr.
func NewServer(addr string, src Sources) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           NewRouter(src),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": h.condition()})
}

func (h *handler) status(w http.ResponseWriter, _ *http.Request) {
	resp := Response{
		Status:    h.condition(),
		Version:   h.src.Version,
		Uptime:    time.Since(h.started).Seconds(),
		Agent:     h.src.State.Snapshot(),
		Timestamp: time.Now(),
	}
	if h.src.Sync != nil {
		st := h.src.Sync.Status()
		resp.Sync = &st
	}
	if h.src.Trigger != nil {
		stats := h.src.Trigger.Stats()
		resp.Trigger = &stats
	}
	if h.src.Breaker != nil {
		resp.Breaker = h.src.Breaker.State()
	}
	respondJSON(w, http.StatusOK, resp)
}

// condition is "ok", or "degraded" while the last poll failed or a sound
// download is outstanding.
func (h *handler) condition() string {
	if h.src.Sync != nil && h.src.Sync.Status().ConsecutiveFailures > 0 {
		return "degraded"
	}
	if h.src.State != nil && h.src.State.Snapshot().Stale() {
		return "degraded"
	}
	return "ok"
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	data, err := json.Marshal(body)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal status response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Debug().Err(err).Msg("Failed to write status response")
	}
}
