// DingDong - Remote-Controlled Doorbell Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dingdong

package status

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/dingdong/internal/state"
	agentsync "github.com/tomtom215/dingdong/internal/sync"
	"github.com/tomtom215/dingdong/internal/trigger"
)

type stubSync struct{ status agentsync.Status }

func (s stubSync) Status() agentsync.Status { return s.status }

type stubTrigger struct{ stats trigger.Stats }

func (s stubTrigger) Stats() trigger.Stats { return s.stats }

type stubBreaker string

func (s stubBreaker) State() string { return string(s) }

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  Sources
		want string
	}{
		{"healthy", Sources{State: state.New(), Sync: stubSync{}}, "ok"},
		{"failing polls", Sources{State: state.New(), Sync: stubSync{agentsync.Status{ConsecutiveFailures: 2}}}, "degraded"},
		{"pending download", func() Sources {
			st := state.New()
			st.MarkPending("bell2")
			return Sources{State: st}
		}(), "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := get(t, NewRouter(tt.src), "/healthz")
			if rec.Code != http.StatusOK {
				t.Fatalf("status code = %d, want 200", rec.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body["status"] != tt.want {
				t.Errorf("status = %q, want %q", body["status"], tt.want)
			}
			if rec.Header().Get("X-Correlation-ID") == "" {
				t.Error("missing X-Correlation-ID header")
			}
		})
	}
}

func TestStatus(t *testing.T) {
	t.Parallel()

	st := state.New()
	st.SetVolume(70)
	st.Publish("bell1", "/data/CurrentSound.mp3")

	src := Sources{
		State:   st,
		Sync:    stubSync{agentsync.Status{Cycles: 4, SkippedSlots: 1}},
		Trigger: stubTrigger{trigger.Stats{Presses: 3, LastOutcome: "played"}},
		Breaker: stubBreaker("closed"),
		Version: "1.2.3",
	}

	rec := get(t, NewRouter(src), "/status")
	if rec.Code != http.StatusOK {
		t.Fatalf("status code = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" || resp.Version != "1.2.3" || resp.Breaker != "closed" {
		t.Errorf("resp = %+v", resp)
	}
	if resp.Agent.Volume != 70 || resp.Agent.SoundID != "bell1" || resp.Agent.AssetPath != "/data/CurrentSound.mp3" {
		t.Errorf("agent = %+v", resp.Agent)
	}
	if resp.Sync == nil || resp.Sync.Cycles != 4 || resp.Sync.SkippedSlots != 1 {
		t.Errorf("sync = %+v", resp.Sync)
	}
	if resp.Trigger == nil || resp.Trigger.Presses != 3 {
		t.Errorf("trigger = %+v", resp.Trigger)
	}
	if resp.Timestamp.IsZero() || time.Since(resp.Timestamp) > time.Minute {
		t.Errorf("timestamp = %v", resp.Timestamp)
	}
}

func TestStatusOptionalSources(t *testing.T) {
	t.Parallel()

	rec := get(t, NewRouter(Sources{State: state.New()}), "/status")
	body := rec.Body.String()
	for _, key := range []string{`"sync"`, `"trigger"`, `"circuit_breaker"`} {
		if strings.Contains(body, key) {
			t.Errorf("body should omit %s: %s", key, body)
		}
	}
}

func TestMetricsAndMethods(t *testing.T) {
	t.Parallel()

	h := NewRouter(Sources{State: state.New()})

	rec := get(t, h, "/metrics")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Errorf("/metrics: code %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/status", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /status = %d, want 405", rec.Code)
	}

	if rec := get(t, h, "/config"); rec.Code != http.StatusNotFound {
		t.Errorf("GET /config = %d, want 404", rec.Code)
	}
}

func TestNewServer(t *testing.T) {
	t.Parallel()

	srv := NewServer("127.0.0.1:9180", Sources{State: state.New()})
	if srv.Addr != "127.0.0.1:9180" || srv.Handler == nil || srv.ReadHeaderTimeout == 0 {
		t.Errorf("server = %+v", srv)
	}
}
