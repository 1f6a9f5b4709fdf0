// DingDong - Remote-Controlled Doorbell Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dingdong

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tomtom215/dingdong/internal/faults"
)

// Prometheus instrumentation for the doorbell agent:
// - Poll cycles and remote API calls
// - Asset downloads
// - Trigger edges and playback
// - Circuit breaker state
// - Status server requests

var (
	// Poll Cycle Metrics
	PollCycles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dingdong_poll_cycles_total",
			Help: "Total number of poll cycles by result",
		},
		[]string{"result"}, // "success", "failure"
	)

	PollDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dingdong_poll_duration_seconds",
			Help:    "Duration of poll cycles in seconds, including asset download",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	PollLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dingdong_poll_last_success_timestamp",
			Help: "Unix timestamp of the last successful poll cycle",
		},
	)

	PollSkippedSlots = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dingdong_poll_skipped_slots_total",
			Help: "Schedule slots skipped because a cycle overran the poll interval",
		},
	)

	// Remote API Metrics
	RemoteRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dingdong_remote_requests_total",
			Help: "Total number of requests to the configuration server",
		},
		[]string{"endpoint", "result"}, // endpoint: "config", "download"; result: "success" or fault kind
	)

	RemoteRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dingdong_remote_request_duration_seconds",
			Help:    "Duration of requests to the configuration server",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// Asset Metrics
	AssetReplacements = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dingdong_asset_replacements_total",
			Help: "Total number of asset file replacements by result",
		},
		[]string{"result"},
	)

	AssetBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dingdong_asset_bytes",
			Help: "Size in bytes of the current asset file",
		},
	)

	AssetWriteDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dingdong_asset_write_duration_seconds",
			Help:    "Time spent streaming and renaming a downloaded asset",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
	)

	// Agent State Metrics
	Volume = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dingdong_volume_percent",
			Help: "Playback volume currently applied by the agent",
		},
	)

	SoundPending = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dingdong_sound_pending",
			Help: "1 while the server reports a sound that has not been downloaded yet",
		},
	)

	// Trigger Metrics
	TriggerEdges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dingdong_trigger_edges_total",
			Help: "Total number of button edges by outcome",
		},
		[]string{"outcome"}, // "played", "no_asset", "debounced", "playback_failed"
	)

	// Playback Metrics
	PlaybackStarts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dingdong_playback_starts_total",
			Help: "Total number of playback attempts by engine and result",
		},
		[]string{"engine", "result"},
	)

	PlaybackStops = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dingdong_playback_interrupted_total",
			Help: "Total number of sounds cut short, by reason",
		},
		[]string{"reason"}, // "replaced", "max_length", "stopped"
	)

	// Error Metrics
	Errors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dingdong_errors_total",
			Help: "Total number of classified errors",
		},
		[]string{"kind", "op"},
	)

	// Status Server Metrics
	StatusRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dingdong_status_requests_total",
			Help: "Total number of status server requests",
		},
		[]string{"method", "route", "code"},
	)

	StatusRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dingdong_status_request_duration_seconds",
			Help:    "Status server request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Number of consecutive failures in circuit breaker",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)
)

// Trigger outcomes used as label values.
const (
	TriggerPlayed         = "played"
	TriggerNoAsset        = "no_asset"
	TriggerDebounced      = "debounced"
	TriggerPlaybackFailed = "playback_failed"
)

// RecordPollCycle records one poll cycle.
func RecordPollCycle(duration time.Duration, err error) {
	PollDuration.Observe(duration.Seconds())
	if err != nil {
		PollCycles.WithLabelValues("failure").Inc()
		return
	}
	PollCycles.WithLabelValues("success").Inc()
	PollLastSuccess.SetToCurrentTime()
}

// RecordRemoteRequest records one call to the configuration server.
func RecordRemoteRequest(endpoint string, duration time.Duration, err error) {
	RemoteRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
	RemoteRequests.WithLabelValues(endpoint, resultLabel(err)).Inc()
}

// RecordAssetReplace records an asset replacement attempt.
func RecordAssetReplace(bytes int64, duration time.Duration, err error) {
	AssetWriteDuration.Observe(duration.Seconds())
	if err != nil {
		AssetReplacements.WithLabelValues("failure").Inc()
		return
	}
	AssetReplacements.WithLabelValues("success").Inc()
	AssetBytes.Set(float64(bytes))
}

// RecordTrigger records the outcome of one button edge.
func RecordTrigger(outcome string) {
	TriggerEdges.WithLabelValues(outcome).Inc()
}

// RecordPlayback records one playback attempt.
func RecordPlayback(engine string, err error) {
	PlaybackStarts.WithLabelValues(engine, resultLabel(err)).Inc()
}

// RecordPlaybackInterrupted records a sound that was killed before it ended.
func RecordPlaybackInterrupted(reason string) {
	PlaybackStops.WithLabelValues(reason).Inc()
}

// RecordError counts a classified error.
func RecordError(op string, err error) {
	if err == nil {
		return
	}
	Errors.WithLabelValues(faults.KindOf(err).String(), op).Inc()
}

// RecordStatusRequest records one status server request.
func RecordStatusRequest(method, route, code string, duration time.Duration) {
	StatusRequests.WithLabelValues(method, route, code).Inc()
	StatusRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// SetVolume publishes the applied volume.
func SetVolume(percent int) {
	Volume.Set(float64(percent))
}

// SetSoundPending publishes whether a sound download is outstanding.
func SetSoundPending(pending bool) {
	if pending {
		SoundPending.Set(1)
		return
	}
	SoundPending.Set(0)
}

func resultLabel(err error) string {
	if err == nil {
		return "success"
	}
	return faults.KindOf(err).String()
}
