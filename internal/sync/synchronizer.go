// DingDong - Remote-Controlled Doorbell Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dingdong

package sync

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomtom215/dingdong/internal/clock"
	"github.com/tomtom215/dingdong/internal/faults"
	"github.com/tomtom215/dingdong/internal/logging"
	"github.com/tomtom215/dingdong/internal/metrics"
	"github.com/tomtom215/dingdong/internal/remote"
	"github.com/tomtom215/dingdong/internal/state"
)

// DefaultInterval is the poll period when none is configured.
const DefaultInterval = 30 * time.Second

// Phase is the synchronizer's position in a poll cycle.
type Phase int32

const (
	PhaseIdle Phase = iota
	PhasePolling
	PhaseReconciling
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePolling:
		return "polling"
	case PhaseReconciling:
		return "reconciling"
	default:
		return "unknown"
	}
}

// AssetWriter durably replaces the local sound file.
type AssetWriter interface {
	Replace(r io.Reader) (string, error)
}

// Options configures a Synchronizer.
type Options struct {
	Client   remote.Client
	Store    AssetWriter
	State    *state.AgentState
	Interval time.Duration

	// Clock defaults to the real clock.
	Clock clock.Clock
}

// Status is a point-in-time view of the synchronizer for the status endpoint.
type Status struct {
	Phase               string    `json:"phase"`
	Interval            string    `json:"interval"`
	Cycles              uint64    `json:"cycles"`
	ConsecutiveFailures int       `json:"consecutive_failures"`
	SkippedSlots        uint64    `json:"skipped_slots"`
	LastAttempt         time.Time `json:"last_attempt,omitempty"`
	LastSuccess         time.Time `json:"last_success,omitempty"`
	LastError           string    `json:"last_error,omitempty"`
}

// Synchronizer keeps AgentState in line with the configuration server.
//
// It is the only writer of AgentState. A new sound id is published only after
// its asset has been written, so a reader never sees an id without its file.
type Synchronizer struct {
	client   remote.Client
	store    AssetWriter
	state    *state.AgentState
	clock    clock.Clock
	interval time.Duration

	phase   atomic.Int32
	cycleMu sync.Mutex // one cycle at a time

	statusMu sync.Mutex
	status   Status
	epoch    time.Time
}

// New creates a Synchronizer.
func New(opts Options) *Synchronizer {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	return &Synchronizer{
		client:   opts.Client,
		store:    opts.Store,
		state:    opts.State,
		clock:    opts.Clock,
		interval: opts.Interval,
	}
}

// String implements fmt.Stringer for the supervisor.
func (s *Synchronizer) String() string {
	return "synchronizer"
}

// Phase returns the current cycle phase.
func (s *Synchronizer) Phase() Phase {
	return Phase(s.phase.Load())
}

func (s *Synchronizer) setPhase(p Phase) {
	s.phase.Store(int32(p))
}

// Status returns a copy of the synchronizer status.
func (s *Synchronizer) Status() Status {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	st := s.status
	st.Phase = s.Phase().String()
	st.Interval = s.interval.String()
	return st
}

// Bootstrap runs the startup cycle. Only a failure to obtain the configuration
// is returned; a failed asset download is logged and left to the poll loop.
func (s *Synchronizer) Bootstrap(ctx context.Context) error {
	err := s.Sync(ctx)
	var cerr *cycleError
	if errors.As(err, &cerr) && cerr.stage == stageAsset {
		logging.Warn().Err(err).Msg("Initial sound download failed, the poll loop will retry")
		return nil
	}
	return err
}

// Sync runs one poll cycle: fetch the configuration, apply the volume, and
// reconcile the asset if the server reports a different sound. Errors are
// logged and returned; AgentState keeps its last known-good value.
func (s *Synchronizer) Sync(ctx context.Context) error {
	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()

	ctx = logging.ContextWithNewCorrelationID(ctx)
	start := s.clock.Now()

	err := s.cycle(ctx)

	metrics.RecordPollCycle(s.clock.Now().Sub(start), err)
	s.recordResult(start, err)

	if err != nil {
		metrics.RecordError(opOf(err), err)
		logEvent := logging.Ctx(ctx).Warn()
		if !faults.Retryable(err) {
			// Unclassified failures point at a bug rather than the server.
			logEvent = logging.Ctx(ctx).Error()
		}
		var fe *faults.Error
		if errors.As(err, &fe) {
			logEvent = logEvent.Str("kind", fe.Kind.String()).Str("op", fe.Op).Str("target", fe.Target)
		}
		logEvent.Err(err).Msg("Poll cycle failed, keeping last known-good state")
	}
	return err
}

type cycleStage int

const (
	stageConfig cycleStage = iota
	stageAsset
)

// cycleError records which stage of a cycle failed.
type cycleError struct {
	stage cycleStage
	err   error
}

func (e *cycleError) Error() string { return e.err.Error() }
func (e *cycleError) Unwrap() error { return e.err }

func (s *Synchronizer) cycle(ctx context.Context) error {
	s.setPhase(PhasePolling)
	defer s.setPhase(PhaseIdle)

	cfg, err := s.client.FetchConfig(ctx)
	if err != nil {
		return &cycleError{stage: stageConfig, err: err}
	}

	log := logging.Ctx(ctx)

	if s.state.SetVolume(cfg.Volume) {
		log.Info().Int("volume", cfg.Volume).Msg("Volume changed")
	}
	metrics.SetVolume(s.state.Snapshot().Volume)

	if s.state.SetMaxLength(cfg.MaxLength()) {
		log.Info().Dur("max_length", cfg.MaxLength()).Msg("Max sound length changed")
	}

	current := s.state.Snapshot()
	if !cfg.HasSound() || cfg.CurrentSound == current.SoundID {
		// Nothing to download. A null sound keeps the last good asset.
		if s.state.ClearPending() {
			log.Info().Str("sound_id", current.SoundID).Msg("Server no longer requests a new sound")
		}
		metrics.SetSoundPending(false)
		return nil
	}

	s.setPhase(PhaseReconciling)
	if err := s.reconcile(ctx, cfg.CurrentSound); err != nil {
		return &cycleError{stage: stageAsset, err: err}
	}
	return nil
}

// reconcile downloads the asset for soundID and publishes it.
func (s *Synchronizer) reconcile(ctx context.Context, soundID string) error {
	log := logging.Ctx(ctx)

	s.state.MarkPending(soundID)
	metrics.SetSoundPending(true)
	log.Info().
		Str("sound_id", soundID).
		Str("previous_sound_id", s.state.Snapshot().SoundID).
		Msg("Sound changed, downloading asset")

	body, err := s.client.FetchAsset(ctx)
	if err != nil {
		return err
	}
	defer body.Close()

	path, err := s.store.Replace(body)
	if err != nil {
		return err
	}

	s.state.Publish(soundID, path)
	metrics.SetSoundPending(false)
	log.Info().Str("sound_id", soundID).Str("path", path).Msg("New sound published")
	return nil
}

func (s *Synchronizer) recordResult(start time.Time, err error) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()

	s.status.Cycles++
	s.status.LastAttempt = start
	if err != nil {
		s.status.ConsecutiveFailures++
		s.status.LastError = err.Error()
		return
	}
	s.status.ConsecutiveFailures = 0
	s.status.LastError = ""
	s.status.LastSuccess = start
}

func opOf(err error) string {
	var fe *faults.Error
	if errors.As(err, &fe) {
		return fe.Op
	}
	return "poll"
}
