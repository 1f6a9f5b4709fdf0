// DingDong - Remote-Controlled Doorbell Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dingdong

package trigger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/thejerf/suture/v4"
	"golang.org/x/time/rate"

	"github.com/tomtom215/dingdong/internal/faults"
	"github.com/tomtom215/dingdong/internal/logging"
	"github.com/tomtom215/dingdong/internal/metrics"
	"github.com/tomtom215/dingdong/internal/playback"
	"github.com/tomtom215/dingdong/internal/state"
)

// EdgeSource delivers button presses.
type EdgeSource interface {
	// WaitForEdge blocks until the next press or until ctx is done.
	WaitForEdge(ctx context.Context) error

	// Close releases the underlying device.
	Close() error
}

// Player is the part of playback.Engine the listener needs.
type Player interface {
	Play(ctx context.Context, req playback.Request) error
}

// Options configures a Listener.
type Options struct {
	Source EdgeSource
	Player Player
	State  *state.AgentState

	// Debounce drops presses closer together than this. Zero disables it.
	Debounce time.Duration
}

// Stats summarizes the presses seen so far.
type Stats struct {
	Presses     uint64    `json:"presses"`
	LastPress   time.Time `json:"last_press,omitempty"`
	LastOutcome string    `json:"last_outcome,omitempty"`
}

// Listener waits for presses and plays the current sound.
type Listener struct {
	source  EdgeSource
	player  Player
	state   *state.AgentState
	limiter *rate.Limiter

	mu    sync.Mutex
	stats Stats
}

// NewListener creates a Listener.
func NewListener(opts Options) *Listener {
	l := &Listener{
		source: opts.Source,
		player: opts.Player,
		state:  opts.State,
	}
	if opts.Debounce > 0 {
		l.limiter = rate.NewLimiter(rate.Every(opts.Debounce), 1)
	}
	return l
}

// String implements fmt.Stringer for the supervisor.
func (l *Listener) String() string {
	return "trigger-listener"
}

// Stats returns a copy of the press statistics.
func (l *Listener) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stats
}

// Serve waits for presses until ctx is canceled. It implements suture.Service.
func (l *Listener) Serve(ctx context.Context) error {
	log := logging.WithComponent("trigger")
	log.Info().Msg("Waiting for doorbell presses")

	for {
		err := l.source.WaitForEdge(ctx)
		if ctx.Err() != nil {
			log.Info().Msg("Trigger listener stopped")
			return nil
		}
		if err != nil {
			metrics.RecordError("wait_for_edge", err)
			if faults.IsKind(err, faults.KindHardware) {
				log.Error().Err(err).Msg("Edge source failed, doorbell button disabled until restart")
				return fmt.Errorf("%w: %w", suture.ErrDoNotRestart, err)
			}
			return err
		}
		l.handleEdge(ctx)
	}
}

// handleEdge plays the current sound for one press and returns the outcome
// label recorded for it.
func (l *Listener) handleEdge(ctx context.Context) string {
	if l.limiter != nil && !l.limiter.Allow() {
		logging.Debug().Msg("Press ignored inside debounce window")
		return l.record(metrics.TriggerDebounced)
	}

	ctx = logging.ContextWithNewCorrelationID(ctx)
	log := logging.Ctx(ctx)

	// One snapshot per press. Everything below uses only this copy.
	snap := l.state.Snapshot()

	outcome := metrics.TriggerPlayed
	switch {
	case !snap.HasAsset():
		outcome = metrics.TriggerNoAsset
		log.Info().
			Str("pending_sound_id", snap.PendingSoundID).
			Msg("Doorbell pressed but no sound has been downloaded yet")
	default:
		err := l.player.Play(ctx, playback.Request{
			Path:      snap.AssetPath,
			Volume:    snap.Volume,
			MaxLength: snap.MaxLength,
		})
		if err != nil {
			outcome = metrics.TriggerPlaybackFailed
			metrics.RecordError("play", err)
			log.Warn().Err(err).Str("path", snap.AssetPath).Msg("Playback failed")
			break
		}
		log.Info().
			Str("sound_id", snap.SoundID).
			Int("volume", snap.Volume).
			Msg("Doorbell pressed, playing sound")
	}

	return l.record(outcome)
}

// record counts one press with its outcome and returns the outcome.
func (l *Listener) record(outcome string) string {
	metrics.RecordTrigger(outcome)
	l.mu.Lock()
	l.stats.Presses++
	l.stats.LastPress = time.Now()
	l.stats.LastOutcome = outcome
	l.mu.Unlock()
	return outcome
}
