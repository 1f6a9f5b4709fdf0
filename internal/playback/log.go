// DingDong - Remote-Controlled Doorbell Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dingdong

package playback

import (
	"context"
	"sync/atomic"

	"github.com/tomtom215/dingdong/internal/logging"
	"github.com/tomtom215/dingdong/internal/metrics"
)

// LogPlayer logs play requests instead of producing sound.
type LogPlayer struct {
	plays atomic.Uint64
}

// NewLogPlayer returns a LogPlayer.
func NewLogPlayer() *LogPlayer {
	return &LogPlayer{}
}

// Play logs req.
func (p *LogPlayer) Play(ctx context.Context, req Request) error {
	n := p.plays.Add(1)
	logging.Ctx(ctx).Info().
		Str("path", req.Path).
		Int("volume", clampVolume(req.Volume)).
		Dur("max_length", req.MaxLength).
		Uint64("play", n).
		Msg("Ding dong")
	metrics.RecordPlayback(EngineLog, nil)
	return nil
}

// Stop does nothing.
func (p *LogPlayer) Stop() error { return nil }

// Plays returns how many requests were logged.
func (p *LogPlayer) Plays() uint64 {
	return p.plays.Load()
}
