// DingDong - Remote-Controlled Doorbell Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dingdong

package playback

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/dingdong/internal/faults"
)

// Engine names accepted by New.
const (
	EngineExec = "exec"
	EngineLog  = "log"
)

// Request is one play call.
type Request struct {
	// Path is the sound file to play.
	Path string

	// Volume is the playback volume in percent, 0..100.
	Volume int

	// MaxLength stops the sound after this long. Zero plays it to the end.
	MaxLength time.Duration
}

// Engine plays sounds. Implementations are safe for concurrent use.
type Engine interface {
	// Play stops any sound in progress and starts req. It returns once the
	// new sound has started.
	Play(ctx context.Context, req Request) error

	// Stop stops the sound in progress, if any.
	Stop() error
}

// Options selects and configures an Engine.
type Options struct {
	Engine  string
	Command string
	Args    []string
}

// New returns the engine named by opts.Engine.
func New(opts Options) (Engine, error) {
	switch opts.Engine {
	case EngineExec, "":
		return NewExecPlayer(opts.Command, opts.Args), nil
	case EngineLog:
		return NewLogPlayer(), nil
	default:
		return nil, faults.Config("new_player", opts.Engine, fmt.Errorf("unknown playback engine %q", opts.Engine))
	}
}

func clampVolume(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
