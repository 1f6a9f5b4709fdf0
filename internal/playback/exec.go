// DingDong - Remote-Controlled Doorbell Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dingdong

package playback

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/tomtom215/dingdong/internal/faults"
	"github.com/tomtom215/dingdong/internal/logging"
	"github.com/tomtom215/dingdong/internal/metrics"
)

// DefaultCommand is the player binary used when none is configured.
const DefaultCommand = "mpg123"

// fullScale is the mpg123 -f value for 100% volume.
const fullScale = 32768

// killWait bounds how long Play waits for a killed player to release the
// audio device before starting the next one.
const killWait = 500 * time.Millisecond

// ExecPlayer plays sounds through an external player process.
type ExecPlayer struct {
	command string
	args    []string

	// argv builds the argument list for one request.
	argv func(args []string, req Request) []string

	mu      sync.Mutex
	current *process
}

// process is one running player.
type process struct {
	cmd   *exec.Cmd
	done  chan struct{}
	timer *time.Timer
}

// NewExecPlayer returns a player that runs command with args, followed by the
// volume flag and the file path.
func NewExecPlayer(command string, args []string) *ExecPlayer {
	if command == "" {
		command = DefaultCommand
	}
	return &ExecPlayer{
		command: command,
		args:    append([]string(nil), args...),
		argv:    mpg123Args,
	}
}

// mpg123Args appends "-f <scale> <path>" to the configured arguments.
func mpg123Args(args []string, req Request) []string {
	scale := clampVolume(req.Volume) * fullScale / 100
	out := make([]string, 0, len(args)+3)
	out = append(out, args...)
	return append(out, "-f", strconv.Itoa(scale), req.Path)
}

// Play kills the previous player and starts a new one for req.
func (p *ExecPlayer) Play(ctx context.Context, req Request) (err error) {
	defer func() { metrics.RecordPlayback(EngineExec, err) }()

	if _, err := os.Stat(req.Path); err != nil {
		return faults.Hardware("play", req.Path, fmt.Errorf("sound file: %w", err))
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked("replaced")

	// The player outlives the call, so it is not bound to ctx.
	cmd := exec.Command(p.command, p.argv(p.args, req)...)
	configureProcess(cmd)
	if err := cmd.Start(); err != nil {
		return faults.Hardware("start_player", p.command, err)
	}

	proc := &process{cmd: cmd, done: make(chan struct{})}
	if req.MaxLength > 0 {
		proc.timer = time.AfterFunc(req.MaxLength, func() {
			logging.Debug().Int("pid", cmd.Process.Pid).Dur("max_length", req.MaxLength).Msg("Sound reached max length")
			metrics.RecordPlaybackInterrupted("max_length")
			killProcess(cmd)
		})
	}
	p.current = proc
	go p.reap(proc)

	logging.Ctx(ctx).Debug().
		Str("command", p.command).
		Int("pid", cmd.Process.Pid).
		Int("volume", req.Volume).
		Str("path", req.Path).
		Msg("Player started")
	return nil
}

// reap waits for the player to exit so it does not linger as a zombie.
func (p *ExecPlayer) reap(proc *process) {
	err := proc.cmd.Wait()
	if proc.timer != nil {
		proc.timer.Stop()
	}
	close(proc.done)

	p.mu.Lock()
	if p.current == proc {
		p.current = nil
	}
	p.mu.Unlock()

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		logging.Warn().Err(err).Str("command", p.command).Msg("Player wait failed")
		return
	}
	if exitErr != nil && exitErr.ExitCode() > 0 {
		logging.Warn().Int("exit_code", exitErr.ExitCode()).Str("command", p.command).Msg("Player exited with error")
	}
}

// Stop kills the running player, if any.
func (p *ExecPlayer) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked("stopped")
	return nil
}

// stopLocked kills the current player and waits briefly for it to exit.
// reap closes done before it takes mu, so waiting here cannot deadlock.
func (p *ExecPlayer) stopLocked(reason string) {
	proc := p.current
	if proc == nil {
		return
	}
	p.current = nil
	if proc.timer != nil {
		proc.timer.Stop()
	}
	killProcess(proc.cmd)
	metrics.RecordPlaybackInterrupted(reason)

	select {
	case <-proc.done:
	case <-time.After(killWait):
		logging.Warn().Int("pid", proc.cmd.Process.Pid).Msg("Player did not exit after kill")
	}
}
