// DingDong - Remote-Controlled Doorbell Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dingdong

package trigger

import (
	"bufio"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/tomtom215/dingdong/internal/faults"
)

// errConsoleClosed is reported once the console reader is exhausted.
var errConsoleClosed = errors.New("console input closed")

// ConsoleSource reports one edge per input line.
type ConsoleSource struct {
	lines chan struct{}
	done  chan struct{}
	stop  chan struct{}
	err   error

	closeOnce sync.Once
	closer    io.Closer
}

// NewConsoleSource starts reading r. If r is also an io.Closer, Close closes it.
func NewConsoleSource(r io.Reader) *ConsoleSource {
	s := &ConsoleSource{
		lines: make(chan struct{}),
		done:  make(chan struct{}),
		stop:  make(chan struct{}),
	}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	go s.read(r)
	return s
}

func (s *ConsoleSource) read(r io.Reader) {
	defer close(s.done)
	if r == nil {
		s.err = errConsoleClosed
		return
	}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case s.lines <- struct{}{}:
		case <-s.stop:
			s.err = errConsoleClosed
			return
		}
	}
	s.err = scanner.Err()
	if s.err == nil {
		s.err = errConsoleClosed
	}
}

// WaitForEdge returns when a line is read. A closed or failing reader is a
// hardware fault.
func (s *ConsoleSource) WaitForEdge(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.lines:
		return nil
	case <-s.done:
		return faults.Hardware("wait_for_edge", "console", s.err)
	}
}

// Close closes the underlying reader when it supports closing.
func (s *ConsoleSource) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.stop)
		if s.closer != nil {
			err = s.closer.Close()
		}
	})
	return err
}
