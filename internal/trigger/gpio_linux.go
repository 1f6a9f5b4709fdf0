// DingDong - Remote-Controlled Doorbell Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dingdong

//go:build linux

package trigger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"github.com/tomtom215/dingdong/internal/faults"
	"github.com/tomtom215/dingdong/internal/logging"
)

// DefaultSysfsRoot is the GPIO sysfs class directory.
const DefaultSysfsRoot = "/sys/class/gpio"

const (
	// pollTimeoutMillis bounds each poll(2) so cancellation is noticed promptly.
	pollTimeoutMillis = 100

	// exportSettle is how long to wait for udev to make a freshly exported
	// line writable.
	exportSettle = time.Second
)

// SysfsSource reports falling edges on one GPIO line.
type SysfsSource struct {
	root     string
	pin      int
	dir      string
	fd       int
	exported bool
	buf      [8]byte
}

// NewSysfsSource exports pin if needed, configures it as an input that
// interrupts on falling edges, and opens its value file.
func NewSysfsSource(root string, pin int) (*SysfsSource, error) {
	if root == "" {
		root = DefaultSysfsRoot
	}
	s := &SysfsSource{
		root: root,
		pin:  pin,
		dir:  filepath.Join(root, "gpio"+strconv.Itoa(pin)),
		fd:   -1,
	}

	if err := s.export(); err != nil {
		return nil, err
	}
	if err := writeAttr(s.dir, "direction", "in"); err != nil {
		return nil, s.fail("set_gpio_direction", err)
	}
	if err := writeAttr(s.dir, "edge", "falling"); err != nil {
		return nil, s.fail("set_gpio_edge", err)
	}

	valuePath := filepath.Join(s.dir, "value")
	fd, err := unix.Open(valuePath, unix.O_RDONLY|unix.O_CLOEXEC|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, s.fail("open_gpio_value", err)
	}
	s.fd = fd

	// Reading the value once clears any edge latched before we started.
	if _, err := s.readValue(); err != nil {
		_ = s.Close()
		return nil, err
	}

	logging.Info().
		Int("pin", pin).
		Str("path", valuePath).
		Msg("GPIO edge source ready")
	return s, nil
}

func (s *SysfsSource) export() error {
	if _, err := os.Stat(s.dir); err == nil {
		return nil
	}
	if err := writeAttr(s.root, "export", strconv.Itoa(s.pin)); err != nil && !errors.Is(err, unix.EBUSY) {
		return faults.Hardware("export_gpio", filepath.Join(s.root, "export"), err)
	}
	s.exported = true

	deadline := time.Now().Add(exportSettle)
	for {
		if _, err := os.Stat(filepath.Join(s.dir, "direction")); err == nil {
			return nil
		} else if time.Now().After(deadline) {
			return faults.Hardware("export_gpio", s.dir, err)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func (s *SysfsSource) fail(op string, err error) error {
	s.unexport()
	return faults.Hardware(op, s.dir, err)
}

// WaitForEdge blocks until the kernel reports an edge on the line.
func (s *SysfsSource) WaitForEdge(ctx context.Context) error {
	fds := []unix.PollFd{{Fd: int32(s.fd), Events: unix.POLLPRI | unix.POLLERR}}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fds[0].Revents = 0
		n, err := unix.Poll(fds, pollTimeoutMillis)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return faults.Hardware("wait_for_edge", s.dir, err)
		}
		if n == 0 {
			continue
		}
		if fds[0].Revents&unix.POLLNVAL != 0 {
			return faults.Hardware("wait_for_edge", s.dir, errors.New("gpio value file descriptor is invalid"))
		}

		// The edge stays latched until the value is re-read from offset 0.
		value, err := s.readValue()
		if err != nil {
			return err
		}
		logging.Debug().Int("pin", s.pin).Str("value", value).Msg("GPIO edge")
		return nil
	}
}

func (s *SysfsSource) readValue() (string, error) {
	if _, err := unix.Seek(s.fd, 0, 0); err != nil {
		return "", faults.Hardware("read_gpio_value", s.dir, err)
	}
	n, err := unix.Read(s.fd, s.buf[:])
	if err != nil {
		return "", faults.Hardware("read_gpio_value", s.dir, err)
	}
	return strings.TrimSpace(string(s.buf[:n])), nil
}

// Close closes the value file and unexports the line if this source exported it.
func (s *SysfsSource) Close() error {
	var err error
	if s.fd >= 0 {
		err = unix.Close(s.fd)
		s.fd = -1
	}
	s.unexport()
	return err
}

func (s *SysfsSource) unexport() {
	if !s.exported {
		return
	}
	s.exported = false
	if err := writeAttr(s.root, "unexport", strconv.Itoa(s.pin)); err != nil {
		logging.Debug().Err(err).Int("pin", s.pin).Msg("GPIO unexport failed")
	}
}

func writeAttr(dir, name, value string) error {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(value), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
