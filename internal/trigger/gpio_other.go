// DingDong - Remote-Controlled Doorbell Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dingdong

//go:build !linux

package trigger

import (
	"context"
	"errors"

	"github.com/tomtom215/dingdong/internal/faults"
)

// DefaultSysfsRoot is the GPIO sysfs class directory.
const DefaultSysfsRoot = "/sys/class/gpio"

// SysfsSource is only available on Linux.
type SysfsSource struct{}

// NewSysfsSource always fails outside Linux.
func NewSysfsSource(root string, _ int) (*SysfsSource, error) {
	return nil, faults.Hardware("open_edge_source", root, errors.New("sysfs GPIO requires linux"))
}

func (*SysfsSource) WaitForEdge(context.Context) error {
	return faults.Hardware("wait_for_edge", "gpio", errors.New("sysfs GPIO requires linux"))
}

func (*SysfsSource) Close() error { return nil }
