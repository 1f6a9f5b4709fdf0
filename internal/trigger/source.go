// DingDong - Remote-Controlled Doorbell Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dingdong

package trigger

import (
	"fmt"
	"io"

	"github.com/tomtom215/dingdong/internal/faults"
)

// Source names accepted by NewSource.
const (
	SourceGPIO    = "gpio"
	SourceConsole = "console"
)

// SourceOptions selects and configures an EdgeSource.
type SourceOptions struct {
	Source    string
	Pin       int
	SysfsRoot string

	// Console is read by the console source, normally os.Stdin.
	Console io.Reader
}

// NewSource opens the edge source named by opts.Source.
func NewSource(opts SourceOptions) (EdgeSource, error) {
	switch opts.Source {
	case SourceGPIO, "":
		src, err := NewSysfsSource(opts.SysfsRoot, opts.Pin)
		if err != nil {
			return nil, err
		}
		return src, nil
	case SourceConsole:
		return NewConsoleSource(opts.Console), nil
	default:
		return nil, faults.Config("open_edge_source", opts.Source, fmt.Errorf("unknown trigger source %q", opts.Source))
	}
}
