// DingDong - Remote-Controlled Doorbell Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dingdong

// Package faults classifies every failure the agent can observe into one of a
// small set of kinds, each routed to its own recovery policy:
//
//   - KindConfig: missing or invalid startup configuration. Fatal, never retried.
//   - KindNetwork: transport failure or timeout reaching the server. Cycle skipped.
//   - KindProtocol: unexpected status code or response body. Cycle skipped.
//   - KindStorage: the asset file could not be written. Reconciliation aborted.
//   - KindHardware: edge source or audio device fault. Fatal to the trigger task.
//
// Callers build errors with the constructor for the kind and inspect them with
// errors.As or IsKind:
//
//	err := faults.Network("fetch_config", url, cause)
//	if faults.IsKind(err, faults.KindNetwork) { ... }
package faults

import (
	"errors"
	"fmt"
)

// Kind identifies the failure class of an Error.
type Kind int

const (
	// KindUnknown is the zero value and is never produced by the constructors.
	KindUnknown Kind = iota
	KindConfig
	KindNetwork
	KindProtocol
	KindStorage
	KindHardware
)

// String returns the lower-case name used in logs and metric labels.
func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindNetwork:
		return "network"
	case KindProtocol:
		return "protocol"
	case KindStorage:
		return "storage"
	case KindHardware:
		return "hardware"
	default:
		return "unknown"
	}
}

// Error is a classified agent failure.
type Error struct {
	Kind Kind

	// Op is the operation that failed, e.g. "fetch_config" or "replace_asset".
	Op string

	// Target is the URL, path, or device the operation was acting on.
	Target string

	// StatusCode is set for protocol errors caused by a non-success HTTP status.
	StatusCode int

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s error: %s", e.Kind, e.Op)
	if e.Target != "" {
		msg += " " + e.Target
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Config returns a KindConfig error.
func Config(op, target string, err error) *Error {
	return &Error{Kind: KindConfig, Op: op, Target: target, Err: err}
}

// Network returns a KindNetwork error.
func Network(op, target string, err error) *Error {
	return &Error{Kind: KindNetwork, Op: op, Target: target, Err: err}
}

// Protocol returns a KindProtocol error for a malformed response.
func Protocol(op, target string, err error) *Error {
	return &Error{Kind: KindProtocol, Op: op, Target: target, Err: err}
}

// Status returns a KindProtocol error carrying a non-success HTTP status code.
func Status(op, target string, code int) *Error {
	return &Error{
		Kind:       KindProtocol,
		Op:         op,
		Target:     target,
		StatusCode: code,
		Err:        fmt.Errorf("unexpected status %d", code),
	}
}

// Storage returns a KindStorage error.
func Storage(op, target string, err error) *Error {
	return &Error{Kind: KindStorage, Op: op, Target: target, Err: err}
}

// Hardware returns a KindHardware error.
func Hardware(op, target string, err error) *Error {
	return &Error{Kind: KindHardware, Op: op, Target: target, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// IsKind reports whether err's chain contains an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Retryable reports whether the failure is recovered by waiting for the next
// poll cycle rather than terminating a task.
func Retryable(err error) bool {
	switch KindOf(err) {
	case KindNetwork, KindProtocol, KindStorage:
		return true
	default:
		return false
	}
}
