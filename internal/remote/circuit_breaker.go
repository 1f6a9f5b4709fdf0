// DingDong - Remote-Controlled Doorbell Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dingdong

package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/dingdong/internal/faults"
	"github.com/tomtom215/dingdong/internal/logging"
	"github.com/tomtom215/dingdong/internal/metrics"
)

// BreakerSettings configures CircuitBreakerClient.
type BreakerSettings struct {
	// Name labels the breaker in logs and metrics.
	Name string

	// Failures is the number of consecutive failures that opens the breaker.
	Failures uint32

	// Timeout is how long the breaker stays open before a half-open probe.
	// Keep it below the poll interval so each scheduled cycle can probe.
	Timeout time.Duration
}

// CircuitBreakerClient wraps a Client with the circuit breaker pattern.
//
// Only transport failures and 5xx responses count against the breaker. A
// malformed body or a 4xx means the server is reachable and answering.
type CircuitBreakerClient struct {
	client Client
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

// NewCircuitBreakerClient wraps client.
func NewCircuitBreakerClient(client Client, s BreakerSettings) *CircuitBreakerClient {
	if s.Name == "" {
		s.Name = "config-server"
	}
	if s.Failures == 0 {
		s.Failures = 3
	}
	failures := s.Failures

	metrics.CircuitBreakerState.WithLabelValues(s.Name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(s.Name).Set(0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: 1, // one probe in half-open; the agent only has one caller
		Interval:    0, // counts reset only on state change
		Timeout:     s.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			trip := counts.ConsecutiveFailures >= failures
			if trip {
				logging.Warn().
					Str("breaker", s.Name).
					Uint32("consecutive_failures", counts.ConsecutiveFailures).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return trip
		},

		IsSuccessful: func(err error) bool {
			return !countsAsFailure(err)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &CircuitBreakerClient{client: client, cb: cb, name: s.Name}
}

// countsAsFailure reports whether err says the server is unreachable or unhealthy.
// Caller cancellation is not the server's fault.
func countsAsFailure(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var fe *faults.Error
	if errors.As(err, &fe) && fe.Kind == faults.KindProtocol {
		return fe.StatusCode >= http.StatusInternalServerError
	}
	return true
}

// execute runs fn through the breaker. A rejected call is a network fault
// wrapping gobreaker.ErrOpenState or gobreaker.ErrTooManyRequests.
func (c *CircuitBreakerClient) execute(op string, fn func() (interface{}, error)) (interface{}, error) {
	result, err := c.cb.Execute(fn)
	if err == nil {
		metrics.CircuitBreakerRequests.WithLabelValues(c.name, "success").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(c.name).Set(0)
		return result, nil
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.CircuitBreakerRequests.WithLabelValues(c.name, "rejected").Inc()
		return nil, faults.Network(op, c.name, err)
	}

	metrics.CircuitBreakerRequests.WithLabelValues(c.name, "failure").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(c.name).Set(float64(c.cb.Counts().ConsecutiveFailures))
	return nil, err
}

// castResult type-asserts a breaker result.
func castResult[T any](result interface{}, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

// FetchConfig implements Client.
func (c *CircuitBreakerClient) FetchConfig(ctx context.Context) (RemoteConfig, error) {
	return castResult[RemoteConfig](c.execute("fetch_config", func() (interface{}, error) {
		return c.client.FetchConfig(ctx)
	}))
}

// FetchAsset implements Client.
func (c *CircuitBreakerClient) FetchAsset(ctx context.Context) (io.ReadCloser, error) {
	return castResult[io.ReadCloser](c.execute("download_asset", func() (interface{}, error) {
		rc, err := c.client.FetchAsset(ctx)
		if err != nil {
			return nil, err
		}
		return rc, nil
	}))
}

// State returns the breaker state as a string for the status endpoint.
func (c *CircuitBreakerClient) State() string {
	return stateToString(c.cb.State())
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
