// DingDong - Remote-Controlled Doorbell Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dingdong

package main

import (
	"os"

	"github.com/tomtom215/dingdong/internal/config"
	"github.com/tomtom215/dingdong/internal/logging"
	"github.com/tomtom215/dingdong/internal/playback"
	"github.com/tomtom215/dingdong/internal/remote"
	"github.com/tomtom215/dingdong/internal/state"
	"github.com/tomtom215/dingdong/internal/trigger"
)

// newRemoteClient builds the configuration server client. The breaker is nil
// when disabled.
func newRemoteClient(cfg *config.Config) (remote.Client, *remote.CircuitBreakerClient) {
	httpClient := remote.NewHTTPClient(remote.Options{
		BaseURL:   cfg.Agent.BaseURL(),
		Timeout:   cfg.Agent.RequestTimeout,
		UserAgent: "dingdong-agent/" + version,
	})
	if !cfg.Remote.BreakerEnabled {
		logging.Info().Msg("Circuit breaker disabled")
		return httpClient, nil
	}

	breaker := remote.NewCircuitBreakerClient(httpClient, remote.BreakerSettings{
		Name:     "config-server",
		Failures: cfg.Remote.BreakerFailures,
		Timeout:  cfg.BreakerOpenTimeout(),
	})
	return breaker, breaker
}

// newListener opens the edge source. A source that cannot be opened leaves
// the agent running without a button, the same as a source failing later.
func newListener(cfg *config.Config, st *state.AgentState, player playback.Engine) (*trigger.Listener, trigger.EdgeSource) {
	source, err := trigger.NewSource(trigger.SourceOptions{
		Source:    cfg.Trigger.Source,
		Pin:       cfg.Trigger.Pin,
		SysfsRoot: cfg.Trigger.SysfsRoot,
		Console:   os.Stdin,
	})
	if err != nil {
		logging.Error().
			Err(err).
			Str("source", cfg.Trigger.Source).
			Int("pin", cfg.Trigger.Pin).
			Msg("Doorbell button unavailable, continuing to sync without it")
		return nil, nil
	}

	return trigger.NewListener(trigger.Options{
		Source:   source,
		Player:   player,
		State:    st,
		Debounce: cfg.Trigger.Debounce,
	}), source
}

// watchConfig applies log level changes from the config file without a
// restart. Other settings are read at startup only.
func watchConfig(cfg *config.Config) {
	current := cfg.Logging.Level
	err := config.WatchConfigFile(cfg.File, func() {
		next, err := config.LoadFile(cfg.File)
		if err != nil {
			logging.Warn().Err(err).Str("file", cfg.File).Msg("Ignoring invalid config file change")
			return
		}
		if next.Logging.Level != current {
			logging.SetLevelString(next.Logging.Level)
			logging.Info().
				Str("from", current).
				Str("to", next.Logging.Level).
				Msg("Log level changed")
			current = next.Logging.Level
		}
		if next.Agent != cfg.Agent || next.Trigger != cfg.Trigger {
			logging.Warn().Msg("Config file changed settings that take effect after a restart")
		}
	})
	if err != nil {
		logging.Warn().Err(err).Str("file", cfg.File).Msg("Config file watch unavailable")
	}
}
