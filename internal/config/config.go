// DingDong - Remote-Controlled Doorbell Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dingdong

package config

import (
	"time"
)

// Config holds the agent configuration.
//
// Loading order (see Load):
//  1. Defaults from defaultConfig
//  2. Optional YAML file (CONFIG_PATH, then DefaultConfigPaths)
//  3. Environment variables
type Config struct {
	Agent    AgentConfig    `koanf:"agent"`
	Remote   RemoteConfig   `koanf:"remote"`
	Trigger  TriggerConfig  `koanf:"trigger"`
	Playback PlaybackConfig `koanf:"playback"`
	Asset    AssetConfig    `koanf:"asset"`
	Status   StatusConfig   `koanf:"status"`
	Logging  LoggingConfig  `koanf:"logging"`

	// File is the config file that was loaded, empty when running from env only.
	File string `koanf:"-"`
}

// AgentConfig holds the connection to the configuration server and the poll cadence.
type AgentConfig struct {
	// APIURL is the configuration server base URL, e.g. http://192.168.1.10:5000.
	APIURL string `koanf:"api_url" validate:"required,baseurl"`

	// PollIntervalSeconds is the poll period in whole seconds.
	PollIntervalSeconds int `koanf:"poll_interval" validate:"gte=1,lte=86400"`

	// RequestTimeout bounds each HTTP call to the server.
	RequestTimeout time.Duration `koanf:"request_timeout"`
}

// PollInterval returns the poll period as a duration.
func (a AgentConfig) PollInterval() time.Duration {
	return time.Duration(a.PollIntervalSeconds) * time.Second
}

// RemoteConfig tunes the circuit breaker around the configuration server client.
type RemoteConfig struct {
	BreakerEnabled bool `koanf:"breaker_enabled"`

	// BreakerFailures is the number of consecutive failures that opens the breaker.
	BreakerFailures uint32 `koanf:"breaker_failures" validate:"gte=1"`

	// BreakerTimeout is how long the breaker stays open. Zero derives it from
	// the poll interval so that every scheduled cycle can probe the server.
	BreakerTimeout time.Duration `koanf:"breaker_timeout"`
}

// TriggerConfig selects the button edge source.
type TriggerConfig struct {
	// Source is "gpio" for a sysfs GPIO line or "console" for stdin lines.
	Source string `koanf:"source" validate:"oneof=gpio console"`

	// Pin is the BCM GPIO number wired to the doorbell button.
	Pin int `koanf:"pin" validate:"gte=0,lte=1023"`

	// SysfsRoot is the GPIO sysfs class directory.
	SysfsRoot string `koanf:"sysfs_root"`

	// Debounce drops edges closer together than this. Zero disables it.
	Debounce time.Duration `koanf:"debounce"`
}

// PlaybackConfig selects the audio output.
type PlaybackConfig struct {
	// Engine is "exec" to spawn an external player or "log" to only log.
	Engine string `koanf:"engine" validate:"oneof=exec log"`

	// Command is the player binary for the exec engine.
	Command string `koanf:"command"`

	// Args are extra arguments passed before the volume flag and the file path.
	Args []string `koanf:"args"`
}

// AssetConfig locates the single downloaded sound file.
type AssetConfig struct {
	Dir      string `koanf:"dir" validate:"required"`
	FileName string `koanf:"file_name" validate:"required,excludesall=/\\"`
}

// StatusConfig controls the local status server.
type StatusConfig struct {
	// Addr is the listen address. Empty disables the server.
	Addr string `koanf:"addr" validate:"omitempty,hostname_port"`
}

// Enabled reports whether the status server should run.
func (s StatusConfig) Enabled() bool {
	return s.Addr != ""
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format" validate:"oneof=json console auto"`
	Caller bool   `koanf:"caller"`
}
