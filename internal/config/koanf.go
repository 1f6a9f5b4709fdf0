// DingDong - Remote-Controlled Doorbell Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dingdong

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/dingdong/internal/faults"
)

// DefaultConfigPaths lists the config files searched in order. The first one found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/dingdong/config.yaml",
	"/etc/dingdong/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns the built-in defaults. API_URL has none.
func defaultConfig() *Config {
	return &Config{
		Agent: AgentConfig{
			APIURL:              "",
			PollIntervalSeconds: 30,
			RequestTimeout:      10 * time.Second,
		},
		Remote: RemoteConfig{
			BreakerEnabled:  true,
			BreakerFailures: 3,
			BreakerTimeout:  0,
		},
		Trigger: TriggerConfig{
			Source:    "gpio",
			Pin:       16,
			SysfsRoot: "/sys/class/gpio",
			Debounce:  0,
		},
		Playback: PlaybackConfig{
			Engine:  "exec",
			Command: "mpg123",
			Args:    []string{"-q"},
		},
		Asset: AssetConfig{
			Dir:      ".",
			FileName: "CurrentSound.mp3",
		},
		Status: StatusConfig{
			Addr: "127.0.0.1:9180",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in increasing priority, then validates it. Every failure is a
// config fault.
func Load() (*Config, error) {
	return load(findConfigFile())
}

// LoadFile is Load with an explicit config file, e.g. from a command-line
// flag. Unlike CONFIG_PATH, a missing file is an error.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return Load()
	}
	if _, err := os.Stat(path); err != nil {
		return nil, faults.Config("load_file", path, err)
	}
	return load(path)
}

func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, faults.Config("load_defaults", "", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, faults.Config("load_file", configPath, err)
		}
	}

	// API_URL -> agent.api_url, DOORBELL_PIN -> trigger.pin, ...
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, faults.Config("load_env", "", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, faults.Config("load_env", "", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, faults.Config("unmarshal", "", err)
	}
	cfg.File = configPath

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile returns the first existing config file, or "" if there is none.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated env values.
var sliceConfigPaths = []string{
	"playback.args",
}

// processSliceFields converts comma-separated strings to slices for known slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	"api_url":                  "agent.api_url",
	"poll_interval":            "agent.poll_interval",
	"request_timeout":          "agent.request_timeout",
	"circuit_breaker_enabled":  "remote.breaker_enabled",
	"circuit_breaker_failures": "remote.breaker_failures",
	"circuit_breaker_timeout":  "remote.breaker_timeout",
	"doorbell_pin":             "trigger.pin",
	"trigger_source":           "trigger.source",
	"trigger_debounce":         "trigger.debounce",
	"gpio_sysfs_root":          "trigger.sysfs_root",
	"player":                   "playback.engine",
	"player_command":           "playback.command",
	"player_args":              "playback.args",
	"data_dir":                 "asset.dir",
	"sound_file":               "asset.file_name",
	"status_addr":              "status.addr",
	"log_level":                "logging.level",
	"log_format":               "logging.format",
	"log_caller":               "logging.caller",
}

// envTransformFunc maps an environment variable name to its koanf path.
// Unmapped variables return "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// WatchConfigFile calls callback whenever the config file changes.
// The caller reloads and applies whatever settings it supports changing live.
func WatchConfigFile(path string, callback func()) error {
	provider := file.Provider(path)
	return provider.Watch(func(_ interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
