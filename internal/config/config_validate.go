// DingDong - Remote-Controlled Doorbell Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dingdong

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/dingdong/internal/faults"
	"github.com/tomtom215/dingdong/internal/logging"
	"github.com/tomtom215/dingdong/internal/validation"
)

// Validate checks the configuration. Failures are config faults.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return faults.Config("validate_config", "", err)
	}

	checks := []func() error{
		c.validateAPIURL,
		c.validateTimeouts,
		c.validateTrigger,
		c.validatePlayback,
		c.validateLogging,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return faults.Config("validate_config", "", err)
		}
	}
	return nil
}

func (c *Config) validateAPIURL() error {
	return validateHTTPURL(c.Agent.APIURL, "API_URL")
}

func (c *Config) validateTimeouts() error {
	if c.Agent.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.Agent.RequestTimeout)
	}
	if c.Remote.BreakerTimeout < 0 {
		return fmt.Errorf("CIRCUIT_BREAKER_TIMEOUT must not be negative, got %s", c.Remote.BreakerTimeout)
	}
	// An open breaker must have moved to half-open by the next poll slot.
	if c.Remote.BreakerEnabled && c.Remote.BreakerTimeout >= c.Agent.PollInterval() {
		return fmt.Errorf("CIRCUIT_BREAKER_TIMEOUT %s must be shorter than POLL_INTERVAL %s",
			c.Remote.BreakerTimeout, c.Agent.PollInterval())
	}
	return nil
}

func (c *Config) validateTrigger() error {
	if c.Trigger.Debounce < 0 {
		return fmt.Errorf("TRIGGER_DEBOUNCE must not be negative, got %s", c.Trigger.Debounce)
	}
	if c.Trigger.Source == "gpio" && c.Trigger.SysfsRoot == "" {
		return fmt.Errorf("GPIO_SYSFS_ROOT is required for the gpio trigger source")
	}
	return nil
}

func (c *Config) validatePlayback() error {
	if c.Playback.Engine == "exec" && c.Playback.Command == "" {
		return fmt.Errorf("PLAYER_COMMAND is required for the exec player")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL %q is not a known level", c.Logging.Level)
	}
	return nil
}

// BreakerOpenTimeout returns how long an open breaker rejects calls.
// When unset it is half the poll interval. Either way it is below the poll
// interval, so the next scheduled cycle after the breaker opens is let
// through as a half-open probe.
func (c *Config) BreakerOpenTimeout() time.Duration {
	interval := c.Agent.PollInterval()
	if c.Remote.BreakerTimeout > 0 && c.Remote.BreakerTimeout < interval {
		return c.Remote.BreakerTimeout
	}
	return interval / 2
}

// LoggingSettings converts to the logging package configuration.
func (c *Config) LoggingSettings() logging.Config {
	return logging.Config{
		Level:  c.Logging.Level,
		Format: c.Logging.Format,
		Caller: c.Logging.Caller,
	}
}
