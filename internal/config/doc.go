// DingDong - Remote-Controlled Doorbell Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dingdong

/*
Package config loads and validates the agent configuration with koanf v2.

# Configuration Sources

In increasing priority:
  - Built-in defaults
  - A YAML file named by CONFIG_PATH, or config.yaml / /etc/dingdong/config.yaml
  - Environment variables

# Environment Variables

Server:
  - API_URL: configuration server base URL (required)
  - POLL_INTERVAL: poll period in seconds (default: 30)
  - REQUEST_TIMEOUT: per-request timeout (default: 10s)
  - CIRCUIT_BREAKER_ENABLED: wrap the client in a circuit breaker (default: true)
  - CIRCUIT_BREAKER_FAILURES: consecutive failures that open it (default: 3)
  - CIRCUIT_BREAKER_TIMEOUT: open duration (default: half the poll interval)

Button:
  - TRIGGER_SOURCE: gpio or console (default: gpio)
  - DOORBELL_PIN: GPIO number (default: 16)
  - GPIO_SYSFS_ROOT: sysfs class directory (default: /sys/class/gpio)
  - TRIGGER_DEBOUNCE: minimum spacing between presses (default: 0, off)

Audio:
  - PLAYER: exec or log (default: exec)
  - PLAYER_COMMAND: player binary (default: mpg123)
  - PLAYER_ARGS: comma-separated extra arguments (default: -q)
  - DATA_DIR: directory holding the sound file (default: .)
  - SOUND_FILE: sound file name (default: CurrentSound.mp3)

Observability:
  - STATUS_ADDR: status server listen address, empty disables (default: 127.0.0.1:9180)
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# YAML Example

	agent:
	  api_url: http://192.168.1.10:5000
	  poll_interval: 15
	trigger:
	  pin: 16
	  debounce: 300ms
	playback:
	  command: mpg123

# Errors

Load returns a faults.KindConfig error for anything missing or malformed.
The agent treats that as fatal and exits before touching the network.
*/
package config
