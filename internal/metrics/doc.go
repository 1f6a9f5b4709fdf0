// DingDong - Remote-Controlled Doorbell Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dingdong

/*
Package metrics provides Prometheus metrics for the doorbell agent.

All collectors are registered on the default registry through promauto and are
served by the status server at /metrics:

	curl http://127.0.0.1:9180/metrics

# Available Metrics

Poll cycles:
  - dingdong_poll_cycles_total{result}
  - dingdong_poll_duration_seconds
  - dingdong_poll_last_success_timestamp
  - dingdong_poll_skipped_slots_total

Remote API:
  - dingdong_remote_requests_total{endpoint, result}
  - dingdong_remote_request_duration_seconds{endpoint}

Asset and state:
  - dingdong_asset_replacements_total{result}
  - dingdong_asset_bytes
  - dingdong_volume_percent
  - dingdong_sound_pending

Trigger:
  - dingdong_trigger_edges_total{outcome}

Errors and circuit breaker:
  - dingdong_errors_total{kind, op}
  - circuit_breaker_state{name}
  - circuit_breaker_requests_total{name, result}
  - circuit_breaker_transitions_total{name, from, to}

# Thread Safety

All recording helpers are safe for concurrent use.
*/
package metrics
