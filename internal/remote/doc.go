// DingDong - Remote-Controlled Doorbell Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dingdong

/*
Package remote talks to the doorbell configuration server.

The server exposes two read endpoints relative to API_URL:

	GET /config    -> {"Volume": 70, "CurrentSound": "bell1", "MaxSoundLength": 10}
	GET /download  -> raw bytes of the current sound (audio/mpeg)

HTTPClient performs one request per call with no internal retry; the poll
cycle is the retry. Failures are classified with the faults package:

  - transport failures and timeouts are network faults
  - non-200 responses and malformed bodies are protocol faults

CircuitBreakerClient decorates any Client with sony/gobreaker. While the
breaker is open calls fail fast with a network fault wrapping
gobreaker.ErrOpenState.

# Wire Format

The decoder accepts what deployed servers actually send:
  - an optional {"config": {...}} envelope
  - values stored as text ("70" as well as 70)
  - numeric sound ids
  - the legacy lowercase keys volume, currentSound and maxSoundLength
    (the capitalized key wins when both are present)
*/
package remote
