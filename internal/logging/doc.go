// DingDong - Remote-Controlled Doorbell Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dingdong

/*
Package logging provides the zerolog-based structured logger used across the agent.

A usable JSON logger exists from package init, so configuration errors can be
logged before Init runs. main calls Init once the configuration is loaded:

	logging.Init(logging.Config{Level: "debug", Format: "console"})

	logging.Info().Str("api_url", url).Msg("Agent starting")
	logging.Error().Err(err).Str("op", "fetch_config").Msg("Poll failed")

Poll cycles and button presses carry a correlation ID through context:

	ctx = logging.ContextWithNewCorrelationID(ctx)
	logging.Ctx(ctx).Info().Msg("Cycle started")

The supervisor tree logs through NewSlogLogger, which adapts slog to the
same zerolog output.

Environment (read by internal/config):
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json, console (default: json)
  - LOG_CALLER: include caller file:line (default: false)
*/
package logging
