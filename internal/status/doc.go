// DingDong - Remote-Controlled Doorbell Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dingdong

/*
Package status serves the agent's local, read-only HTTP surface.

Routes:

	GET /healthz   liveness, always 200 while the process runs
	GET /status    JSON view of AgentState, the poll loop and the button
	GET /metrics   Prometheus metrics

The server binds to loopback by default and exposes no write operations.
*/
package status
