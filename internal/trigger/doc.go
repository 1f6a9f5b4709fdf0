// DingDong - Remote-Controlled Doorbell Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dingdong

/*
Package trigger turns doorbell button presses into playback.

A Listener blocks on an EdgeSource. For every edge it reads one AgentState
snapshot and issues one play call with the snapshot's asset path, volume and
max length. No lock is held while playing, so a concurrent poll cycle never
waits on the button and the button never waits on the network.

Edge sources:

  - SysfsSource watches a Linux GPIO line through /sys/class/gpio for falling
    edges (the button pulls an idle-high line to ground). The pull-up itself
    is board configuration, for example a device tree overlay.
  - ConsoleSource treats every line read from an io.Reader as one press. It is
    meant for containers and development machines without GPIO.

A hardware fault from the edge source stops the Listener for good: Serve
returns an error wrapping suture.ErrDoNotRestart, and the rest of the agent
keeps polling.
*/
package trigger
