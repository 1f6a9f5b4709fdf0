// DingDong - Remote-Controlled Doorbell Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dingdong

/*
Package supervisor runs the agent's long-lived tasks under suture v4.

# Overview

The tree keeps each task behind its own child supervisor:

	RootSupervisor ("dingdong")
	├── SyncSupervisor ("sync-layer")
	│   └── Synchronizer
	├── TriggerSupervisor ("trigger-layer")
	│   └── TriggerListener (absent when no edge source could be opened)
	└── StatusSupervisor ("status-layer")
	    └── HTTPServerService (if STATUS_ADDR is set)

A crashing service is restarted with suture's backoff. A service that
returns an error wrapping suture.ErrDoNotRestart is removed from its
supervisor and stays down; its siblings keep running. The trigger listener
uses this for hardware faults, so the synchronizer keeps tracking the server
after the button line is gone.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddSyncService(synchronizer)
	tree.AddTriggerService(listener)
	tree.AddStatusService(services.NewHTTPServerService("status-server", srv, 0))

	errCh := tree.ServeBackground(ctx)
	<-ctx.Done()
	<-errCh

Supervisor events (start, failure, backoff, stop timeouts) are logged through
the sutureslog handler, which writes to the zerolog-backed slog logger.

# Testing

MockService implements suture.Service with configurable failures and counts
how often it was served. Tests use it to check restart and isolation without
real hardware or network.
*/
package supervisor
