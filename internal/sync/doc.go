// DingDong - Remote-Controlled Doorbell Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dingdong

/*
Package sync keeps the agent's state in line with the configuration server.

A Synchronizer moves through Idle -> Polling -> Reconciling -> Idle once per
poll interval:

 1. GET /config. On failure the cycle is skipped and AgentState is untouched.
 2. The reported volume is applied immediately.
 3. If the reported sound differs from the published one, GET /download is
    streamed into the asset store. Only after the file is durably in place
    does the new sound id become visible to the trigger listener.

A failed download leaves the previous sound published and marks the new id
pending; the next cycle retries it. A null sound keeps the last good asset.

# Scheduling

Wake n happens at epoch + n*interval, so slow cycles do not accumulate
drift. A cycle that overruns skips the missed slots instead of running them
back to back.

# Usage

	syncer := sync.New(sync.Options{
	    Client:   client,
	    Store:    store,
	    State:    agentState,
	    Interval: cfg.Agent.PollInterval(),
	})

	if err := syncer.Bootstrap(ctx); err != nil {
	    logging.Fatal().Err(err).Msg("Initial configuration fetch failed")
	}
	tree.AddSyncService(syncer)
*/
package sync
