// DingDong - Remote-Controlled Doorbell Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dingdong

/*
Package services adapts components with a non-context lifecycle to
suture.Service.

HTTPServerService wraps an *http.Server (or anything with ListenAndServe and
Shutdown). Serve returns when the context is canceled, after a graceful
Shutdown bounded by the configured timeout. A listen failure is returned to
the supervisor, which restarts the service with backoff.

The synchronizer and the trigger listener implement Serve themselves and need
no wrapper.
*/
package services
