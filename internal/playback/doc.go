// DingDong - Remote-Controlled Doorbell Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dingdong

/*
Package playback plays the doorbell sound.

An Engine plays one Request at a time. Starting a new sound stops whatever is
still playing, the volume applies to that call only, and Play returns as soon
as the sound has started.

Engines:

  - ExecPlayer spawns an external player (mpg123 by default) in its own
    process group. Volume is passed as an mpg123 scale factor, where 32768
    is full volume. A finished player is reaped in the background.
  - LogPlayer only logs the request. It is used in console mode and on hosts
    without audio output.

Every failure is a hardware fault (see package faults).
*/
package playback
