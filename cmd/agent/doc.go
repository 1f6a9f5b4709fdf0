// DingDong - Remote-Controlled Doorbell Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dingdong

// Command agent runs the DingDong doorbell agent on an edge device.
//
// The agent keeps a local copy of the doorbell sound in line with a central
// configuration server and plays it whenever the button is pressed.
//
// # Startup
//
//  1. Configuration: defaults, optional YAML file, environment (koanf)
//  2. Logging: zerolog with the configured level and format
//  3. Initial sync: one synchronous fetch of /config (and /download when a
//     sound is set). Failing to fetch the configuration here is fatal; a
//     failed download is retried by the poll loop.
//  4. Supervisor tree: the poll loop, the button listener and the status
//     server run as independent suture services
//
// # Configuration
//
// Required:
//   - API_URL: configuration server base URL, e.g. http://192.168.1.10:5000
//
// Common:
//   - POLL_INTERVAL: seconds between polls (default 30)
//   - DOORBELL_PIN: BCM GPIO number of the button (default 16)
//   - TRIGGER_SOURCE: gpio or console (default gpio)
//   - PLAYER: exec or log (default exec)
//   - PLAYER_COMMAND / PLAYER_ARGS: external player (default mpg123 -q)
//   - DATA_DIR / SOUND_FILE: where the sound is kept (default ./CurrentSound.mp3)
//   - STATUS_ADDR: status server address, empty disables it (default 127.0.0.1:9180)
//   - LOG_LEVEL / LOG_FORMAT: logging (default info / json)
//
// A YAML file at CONFIG_PATH, ./config.yaml or /etc/dingdong/config.yaml is
// read before the environment. Changing logging.level in that file takes
// effect without a restart.
//
// # Flags
//
//	-c, --config FILE   config file; unlike CONFIG_PATH a missing file is an error
//	    --check         run the initial sync and exit, non-zero if the sound
//	                    could not be downloaded
//	    --version       print the version and exit
//
// LOG_FORMAT=auto picks console output on a terminal and JSON otherwise.
//
// # Example
//
// On a Raspberry Pi:
//
//	export API_URL=http://192.168.1.10:5000
//	export DOORBELL_PIN=16
//	./agent
//
// On a laptop, pressing Enter rings the bell:
//
//	API_URL=http://localhost:5000 TRIGGER_SOURCE=console PLAYER=log ./agent
//
// # Signals
//
// SIGINT and SIGTERM stop the supervisor tree, stop any sound in progress
// and release the GPIO line.
package main
