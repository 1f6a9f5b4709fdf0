// DingDong - Remote-Controlled Doorbell Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dingdong

// Package validation wraps go-playground/validator v10 behind a process-wide
// singleton. It validates the configuration server's wire snapshot and the
// loaded agent configuration.
//
//	type RemoteConfig struct {
//	    Volume int `json:"Volume" validate:"gte=0,lte=100"`
//	}
//
//	if err := validation.ValidateStruct(&cfg); err != nil {
//	    return faults.Protocol("fetch_config", url, err)
//	}
package validation
