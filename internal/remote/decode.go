// DingDong - Remote-Controlled Doorbell Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dingdong

package remote

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/tomtom215/dingdong/internal/validation"
)

var (
	errMissingVolume = errors.New("response has no Volume")
	errNotAnObject   = errors.New("response is not a JSON object")
)

// decodeConfig parses a /config response body.
func decodeConfig(body []byte) (RemoteConfig, error) {
	fields, err := decodeObject(body)
	if err != nil {
		return RemoteConfig{}, err
	}

	// Some server builds wrap the values in {"config": {...}}.
	if inner, ok := fields["config"]; ok && !hasKey(fields, "Volume", "volume") {
		if fields, err = decodeObject(inner); err != nil {
			return RemoteConfig{}, fmt.Errorf("config envelope: %w", err)
		}
	}

	var cfg RemoteConfig

	raw, ok := pick(fields, "Volume", "volume")
	if !ok || isNull(raw) {
		return RemoteConfig{}, errMissingVolume
	}
	if cfg.Volume, err = parseInt(raw); err != nil {
		return RemoteConfig{}, fmt.Errorf("volume: %w", err)
	}

	if raw, ok := pick(fields, "CurrentSound", "currentSound"); ok {
		if cfg.CurrentSound, err = parseSoundID(raw); err != nil {
			return RemoteConfig{}, fmt.Errorf("current sound: %w", err)
		}
	}

	if raw, ok := pick(fields, "MaxSoundLength", "maxSoundLength"); ok && !isNull(raw) {
		if cfg.MaxSoundLength, err = parseInt(raw); err != nil {
			return RemoteConfig{}, fmt.Errorf("max sound length: %w", err)
		}
	}

	if err := validation.ValidateStruct(&cfg); err != nil {
		return RemoteConfig{}, err
	}
	return cfg, nil
}

func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil, errNotAnObject
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return fields, nil
}

// pick returns the first key present, so canonical names win over legacy ones.
func pick(fields map[string]json.RawMessage, keys ...string) (json.RawMessage, bool) {
	for _, k := range keys {
		if v, ok := fields[k]; ok {
			return v, true
		}
	}
	return nil, false
}

func hasKey(fields map[string]json.RawMessage, keys ...string) bool {
	_, ok := pick(fields, keys...)
	return ok
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(bytes.TrimSpace(raw)) == "null"
}

// parseInt accepts a JSON number with an integral value or a string holding one.
func parseInt(raw json.RawMessage) (int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0, fmt.Errorf("%q is not an integer", s)
		}
		return n, nil
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, fmt.Errorf("%s is not a number", raw)
	}
	if f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("%s is not an integer", raw)
	}
	return int(f), nil
}

// parseSoundID accepts null, a string, or an integer id.
func parseSoundID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	switch {
	case isNull(raw):
		return "", nil
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return strings.TrimSpace(s), nil
	case raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9'):
		n, err := parseInt(raw)
		if err != nil {
			return "", err
		}
		return strconv.Itoa(n), nil
	default:
		return "", fmt.Errorf("unsupported sound id %s", raw)
	}
}
