// DingDong - Remote-Controlled Doorbell Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dingdong

package remote

import (
	"context"
	"io"
	"time"
)

// Endpoint names used in logs and metrics.
const (
	EndpointConfig   = "config"
	EndpointDownload = "download"
)

// RemoteConfig is the server-reported configuration snapshot.
type RemoteConfig struct {
	// Volume is the playback volume in percent.
	Volume int `json:"Volume" validate:"gte=0,lte=100"`

	// CurrentSound is the id of the sound to play. Empty when the server has none.
	CurrentSound string `json:"CurrentSound,omitempty"`

	// MaxSoundLength caps playback in seconds. Zero means no cap.
	MaxSoundLength int `json:"MaxSoundLength,omitempty" validate:"gte=0,lte=3600"`
}

// HasSound reports whether the server named a sound.
func (c RemoteConfig) HasSound() bool {
	return c.CurrentSound != ""
}

// MaxLength returns the playback cap as a duration, zero for none.
func (c RemoteConfig) MaxLength() time.Duration {
	return time.Duration(c.MaxSoundLength) * time.Second
}

// Client fetches configuration and asset bytes from the server.
type Client interface {
	// FetchConfig returns the current server configuration.
	FetchConfig(ctx context.Context) (RemoteConfig, error)

	// FetchAsset opens the bytes of the server's current sound.
	// The caller must close the returned reader.
	FetchAsset(ctx context.Context) (io.ReadCloser, error)
}
