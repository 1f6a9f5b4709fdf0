// DingDong - Remote-Controlled Doorbell Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dingdong

package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tomtom215/dingdong/internal/faults"
	"github.com/tomtom215/dingdong/internal/logging"
	"github.com/tomtom215/dingdong/internal/metrics"
)

const (
	// maxConfigBytes bounds the /config body; a real response is a few dozen bytes.
	maxConfigBytes = 64 << 10

	// CorrelationIDHeader carries the poll cycle's correlation ID to the server.
	CorrelationIDHeader = "X-Correlation-ID"
)

// Options configures an HTTPClient.
type Options struct {
	// BaseURL is API_URL without a trailing slash.
	BaseURL string

	// Timeout bounds each request including reading the body.
	Timeout time.Duration

	// UserAgent is sent on every request.
	UserAgent string

	// Transport overrides the default transport (tests).
	Transport http.RoundTripper
}

// HTTPClient is the plain HTTP implementation of Client.
type HTTPClient struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewHTTPClient creates a client for the configuration server.
func NewHTTPClient(opts Options) *HTTPClient {
	return &HTTPClient{
		baseURL:   opts.BaseURL,
		userAgent: opts.UserAgent,
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: opts.Transport,
		},
	}
}

// FetchConfig implements Client.
func (c *HTTPClient) FetchConfig(ctx context.Context) (RemoteConfig, error) {
	start := time.Now()
	cfg, err := c.fetchConfig(ctx)
	metrics.RecordRemoteRequest(EndpointConfig, time.Since(start), err)
	return cfg, err
}

func (c *HTTPClient) fetchConfig(ctx context.Context) (RemoteConfig, error) {
	const op = "fetch_config"

	resp, target, err := c.get(ctx, op, "/config")
	if err != nil {
		return RemoteConfig{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxConfigBytes+1))
	if err != nil {
		return RemoteConfig{}, faults.Network(op, target, err)
	}
	if len(body) > maxConfigBytes {
		return RemoteConfig{}, faults.Protocol(op, target, fmt.Errorf("response exceeds %d bytes", maxConfigBytes))
	}

	cfg, err := decodeConfig(body)
	if err != nil {
		return RemoteConfig{}, faults.Protocol(op, target, err)
	}

	logging.Ctx(ctx).Debug().
		Int("volume", cfg.Volume).
		Str("current_sound", cfg.CurrentSound).
		Int("max_sound_length", cfg.MaxSoundLength).
		Msg("Fetched remote config")
	return cfg, nil
}

// FetchAsset implements Client. Read errors on the returned body are network faults.
func (c *HTTPClient) FetchAsset(ctx context.Context) (io.ReadCloser, error) {
	const op = "download_asset"

	start := time.Now()
	resp, target, err := c.get(ctx, op, "/download")
	metrics.RecordRemoteRequest(EndpointDownload, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Debug().
		Int64("content_length", resp.ContentLength).
		Str("content_type", resp.Header.Get("Content-Type")).
		Msg("Downloading asset")
	return &downloadBody{ReadCloser: resp.Body, op: op, target: target}, nil
}

// get issues a GET and returns the response only for 200 OK.
func (c *HTTPClient) get(ctx context.Context, op, path string) (*http.Response, string, error) {
	target := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, target, faults.Config(op, target, err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if id := logging.CorrelationIDFromContext(ctx); id != "" {
		req.Header.Set(CorrelationIDHeader, id)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, target, faults.Network(op, target, err)
	}

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxConfigBytes))
		_ = resp.Body.Close()
		return nil, target, faults.Status(op, target, resp.StatusCode)
	}
	return resp, target, nil
}

// downloadBody tags failures while streaming the asset as network faults.
type downloadBody struct {
	io.ReadCloser
	op     string
	target string
}

func (b *downloadBody) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		err = faults.Network(b.op, b.target, err)
	}
	return n, err
}
