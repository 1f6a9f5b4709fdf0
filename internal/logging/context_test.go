// DingDong - Remote-Controlled Doorbell Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dingdong

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestGenerateCorrelationID(t *testing.T) {
	t.Parallel()

	a := GenerateCorrelationID()
	b := GenerateCorrelationID()
	if len(a) != 8 {
		t.Errorf("len = %d, want 8", len(a))
	}
	if a == b {
		t.Errorf("expected unique IDs, got %q twice", a)
	}
}

func TestCorrelationIDContext(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if got := CorrelationIDFromContext(ctx); got != "" {
		t.Errorf("empty context returned %q", got)
	}

	ctx = ContextWithCorrelationID(ctx, "abc12345")
	if got := CorrelationIDFromContext(ctx); got != "abc12345" {
		t.Errorf("got %q, want abc12345", got)
	}

	ctx = ContextWithNewCorrelationID(ctx)
	if got := CorrelationIDFromContext(ctx); got == "abc12345" || got == "" {
		t.Errorf("expected fresh correlation ID, got %q", got)
	}
}

func TestCtxAddsCorrelationID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), NewTestLogger(&buf))
	ctx = ContextWithCorrelationID(ctx, "cycle001")

	Ctx(ctx).Info().Msg("cycle started")

	if !strings.Contains(buf.String(), `"correlation_id":"cycle001"`) {
		t.Errorf("missing correlation_id: %s", buf.String())
	}
}

func TestCtxWithoutCorrelationID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), NewTestLogger(&buf))

	Ctx(ctx).Info().Msg("plain")

	if strings.Contains(buf.String(), "correlation_id") {
		t.Errorf("unexpected correlation_id: %s", buf.String())
	}
}

func TestLoggerFromContextFallsBackToGlobal(t *testing.T) {
	buf := captureGlobal(t, "info")

	l := LoggerFromContext(context.Background())
	l.Info().Msg("from global")

	if !strings.Contains(buf.String(), "from global") {
		t.Errorf("expected global logger output, got: %s", buf.String())
	}
}
