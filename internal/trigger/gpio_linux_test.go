// DingDong - Remote-Controlled Doorbell Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dingdong

//go:build linux

package trigger

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tomtom215/dingdong/internal/faults"
)

// makeLine creates the attribute files of an exported GPIO line. The
// directory appears atomically, the way the kernel presents it.
func makeLine(root, pin string) (string, error) {
	staging, err := os.MkdirTemp(root, ".staging-")
	if err != nil {
		return "", err
	}
	for name, content := range map[string]string{"direction": "out\n", "edge": "none\n", "value": "1\n"} {
		if err := os.WriteFile(filepath.Join(staging, name), []byte(content), 0o644); err != nil {
			return "", err
		}
	}
	dir := filepath.Join(root, "gpio"+pin)
	return dir, os.Rename(staging, dir)
}

func fakeLine(t *testing.T, root, pin string) string {
	t.Helper()
	dir, err := makeLine(root, pin)
	if err != nil {
		t.Fatal(err)
	}
	return dir
}

func readAttr(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestSysfsSourceConfiguresLine(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	dir := fakeLine(t, root, "16")

	src, err := NewSysfsSource(root, 16)
	if err != nil {
		t.Fatalf("NewSysfsSource() error = %v", err)
	}
	defer src.Close()

	if got := readAttr(t, filepath.Join(dir, "direction")); got != "in" {
		t.Errorf("direction = %q, want in", got)
	}
	if got := readAttr(t, filepath.Join(dir, "edge")); got != "falling" {
		t.Errorf("edge = %q, want falling", got)
	}
	if src.exported {
		t.Error("an already exported line must not be unexported on close")
	}

	// A regular file never raises POLLPRI, so the wait ends with the context.
	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()
	if err := src.WaitForEdge(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("WaitForEdge() = %v, want deadline exceeded", err)
	}
}

func TestSysfsSourceExportsLine(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	exportPath := filepath.Join(root, "export")
	if err := os.WriteFile(exportPath, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	// Play the kernel: create the line once the pin is written to export.
	go func() {
		deadline := time.Now().Add(time.Second)
		for time.Now().Before(deadline) {
			if data, _ := os.ReadFile(exportPath); string(data) == "17" {
				_, _ = makeLine(root, "17")
				return
			}
			time.Sleep(5 * time.Millisecond)
		}
	}()

	src, err := NewSysfsSource(root, 17)
	if err != nil {
		t.Fatalf("NewSysfsSource() error = %v", err)
	}
	if !src.exported {
		t.Error("source should remember that it exported the line")
	}
	if err := src.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
	if got := readAttr(t, filepath.Join(root, "unexport")); got != "17" {
		t.Errorf("unexport = %q, want 17", got)
	}
}

func TestSysfsSourceMissingSysfs(t *testing.T) {
	t.Parallel()

	_, err := NewSysfsSource(filepath.Join(t.TempDir(), "nope"), 16)
	if !faults.IsKind(err, faults.KindHardware) {
		t.Errorf("NewSysfsSource() = %v, want hardware fault", err)
	}
}
