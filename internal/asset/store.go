// DingDong - Remote-Controlled Doorbell Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dingdong

// Package asset persists the currently playable sound file.
//
// Exactly one asset lives at a well-known path. Replace streams new bytes
// into a temporary file in the same directory, fsyncs it, and renames it onto
// the well-known path, so a concurrent reader opens either the complete old
// file or the complete new one.
package asset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tomtom215/dingdong/internal/faults"
	"github.com/tomtom215/dingdong/internal/logging"
	"github.com/tomtom215/dingdong/internal/metrics"
)

// DefaultFileName is the asset file name used when none is configured.
const DefaultFileName = "CurrentSound.mp3"

// ErrEmptyAsset is returned when a replacement stream contains no bytes.
var ErrEmptyAsset = errors.New("asset stream is empty")

// Store owns the asset file.
type Store struct {
	dir  string
	path string

	// mu serializes Replace calls so two temp files never race for the rename.
	mu sync.Mutex
}

// NewStore returns a Store writing to dir/fileName. The directory is created
// if it does not exist.
func NewStore(dir, fileName string) (*Store, error) {
	if fileName == "" {
		fileName = DefaultFileName
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, faults.Storage("create_asset_dir", dir, err)
	}
	return &Store{
		dir:  dir,
		path: filepath.Join(dir, fileName),
	}, nil
}

// Path returns the well-known asset path.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether an asset file is present at the well-known path.
func (s *Store) Exists() bool {
	info, err := os.Stat(s.path)
	return err == nil && info.Mode().IsRegular()
}

// Replace atomically replaces the asset with the contents of r and returns
// the well-known path. On failure the previous asset is left untouched and
// the error is a storage fault.
func (s *Store) Replace(r io.Reader) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	written, err := s.replaceLocked(r)
	metrics.RecordAssetReplace(written, time.Since(start), err)
	if err != nil {
		return "", err
	}

	logging.Debug().
		Str("path", s.path).
		Int64("bytes", written).
		Msg("Asset replaced")
	return s.path, nil
}

func (s *Store) replaceLocked(r io.Reader) (int64, error) {
	tmp, err := os.CreateTemp(s.dir, ".asset-*.tmp")
	if err != nil {
		return 0, faults.Storage("create_temp_asset", s.dir, err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmp, r)
	if err != nil {
		_ = tmp.Close()
		// A source that already classified its failure (a dropped download)
		// keeps its kind.
		if faults.KindOf(err) != faults.KindUnknown {
			return written, err
		}
		return written, faults.Storage("write_asset", tmpPath, err)
	}
	if written == 0 {
		_ = tmp.Close()
		return 0, faults.Storage("write_asset", tmpPath, ErrEmptyAsset)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return written, faults.Storage("sync_asset", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return written, faults.Storage("close_asset", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return written, faults.Storage("chmod_asset", tmpPath, err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return written, faults.Storage("rename_asset", s.path, fmt.Errorf("rename %s: %w", tmpPath, err))
	}
	success = true

	// The rename is only durable once the directory entry is flushed.
	if dir, err := os.Open(s.dir); err == nil {
		_ = dir.Sync()
		_ = dir.Close()
	}

	return written, nil
}
