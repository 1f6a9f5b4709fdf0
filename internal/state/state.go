// DingDong - Remote-Controlled Doorbell Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dingdong

// Package state holds AgentState, the only mutable value shared between the
// synchronizer and the trigger listener.
//
// The state is stored as an immutable Snapshot behind an atomic pointer.
// Every update builds a new Snapshot and swaps it in whole, so a reader either
// sees the value before an update or after it, never a mix. Readers never take
// a lock and never block the writer.
//
// The sound id and the path of its asset are only ever published together by
// Publish, which the synchronizer calls after the asset has been durably
// written. A snapshot with a SoundID therefore always names an asset on disk.
package state

import (
	"sync"
	"sync/atomic"
	"time"
)

const (
	// DefaultVolume is the volume used until the server reports one.
	DefaultVolume = 50

	MinVolume = 0
	MaxVolume = 100
)

// Snapshot is a consistent, read-only view of the agent state.
type Snapshot struct {
	// Volume is the playback volume in percent, 0..100.
	Volume int `json:"volume"`

	// SoundID is the id of the sound whose asset is at AssetPath.
	// Empty when no download has ever succeeded.
	SoundID string `json:"current_sound_id,omitempty"`

	// AssetPath is the local file holding the sound for SoundID.
	AssetPath string `json:"asset_path,omitempty"`

	// PendingSoundID is a server-reported id whose asset has not been
	// fetched yet. Empty when local and server state agree.
	PendingSoundID string `json:"pending_sound_id,omitempty"`

	// MaxLength caps how long one press may play. Zero means no cap.
	MaxLength time.Duration `json:"max_length,omitempty"`

	// UpdatedAt is when this snapshot was published.
	UpdatedAt time.Time `json:"updated_at"`
}

// HasAsset reports whether a playable asset has been downloaded.
func (s Snapshot) HasAsset() bool {
	return s.SoundID != "" && s.AssetPath != ""
}

// Stale reports whether the server has asked for a sound that is not on disk yet.
func (s Snapshot) Stale() bool {
	return s.PendingSoundID != ""
}

// AgentState is the shared agent record. The zero value is not usable; use New.
type AgentState struct {
	current atomic.Pointer[Snapshot]

	// writeMu serializes read-modify-write updates. Readers do not take it.
	writeMu sync.Mutex

	now func() time.Time
}

// New returns an AgentState with the startup defaults: volume 50, no sound.
func New() *AgentState {
	s := &AgentState{now: time.Now}
	s.current.Store(&Snapshot{Volume: DefaultVolume, UpdatedAt: s.now()})
	return s
}

// Snapshot returns the current state. It never blocks.
func (s *AgentState) Snapshot() Snapshot {
	return *s.current.Load()
}

// SetVolume stores a new volume, clamped to 0..100. It reports whether the
// stored value changed.
func (s *AgentState) SetVolume(volume int) bool {
	volume = clampVolume(volume)
	return s.update(func(next *Snapshot) bool {
		if next.Volume == volume {
			return false
		}
		next.Volume = volume
		return true
	})
}

// SetMaxLength stores the playback cap. It reports whether the value changed.
func (s *AgentState) SetMaxLength(d time.Duration) bool {
	if d < 0 {
		d = 0
	}
	return s.update(func(next *Snapshot) bool {
		if next.MaxLength == d {
			return false
		}
		next.MaxLength = d
		return true
	})
}

// MarkPending records that the server reports soundID but its asset has not
// been fetched. The published SoundID is left untouched.
func (s *AgentState) MarkPending(soundID string) bool {
	return s.update(func(next *Snapshot) bool {
		if next.PendingSoundID == soundID {
			return false
		}
		next.PendingSoundID = soundID
		return true
	})
}

// ClearPending drops the pending marker, if any.
func (s *AgentState) ClearPending() bool {
	return s.MarkPending("")
}

// Publish makes soundID and its asset path visible to readers in one step and
// clears the pending marker. Callers must only publish after the asset at
// assetPath has been durably written.
func (s *AgentState) Publish(soundID, assetPath string) {
	s.update(func(next *Snapshot) bool {
		next.SoundID = soundID
		next.AssetPath = assetPath
		next.PendingSoundID = ""
		return true
	})
}

// update applies fn to a copy of the current snapshot and swaps the copy in
// when fn reports a change.
func (s *AgentState) update(fn func(next *Snapshot) bool) bool {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next := *s.current.Load()
	if !fn(&next) {
		return false
	}
	next.UpdatedAt = s.now()
	s.current.Store(&next)
	return true
}

func clampVolume(v int) int {
	if v < MinVolume {
		return MinVolume
	}
	if v > MaxVolume {
		return MaxVolume
	}
	return v
}
