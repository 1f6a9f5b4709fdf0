// DingDong - Remote-Controlled Doorbell Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dingdong

package sync

import (
	"context"
	"time"

	"github.com/tomtom215/dingdong/internal/logging"
	"github.com/tomtom215/dingdong/internal/metrics"
)

// Serve runs the poll loop until ctx is canceled. It implements suture.Service.
//
// Wake n is epoch + n*interval, where epoch is the first time Serve ran.
// Cycle duration does not shift later wakes. When a cycle overruns one or
// more slots those slots are skipped and the loop resumes on the same grid.
// The grid survives a supervisor restart of Serve.
func (s *Synchronizer) Serve(ctx context.Context) error {
	epoch, n := s.startGrid()

	log := logging.WithComponent("synchronizer")
	log.Info().
		Dur("interval", s.interval).
		Time("epoch", epoch).
		Msg("Poll loop started")

	for {
		wake := epoch.Add(time.Duration(n) * s.interval)

		select {
		case <-ctx.Done():
			log.Info().Msg("Poll loop stopped")
			return nil
		case <-s.clock.After(wake.Sub(s.clock.Now())):
		}

		// Errors are logged and counted inside Sync; the next slot retries.
		_ = s.Sync(ctx)

		next, skipped := nextSlot(epoch, s.interval, n, s.clock.Now())
		if skipped > 0 {
			metrics.PollSkippedSlots.Add(float64(skipped))
			s.addSkipped(uint64(skipped))
			log.Warn().
				Int64("skipped", skipped).
				Dur("interval", s.interval).
				Msg("Poll cycle overran its slot, skipping missed slots")
		}
		n = next
	}
}

// startGrid returns the epoch and the first slot to wait for. On a restart it
// resumes at the next future slot of the original grid.
func (s *Synchronizer) startGrid() (time.Time, int64) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()

	now := s.clock.Now()
	if s.epoch.IsZero() {
		s.epoch = now
		return now, 1
	}
	n, _ := nextSlot(s.epoch, s.interval, 0, now)
	return s.epoch, n
}

func (s *Synchronizer) addSkipped(n uint64) {
	s.statusMu.Lock()
	s.status.SkippedSlots += n
	s.statusMu.Unlock()
}

// nextSlot returns the index of the first slot after current that is not yet
// in the past at now, and how many slots in between were skipped.
func nextSlot(epoch time.Time, interval time.Duration, current int64, now time.Time) (next, skipped int64) {
	next = current + 1
	elapsed := now.Sub(epoch)
	if elapsed < 0 {
		return next, 0
	}
	due := int64(elapsed / interval)
	if elapsed%interval != 0 {
		due++
	}
	if due > next {
		return due, due - next
	}
	return next, 0
}
