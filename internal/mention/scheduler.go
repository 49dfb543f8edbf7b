// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mention

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTypingSpeed approximates the time between two keystrokes.
const DefaultTypingSpeed = 200 * time.Millisecond

// =============================================================================
// SCHEDULER
// =============================================================================

// Scheduler runs at most one suggestion fetch per typing burst.
//
// Each Schedule replaces the previous unexpired timer. A fetch that is already
// running is not cancelled: its result is still published when it completes,
// unless DiscardStale is set, in which case results from superseded schedules
// are dropped.
type Scheduler struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	gen   uint64

	// DiscardStale drops fetch results whose schedule was superseded.
	DiscardStale bool

	ctx    context.Context
	cancel context.CancelFunc

	publish  func(Groups)
	logger   zerolog.Logger
	recorder Recorder
}

// NewScheduler creates a scheduler that hands fetch results to publish.
func NewScheduler(delay time.Duration, publish func(Groups)) *Scheduler {
	if delay < 0 {
		delay = DefaultTypingSpeed
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		delay:    delay,
		ctx:      ctx,
		cancel:   cancel,
		publish:  publish,
		logger:   zerolog.Nop(),
		recorder: nopRecorder{},
	}
}

// Schedule arms a fetch of word for l after the typing delay.
// With a nil listener nothing is fetched and an empty list is published at once.
func (s *Scheduler) Schedule(l *Listener, word string) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.stopTimerLocked()
	if l == nil {
		s.mu.Unlock()
		s.publish(nil)
		return
	}
	s.timer = time.AfterFunc(s.delay, func() {
		s.fire(gen, l, word)
	})
	s.mu.Unlock()
}

// Cancel drops the pending timer, if any.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.stopTimerLocked()
}

// Pending reports whether a timer is armed and has not fired yet.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}

// Stop cancels the pending timer and any in-flight fetch. The scheduler must not
// be used afterwards.
func (s *Scheduler) Stop() {
	s.Cancel()
	s.cancel()
}

func (s *Scheduler) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Scheduler) fire(gen uint64, l *Listener, word string) {
	s.mu.Lock()
	// A timer that lost the race with Stop still runs; only the latest may fetch.
	if gen != s.gen || s.ctx.Err() != nil {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	ctx := s.ctx
	s.mu.Unlock()

	start := time.Now()
	groups, err := l.Fetch(ctx, word)
	s.recorder.FetchDone(l.Delimiter, time.Since(start), err)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		s.logger.Warn().Err(err).
			Str("delimiter", l.Delimiter).
			Str("search", word).
			Msg("suggestion fetch failed")
		groups = nil
	}

	if s.DiscardStale {
		s.mu.Lock()
		stale := gen != s.gen
		s.mu.Unlock()
		if stale {
			s.recorder.StaleDropped(l.Delimiter)
			s.logger.Debug().Str("delimiter", l.Delimiter).Str("search", word).Msg("stale suggestions dropped")
			return
		}
	}

	s.publish(groups)
}
