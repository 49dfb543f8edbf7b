// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mention

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func emptyFetch(context.Context, string) (Groups, error) {
	return nil, nil
}

func staticFetch(groups Groups) FetchFunc {
	return func(context.Context, string) (Groups, error) {
		return groups, nil
	}
}

// fakeHost is an in-memory Host with a single cursor or selection.
type fakeHost struct {
	mu         sync.Mutex
	text       string
	start, end int
}

func (h *fakeHost) Text() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.text
}

func (h *fakeHost) SetText(text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.text = text
}

func (h *fakeHost) SelectionOffsets() (int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.start, h.end
}

func (h *fakeHost) SetSelectionOffsets(start, end int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.start, h.end = start, end
}

// typeText appends s at the end of the text and moves the cursor after it.
func (h *fakeHost) typeText(s string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.text += s
	h.start, h.end = len(h.text), len(h.text)
}

// backspace deletes the byte before the cursor, mimicking the host's default
// action for BACKSPACE on ASCII text.
func (h *fakeHost) backspace() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.start == 0 {
		return
	}
	h.text = h.text[:h.start-1] + h.text[h.start:]
	h.start--
	h.end = h.start
}

// countingRecorder tallies Recorder events.
type countingRecorder struct {
	mu        sync.Mutex
	fetches   int
	fetchErrs int
	published []int
	stale     int
	inserted  int
	removed   int
}

func (r *countingRecorder) FetchDone(_ string, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetches++
	if err != nil {
		r.fetchErrs++
	}
}

func (r *countingRecorder) Published(count int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.published = append(r.published, count)
}

func (r *countingRecorder) StaleDropped(string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stale++
}

func (r *countingRecorder) Inserted(string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inserted++
}

func (r *countingRecorder) Removed(_ string, count int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed += count
}

func (r *countingRecorder) snapshot() countingRecorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	return countingRecorder{
		fetches:   r.fetches,
		fetchErrs: r.fetchErrs,
		published: append([]int(nil), r.published...),
		stale:     r.stale,
		inserted:  r.inserted,
		removed:   r.removed,
	}
}
