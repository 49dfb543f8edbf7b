// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package suggest

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/jeranaias/mentionkit/internal/mention"
)

// Source names accepted by Sources.Fetch.
const (
	SourcePartners = "partners"
	SourceChannels = "channels"
)

// Lookup searches a record directory. *directory.Directory implements it.
type Lookup interface {
	SearchPartners(ctx context.Context, search string, limit int) ([]mention.Suggestion, error)
	SearchChannels(ctx context.Context, search string, limit int) ([]mention.Suggestion, error)
}

// LookupRecorder observes directory lookups.
type LookupRecorder interface {
	DirectoryLookup(kind string, throttled bool)
}

// =============================================================================
// THROTTLED LOOKUP
// =============================================================================

// ThrottledLookup limits the rate of lookups against an underlying directory.
// A lookup over the limit waits for a token or for its context to end.
type ThrottledLookup struct {
	next     Lookup
	limiter  *rate.Limiter
	recorder LookupRecorder
}

// Throttle wraps next with a limiter of perSec lookups per second and the given
// burst. A perSec of zero or less disables throttling.
func Throttle(next Lookup, perSec float64, burst int) *ThrottledLookup {
	limit := rate.Inf
	if perSec > 0 {
		limit = rate.Limit(perSec)
	}
	if burst < 1 {
		burst = 1
	}
	return &ThrottledLookup{
		next:    next,
		limiter: rate.NewLimiter(limit, burst),
	}
}

// WithRecorder sets the recorder told about every lookup.
func (t *ThrottledLookup) WithRecorder(r LookupRecorder) *ThrottledLookup {
	t.recorder = r
	return t
}

// SearchPartners implements Lookup.
func (t *ThrottledLookup) SearchPartners(ctx context.Context, search string, limit int) ([]mention.Suggestion, error) {
	if err := t.wait(ctx, SourcePartners); err != nil {
		return nil, err
	}
	return t.next.SearchPartners(ctx, search, limit)
}

// SearchChannels implements Lookup.
func (t *ThrottledLookup) SearchChannels(ctx context.Context, search string, limit int) ([]mention.Suggestion, error) {
	if err := t.wait(ctx, SourceChannels); err != nil {
		return nil, err
	}
	return t.next.SearchChannels(ctx, search, limit)
}

func (t *ThrottledLookup) wait(ctx context.Context, kind string) error {
	throttled := !t.limiter.Allow()
	if t.recorder != nil {
		t.recorder.DirectoryLookup(kind, throttled)
	}
	if !throttled {
		return nil
	}
	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s lookup throttled: %w", kind, err)
	}
	return nil
}

// =============================================================================
// SOURCES
// =============================================================================

// Sources bundles the default suggestion sources over one lookup.
type Sources struct {
	Partners *PartnerSource
	Channels *ChannelSource
}

// NewSources creates partner and channel sources sharing lookup and limit.
func NewSources(lookup Lookup, limit int) *Sources {
	return &Sources{
		Partners: NewPartnerSource(lookup, limit),
		Channels: NewChannelSource(lookup, limit),
	}
}

// Fetch returns the fetch callback for a named source.
func (s *Sources) Fetch(name string) (mention.FetchFunc, error) {
	switch name {
	case SourcePartners:
		return s.Partners.Fetch, nil
	case SourceChannels:
		return s.Channels.Fetch, nil
	default:
		return nil, fmt.Errorf("unknown suggestion source %q", name)
	}
}
