// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package suggest

import (
	"context"
	"strings"
	"sync"

	"github.com/jeranaias/mentionkit/internal/mention"
)

// DefaultLimit is the default maximum number of suggestions per fetch.
const DefaultLimit = 8

// PartnerSource suggests partners, preferring prefetched groups.
type PartnerSource struct {
	lookup Lookup
	limit  int

	mu         sync.RWMutex
	prefetched mention.Groups
}

// NewPartnerSource creates a partner source. lookup may be nil, in which case
// only prefetched partners are ever suggested.
func NewPartnerSource(lookup Lookup, limit int) *PartnerSource {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &PartnerSource{lookup: lookup, limit: limit}
}

// SetPrefetched replaces the prefetched partner groups.
func (p *PartnerSource) SetPrefetched(groups mention.Groups) {
	cp := make(mention.Groups, len(groups))
	for i, g := range groups {
		cp[i] = append([]mention.Suggestion(nil), g...)
	}
	p.mu.Lock()
	p.prefetched = cp
	p.mu.Unlock()
}

// Prefetched returns the prefetched partner groups.
func (p *PartnerSource) Prefetched() mention.Groups {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.prefetched
}

// Fetch implements mention.FetchFunc.
//
// Each prefetched group contributes the partners whose unaccented name or
// email contains search, until the limit is used up. Only when no prefetched
// partner matches is the directory queried.
func (p *PartnerSource) Fetch(ctx context.Context, search string) (mention.Groups, error) {
	groups := p.filterPrefetched(search)
	if len(groups) > 0 || p.lookup == nil {
		return groups, nil
	}

	found, err := p.lookup.SearchPartners(ctx, search, p.limit)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}
	return mention.Groups{found}, nil
}

func (p *PartnerSource) filterPrefetched(search string) mention.Groups {
	pattern := mention.SearchPattern(search)
	limit := p.limit

	var out mention.Groups
	for _, group := range p.Prefetched() {
		if limit <= 0 {
			break
		}
		var matched []mention.Suggestion
		for _, partner := range group {
			if partner.Email != "" && pattern.MatchString(partner.Email) ||
				partner.Name != "" && pattern.MatchString(mention.Unaccent(strings.ToLower(partner.Name))) {
				matched = append(matched, partner)
			}
		}
		if len(matched) == 0 {
			continue
		}
		if len(matched) > limit {
			matched = matched[:limit]
		}
		out = append(out, matched)
		limit -= len(matched)
	}
	return out
}
