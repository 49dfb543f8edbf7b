// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package suggest

import (
	"context"

	"github.com/jeranaias/mentionkit/internal/mention"
)

// ChannelSource suggests channels from the directory.
type ChannelSource struct {
	lookup Lookup
	limit  int
}

// NewChannelSource creates a channel source.
func NewChannelSource(lookup Lookup, limit int) *ChannelSource {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &ChannelSource{lookup: lookup, limit: limit}
}

// Fetch implements mention.FetchFunc. The result always has two groups:
// channels visible to everyone ("public" or "groups") first, then the rest.
func (c *ChannelSource) Fetch(ctx context.Context, search string) (mention.Groups, error) {
	if c.lookup == nil {
		return nil, nil
	}
	found, err := c.lookup.SearchChannels(ctx, search, c.limit)
	if err != nil {
		return nil, err
	}

	open, restricted := []mention.Suggestion{}, []mention.Suggestion{}
	for _, ch := range found {
		switch ch.Public {
		case "public", "groups":
			open = append(open, ch)
		default:
			restricted = append(restricted, ch)
		}
	}
	return mention.Groups{open, restricted}, nil
}
