// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mention

import (
	"context"
	"errors"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrEmptyDelimiter     = errors.New("mention: delimiter must not be empty")
	ErrDuplicateDelimiter = errors.New("mention: delimiter already registered")
	ErrNilFetch           = errors.New("mention: fetch callback is nil")
	ErrUnknownSuggestion  = errors.New("mention: suggestion not in current list")
	ErrNoActiveMention    = errors.New("mention: no mention in progress")
)

// =============================================================================
// SUGGESTION
// =============================================================================

// Suggestion is a record a mention can resolve to.
// Name is the literal text inserted after the delimiter and never contains
// whitespace.
type Suggestion struct {
	ID     int64  `json:"id" toml:"id"`
	Name   string `json:"name" toml:"name"`
	Email  string `json:"email,omitempty" toml:"email"`
	Public string `json:"public,omitempty" toml:"public"` // channel visibility
}

// Groups is a suggestion list, possibly partitioned (e.g. public channels first).
type Groups [][]Suggestion

// Flatten returns all suggestions in group order.
func (g Groups) Flatten() []Suggestion {
	var out []Suggestion
	for _, group := range g {
		out = append(out, group...)
	}
	return out
}

// Len returns the total number of suggestions across groups.
func (g Groups) Len() int {
	n := 0
	for _, group := range g {
		n += len(group)
	}
	return n
}

// FetchFunc resolves a search string into suggestions.
type FetchFunc func(ctx context.Context, search string) (Groups, error)

// =============================================================================
// LISTENER
// =============================================================================

// Listener is one registered mention kind.
type Listener struct {
	Delimiter string
	Fetch     FetchFunc

	// Model identifies what a resolved suggestion refers to (e.g. "res.partner").
	Model string

	// LinkClass is the class attribute of rewritten links.
	LinkClass string

	// selection holds one bound suggestion per live occurrence, in text order.
	selection []Suggestion
}

// Selection returns a copy of the bound suggestions in text order.
func (l *Listener) Selection() []Suggestion {
	out := make([]Suggestion, len(l.selection))
	copy(out, l.selection)
	return out
}

// SetSelection replaces the bound suggestions, e.g. when restoring a draft.
func (l *Listener) SetSelection(s []Suggestion) {
	l.selection = append([]Suggestion(nil), s...)
}

// Reset clears the bound suggestions.
func (l *Listener) Reset() {
	l.selection = nil
}

// =============================================================================
// OCCURRENCE
// =============================================================================

// Occurrence is a literal delimiter+name match found in the current text.
// End is exclusive. Ordinal is the position among the listener's matches.
type Occurrence struct {
	Start   int
	End     int
	Ordinal int
	Text    string
}

// Len returns the byte length of the occurrence.
func (o Occurrence) Len() int {
	return o.End - o.Start
}

// Overlaps reports whether a deletion of [start, end) touches the occurrence.
// The end bound is inclusive on the occurrence side so that a backspace right
// after a mention removes it.
func (o Occurrence) Overlaps(start, end int) bool {
	return start <= o.End && o.Start < end
}
