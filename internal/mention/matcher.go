// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mention

import (
	"regexp"
	"strings"
)

// =============================================================================
// OCCURRENCE MATCHING
// =============================================================================

// FindOccurrences returns the literal matches of the listener's bound names in
// text, left to right.
//
// The pattern is an alternation in selection order, so when one bound name is a
// prefix of another the earlier entry wins at a given position. Literals beyond
// the number of bound suggestions are not mentions and are dropped.
//
// Matching is literal and ignores word boundaries. When one delimiter ends
// another, such as "@" and "#@", the shorter listener also matches inside the
// longer one's mentions: "@Bob" is found in "#@Bob". That can shift ordinals,
// and a deletion inside a channel mention can unbind a partner of the same
// name.
func FindOccurrences(text string, l *Listener) []Occurrence {
	re := l.pattern()
	if re == nil {
		return nil
	}

	locs := re.FindAllStringIndex(text, len(l.selection))
	occurrences := make([]Occurrence, 0, len(locs))
	for i, loc := range locs {
		occurrences = append(occurrences, Occurrence{
			Start:   loc[0],
			End:     loc[1],
			Ordinal: i,
			Text:    text[loc[0]:loc[1]],
		})
	}
	return occurrences
}

// pattern compiles the alternation of every bound delimiter+name. It is rebuilt
// on each call because the text changes between calls.
func (l *Listener) pattern() *regexp.Regexp {
	if len(l.selection) == 0 {
		return nil
	}
	alternatives := make([]string, len(l.selection))
	for i, s := range l.selection {
		alternatives[i] = "(" + regexp.QuoteMeta(l.Delimiter+s.Name) + ")"
	}
	return regexp.MustCompile(strings.Join(alternatives, "|"))
}
