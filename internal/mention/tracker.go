// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mention

// =============================================================================
// SELECTION TRACKING
// =============================================================================

// Insert binds s at the position matching the cursor, computed over the text
// before the accepted suggestion is written into it. Returns the index used.
func (l *Listener) Insert(s Suggestion, cursor int, text string) int {
	index := len(l.selection)
	for _, occ := range FindOccurrences(text, l) {
		if occ.Start >= cursor {
			index = occ.Ordinal
			break
		}
	}

	l.selection = append(l.selection, Suggestion{})
	copy(l.selection[index+1:], l.selection[index:])
	l.selection[index] = s
	return index
}

// RemoveOverlapping unbinds every mention whose occurrence in text intersects
// the deleted range [start, end). Returns the removed suggestions.
func (l *Listener) RemoveOverlapping(start, end int, text string) []Suggestion {
	occurrences := FindOccurrences(text, l)
	if len(occurrences) == 0 {
		return nil
	}

	drop := make(map[int]bool)
	for _, occ := range occurrences {
		if occ.Overlaps(start, end) {
			drop[occ.Ordinal] = true
		}
	}
	if len(drop) == 0 {
		return nil
	}

	var removed []Suggestion
	kept := make([]Suggestion, 0, len(l.selection)-len(drop))
	for i, s := range l.selection {
		if drop[i] {
			removed = append(removed, s)
			continue
		}
		kept = append(kept, s)
	}
	l.selection = kept
	return removed
}
