// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mention

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// =============================================================================
// DELIMITER DETECTION
// =============================================================================

// Detect reports whether the user is typing a mention at cursor.
//
// Listeners are checked in registration order and the first one with a valid
// candidate wins, even when a later delimiter would also match. The returned word
// is the text between the delimiter and the cursor.
func Detect(text string, cursor int, listeners []*Listener, minLength int) (*Listener, string, bool) {
	cursor = clampOffset(text, cursor)
	for _, l := range listeners {
		if word, ok := candidateWord(text[:cursor], l.Delimiter, minLength); ok {
			return l, word, true
		}
	}
	return nil, "", false
}

// candidateWord extracts the mention word after the rightmost delimiter in left.
func candidateWord(left, delimiter string, minLength int) (string, bool) {
	if delimiter == "" {
		return "", false
	}
	idx := strings.LastIndex(left, delimiter)
	if idx < 0 {
		return "", false
	}

	// Anchored at start of text or right after whitespace.
	if idx > 0 {
		r, _ := utf8.DecodeLastRuneInString(left[:idx])
		if !unicode.IsSpace(r) {
			return "", false
		}
	}

	word := left[idx+len(delimiter):]
	if utf8.RuneCountInString(word) <= minLength {
		return "", false
	}
	if strings.ContainsAny(word, " \r\n") {
		return "", false
	}
	return word, true
}

// clampOffset forces an offset reported by a host into the text and onto a rune
// boundary. Offsets go stale whenever the text is replaced behind our back.
func clampOffset(text string, offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > len(text) {
		return len(text)
	}
	for offset > 0 && offset < len(text) && !utf8.RuneStart(text[offset]) {
		offset--
	}
	return offset
}
