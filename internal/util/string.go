// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// =============================================================================
// OFFSETS
// =============================================================================

// RuneToByteOffset converts a rune index into a byte offset in s.
// Indices past the end map to len(s); negative indices map to 0.
func RuneToByteOffset(s string, runeIndex int) int {
	if runeIndex <= 0 {
		return 0
	}
	n := 0
	for i := range s {
		if n == runeIndex {
			return i
		}
		n++
	}
	return len(s)
}

// ByteToRuneOffset converts a byte offset in s into a rune index.
// An offset inside a multi-byte character counts that character as not reached.
func ByteToRuneOffset(s string, byteOffset int) int {
	if byteOffset <= 0 {
		return 0
	}
	if byteOffset >= len(s) {
		return utf8.RuneCountInString(s)
	}
	for byteOffset > 0 && !utf8.RuneStart(s[byteOffset]) {
		byteOffset--
	}
	return utf8.RuneCountInString(s[:byteOffset])
}

// LineColumn returns the zero-based line and rune column of a rune index.
func LineColumn(s string, runeIndex int) (line, col int) {
	n := 0
	for _, r := range s {
		if n == runeIndex {
			return line, col
		}
		if r == '\n' {
			line++
			col = 0
		} else {
			col++
		}
		n++
	}
	return line, col
}

// =============================================================================
// DISPLAY
// =============================================================================

// TruncateWidth truncates s to at most maxWidth terminal cells, ending with an
// ellipsis when something was cut.
func TruncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// PadRight pads s with spaces to width terminal cells.
func PadRight(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// StringWidth returns the display width of s. Double-width characters count as 2.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}
