// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package composer

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textarea"

	"github.com/jeranaias/mentionkit/internal/util"
)

// editorHost adapts a textarea to mention.Host.
//
// It is only touched from the bubbletea update loop, so it needs no locking.
type editorHost struct {
	ta textarea.Model

	// deleteAhead makes the reported selection cover the character after the
	// cursor, which is what a DELETE key is about to remove.
	deleteAhead bool
}

func newEditorHost() *editorHost {
	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.Placeholder = "Write markdown, @ to mention someone, #@ for a channel"
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.Prompt = ""
	ta.Focus()
	return &editorHost{ta: ta}
}

// Text implements mention.Host.
func (h *editorHost) Text() string {
	return h.ta.Value()
}

// SetText implements mention.Host. The cursor ends up at the end of the text.
func (h *editorHost) SetText(text string) {
	h.ta.SetValue(text)
}

// SelectionOffsets implements mention.Host.
func (h *editorHost) SelectionOffsets() (start, end int) {
	text := h.ta.Value()
	pos := util.RuneToByteOffset(text, h.cursorRune(text))
	if h.deleteAhead && pos < len(text) {
		_, size := utf8.DecodeRuneInString(text[pos:])
		return pos, pos + size
	}
	return pos, pos
}

// SetSelectionOffsets implements mention.Host. The textarea has no selection,
// so only start is used.
func (h *editorHost) SetSelectionOffsets(start, _ int) {
	text := h.ta.Value()
	h.setCursorRune(text, util.ByteToRuneOffset(text, start))
}

// cursorRune returns the cursor as a rune index into text.
func (h *editorHost) cursorRune(text string) int {
	row := h.ta.Line()
	info := h.ta.LineInfo()
	col := info.StartColumn + info.ColumnOffset

	idx := 0
	for i, line := range strings.Split(text, "\n") {
		if i == row {
			n := utf8.RuneCountInString(line)
			if col > n {
				col = n
			}
			return idx + col
		}
		idx += utf8.RuneCountInString(line) + 1
	}
	return utf8.RuneCountInString(text)
}

// setCursorRune moves the cursor to a rune index into text.
func (h *editorHost) setCursorRune(text string, runeIndex int) {
	line, col := util.LineColumn(text, runeIndex)

	// CursorUp/CursorDown step over soft-wrapped rows, so loop on the logical
	// line. The bound stops a loop that cannot make progress.
	for i := 0; h.ta.Line() > line && i < len(text)+1; i++ {
		h.ta.CursorUp()
	}
	for i := 0; h.ta.Line() < line && i < len(text)+1; i++ {
		h.ta.CursorDown()
	}
	h.ta.SetCursor(col)
}
