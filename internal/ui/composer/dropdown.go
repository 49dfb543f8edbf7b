// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package composer

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/mentionkit/internal/mention"
	"github.com/jeranaias/mentionkit/internal/ui/styles"
	"github.com/jeranaias/mentionkit/internal/util"
)

// =============================================================================
// MENTION DROPDOWN
// =============================================================================

// dropdownRow is one line of the dropdown: a suggestion or a group separator.
type dropdownRow struct {
	suggestion mention.Suggestion
	index      int // flat suggestion index, -1 for separators
}

// Dropdown renders grouped mention suggestions with one highlighted entry.
type Dropdown struct {
	theme      *styles.Theme
	width      int
	maxVisible int
}

// NewDropdown creates a dropdown.
func NewDropdown(theme *styles.Theme) *Dropdown {
	return &Dropdown{
		theme:      theme,
		width:      48,
		maxVisible: 8,
	}
}

// SetWidth sets the dropdown width including its border.
func (d *Dropdown) SetWidth(width int) {
	if width < 16 {
		width = 16
	}
	d.width = width
}

// rows flattens groups, separating non-empty groups with a separator row.
func rows(groups mention.Groups) []dropdownRow {
	var out []dropdownRow
	idx := 0
	for _, group := range groups {
		if len(group) == 0 {
			continue
		}
		if len(out) > 0 {
			out = append(out, dropdownRow{index: -1})
		}
		for _, s := range group {
			out = append(out, dropdownRow{suggestion: s, index: idx})
			idx++
		}
	}
	return out
}

// View renders the suggestions for delimiter with the flat index active
// highlighted. It returns "" when there is nothing to show.
func (d *Dropdown) View(groups mention.Groups, active int, delimiter string) string {
	all := rows(groups)
	if len(all) == 0 {
		return ""
	}

	// Scrolling window keeping the active row visible.
	activeRow := 0
	for i, r := range all {
		if r.index == active {
			activeRow = i
			break
		}
	}
	start, end := 0, len(all)
	if len(all) > d.maxVisible {
		start = activeRow - d.maxVisible/2
		if start < 0 {
			start = 0
		}
		end = start + d.maxVisible
		if end > len(all) {
			end = len(all)
			start = end - d.maxVisible
		}
	}

	inner := d.width - 4 // border and padding
	var lines []string
	for _, r := range all[start:end] {
		if r.index < 0 {
			lines = append(lines, d.theme.DropdownSep.Render(strings.Repeat("─", inner)))
			continue
		}
		lines = append(lines, d.renderItem(r, r.index == active, delimiter, inner))
	}
	return d.theme.Dropdown.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (d *Dropdown) renderItem(r dropdownRow, active bool, delimiter string, width int) string {
	name := delimiter + r.suggestion.Name
	detail := r.suggestion.Email
	if detail == "" && r.suggestion.Public != "" {
		detail = r.suggestion.Public
	}

	name = util.TruncateWidth(name, width)
	room := width - util.StringWidth(name) - 2
	if detail == "" || room <= 3 {
		detail = ""
	} else {
		detail = util.TruncateWidth(detail, room)
	}

	if active {
		line := name
		if detail != "" {
			line += "  " + detail
		}
		return d.theme.DropdownActive.Render(util.PadRight(line, width))
	}
	if detail == "" {
		return d.theme.DropdownItem.Render(name)
	}
	return d.theme.DropdownItem.Render(name) + "  " + d.theme.DropdownDetail.Render(detail)
}
