// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mention

import (
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// LINK REWRITING
// =============================================================================

const linkTemplate = "[%s](%s){class=%s data-oe-id=%s data-oe-model=%s target=blank}"

// RecordURL returns the address of a record of the given model.
func RecordURL(baseURL, model string, id int64) string {
	return fmt.Sprintf("%s#model=%s&id=%d", baseURL, model, id)
}

// RewriteLinks replaces every bound mention in text with a link reference.
//
// Listeners run in order, each on the output of the previous one. The text is
// rebuilt from segments so that a name contained in another name is never
// substituted twice.
func RewriteLinks(text string, listeners []*Listener, baseURL string) string {
	for _, l := range listeners {
		if len(l.selection) == 0 {
			continue
		}
		occurrences := FindOccurrences(text, l)
		if len(occurrences) == 0 {
			continue
		}

		var sb strings.Builder
		last := 0
		for _, occ := range occurrences {
			s := l.selection[occ.Ordinal]
			sb.WriteString(text[last:occ.Start])
			sb.WriteString(l.link(occ, s, baseURL))
			last = occ.End
		}
		sb.WriteString(text[last:])
		text = sb.String()
	}
	return text
}

func (l *Listener) link(occ Occurrence, s Suggestion, baseURL string) string {
	id := strconv.FormatInt(s.ID, 10)
	name := strings.TrimPrefix(occ.Text, l.Delimiter)
	return fmt.Sprintf(linkTemplate, name, RecordURL(baseURL, l.Model, s.ID), l.LinkClass, id, l.Model)
}
