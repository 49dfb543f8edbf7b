// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mention

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// =============================================================================
// UNACCENT
// =============================================================================

// accentTable maps base forms to the characters folded into them.
var accentTable = map[string]string{
	"a":  "àáâãäå",
	"ae": "æ",
	"c":  "ç",
	"e":  "èéêë",
	"i":  "ìíîï",
	"n":  "ñ",
	"o":  "òóôõö",
	"oe": "œ",
	"u":  "ùúûűü",
	"y":  "ýÿ",
	" ":  "()[]",
}

var unaccenter = newUnaccenter()

func newUnaccenter() *strings.Replacer {
	var pairs []string
	for base, accented := range accentTable {
		for _, r := range accented {
			pairs = append(pairs, string(r), base)
		}
	}
	return strings.NewReplacer(pairs...)
}

// Unaccent replaces accented letters with their base letters and brackets with
// spaces. The input is composed to NFC first so that a letter followed by a
// combining accent is folded the same way as its precomposed form.
func Unaccent(s string) string {
	return unaccenter.Replace(norm.NFC.String(s))
}

// SearchPattern builds a case-insensitive literal pattern for a typed search
// string, compared against unaccented candidates.
func SearchPattern(search string) *regexp.Regexp {
	return regexp.MustCompile("(?i)" + regexp.QuoteMeta(Unaccent(search)))
}
