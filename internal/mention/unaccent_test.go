// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mention

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnaccent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"plain", "plain"},
		{"Hélène", "Helene"},
		{"àáâãäå", "aaaaaa"},
		{"æon", "aeon"},
		{"cœur", "coeur"},
		{"garçon", "garcon"},
		{"niño", "nino"},
		{"über", "uber"},
		{"ÿ", "y"},
		{"a(b)[c]", "a b  c "},
		{"e\u0301te", "ete"}, // combining acute
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, Unaccent(tc.in))
		})
	}
}

func TestUnaccent_UppercaseUntouched(t *testing.T) {
	assert.Equal(t, "É", Unaccent("É"))
}

func TestSearchPattern(t *testing.T) {
	re := SearchPattern("Hél")
	assert.True(t, re.MatchString(Unaccent("hélène")))
	assert.True(t, re.MatchString("HELENE"))
	assert.False(t, re.MatchString("hector"))

	// Regex metacharacters are literal.
	assert.True(t, SearchPattern("a.b").MatchString("xa.by"))
	assert.False(t, SearchPattern("a.b").MatchString("axb"))
}
