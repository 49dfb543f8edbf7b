// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render displays drafts in the terminal: the committed markdown as a
// formatted preview, and the raw source with syntax highlighting.
package render

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/glamour"
)

// Glamour standard styles.
const (
	StyleDark  = "dark"
	StyleLight = "light"
	StyleNoTTY = "notty"
)

// linkAttrs matches the "{class=... data-oe-id=...}" block a rewritten mention
// carries after its link. Markdown renderers print it verbatim.
var linkAttrs = regexp.MustCompile(`\)\{[^{}\n]*\}`)

// StripLinkAttributes removes attribute blocks that follow links.
func StripLinkAttributes(markdown string) string {
	return linkAttrs.ReplaceAllString(markdown, ")")
}

// =============================================================================
// PREVIEW
// =============================================================================

// Previewer renders markdown with glamour. Renderers are built lazily per
// width, since glamour fixes word wrap at construction.
type Previewer struct {
	style string

	mu        sync.Mutex
	renderers map[int]*glamour.TermRenderer
}

// NewPreviewer creates a previewer using a glamour standard style.
func NewPreviewer(style string) *Previewer {
	if style == "" {
		style = StyleDark
	}
	return &Previewer{
		style:     style,
		renderers: make(map[int]*glamour.TermRenderer),
	}
}

// Render formats markdown wrapped at width cells.
func (p *Previewer) Render(markdown string, width int) (string, error) {
	r, err := p.renderer(width)
	if err != nil {
		return "", err
	}
	out, err := r.Render(StripLinkAttributes(markdown))
	if err != nil {
		return "", fmt.Errorf("render preview: %w", err)
	}
	return out, nil
}

func (p *Previewer) renderer(width int) (*glamour.TermRenderer, error) {
	if width < 20 {
		width = 20
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if r, ok := p.renderers[width]; ok {
		return r, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(p.style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("create preview renderer: %w", err)
	}
	p.renderers[width] = r
	return r, nil
}

// =============================================================================
// SOURCE HIGHLIGHTING
// =============================================================================

// Highlight applies syntax highlighting to source for the terminal. mode names
// a chroma lexer (e.g. "markdown") and theme a chroma style (e.g. "monokai").
// Unknown names fall back to plain text and the default style.
func Highlight(source, mode, theme string) string {
	lexer := lexers.Get(mode)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get(theme)
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return source
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return source
	}
	return buf.String()
}

// KnownMode reports whether chroma has a lexer for mode.
func KnownMode(mode string) bool {
	return lexers.Get(mode) != nil
}

// KnownTheme reports whether chroma has a style named theme.
func KnownTheme(theme string) bool {
	_, ok := chromaStyles.Registry[strings.ToLower(theme)]
	return ok
}
