// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds the styles of the composer.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	renderer *lipgloss.Renderer

	// ==========================================================================
	// LAYOUT
	// ==========================================================================

	Title   lipgloss.Style
	Editor  lipgloss.Style
	Preview lipgloss.Style

	// ==========================================================================
	// MENTION DROPDOWN
	// ==========================================================================

	Dropdown       lipgloss.Style
	DropdownItem   lipgloss.Style
	DropdownActive lipgloss.Style
	DropdownDetail lipgloss.Style
	DropdownSep    lipgloss.Style

	// ==========================================================================
	// STATUS BAR
	// ==========================================================================

	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// STATUS MESSAGES
	// ==========================================================================

	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	InfoStyle    lipgloss.Style
}

// NewTheme creates a theme for stdout, detecting the terminal's capabilities.
func NewTheme() *Theme {
	return NewThemeFor(os.Stdout, termenv.ColorProfile(), termenv.HasDarkBackground())
}

// NewThemeFor creates a theme rendering to w with an explicit color profile.
// termenv.Ascii yields plain text, which the tests and NO_COLOR rely on.
func NewThemeFor(w io.Writer, profile termenv.Profile, isDark bool) *Theme {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(profile)
	r.SetHasDarkBackground(isDark)

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: profile == termenv.TrueColor,
		ColorProfile: profile,
		renderer:     r,
	}
	t.initStyles()
	return t
}

// NewStyle returns a style bound to the theme's renderer.
func (t *Theme) NewStyle() lipgloss.Style {
	return t.renderer.NewStyle()
}

func (t *Theme) initStyles() {
	s := t.renderer.NewStyle

	t.Title = s().
		Bold(true).
		Foreground(Cyan).
		Padding(0, 1)

	t.Editor = s().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.Preview = s().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(0, 1)

	t.Dropdown = s().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(0, 1)

	t.DropdownItem = s().
		Foreground(TextPrimary)

	t.DropdownActive = s().
		Bold(true).
		Foreground(Purple).
		Background(SelectionBg)

	t.DropdownDetail = s().
		Foreground(TextMuted).
		Italic(true)

	t.DropdownSep = s().
		Foreground(Overlay)

	t.StatusBar = s().
		Foreground(TextSecondary).
		Background(SurfaceDim).
		Padding(0, 1)

	t.ShortcutKey = s().
		Bold(true).
		Foreground(Cyan)

	t.ShortcutDesc = s().
		Foreground(TextMuted)

	t.SuccessStyle = s().Bold(true).Foreground(Emerald)
	t.ErrorStyle = s().Bold(true).Foreground(Rose)
	t.WarningStyle = s().Bold(true).Foreground(Amber)
	t.InfoStyle = s().Foreground(Cyan)
}

// RenderSuccess renders a success message with its indicator.
func (t *Theme) RenderSuccess(message string) string {
	return t.SuccessStyle.Render(StatusIndicators.Success + " " + message)
}

// RenderError renders an error message with its indicator.
func (t *Theme) RenderError(message string) string {
	return t.ErrorStyle.Render(StatusIndicators.Error + " " + message)
}

// RenderWarning renders a warning message with its indicator.
func (t *Theme) RenderWarning(message string) string {
	return t.WarningStyle.Render(StatusIndicators.Warning + " " + message)
}

// RenderInfo renders an informational message with its indicator.
func (t *Theme) RenderInfo(message string) string {
	return t.InfoStyle.Render(StatusIndicators.Info + " " + message)
}

// GlamourStyle picks the preview style matching the terminal.
func (t *Theme) GlamourStyle() string {
	switch {
	case t.ColorProfile == termenv.Ascii:
		return "notty"
	case t.IsDark:
		return "dark"
	default:
		return "light"
	}
}
