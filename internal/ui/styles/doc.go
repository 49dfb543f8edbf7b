// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling of the mentionkit composer.

All colors use Lip Gloss AdaptiveColor for automatic light/dark terminal
detection. A Theme binds every style to one lipgloss renderer whose color
profile comes from termenv, so a theme built with termenv.Ascii renders plain
text.

# Usage

	theme := styles.NewTheme()
	fmt.Println(theme.RenderSuccess("saved"))

Status messages always carry an ASCII indicator ([OK], [X], [!], [i]) next to
their color.
*/
package styles
