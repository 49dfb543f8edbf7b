// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package composer is a terminal markdown editor with inline mentions.
//
// The editor is a bubbles textarea wired to a mention.Manager: typing a
// registered delimiter opens a suggestion dropdown, Up/Down move the highlight,
// Enter inserts the highlighted name and Escape closes the dropdown. Saving
// stores both the raw text and the committed markdown in which every bound
// mention is rewritten into a link.
//
// # Key Bindings
//
//	ctrl+s   save draft
//	ctrl+p   toggle markdown preview
//	ctrl+r   toggle highlighted source view
//	ctrl+y   copy committed markdown to the clipboard
//	ctrl+c   quit
//
// # Offsets
//
// The textarea addresses its cursor by line and rune column while the mention
// engine works on byte offsets. The editor host adapter converts between them.
package composer
