// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package composer

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/mentionkit/internal/mention"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines the composer's own bindings. Editing keys belong to the
// textarea.
type KeyMap struct {
	Save    key.Binding
	Preview key.Binding
	Source  key.Binding
	Copy    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "save"),
		),
		Preview: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("C-p", "preview"),
		),
		Source: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("C-r", "source"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("C-y", "copy"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("C-c", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Save, k.Preview, k.Source, k.Copy, k.Quit}
}

// mentionKey maps a terminal key to the keys the mention engine cares about.
func mentionKey(msg tea.KeyMsg) mention.Key {
	switch msg.Type {
	case tea.KeyUp:
		return mention.KeyUp
	case tea.KeyDown:
		return mention.KeyDown
	case tea.KeyEnter:
		return mention.KeyEnter
	case tea.KeyEsc:
		return mention.KeyEscape
	case tea.KeyBackspace:
		return mention.KeyBackspace
	case tea.KeyDelete:
		return mention.KeyDelete
	case tea.KeyPgUp:
		return mention.KeyPageUp
	case tea.KeyPgDown:
		return mention.KeyPageDown
	case tea.KeyEnd:
		return mention.KeyEnd
	default:
		return mention.KeyOther
	}
}
