// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package composer

import (
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/jeranaias/mentionkit/internal/mention"
	"github.com/jeranaias/mentionkit/internal/render"
	"github.com/jeranaias/mentionkit/internal/storage"
	"github.com/jeranaias/mentionkit/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// suggestionsMsg carries a publish from the mention manager into the update loop.
type suggestionsMsg struct {
	groups mention.Groups
}

// waitForSuggestions blocks until the manager publishes.
func waitForSuggestions(ch <-chan mention.Groups) tea.Cmd {
	return func() tea.Msg {
		groups, ok := <-ch
		if !ok {
			return nil
		}
		return suggestionsMsg{groups: groups}
	}
}

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures a composer.
type Options struct {
	Theme     *styles.Theme
	Store     *storage.DocumentStore
	Previewer *render.Previewer

	// EditorMode and EditorTheme select the chroma lexer and style of the
	// source view.
	EditorMode  string
	EditorTheme string

	// PreviewWidth caps the preview wrap width.
	PreviewWidth int

	// Clipboard copies text; defaults to the system clipboard.
	Clipboard func(string) error

	Logger  zerolog.Logger
	Mention []mention.Option
}

type viewMode int

const (
	modeEdit viewMode = iota
	modePreview
	modeSource
)

// =============================================================================
// MODEL
// =============================================================================

// Model is the composer's bubbletea model.
type Model struct {
	host      *editorHost
	manager   *mention.Manager
	keys      KeyMap
	theme     *styles.Theme
	dropdown  *Dropdown
	viewport  viewport.Model
	previewer *render.Previewer
	store     *storage.DocumentStore
	doc       *storage.StoredDocument
	opts      Options
	logger    zerolog.Logger

	suggestCh chan mention.Groups

	mode     viewMode
	status   string
	dirty    bool
	width    int
	height   int
	quitting bool
}

// New creates a composer editing a new document.
func New(opts Options) *Model {
	if opts.Theme == nil {
		opts.Theme = styles.NewTheme()
	}
	if opts.Previewer == nil {
		opts.Previewer = render.NewPreviewer(opts.Theme.GlamourStyle())
	}
	if opts.EditorMode == "" {
		opts.EditorMode = "markdown"
	}
	if opts.EditorTheme == "" {
		opts.EditorTheme = "monokai"
	}
	if opts.PreviewWidth <= 0 {
		opts.PreviewWidth = 80
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}

	host := newEditorHost()
	m := &Model{
		host:      host,
		manager:   mention.NewManager(host, opts.Mention...),
		keys:      DefaultKeyMap(),
		theme:     opts.Theme,
		dropdown:  NewDropdown(opts.Theme),
		viewport:  viewport.New(80, 20),
		previewer: opts.Previewer,
		store:     opts.Store,
		doc:       &storage.StoredDocument{},
		opts:      opts,
		logger:    opts.Logger.With().Str("component", "composer").Logger(),
		suggestCh: make(chan mention.Groups, 1),
		width:     80,
		height:    24,
	}
	m.manager.Subscribe(m.onSuggestions)
	return m
}

// Register adds a mention listener. See mention.Manager.Register.
func (m *Model) Register(delimiter string, fetch mention.FetchFunc, model, linkClass string) error {
	return m.manager.Register(delimiter, fetch, model, linkClass)
}

// Manager returns the mention manager behind the editor.
func (m *Model) Manager() *mention.Manager {
	return m.manager
}

// Open loads a stored document into the editor. Listeners must be registered
// first so that saved selections can be restored.
func (m *Model) Open(doc *storage.StoredDocument) {
	m.doc = doc
	m.manager.ResetSelections()
	m.host.SetText(doc.Raw)
	for delimiter, sel := range doc.Selections {
		if err := m.manager.SetSelection(delimiter, sel); err != nil {
			m.logger.Warn().Err(err).Str("delimiter", delimiter).Msg("saved selection dropped")
		}
	}
	m.dirty = false
}

// Value returns the raw editor text.
func (m *Model) Value() string {
	return m.host.Text()
}

// Committed returns the text with bound mentions rewritten into links.
func (m *Model) Committed() string {
	return m.manager.RewriteLinks(m.host.Text())
}

// Document returns the document being edited.
func (m *Model) Document() *storage.StoredDocument {
	return m.doc
}

// onSuggestions runs on the scheduler's goroutine. Only the latest publish is
// kept for the update loop.
func (m *Model) onSuggestions(groups mention.Groups) {
	for {
		select {
		case m.suggestCh <- groups:
			return
		default:
			select {
			case <-m.suggestCh:
			default:
			}
		}
	}
}

// =============================================================================
// BUBBLETEA
// =============================================================================

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, waitForSuggestions(m.suggestCh))
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case suggestionsMsg:
		return m, waitForSuggestions(m.suggestCh)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.host.ta, cmd = m.host.ta.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.manager.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Save):
		m.save()
		return m, nil
	case key.Matches(msg, m.keys.Copy):
		m.copyCommitted()
		return m, nil
	case key.Matches(msg, m.keys.Preview):
		m.toggleMode(modePreview)
		return m, nil
	case key.Matches(msg, m.keys.Source):
		m.toggleMode(modeSource)
		return m, nil
	}

	if m.mode != modeEdit {
		if msg.Type == tea.KeyEsc {
			m.mode = modeEdit
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	return m.handleEditKey(msg)
}

// handleEditKey runs the mention key protocol around the textarea: the manager
// sees the key before the textarea applies it and again afterwards.
func (m *Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := mentionKey(msg)
	before := m.host.Text()

	m.host.deleteAhead = k == mention.KeyDelete
	suppress := m.manager.KeyDown(k)
	m.host.deleteAhead = false

	var cmd tea.Cmd
	if !suppress {
		m.host.ta, cmd = m.host.ta.Update(msg)
	}
	m.manager.KeyUp(k)

	if m.host.Text() != before {
		m.dirty = true
		m.status = ""
	}
	return m, cmd
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height

	m.host.ta.SetWidth(max(width-4, 10))
	// title, status bar, editor border and room for the dropdown
	m.host.ta.SetHeight(max(height-6-m.dropdown.maxVisible, 3))
	m.dropdown.SetWidth(min(width-2, 60))

	m.viewport.Width = max(width-4, 10)
	m.viewport.Height = max(height-4, 3)
	if m.mode != modeEdit {
		m.refreshViewport()
	}
}

func (m *Model) toggleMode(mode viewMode) {
	if m.mode == mode {
		m.mode = modeEdit
		return
	}
	m.mode = mode
	m.manager.Dismiss()
	m.refreshViewport()
}

func (m *Model) refreshViewport() {
	committed := m.Committed()
	switch m.mode {
	case modePreview:
		width := min(m.viewport.Width, m.opts.PreviewWidth)
		out, err := m.previewer.Render(committed, width)
		if err != nil {
			m.logger.Error().Err(err).Msg("preview failed")
			out = committed
		}
		m.viewport.SetContent(out)
	case modeSource:
		m.viewport.SetContent(render.Highlight(committed, m.opts.EditorMode, m.opts.EditorTheme))
	}
	m.viewport.GotoTop()
}

// =============================================================================
// ACTIONS
// =============================================================================

// selections snapshots the bound mentions of every listener.
func (m *Model) selections() map[string][]mention.Suggestion {
	out := make(map[string][]mention.Suggestion)
	for _, l := range m.manager.Listeners() {
		if sel := m.manager.Selection(l.Delimiter); len(sel) > 0 {
			out[l.Delimiter] = sel
		}
	}
	return out
}

func (m *Model) save() {
	if m.store == nil {
		m.status = m.theme.RenderWarning("no document store configured")
		return
	}

	text := m.host.Text()
	m.doc.Raw = text
	m.doc.Value = m.manager.RewriteLinks(text)
	m.doc.Selections = m.selections()

	id, err := m.store.Save(m.doc)
	if err != nil {
		m.logger.Error().Err(err).Msg("save failed")
		m.status = m.theme.RenderError("save failed: " + err.Error())
		return
	}

	m.dirty = false
	m.logger.Info().Str("id", id).Int("mentions", m.doc.MentionCount()).Msg("document saved")
	m.status = m.theme.RenderSuccess("saved " + shortID(id))
}

func (m *Model) copyCommitted() {
	if err := m.opts.Clipboard(m.Committed()); err != nil {
		m.logger.Warn().Err(err).Msg("clipboard copy failed")
		m.status = m.theme.RenderError("copy failed: " + err.Error())
		return
	}
	m.status = m.theme.RenderSuccess("markdown copied")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	parts := []string{m.renderTitle()}
	switch m.mode {
	case modeEdit:
		parts = append(parts, m.theme.Editor.Render(m.host.ta.View()))
		if dd := m.renderDropdown(); dd != "" {
			parts = append(parts, dd)
		}
	default:
		parts = append(parts, m.theme.Preview.Render(m.viewport.View()))
	}
	parts = append(parts, m.renderStatus())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) renderTitle() string {
	title := "mentionkit"
	if m.doc.Title != "" {
		title += " · " + m.doc.Title
	}
	switch m.mode {
	case modePreview:
		title += " [preview]"
	case modeSource:
		title += " [source]"
	}
	if m.dirty {
		title += " *"
	}
	return m.theme.Title.Render(title)
}

func (m *Model) renderDropdown() string {
	if !m.manager.IsOpen() {
		return ""
	}
	delimiter, _, ok := m.manager.Current()
	if !ok {
		return ""
	}
	_, active, _ := m.manager.Active()
	return m.dropdown.View(m.manager.Suggestions(), active, delimiter)
}

func (m *Model) renderStatus() string {
	if m.status != "" {
		return m.theme.StatusBar.Render(m.status)
	}
	var help []string
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		help = append(help, m.theme.ShortcutKey.Render(h.Key)+" "+m.theme.ShortcutDesc.Render(h.Desc))
	}
	return m.theme.StatusBar.Render(strings.Join(help, "  "))
}
