// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mention

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultBaseURL prefixes record addresses in rewritten links.
const DefaultBaseURL = "/web"

// =============================================================================
// HOST
// =============================================================================

// Host is the edited text surface. Offsets are byte offsets into Text and are
// only valid until the next text mutation.
//
// The manager calls the host while holding its own lock, so host methods must
// not call back into the manager.
type Host interface {
	Text() string
	SetText(text string)
	SelectionOffsets() (start, end int)
	SetSelectionOffsets(start, end int)
}

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures a Manager.
type Options struct {
	// MinLength is the number of characters a mention word must exceed.
	MinLength int

	// TypingSpeed is the debounce delay before suggestions are fetched.
	TypingSpeed time.Duration

	// BaseURL prefixes record addresses in rewritten links.
	BaseURL string

	// DiscardStale drops suggestions from superseded fetches.
	DiscardStale bool

	Logger   zerolog.Logger
	Recorder Recorder
}

// Option mutates Options.
type Option func(*Options)

// WithMinLength sets the minimum mention word length.
func WithMinLength(n int) Option {
	return func(o *Options) { o.MinLength = n }
}

// WithTypingSpeed sets the debounce delay.
func WithTypingSpeed(d time.Duration) Option {
	return func(o *Options) { o.TypingSpeed = d }
}

// WithBaseURL sets the link base URL.
func WithBaseURL(url string) Option {
	return func(o *Options) { o.BaseURL = url }
}

// WithDiscardStale enables the stale fetch guard.
func WithDiscardStale(discard bool) Option {
	return func(o *Options) { o.DiscardStale = discard }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(o *Options) { o.Recorder = r }
}

// =============================================================================
// MANAGER
// =============================================================================

// Manager lets a host editor register mention listeners. For each listener it
// detects whether the user is typing a mention, fetches and publishes
// suggestions, and keeps the listener's selection in step with the text.
type Manager struct {
	host      Host
	opts      Options
	scheduler *Scheduler
	logger    zerolog.Logger
	recorder  Recorder

	mu          sync.Mutex
	listeners   []*Listener
	suggestions Groups
	active      int
	open        bool

	// mention in progress, set by the last detection
	current *Listener
	word    string

	subscribers []func(Groups)
}

// NewManager creates a manager for host.
func NewManager(host Host, opts ...Option) *Manager {
	o := Options{
		TypingSpeed: DefaultTypingSpeed,
		BaseURL:     DefaultBaseURL,
		Logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Recorder == nil {
		o.Recorder = nopRecorder{}
	}

	m := &Manager{
		host:     host,
		opts:     o,
		logger:   o.Logger.With().Str("component", "mention").Logger(),
		recorder: o.Recorder,
	}
	m.scheduler = NewScheduler(o.TypingSpeed, m.publish)
	m.scheduler.DiscardStale = o.DiscardStale
	m.scheduler.logger = m.logger
	m.scheduler.recorder = m.recorder
	return m
}

// Register adds a listener. Registration order decides which delimiter wins
// when several match.
func (m *Manager) Register(delimiter string, fetch FetchFunc, model, linkClass string) error {
	if delimiter == "" {
		return ErrEmptyDelimiter
	}
	if fetch == nil {
		return fmt.Errorf("%w: %q", ErrNilFetch, delimiter)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.listeners {
		if l.Delimiter == delimiter {
			return fmt.Errorf("%w: %q", ErrDuplicateDelimiter, delimiter)
		}
	}
	m.listeners = append(m.listeners, &Listener{
		Delimiter: delimiter,
		Fetch:     fetch,
		Model:     model,
		LinkClass: linkClass,
	})
	m.logger.Debug().Str("delimiter", delimiter).Str("model", model).Msg("listener registered")
	return nil
}

// ListenerInfo describes a registered listener.
type ListenerInfo struct {
	Delimiter string
	Model     string
	LinkClass string
}

// Listeners returns a snapshot of the registered listeners in registration
// order. Bound mentions are only reachable through the Manager.
func (m *Manager) Listeners() []ListenerInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ListenerInfo, len(m.listeners))
	for i, l := range m.listeners {
		out[i] = ListenerInfo{Delimiter: l.Delimiter, Model: l.Model, LinkClass: l.LinkClass}
	}
	return out
}

// IsOpen reports whether suggestions are on display.
func (m *Manager) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

// Current returns the delimiter and word of the mention being typed.
func (m *Manager) Current() (delimiter, word string, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return "", "", false
	}
	return m.current.Delimiter, m.word, true
}

// Selection returns the bound suggestions of the listener for delimiter.
func (m *Manager) Selection(delimiter string) []Suggestion {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l := m.listenerLocked(delimiter); l != nil {
		return l.Selection()
	}
	return nil
}

// SetSelection restores the bound suggestions of a listener.
func (m *Manager) SetSelection(delimiter string, s []Suggestion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l := m.listenerLocked(delimiter)
	if l == nil {
		return fmt.Errorf("mention: no listener for %q", delimiter)
	}
	l.SetSelection(s)
	return nil
}

// ResetSelections clears every listener's selection, e.g. on loading a new
// document.
func (m *Manager) ResetSelections() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.listeners {
		l.Reset()
	}
}

// Suggestions returns the published suggestions.
func (m *Manager) Suggestions() Groups {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.suggestions
}

// Active returns the highlighted suggestion and its index in the flattened list.
func (m *Manager) Active() (Suggestion, int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	flat := m.suggestions.Flatten()
	if !m.open || m.active >= len(flat) {
		return Suggestion{}, -1, false
	}
	return flat[m.active], m.active, true
}

// SetActive highlights the suggestion at index i, e.g. on mouse hover.
func (m *Manager) SetActive(i int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i >= 0 && i < m.suggestions.Len() {
		m.active = i
	}
}

// Subscribe registers fn to be called after every publish.
func (m *Manager) Subscribe(fn func(Groups)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, fn)
}

// Close stops pending and in-flight fetches.
func (m *Manager) Close() {
	m.scheduler.Stop()
}

// =============================================================================
// EVENTS
// =============================================================================

// HandleTextChanged looks for a mention in progress and schedules a fetch.
func (m *Manager) HandleTextChanged() {
	text := m.host.Text()
	start, _ := m.host.SelectionOffsets()

	m.mu.Lock()
	l, word, _ := Detect(text, start, m.listeners, m.opts.MinLength)
	m.current = l
	m.word = word
	m.mu.Unlock()

	m.scheduler.Schedule(l, word)
}

// KeyDown handles a key before the host applies it and reports whether the host
// should suppress its default action.
func (m *Manager) KeyDown(k Key) bool {
	switch k {
	case KeyUp, KeyDown, KeyEnter:
		return m.IsOpen()
	case KeyBackspace, KeyDelete:
		m.CheckRemove()
	}
	return false
}

// KeyUp handles a key after the host applied it.
func (m *Manager) KeyUp(k Key) {
	switch k {
	case KeyEnd, KeyPageUp, KeyPageDown:
	case KeyEscape:
		m.Dismiss()
	case KeyEnter, KeyUp, KeyDown:
		m.HandleKeyNavigation(k)
	default:
		m.HandleTextChanged()
	}
}

// HandleKeyNavigation moves the highlight or accepts the highlighted suggestion.
// Movement stops at both ends of the list.
func (m *Manager) HandleKeyNavigation(k Key) {
	m.mu.Lock()
	if !m.open {
		m.mu.Unlock()
		return
	}
	switch k {
	case KeyDown:
		if m.active < m.suggestions.Len()-1 {
			m.active++
		}
	case KeyUp:
		if m.active > 0 {
			m.active--
		}
	}
	m.mu.Unlock()

	if k == KeyEnter {
		if err := m.AcceptActive(); err != nil {
			m.logger.Debug().Err(err).Msg("accept ignored")
		}
	}
}

// Dismiss closes the suggestions and drops a fetch that has not started yet.
func (m *Manager) Dismiss() {
	m.scheduler.Cancel()
	m.publish(nil)
}

// CheckRemove unbinds mentions touched by the host's current selection. It is
// called before a BACKSPACE or DELETE is applied and is a no-op when the
// selection does not reach any mention.
func (m *Manager) CheckRemove() {
	text := m.host.Text()
	start, end := m.host.SelectionOffsets()
	start, end = clampOffset(text, start), clampOffset(text, end)

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.listeners {
		removed := l.RemoveOverlapping(start, end, text)
		if len(removed) == 0 {
			continue
		}
		m.recorder.Removed(l.Delimiter, len(removed))
		m.logger.Debug().
			Str("delimiter", l.Delimiter).
			Int("removed", len(removed)).
			Int("remaining", len(l.selection)).
			Msg("mentions unbound")
	}
}

// AcceptActive accepts the highlighted suggestion.
func (m *Manager) AcceptActive() error {
	s, _, ok := m.Active()
	if !ok {
		return ErrNoActiveMention
	}
	return m.Accept(s.ID)
}

// Accept binds the suggestion with the given id to the mention in progress and
// replaces the typed word with the delimiter, the name and a space.
func (m *Manager) Accept(id int64) error {
	m.mu.Lock()

	var chosen *Suggestion
	flat := m.suggestions.Flatten()
	for i := range flat {
		if flat[i].ID == id {
			chosen = &flat[i]
			break
		}
	}
	if chosen == nil {
		m.mu.Unlock()
		return fmt.Errorf("%w: id %d", ErrUnknownSuggestion, id)
	}
	l, word := m.current, m.word
	if l == nil {
		m.mu.Unlock()
		return ErrNoActiveMention
	}

	text := m.host.Text()
	start, _ := m.host.SelectionOffsets()
	cursor := clampOffset(text, start)
	typed := l.Delimiter + word
	if !strings.HasSuffix(text[:cursor], typed) {
		m.mu.Unlock()
		return fmt.Errorf("%w: %q no longer before cursor", ErrNoActiveMention, typed)
	}

	index := l.Insert(*chosen, cursor, text)

	left := text[:cursor-len(typed)]
	inserted := l.Delimiter + chosen.Name + " "
	m.host.SetText(left + inserted + text[cursor:])
	pos := len(left) + len(inserted)
	m.host.SetSelectionOffsets(pos, pos)

	m.current, m.word = nil, ""
	m.recorder.Inserted(l.Delimiter)
	m.logger.Debug().
		Str("delimiter", l.Delimiter).
		Int64("id", chosen.ID).
		Int("index", index).
		Msg("mention bound")
	m.mu.Unlock()

	m.Dismiss()
	return nil
}

// RewriteLinks replaces every bound mention in text with a link reference.
func (m *Manager) RewriteLinks(text string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return RewriteLinks(text, m.listeners, m.opts.BaseURL)
}

// =============================================================================
// INTERNAL
// =============================================================================

func (m *Manager) publish(groups Groups) {
	m.mu.Lock()
	m.suggestions = groups
	m.open = groups.Len() > 0
	m.active = 0
	subscribers := slices.Clone(m.subscribers)
	m.mu.Unlock()

	m.recorder.Published(groups.Len())
	for _, fn := range subscribers {
		fn(groups)
	}
}

func (m *Manager) listenerLocked(delimiter string) *Listener {
	for _, l := range m.listeners {
		if l.Delimiter == delimiter {
			return l
		}
	}
	return nil
}
