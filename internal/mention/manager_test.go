// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mention

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var people = Groups{{
	{ID: 7, Name: "Bob", Email: "bob@example.com"},
	{ID: 8, Name: "Bobby", Email: "bobby@example.com"},
	{ID: 9, Name: "Boris"},
}}

func newTestManager(t *testing.T, host *fakeHost, opts ...Option) *Manager {
	t.Helper()
	opts = append([]Option{WithTypingSpeed(time.Millisecond)}, opts...)
	m := NewManager(host, opts...)
	t.Cleanup(m.Close)
	return m
}

func waitOpen(t *testing.T, m *Manager) {
	t.Helper()
	require.Eventually(t, m.IsOpen, time.Second, time.Millisecond)
}

func TestManager_TypeAcceptRewrite(t *testing.T) {
	host := &fakeHost{}
	m := newTestManager(t, host)
	require.NoError(t, m.Register("@", staticFetch(people), "person", "mlink"))

	host.typeText("ping @Bo")
	m.KeyUp(KeyOther)
	waitOpen(t, m)

	s, idx, ok := m.Active()
	require.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.Equal(t, "Bob", s.Name)

	// ENTER is suppressed while suggestions are open and accepts on key up.
	assert.True(t, m.KeyDown(KeyEnter))
	m.KeyUp(KeyEnter)

	assert.Equal(t, "ping @Bob ", host.Text())
	start, end := host.SelectionOffsets()
	assert.Equal(t, 10, start)
	assert.Equal(t, 10, end)
	assert.False(t, m.IsOpen())
	assert.Equal(t, []string{"Bob"}, names(m.Selection("@")))

	host.typeText("now")
	m.KeyUp(KeyOther)
	assert.False(t, m.IsOpen())

	assert.Equal(t,
		"ping [Bob](/web#model=person&id=7){class=mlink data-oe-id=7 data-oe-model=person target=blank} now",
		m.RewriteLinks(host.Text()))
}

func TestManager_BackspaceUnbinds(t *testing.T) {
	host := &fakeHost{}
	m := newTestManager(t, host)
	require.NoError(t, m.Register("@", staticFetch(people), "person", "mlink"))

	host.typeText("@Bo")
	m.KeyUp(KeyOther)
	waitOpen(t, m)
	require.NoError(t, m.Accept(7))
	require.Equal(t, "@Bob ", host.Text())

	// Cursor right after "@Bob".
	host.SetSelectionOffsets(4, 4)
	assert.False(t, m.KeyDown(KeyBackspace))
	host.backspace()
	m.KeyUp(KeyBackspace)

	assert.Empty(t, m.Selection("@"))
	assert.Equal(t, "@Bo ", host.Text())
	assert.Equal(t, "@Bo ", m.RewriteLinks(host.Text()))
}

func TestManager_BackspaceElsewhereKeepsSelection(t *testing.T) {
	host := &fakeHost{}
	m := newTestManager(t, host)
	require.NoError(t, m.Register("@", staticFetch(people), "person", "mlink"))
	require.NoError(t, m.SetSelection("@", []Suggestion{{ID: 7, Name: "Bob"}}))

	host.SetText("@Bob and more")
	host.SetSelectionOffsets(13, 13)
	m.CheckRemove()

	assert.Equal(t, []string{"Bob"}, names(m.Selection("@")))
}

func TestManager_InsertBeforeExistingMention(t *testing.T) {
	host := &fakeHost{}
	m := newTestManager(t, host)
	require.NoError(t, m.Register("@", staticFetch(Groups{{{ID: 4, Name: "Alan"}}}), "person", "mlink"))
	require.NoError(t, m.SetSelection("@", []Suggestion{{ID: 2, Name: "Kim"}}))

	host.SetText("hi @Al @Kim")
	host.SetSelectionOffsets(6, 6)
	m.HandleTextChanged()
	waitOpen(t, m)

	require.NoError(t, m.AcceptActive())
	assert.Equal(t, "hi @Alan  @Kim", host.Text())
	assert.Equal(t, []string{"Alan", "Kim"}, names(m.Selection("@")))

	start, _ := host.SelectionOffsets()
	assert.Equal(t, 9, start)
}

func TestManager_Navigation(t *testing.T) {
	host := &fakeHost{}
	m := newTestManager(t, host)
	require.NoError(t, m.Register("@", staticFetch(people), "person", "mlink"))

	host.typeText("@Bo")
	m.KeyUp(KeyOther)
	waitOpen(t, m)

	activeName := func() string {
		s, _, ok := m.Active()
		require.True(t, ok)
		return s.Name
	}

	// UP at the top stays put.
	m.KeyUp(KeyUp)
	assert.Equal(t, "Bob", activeName())

	m.KeyUp(KeyDown)
	assert.Equal(t, "Bobby", activeName())
	m.KeyUp(KeyDown)
	assert.Equal(t, "Boris", activeName())

	// DOWN at the bottom stays put.
	m.KeyUp(KeyDown)
	assert.Equal(t, "Boris", activeName())

	m.KeyUp(KeyUp)
	assert.Equal(t, "Bobby", activeName())

	m.SetActive(2)
	assert.Equal(t, "Boris", activeName())
	m.SetActive(10)
	assert.Equal(t, "Boris", activeName())

	m.KeyUp(KeyEnter)
	assert.Equal(t, "@Boris ", host.Text())
}

func TestManager_KeyDownWhenClosed(t *testing.T) {
	host := &fakeHost{}
	m := newTestManager(t, host)
	require.NoError(t, m.Register("@", staticFetch(people), "person", "mlink"))

	for _, k := range []Key{KeyUp, KeyDown, KeyEnter, KeyEscape, KeyOther} {
		assert.False(t, m.KeyDown(k), k.String())
	}
}

func TestManager_IgnoredKeys(t *testing.T) {
	var calls atomic.Int32
	host := &fakeHost{}
	m := newTestManager(t, host)
	require.NoError(t, m.Register("@", func(context.Context, string) (Groups, error) {
		calls.Add(1)
		return people, nil
	}, "person", "mlink"))

	host.typeText("@Bo")
	for _, k := range []Key{KeyEnd, KeyPageUp, KeyPageDown} {
		m.KeyUp(k)
	}
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
	assert.False(t, m.IsOpen())
}

func TestManager_Escape(t *testing.T) {
	host := &fakeHost{}
	m := newTestManager(t, host)
	require.NoError(t, m.Register("@", staticFetch(people), "person", "mlink"))

	var mu sync.Mutex
	var published []int
	m.Subscribe(func(g Groups) {
		mu.Lock()
		defer mu.Unlock()
		published = append(published, g.Len())
	})

	host.typeText("@Bo")
	m.KeyUp(KeyOther)
	waitOpen(t, m)

	m.KeyUp(KeyEscape)
	assert.False(t, m.IsOpen())
	assert.Equal(t, 0, m.Suggestions().Len())
	_, _, ok := m.Active()
	assert.False(t, ok)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{3, 0}, published)
}

func TestManager_SubscribeDuringPublish(t *testing.T) {
	host := &fakeHost{}
	m := newTestManager(t, host)
	require.NoError(t, m.Register("@", staticFetch(people), "person", "mlink"))

	var mu sync.Mutex
	var first, second []int
	m.Subscribe(func(g Groups) {
		mu.Lock()
		first = append(first, g.Len())
		subscribe := len(first) == 1
		mu.Unlock()
		if subscribe {
			m.Subscribe(func(g Groups) {
				mu.Lock()
				defer mu.Unlock()
				second = append(second, g.Len())
			})
		}
	})

	host.typeText("@Bo")
	m.KeyUp(KeyOther)
	waitOpen(t, m)
	m.KeyUp(KeyEscape)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{3, 0}, first)
	// Added while the first publish was running, so only sees the second.
	assert.Equal(t, []int{0}, second)
}

func TestManager_MinLength(t *testing.T) {
	var calls atomic.Int32
	host := &fakeHost{}
	m := newTestManager(t, host, WithMinLength(2))
	require.NoError(t, m.Register("@", func(context.Context, string) (Groups, error) {
		calls.Add(1)
		return people, nil
	}, "person", "mlink"))

	host.typeText("@Bo")
	m.KeyUp(KeyOther)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())

	host.typeText("b")
	m.KeyUp(KeyOther)
	waitOpen(t, m)
	assert.Equal(t, int32(1), calls.Load())
}

func TestManager_Register(t *testing.T) {
	m := newTestManager(t, &fakeHost{})

	assert.ErrorIs(t, m.Register("", emptyFetch, "m", "c"), ErrEmptyDelimiter)
	assert.ErrorIs(t, m.Register("@", nil, "m", "c"), ErrNilFetch)
	require.NoError(t, m.Register("@", emptyFetch, "m", "c"))
	require.NoError(t, m.Register("#@", emptyFetch, "m2", "c2"))
	assert.ErrorIs(t, m.Register("@", emptyFetch, "m", "c"), ErrDuplicateDelimiter)

	ls := m.Listeners()
	require.Len(t, ls, 2)
	assert.Equal(t, ListenerInfo{Delimiter: "@", Model: "m", LinkClass: "c"}, ls[0])
	assert.Equal(t, ListenerInfo{Delimiter: "#@", Model: "m2", LinkClass: "c2"}, ls[1])

	// Listeners hands out copies.
	ls[0].Model = "changed"
	assert.Equal(t, "m", m.Listeners()[0].Model)
}

func TestManager_AcceptErrors(t *testing.T) {
	host := &fakeHost{}
	m := newTestManager(t, host)
	require.NoError(t, m.Register("@", staticFetch(people), "person", "mlink"))

	assert.ErrorIs(t, m.AcceptActive(), ErrNoActiveMention)

	host.typeText("@Bo")
	m.KeyUp(KeyOther)
	waitOpen(t, m)

	assert.ErrorIs(t, m.Accept(1234), ErrUnknownSuggestion)

	// The typed word moved away from the cursor.
	host.SetSelectionOffsets(0, 0)
	err := m.Accept(7)
	assert.True(t, errors.Is(err, ErrNoActiveMention))
	assert.Equal(t, "@Bo", host.Text())
	assert.Empty(t, m.Selection("@"))
}

func TestManager_Selections(t *testing.T) {
	m := newTestManager(t, &fakeHost{})
	require.NoError(t, m.Register("@", emptyFetch, "person", "mlink"))
	require.NoError(t, m.Register("#@", emptyFetch, "channel", "clink"))

	require.NoError(t, m.SetSelection("@", []Suggestion{{ID: 1, Name: "Ann"}}))
	require.NoError(t, m.SetSelection("#@", []Suggestion{{ID: 2, Name: "ops"}}))
	assert.Error(t, m.SetSelection("!", nil))
	assert.Nil(t, m.Selection("!"))

	assert.Equal(t, []string{"Ann"}, names(m.Selection("@")))
	m.ResetSelections()
	assert.Empty(t, m.Selection("@"))
	assert.Empty(t, m.Selection("#@"))
}

func TestManager_TwoListeners(t *testing.T) {
	host := &fakeHost{}
	m := newTestManager(t, host)
	require.NoError(t, m.Register("@", staticFetch(people), "res.partner", "o_mail_redirect"))
	require.NoError(t, m.Register("#@", staticFetch(Groups{{{ID: 5, Name: "ops"}}}), "mail.channel", "o_channel_redirect"))

	host.typeText("see #@o")
	m.KeyUp(KeyOther)
	waitOpen(t, m)
	require.NoError(t, m.AcceptActive())

	assert.Equal(t, "see #@ops ", host.Text())
	assert.Empty(t, m.Selection("@"))
	assert.Equal(t, []string{"ops"}, names(m.Selection("#@")))
}

func TestManager_Recorder(t *testing.T) {
	rec := &countingRecorder{}
	host := &fakeHost{}
	m := newTestManager(t, host, WithRecorder(rec))
	require.NoError(t, m.Register("@", staticFetch(people), "person", "mlink"))

	host.typeText("@Bo")
	m.KeyUp(KeyOther)
	waitOpen(t, m)
	require.NoError(t, m.Accept(8))

	host.SetSelectionOffsets(6, 6)
	m.CheckRemove()

	snap := rec.snapshot()
	assert.Equal(t, 1, snap.fetches)
	assert.Equal(t, 1, snap.inserted)
	assert.Equal(t, 1, snap.removed)
	assert.Equal(t, []int{3, 0}, snap.published)
}

func TestManager_Current(t *testing.T) {
	host := &fakeHost{}
	m := newTestManager(t, host)
	require.NoError(t, m.Register("@", staticFetch(people), "person", "mlink"))

	_, _, ok := m.Current()
	assert.False(t, ok)

	host.typeText("hi @Bo")
	m.KeyUp(KeyOther)
	delim, word, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, "@", delim)
	assert.Equal(t, "Bo", word)

	waitOpen(t, m)
	require.NoError(t, m.AcceptActive())
	_, _, ok = m.Current()
	assert.False(t, ok)
}
