// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package internal provides integration tests for the complete mentionkit
// pipeline.
//
// These tests verify end-to-end functionality including:
// - Directory seeding and accent-insensitive lookup
// - Suggestion fetching through the throttled sources
// - Accepting suggestions into the text
// - Unbinding mentions on deletion
// - Link rewriting and draft persistence
package internal

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/jeranaias/mentionkit/internal/directory"
	"github.com/jeranaias/mentionkit/internal/mention"
	"github.com/jeranaias/mentionkit/internal/storage"
	"github.com/jeranaias/mentionkit/internal/suggest"
	"github.com/jeranaias/mentionkit/internal/telemetry"
)

// =============================================================================
// TEST UTILITIES
// =============================================================================

const seedTOML = `
[[partner]]
id = 7
name = "Bob"
email = "bob@example.com"

[[partner]]
id = 8
name = "Hélène"
email = "h.dupont@example.com"

[[channel]]
id = 3
name = "general"
public = "public"

[[channel]]
id = 4
name = "board"
public = "private"
`

// bufferHost is a mention.Host over a string with a collapsed cursor.
type bufferHost struct {
	mu     sync.Mutex
	text   string
	cursor int
}

func (h *bufferHost) Text() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.text
}

func (h *bufferHost) SetText(text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.text = text
	h.cursor = len(text)
}

func (h *bufferHost) SelectionOffsets() (int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor, h.cursor
}

func (h *bufferHost) SetSelectionOffsets(start, _ int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cursor = start
}

// typeText appends s at the end of the text as if typed.
func typeText(m *mention.Manager, h *bufferHost, s string) {
	h.SetText(h.Text() + s)
	m.HandleTextChanged()
}

// waitOpen waits for the manager to publish a non-empty suggestion list.
func waitOpen(t *testing.T, m *mention.Manager) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !m.IsOpen() {
		if time.Now().After(deadline) {
			t.Fatal("suggestions never opened")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

type pipeline struct {
	dir     *directory.Directory
	metrics *telemetry.Metrics
	host    *bufferHost
	manager *mention.Manager
}

// newPipeline wires a seeded directory into a manager with the default
// partner and channel listeners.
func newPipeline(t *testing.T) *pipeline {
	t.Helper()

	seedPath := filepath.Join(t.TempDir(), "seed.toml")
	if err := os.WriteFile(seedPath, []byte(seedTOML), 0644); err != nil {
		t.Fatalf("failed to write seed: %v", err)
	}

	dir, err := directory.Open(directory.DefaultConfig(filepath.Join(t.TempDir(), "directory.db")))
	if err != nil {
		t.Fatalf("failed to open directory: %v", err)
	}
	t.Cleanup(func() { dir.Close() })
	if err := dir.ImportFile(context.Background(), seedPath); err != nil {
		t.Fatalf("failed to import seed: %v", err)
	}

	metrics := telemetry.NewMetrics(prometheus.NewRegistry())
	sources := suggest.NewSources(suggest.Throttle(dir, 0, 1).WithRecorder(metrics), suggest.DefaultLimit)

	host := &bufferHost{}
	m := mention.NewManager(host,
		mention.WithTypingSpeed(time.Millisecond),
		mention.WithRecorder(metrics),
	)
	t.Cleanup(m.Close)

	if err := m.Register("@", sources.Partners.Fetch, "res.partner", "o_mail_redirect"); err != nil {
		t.Fatalf("Register(@) failed: %v", err)
	}
	if err := m.Register("#@", sources.Channels.Fetch, "mail.channel", "o_channel_redirect"); err != nil {
		t.Fatalf("Register(#@) failed: %v", err)
	}

	return &pipeline{dir: dir, metrics: metrics, host: host, manager: m}
}

// =============================================================================
// END-TO-END MENTION TEST
// =============================================================================

// TestEndToEndMentions types two mentions, accepts them, rewrites the text and
// stores it as a draft.
func TestEndToEndMentions(t *testing.T) {
	p := newPipeline(t)
	m, h := p.manager, p.host

	typeText(m, h, "hi @hel")
	waitOpen(t, m)

	active, _, ok := m.Active()
	if !ok || active.Name != "Hélène" {
		t.Fatalf("expected Hélène to be active, got %+v (ok=%v)", active, ok)
	}
	if err := m.AcceptActive(); err != nil {
		t.Fatalf("AcceptActive failed: %v", err)
	}
	if got := h.Text(); got != "hi @Hélène " {
		t.Fatalf("unexpected text after accept: %q", got)
	}

	typeText(m, h, "and #@gen")
	waitOpen(t, m)

	groups := m.Suggestions()
	if len(groups) != 2 || len(groups[0]) != 1 || groups[0][0].Name != "general" {
		t.Fatalf("expected general in the open channel group, got %+v", groups)
	}
	if err := m.AcceptActive(); err != nil {
		t.Fatalf("AcceptActive failed: %v", err)
	}

	raw := h.Text()
	if raw != "hi @Hélène and #@general " {
		t.Fatalf("unexpected text: %q", raw)
	}

	committed := m.RewriteLinks(raw)
	wantPartner := "[Hélène](/web#model=res.partner&id=8){class=o_mail_redirect data-oe-id=8 data-oe-model=res.partner target=blank}"
	wantChannel := "[general](/web#model=mail.channel&id=3){class=o_channel_redirect data-oe-id=3 data-oe-model=mail.channel target=blank}"
	if committed != "hi "+wantPartner+" and "+wantChannel+" " {
		t.Errorf("unexpected rewrite:\n%s", committed)
	}

	if got := testutil.ToFloat64(p.metrics.MentionsInserted.WithLabelValues("@")); got != 1 {
		t.Errorf("expected 1 partner mention inserted, got %v", got)
	}
	if got := testutil.ToFloat64(p.metrics.DirectoryLookups.WithLabelValues(suggest.SourceChannels)); got < 1 {
		t.Errorf("expected a channel lookup, got %v", got)
	}

	// Save and restore through the document store
	store, err := storage.NewDocumentStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewDocumentStoreWithDir failed: %v", err)
	}
	id, err := store.Save(&storage.StoredDocument{
		Raw:   raw,
		Value: committed,
		Selections: map[string][]mention.Suggestion{
			"@":  m.Selection("@"),
			"#@": m.Selection("#@"),
		},
	})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	doc, err := store.Load(id)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if doc.MentionCount() != 2 {
		t.Errorf("expected 2 stored mentions, got %d", doc.MentionCount())
	}

	m.ResetSelections()
	for delimiter, sel := range doc.Selections {
		if err := m.SetSelection(delimiter, sel); err != nil {
			t.Fatalf("SetSelection(%q) failed: %v", delimiter, err)
		}
	}
	if got := m.RewriteLinks(doc.Raw); got != doc.Value {
		t.Errorf("restored rewrite differs:\n got: %s\nwant: %s", got, doc.Value)
	}
}

// =============================================================================
// DELETION TEST
// =============================================================================

// TestBackspaceUnbindsMention removes the last character of an accepted
// mention and expects the plain text to stay unlinked.
func TestBackspaceUnbindsMention(t *testing.T) {
	p := newPipeline(t)
	m, h := p.manager, p.host

	typeText(m, h, "@bo")
	waitOpen(t, m)
	if err := m.AcceptActive(); err != nil {
		t.Fatalf("AcceptActive failed: %v", err)
	}
	typeText(m, h, "says hi")

	// Cursor right after "@Bob", as before a backspace
	h.SetSelectionOffsets(len("@Bob"), len("@Bob"))
	m.CheckRemove()
	h.SetText(strings.Replace(h.Text(), "@Bob", "@Bo", 1))

	if sel := m.Selection("@"); len(sel) != 0 {
		t.Errorf("expected the mention to be unbound, got %+v", sel)
	}
	if got := m.RewriteLinks(h.Text()); got != "@Bo says hi" {
		t.Errorf("unexpected rewrite: %q", got)
	}
	if got := testutil.ToFloat64(p.metrics.MentionsRemoved.WithLabelValues("@")); got != 1 {
		t.Errorf("expected 1 removal recorded, got %v", got)
	}
}

// =============================================================================
// SEED RELOAD TEST
// =============================================================================

// TestSeedReloadChangesSuggestions re-imports a changed seed and expects new
// partners to be suggested.
func TestSeedReloadChangesSuggestions(t *testing.T) {
	p := newPipeline(t)
	m, h := p.manager, p.host

	seed := &directory.Seed{
		Partners: []mention.Suggestion{{ID: 21, Name: "Zoë", Email: "zoe@example.com"}},
	}
	if err := p.dir.Import(context.Background(), seed); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	typeText(m, h, "cc @zoe")
	waitOpen(t, m)
	active, _, _ := m.Active()
	if active.ID != 21 {
		t.Errorf("expected Zoë, got %+v", active)
	}

	stats, err := p.dir.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Partners != 1 || stats.Channels != 0 {
		t.Errorf("import should replace the directory, got %+v", stats)
	}
}
