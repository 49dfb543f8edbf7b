// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/mentionkit/internal/mention"
)

// =============================================================================
// DOCUMENT STORE TESTS
// =============================================================================

func newTestStore(t *testing.T) *DocumentStore {
	t.Helper()
	store, err := NewDocumentStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return store
}

type saveCounter struct{ n int }

func (c *saveCounter) DocumentSaved() { c.n++ }

func TestNewDocumentStoreWithDir(t *testing.T) {
	tempDir := filepath.Join(t.TempDir(), "nested", "docs")

	store, err := NewDocumentStoreWithDir(tempDir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	if store.BaseDir != tempDir {
		t.Errorf("BaseDir = %q, want %q", store.BaseDir, tempDir)
	}
	if store.MaxDocuments != 200 {
		t.Errorf("MaxDocuments = %d, want 200", store.MaxDocuments)
	}
	if info, err := os.Stat(tempDir); err != nil || !info.IsDir() {
		t.Errorf("BaseDir was not created: %v", err)
	}
}

func TestDocumentStore_SaveAndLoad(t *testing.T) {
	store := newTestStore(t)
	counter := &saveCounter{}
	store.Recorder = counter

	doc := &StoredDocument{
		Raw:   "ping @Bob now",
		Value: "ping [Bob](/web#model=res.partner&id=7){class=o_mail_redirect data-oe-id=7 data-oe-model=res.partner target=blank} now",
		Selections: map[string][]mention.Suggestion{
			"@": {{ID: 7, Name: "Bob"}},
		},
	}

	id, err := store.Save(doc)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("ID should be a UUID, got %q", id)
	}
	if counter.n != 1 {
		t.Errorf("Recorder saw %d saves, want 1", counter.n)
	}

	loaded, err := store.Load(id)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Raw != doc.Raw || loaded.Value != doc.Value {
		t.Errorf("Loaded content = %q / %q", loaded.Raw, loaded.Value)
	}
	if loaded.Title != "ping @Bob now" {
		t.Errorf("Title = %q, want first line", loaded.Title)
	}
	if got := loaded.Selections["@"]; len(got) != 1 || got[0].ID != 7 {
		t.Errorf("Selections = %v", loaded.Selections)
	}
	if loaded.CreatedAt.IsZero() || loaded.UpdatedAt.IsZero() {
		t.Error("Timestamps should be set")
	}
}

func TestDocumentStore_SaveKeepsCreatedAt(t *testing.T) {
	store := newTestStore(t)
	created := time.Now().Add(-time.Hour).Truncate(time.Second)

	doc := &StoredDocument{Raw: "draft", CreatedAt: created}
	id, err := store.Save(doc)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	doc.Raw = "draft, edited"
	if _, err := store.Save(doc); err != nil {
		t.Fatalf("Second save failed: %v", err)
	}

	loaded, err := store.Load(id)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !loaded.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", loaded.CreatedAt, created)
	}
	if loaded.Raw != "draft, edited" {
		t.Errorf("Raw = %q", loaded.Raw)
	}
}

func TestDocumentStore_LoadNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load(uuid.NewString())
	if !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("Expected ErrDocumentNotFound, got %v", err)
	}

	// Non-UUID IDs never reach the filesystem.
	_, err = store.Load("../config")
	if !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("Expected ErrDocumentNotFound for path-like ID, got %v", err)
	}
}

func TestDocumentStore_Delete(t *testing.T) {
	store := newTestStore(t)

	id, err := store.Save(&StoredDocument{Raw: "to delete"})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Delete(id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Load(id); !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("Expected ErrDocumentNotFound after delete, got %v", err)
	}
	if err := store.Delete(id); !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("Second delete should return ErrDocumentNotFound, got %v", err)
	}
}

func TestDocumentStore_List(t *testing.T) {
	store := newTestStore(t)

	for _, raw := range []string{"first", "second", "third"} {
		if _, err := store.Save(&StoredDocument{Raw: raw}); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	// A corrupted file is skipped.
	os.WriteFile(filepath.Join(store.BaseDir, uuid.NewString()+".json"), []byte("{"), 0644)

	metas, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(metas) != 3 {
		t.Fatalf("List returned %d documents, want 3", len(metas))
	}
	if metas[0].Title != "third" || metas[2].Title != "first" {
		t.Errorf("List order = %q, %q, %q; want most recent first", metas[0].Title, metas[1].Title, metas[2].Title)
	}

	doc, err := store.LoadByIndex(1)
	if err != nil {
		t.Fatalf("LoadByIndex failed: %v", err)
	}
	if doc.Raw != "second" {
		t.Errorf("LoadByIndex(1) = %q, want second", doc.Raw)
	}
	if _, err := store.LoadByIndex(3); !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("LoadByIndex out of range should return ErrDocumentNotFound, got %v", err)
	}
}

func TestDocumentStore_Search(t *testing.T) {
	store := newTestStore(t)

	store.Save(&StoredDocument{Title: "Réunion", Raw: "agenda"})
	store.Save(&StoredDocument{Raw: "notes\nask @Hélène about it"})
	store.Save(&StoredDocument{Raw: "unrelated"})

	tests := []struct {
		query string
		want  int
	}{
		{"reunion", 1},
		{"helene", 1},
		{"AGENDA", 1},
		{"", 3},
		{"nothing", 0},
	}
	for _, tt := range tests {
		results, err := store.Search(tt.query)
		if err != nil {
			t.Fatalf("Search(%q) failed: %v", tt.query, err)
		}
		if len(results) != tt.want {
			t.Errorf("Search(%q) = %d results, want %d", tt.query, len(results), tt.want)
		}
	}
}

func TestDocumentStore_Clear(t *testing.T) {
	store := newTestStore(t)
	store.Save(&StoredDocument{Raw: "a"})
	store.Save(&StoredDocument{Raw: "b"})

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	metas, _ := store.List()
	if len(metas) != 0 {
		t.Errorf("Expected no documents after Clear, got %d", len(metas))
	}
}

func TestDocumentStore_EnforceLimit(t *testing.T) {
	store := newTestStore(t)
	store.MaxDocuments = 2

	var first string
	for i, raw := range []string{"one", "two", "three"} {
		id, err := store.Save(&StoredDocument{Raw: raw})
		if err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if i == 0 {
			first = id
		}
		time.Sleep(5 * time.Millisecond)
	}

	metas, _ := store.List()
	if len(metas) != 2 {
		t.Fatalf("Expected 2 documents, got %d", len(metas))
	}
	if _, err := store.Load(first); !errors.Is(err, ErrDocumentNotFound) {
		t.Error("Oldest document should have been removed")
	}
}

// =============================================================================
// DOCUMENT HELPER TESTS
// =============================================================================

func TestGenerateTitle(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", "Untitled"},
		{"\n\n  \n", "Untitled"},
		{"# Weekly sync\nbody", "Weekly sync"},
		{"\n  hello @Bob  \n", "hello @Bob"},
		{strings.Repeat("x", 60), strings.Repeat("x", 47) + "..."},
	}
	for _, tt := range tests {
		if got := generateTitle(tt.raw); got != tt.want {
			t.Errorf("generateTitle(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestStoredDocument_ExportMarkdown(t *testing.T) {
	doc := &StoredDocument{Raw: "hi @Bob"}
	if got := doc.ExportMarkdown(); got != "hi @Bob" {
		t.Errorf("ExportMarkdown without value = %q", got)
	}
	doc.Value = "hi [Bob](/web#model=res.partner&id=7)"
	if got := doc.ExportMarkdown(); got != doc.Value {
		t.Errorf("ExportMarkdown = %q, want value", got)
	}
}

func TestStoredDocument_ExportJSON(t *testing.T) {
	doc := &StoredDocument{ID: uuid.NewString(), Raw: "text"}
	data, err := doc.ExportJSON()
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}
	var back StoredDocument
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("ExportJSON produced invalid JSON: %v", err)
	}
	if back.ID != doc.ID {
		t.Errorf("ID = %q, want %q", back.ID, doc.ID)
	}
}

func TestStoredDocument_PreviewAndMentionCount(t *testing.T) {
	doc := &StoredDocument{
		Raw: "line one\n\tline   two",
		Selections: map[string][]mention.Suggestion{
			"@":  {{ID: 1, Name: "A"}, {ID: 2, Name: "B"}},
			"#@": {{ID: 3, Name: "general"}},
		},
	}
	if got := doc.Preview(); got != "line one line two" {
		t.Errorf("Preview = %q", got)
	}
	if got := doc.MentionCount(); got != 3 {
		t.Errorf("MentionCount = %d, want 3", got)
	}
}

func TestFormatDocumentList(t *testing.T) {
	if got := FormatDocumentList(nil); got != "No documents found." {
		t.Errorf("Empty list = %q", got)
	}

	out := FormatDocumentList([]DocumentMeta{{
		ID:           "0123456789abcdef",
		Title:        "Weekly sync",
		UpdatedAt:    time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC),
		MentionCount: 2,
	}})
	for _, want := range []string{"01234567 ", "2025-03-01 09:30", "Weekly sync"} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatDocumentList output missing %q:\n%s", want, out)
		}
	}
}

func TestDocumentError_Is(t *testing.T) {
	err := &DocumentError{Message: "document not found"}
	if !errors.Is(err, ErrDocumentNotFound) {
		t.Error("Errors with the same message should match")
	}
	if errors.Is(&DocumentError{Message: "other"}, ErrDocumentNotFound) {
		t.Error("Errors with different messages should not match")
	}
}
