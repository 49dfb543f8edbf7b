// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/mentionkit/internal/mention"
	"github.com/jeranaias/mentionkit/internal/util"
)

// =============================================================================
// STORED DOCUMENT TYPE
// =============================================================================

// StoredDocument is a persisted markdown draft.
//
// Raw is the text as typed, with plain "@Name" mentions. Value is the committed
// form with mentions rewritten into links. Selections keeps the bound
// suggestions per delimiter so that editing can resume where it stopped.
type StoredDocument struct {
	// Identity
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Content
	Raw   string `json:"raw"`
	Value string `json:"value"`

	Selections map[string][]mention.Suggestion `json:"selections,omitempty"`
}

// DocumentMeta contains metadata for listing documents.
type DocumentMeta struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MentionCount int       `json:"mention_count"`
	Preview      string    `json:"preview"`
}

// SaveRecorder is told about every saved document.
type SaveRecorder interface {
	DocumentSaved()
}

// =============================================================================
// DOCUMENT STORE
// =============================================================================

// DocumentStore handles draft persistence.
type DocumentStore struct {
	// BaseDir is the directory for storing documents
	// Default: ~/.mentionkit/documents/
	BaseDir string

	// MaxDocuments limits stored documents (0 = unlimited)
	MaxDocuments int

	// Recorder, if set, counts saves.
	Recorder SaveRecorder
}

// NewDocumentStore creates a store under the user's home directory.
func NewDocumentStore() (*DocumentStore, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewDocumentStoreWithDir(filepath.Join(homeDir, ".mentionkit", "documents"))
}

// NewDocumentStoreWithDir creates a store with a custom directory.
func NewDocumentStoreWithDir(baseDir string) (*DocumentStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &DocumentStore{
		BaseDir:      baseDir,
		MaxDocuments: 200,
	}, nil
}

// =============================================================================
// SAVE OPERATIONS
// =============================================================================

// Save persists a document and returns its ID.
func (s *DocumentStore) Save(doc *StoredDocument) (string, error) {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.Title == "" {
		doc.Title = generateTitle(doc.Raw)
	}

	doc.UpdatedAt = time.Now()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = doc.UpdatedAt
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}

	// Atomic write with fsync prevents data loss on crash
	if err := util.AtomicWriteFile(s.filePath(doc.ID), data, 0644); err != nil {
		return "", err
	}

	if s.MaxDocuments > 0 {
		s.enforceLimit()
	}
	if s.Recorder != nil {
		s.Recorder.DocumentSaved()
	}

	return doc.ID, nil
}

// generateTitle uses the first non-empty line of the draft.
func generateTitle(raw string) string {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "# "))
		if line != "" {
			return util.TruncateWidth(line, 50)
		}
	}
	return "Untitled"
}

// enforceLimit removes the oldest documents if over limit.
func (s *DocumentStore) enforceLimit() {
	metas, err := s.List()
	if err != nil || len(metas) <= s.MaxDocuments {
		return
	}

	// List is most recent first, so the excess sits at the tail.
	for _, meta := range metas[s.MaxDocuments:] {
		s.Delete(meta.ID)
	}
}

// =============================================================================
// LOAD OPERATIONS
// =============================================================================

// Load retrieves a document by ID.
func (s *DocumentStore) Load(id string) (*StoredDocument, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrDocumentNotFound
	}

	data, err := os.ReadFile(s.filePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}

	var doc StoredDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	return &doc, nil
}

// LoadByIndex loads a document by its index in the list (0 = most recent).
func (s *DocumentStore) LoadByIndex(index int) (*StoredDocument, error) {
	metas, err := s.List()
	if err != nil {
		return nil, err
	}

	if index < 0 || index >= len(metas) {
		return nil, ErrDocumentNotFound
	}

	return s.Load(metas[index].ID)
}

// =============================================================================
// LIST OPERATIONS
// =============================================================================

// List returns all saved documents (most recent first).
func (s *DocumentStore) List() ([]DocumentMeta, error) {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []DocumentMeta{}, nil
		}
		return nil, err
	}

	var metas []DocumentMeta
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		doc, err := s.Load(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			continue // Skip corrupted files
		}

		metas = append(metas, DocumentMeta{
			ID:           doc.ID,
			Title:        doc.Title,
			CreatedAt:    doc.CreatedAt,
			UpdatedAt:    doc.UpdatedAt,
			MentionCount: doc.MentionCount(),
			Preview:      doc.Preview(),
		})
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.After(metas[j].UpdatedAt)
	})

	return metas, nil
}

// Search finds documents whose title or raw text contains query,
// ignoring case and accents.
func (s *DocumentStore) Search(query string) ([]DocumentMeta, error) {
	all, err := s.List()
	if err != nil || query == "" {
		return all, err
	}

	pattern := mention.SearchPattern(query)
	var results []DocumentMeta
	for _, meta := range all {
		if pattern.MatchString(mention.Unaccent(meta.Title)) {
			results = append(results, meta)
			continue
		}
		doc, err := s.Load(meta.ID)
		if err != nil {
			continue
		}
		if pattern.MatchString(mention.Unaccent(doc.Raw)) {
			results = append(results, meta)
		}
	}

	return results, nil
}

// =============================================================================
// DELETE OPERATIONS
// =============================================================================

// Delete removes a document by ID.
func (s *DocumentStore) Delete(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrDocumentNotFound
	}
	if err := os.Remove(s.filePath(id)); err != nil {
		if os.IsNotExist(err) {
			return ErrDocumentNotFound
		}
		return err
	}
	return nil
}

// Clear removes all saved documents.
func (s *DocumentStore) Clear() error {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			os.Remove(filepath.Join(s.BaseDir, entry.Name()))
		}
	}
	return nil
}

// filePath returns the file path for a document ID.
func (s *DocumentStore) filePath(id string) string {
	return filepath.Join(s.BaseDir, id+".json")
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrDocumentNotFound is returned when a document doesn't exist.
// Use errors.Is(err, ErrDocumentNotFound) to check for this error.
var ErrDocumentNotFound = &DocumentError{Message: "document not found"}

// DocumentError represents a document-related error.
type DocumentError struct {
	Message string
}

// Error implements the error interface.
func (e *DocumentError) Error() string {
	return e.Message
}

// Is implements errors.Is support for comparing document errors.
func (e *DocumentError) Is(target error) bool {
	t, ok := target.(*DocumentError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

// =============================================================================
// DOCUMENT LIST FORMATTING
// =============================================================================

// FormatDocumentList formats documents as a table for the terminal.
func FormatDocumentList(docs []DocumentMeta) string {
	if len(docs) == 0 {
		return "No documents found."
	}

	var sb strings.Builder
	sb.WriteString("Documents:\n")
	sb.WriteString("-----------------------------------------------------\n")
	sb.WriteString(util.PadRight("ID", 8) + " " + util.PadRight("Updated", 16) + " " + util.PadRight("Mentions", 8) + " Title\n")
	sb.WriteString("-----------------------------------------------------\n")

	for _, d := range docs {
		id := d.ID
		if len(id) > 8 {
			id = id[:8]
		}
		sb.WriteString(util.PadRight(id, 8) + " " +
			util.PadRight(d.UpdatedAt.Format("2006-01-02 15:04"), 16) + " " +
			util.PadRight(strconv.Itoa(d.MentionCount), 8) + " " +
			util.TruncateWidth(d.Title, 40) + "\n")
	}
	return sb.String()
}

// =============================================================================
// DOCUMENT HELPERS
// =============================================================================

// ExportMarkdown returns the committed markdown, falling back to the raw text
// for documents saved before any rewrite.
func (d *StoredDocument) ExportMarkdown() string {
	if d.Value != "" {
		return d.Value
	}
	return d.Raw
}

// ExportJSON exports the document as pretty-printed JSON.
func (d *StoredDocument) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Preview returns the raw text on one line, truncated for listings.
func (d *StoredDocument) Preview() string {
	flat := strings.Join(strings.Fields(d.Raw), " ")
	return util.TruncateWidth(flat, 80)
}

// MentionCount returns the number of bound mentions across delimiters.
func (d *StoredDocument) MentionCount() int {
	n := 0
	for _, sel := range d.Selections {
		n += len(sel)
	}
	return n
}
