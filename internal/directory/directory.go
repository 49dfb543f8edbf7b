// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/mentionkit/internal/mention"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrDatabaseError = errors.New("directory: database error")
	ErrInvalidRecord = errors.New("directory: invalid record")
	ErrClosed        = errors.New("directory: closed")
)

// =============================================================================
// DIRECTORY
// =============================================================================

// Directory is a SQLite-backed store of partners and channels.
type Directory struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
	logger zerolog.Logger
}

// Config holds directory configuration.
type Config struct {
	// DatabasePath is where to store the SQLite database.
	// ":memory:" keeps everything in memory.
	DatabasePath string

	Logger zerolog.Logger
}

// DefaultConfig returns the configuration for a database at path.
func DefaultConfig(path string) Config {
	return Config{
		DatabasePath: path,
		Logger:       zerolog.Nop(),
	}
}

// Stats summarizes the directory contents.
type Stats struct {
	Partners   int
	Channels   int
	LastImport time.Time
}

// Open opens or creates the directory database.
func Open(cfg Config) (*Directory, error) {
	if cfg.DatabasePath == "" {
		return nil, errors.New("directory: database path cannot be empty")
	}

	if cfg.DatabasePath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections.
	// A single connection also keeps ":memory:" databases alive.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if _, err := db.Exec(InitMetadata); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize metadata: %w", err)
	}

	return &Directory{
		db:     db,
		logger: cfg.Logger.With().Str("component", "directory").Logger(),
	}, nil
}

// Close closes the database.
func (d *Directory) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	return d.db.Close()
}

// =============================================================================
// WRITES
// =============================================================================

// UpsertPartners inserts or replaces partners by ID.
func (d *Directory) UpsertPartners(ctx context.Context, partners []mention.Suggestion) error {
	return d.write(ctx, func(tx *sql.Tx) error {
		return upsertPartners(ctx, tx, partners)
	})
}

// UpsertChannels inserts or replaces channels by ID.
func (d *Directory) UpsertChannels(ctx context.Context, channels []mention.Suggestion) error {
	return d.write(ctx, func(tx *sql.Tx) error {
		return upsertChannels(ctx, tx, channels)
	})
}

func (d *Directory) write(ctx context.Context, fn func(tx *sql.Tx) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return nil
}

func upsertPartners(ctx context.Context, tx *sql.Tx, partners []mention.Suggestion) error {
	now := time.Now().Unix()
	for _, p := range partners {
		if err := validateRecord(p); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO partners (id, name, email, search_name, search_email, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				email = excluded.email,
				search_name = excluded.search_name,
				search_email = excluded.search_email,
				updated_at = excluded.updated_at
		`, p.ID, p.Name, p.Email, searchKey(p.Name), searchKey(p.Email), now)
		if err != nil {
			return fmt.Errorf("%w: partner %d: %v", ErrDatabaseError, p.ID, err)
		}
	}
	return nil
}

func upsertChannels(ctx context.Context, tx *sql.Tx, channels []mention.Suggestion) error {
	now := time.Now().Unix()
	for _, c := range channels {
		if err := validateRecord(c); err != nil {
			return err
		}
		public := c.Public
		if public == "" {
			public = VisibilityPublic
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO channels (id, name, public, search_name, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				public = excluded.public,
				search_name = excluded.search_name,
				updated_at = excluded.updated_at
		`, c.ID, c.Name, public, searchKey(c.Name), now)
		if err != nil {
			return fmt.Errorf("%w: channel %d: %v", ErrDatabaseError, c.ID, err)
		}
	}
	return nil
}

// validateRecord enforces what the mention engine relies on: a name is inserted
// verbatim after the delimiter and must stay one word.
func validateRecord(s mention.Suggestion) error {
	if s.Name == "" {
		return fmt.Errorf("%w: record %d has no name", ErrInvalidRecord, s.ID)
	}
	if strings.ContainsAny(s.Name, " \t\r\n") {
		return fmt.Errorf("%w: name %q contains whitespace", ErrInvalidRecord, s.Name)
	}
	return nil
}

// =============================================================================
// SEARCH
// =============================================================================

// SearchPartners returns partners whose name or email contains search,
// ignoring case and accents, ordered by name.
func (d *Directory) SearchPartners(ctx context.Context, search string, limit int) ([]mention.Suggestion, error) {
	pattern := likePattern(search)
	rows, err := d.query(ctx, `
		SELECT id, name, email FROM partners
		WHERE search_name LIKE ? ESCAPE '\' OR search_email LIKE ? ESCAPE '\'
		ORDER BY search_name, id
		LIMIT ?
	`, pattern, pattern, sqlLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []mention.Suggestion
	for rows.Next() {
		var s mention.Suggestion
		if err := rows.Scan(&s.ID, &s.Name, &s.Email); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// SearchChannels returns channels whose name contains search, ignoring case
// and accents, ordered by name.
func (d *Directory) SearchChannels(ctx context.Context, search string, limit int) ([]mention.Suggestion, error) {
	rows, err := d.query(ctx, `
		SELECT id, name, public FROM channels
		WHERE search_name LIKE ? ESCAPE '\'
		ORDER BY search_name, id
		LIMIT ?
	`, likePattern(search), sqlLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []mention.Suggestion
	for rows.Next() {
		var s mention.Suggestion
		if err := rows.Scan(&s.ID, &s.Name, &s.Public); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Stats returns record counts and the time of the last seed import.
func (d *Directory) Stats(ctx context.Context) (Stats, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return Stats{}, ErrClosed
	}

	var s Stats
	if err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM partners").Scan(&s.Partners); err != nil {
		return s, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	if err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM channels").Scan(&s.Channels); err != nil {
		return s, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	var last string
	if err := d.db.QueryRowContext(ctx, "SELECT value FROM metadata WHERE key = 'last_import'").Scan(&last); err != nil {
		return s, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	if last != "" {
		if t, err := time.Parse(time.RFC3339, last); err == nil {
			s.LastImport = t
		}
	}
	return s, nil
}

func (d *Directory) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return nil, ErrClosed
	}
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return rows, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// searchKey is the normalized form stored in search_* columns.
func searchKey(s string) string {
	return mention.Unaccent(strings.ToLower(s))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds a "contains" LIKE pattern with wildcards in search escaped.
func likePattern(search string) string {
	return "%" + likeEscaper.Replace(searchKey(search)) + "%"
}

// sqlLimit maps a non-positive limit to SQLite's "no limit".
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}
