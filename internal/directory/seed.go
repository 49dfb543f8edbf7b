// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package directory

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/mentionkit/internal/mention"
)

// Seed is the bulk import format for the directory.
type Seed struct {
	Partners []mention.Suggestion `toml:"partner"`
	Channels []mention.Suggestion `toml:"channel"`
}

// LoadSeed parses a seed file.
func LoadSeed(path string) (*Seed, error) {
	var seed Seed
	if _, err := toml.DecodeFile(path, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed %s: %w", path, err)
	}
	return &seed, nil
}

// Import replaces the directory contents with seed in one transaction.
// On error the previous contents are kept.
func (d *Directory) Import(ctx context.Context, seed *Seed) error {
	err := d.write(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM partners"); err != nil {
			return fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM channels"); err != nil {
			return fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		if err := upsertPartners(ctx, tx, seed.Partners); err != nil {
			return err
		}
		if err := upsertChannels(ctx, tx, seed.Channels); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			"UPDATE metadata SET value = ? WHERE key = 'last_import'",
			time.Now().UTC().Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	d.logger.Info().
		Int("partners", len(seed.Partners)).
		Int("channels", len(seed.Channels)).
		Msg("directory imported")
	return nil
}

// ImportFile loads and imports a seed file.
func (d *Directory) ImportFile(ctx context.Context, path string) error {
	seed, err := LoadSeed(path)
	if err != nil {
		return err
	}
	return d.Import(ctx, seed)
}
