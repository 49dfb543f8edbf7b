// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package directory stores the records mentions resolve to.
//
// Partners (people) and channels live in a local SQLite database. Each row
// keeps an unaccented, lower-cased copy of its name so searches match
// "helene" against "Hélène" without SQL collation support.
//
// # Key Types
//
//   - Directory: SQLite-backed record store with search
//   - Seed: TOML file of partners and channels imported in bulk
//   - SeedWatcher: re-imports the seed file when it changes
//
// # Usage
//
//	dir, err := directory.Open(directory.DefaultConfig(path))
//	if err != nil {
//	    return err
//	}
//	defer dir.Close()
//
//	if err := dir.ImportFile(ctx, "people.toml"); err != nil {
//	    return err
//	}
//	people, err := dir.SearchPartners(ctx, "hel", 8)
//
// # Seed Format
//
//	[[partner]]
//	id = 7
//	name = "Bob"
//	email = "bob@example.com"
//
//	[[channel]]
//	id = 3
//	name = "general"
//	public = "public"
package directory
