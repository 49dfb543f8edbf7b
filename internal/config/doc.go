// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for mentionkit.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - MentionConfig: Detection length, debounce delay and fetch limit
//   - ListenerConfig: One mention kind (delimiter, model, link class, source)
//   - DirectoryConfig: Record directory location, seed file and throttling
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (MENTIONKIT_*)
//   - ~/.mentionkit/config.toml
//   - ~/.mentionkit/config.json
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Access settings:
//
//	delay := cfg.TypingSpeed()
//	for _, l := range cfg.Listeners {
//	    fmt.Println(l.Delimiter, l.Model)
//	}
package config
