// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the mentionkit command line.
//
// Commands:
//
//	mentionkit edit [--doc ID]              compose markdown with inline mentions
//	mentionkit rewrite [FILE]               rewrite bound mentions into links
//	mentionkit directory seed|search|stats  manage the record directory
//	mentionkit docs list|show|render|...    manage saved drafts
//	mentionkit config show|get|set|keys     inspect and edit configuration
//	mentionkit version                      print build information
//
// Every command loads the configuration once in the root PersistentPreRunE.
// --config selects a file, otherwise ~/.mentionkit/config.toml (or .json) is
// used when present.
package cli
