// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the mention engine front ends.
//
// # Key Functions
//
// Offsets:
//   - RuneToByteOffset, ByteToRuneOffset: convert between editor cursor
//     positions (runes) and mention offsets (bytes)
//   - LineColumn: locate a rune offset as a line and column
//
// Display:
//   - TruncateWidth: cut a string to a number of terminal cells
//   - PadRight: pad a string to a number of terminal cells
//
// Files:
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// # Usage
//
//	// Convert a textarea cursor into a byte offset for the mention manager
//	off := util.RuneToByteOffset(text, cursor)
//
//	// Write documents atomically to prevent data loss
//	err := util.AtomicWriteFile(path, data, 0600)
package util
