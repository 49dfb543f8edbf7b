// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides draft persistence for mentionkit.
//
// Each draft is a JSON file holding the raw text, the committed markdown with
// mentions rewritten into links, and the bound mention selections.
//
// # Key Types
//
//   - DocumentStore: saves, lists, searches and deletes drafts
//   - StoredDocument: serializable draft with metadata
//   - DocumentMeta: lightweight metadata for listing
//
// # Usage
//
//	store, err := storage.NewDocumentStoreWithDir(dir)
//	id, err := store.Save(&storage.StoredDocument{Raw: raw, Value: value})
//	doc, err := store.Load(id)
//
// # Storage Location
//
// Drafts are stored in ~/.mentionkit/documents/ as JSON files named by UUID.
package storage
