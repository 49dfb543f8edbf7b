// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package mention detects, resolves and tracks inline mentions in edited text.
//
// A host editor registers listeners, one per delimiter (for example "@" for people
// and "#@" for channels). While the user types, the manager looks for a mention in
// progress under the cursor, fetches suggestions after a short typing pause and
// publishes them for a dropdown. Accepting a suggestion binds it to the text.
//
// Bound mentions are never stored as offsets. Every query re-matches the literal
// delimiter+name pairs against the current text, so the selection of a listener is
// a list parallel to the occurrences of its names, in text order.
//
// # Key Types
//
//   - Listener: a registered delimiter with its fetch callback and link metadata
//   - Suggestion: a record a mention can resolve to
//   - Occurrence: a literal match of a bound mention in the current text
//   - Scheduler: single-slot debounced suggestion fetch
//   - Manager: orchestrates the above for a Host editor
//
// # Usage
//
//	mgr := mention.NewManager(host, mention.WithBaseURL("/web"))
//	_ = mgr.Register("@", partners.Fetch, "res.partner", "o_mail_redirect")
//
//	// on every key event
//	if !mgr.KeyDown(key) {
//	    applyKeyToEditor(key)
//	}
//	mgr.KeyUp(key)
//
//	// when saving
//	markdown := mgr.RewriteLinks(host.Text())
package mention
