// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package suggest provides the fetch callbacks behind the default mention
// listeners.
//
// Partner suggestions are first looked up among prefetched partner groups
// (e.g. recent correspondents) and only go to the directory when nothing
// prefetched matches. Channel suggestions always come from the directory and
// are split into public channels and the rest.
//
// Directory lookups can be throttled with a token bucket so a fast typist does
// not flood a remote directory.
//
// # Usage
//
//	lookup := suggest.Throttle(dir, 10, 3)
//	partners := suggest.NewPartnerSource(lookup, 8)
//	partners.SetPrefetched(recent)
//	err := manager.Register("@", partners.Fetch, "res.partner", "o_mail_redirect")
package suggest
