// SPDX-License-Identifier: MPL-2.0

// Package resolver locates the file a JavaScript module request refers to.
//
// Resolution is a chain of steps over a four-way State. Each step either
// keeps the search going (Resolving), finishes it (Success), gives up on
// its own branch so a sibling branch may still succeed (Failed), or aborts
// the whole call (Error). State.Then forwards only Resolving states, so a
// fallback order reads top to bottom as a sequence of Then calls.
//
// Manifest-driven rules (exports, imports, main, browser, alias, index
// probing) implement the Plugin interface and re-enter the resolver for
// every target they map a request to.
package resolver
