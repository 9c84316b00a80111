// SPDX-License-Identifier: MPL-2.0

// Package manifest reads package description files (package.json).
//
// Documents are decoded through CUE's JSON extractor so object keys keep
// their declaration order, which the exports, imports and browser fields
// depend on. Only the fields the resolver consults are interpreted; the
// full document stays available as an ordered tree.
package manifest
