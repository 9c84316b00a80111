// SPDX-License-Identifier: MPL-2.0

// Package fieldmap evaluates the "exports" and "imports" fields of a
// package manifest.
//
// A field is held as an ordered JSON tree (Node) because the order of
// conditional keys is significant: the first key whose condition is
// active wins. Process maps one request key ("./sub", "#internal") to the
// ordered list of candidate targets for a set of active condition names.
package fieldmap
