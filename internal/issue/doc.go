// SPDX-License-Identifier: MPL-2.0

// Package issue turns resolution and configuration failures into
// user-facing messages: one-line actionable errors with suggestions, and
// longer Markdown issue pages rendered for the terminal.
package issue
