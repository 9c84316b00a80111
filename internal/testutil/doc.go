// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers for tests that build package trees and
// manipulate the process environment.
//
// Package trees are described as a map from slash-separated relative path
// to file content. A path ending in "/" creates an empty directory.
package testutil
