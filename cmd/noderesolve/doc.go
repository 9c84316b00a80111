// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the noderesolve CLI commands.
//
// Commands are built per App so tests can inject a config provider and
// capture output; Execute wires the production App and runs the tree
// through fang.
package cmd
