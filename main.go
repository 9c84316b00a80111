// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/noderesolve/noderesolve/cmd/noderesolve"

func main() {
	cmd.Execute()
}
