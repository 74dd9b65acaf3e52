// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/pylocate/pylocate/cmd/pylocate"

func main() {
	cmd.Execute()
}
