// Command queitite runs the Queitite scripting language interpreter.
package main

import (
	"fmt"
	"os"

	"github.com/qewer33/queitite/cmd/queitite/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
