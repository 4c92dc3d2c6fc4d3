// Command metasim runs the parallel SSA + event-scheduling metapopulation
// epidemic engine against a model document.
package main

import (
	"fmt"
	"os"

	"metasim/cmd/metasim/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
