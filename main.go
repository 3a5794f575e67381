// ./main.go
package main

import (
	"github.com/qaforge/bankjourney/cmd"
)

// main is the entry point for the bankjourney CLI.
func main() {
	// Execute the root command defined in the cmd package.
	// This handles all command-line parsing, configuration, and execution.
	cmd.Execute()
}
