// Package main is the entry point for the lmyield CLI.
//
// Usage:
//
//	lmyield [flags] <command> [args]
//
// Commands:
//
//	compile    - Compile a template and show its program and instructions
//	run        - Run a template against a model and print the yields
//	models     - List the models found in the model config directory
//	version    - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/haivivi/lmyield/cmd/lmyield/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
