// Package cli provides common utilities for the lmyield command-line tool.
//
// This package includes:
//   - Output formatting (YAML, JSON, msgpack, raw)
//   - Template variable loading from files and key=value flags
//   - Terminal styles for rendering programs and yields
//
// Example usage:
//
//	vars, err := cli.LoadVars(varsFile, setFlags)
//
//	cli.Output(yields, cli.OutputOptions{
//	    Format: cli.FormatJSON,
//	    File:   outputPath,
//	})
package cli
