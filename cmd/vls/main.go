// Command vls is a thin demonstration CLI around the semantic analysis
// core: it parses a directory of source files, registers their
// top-level declarations into a fresh Store, and lets a caller query
// what landed at a given position. It is not a language server — there
// is no wire protocol and no persistence across invocations, mirroring
// the core's own in-memory, single-process design.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var flagFormat string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "vls",
	Short:         "Demonstration CLI for the semantic analysis core",
	Long:          "vls parses a directory with tree-sitter, registers declarations into an in-memory Store, and answers symbol-at-position queries.",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format; no command reads this value, all output is plain text")
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(symbolAtCmd)
	rootCmd.AddCommand(deleteCmd)
}
