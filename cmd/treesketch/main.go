// Package main provides the entry point for the treesketch CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/treesketch/cmd/treesketch/commands"
	"github.com/Sumatoshi-tech/treesketch/pkg/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "treesketch",
		Short: "Treesketch - structural similarity fingerprints for JSON documents",
		Long: `Treesketch converts JSON documents into compact MinHash sketches whose
estimated Jaccard similarity tracks how alike the documents are in
structure and content.

Commands:
  sketch    Fingerprint documents
  shingles  Dump the feature set of a document
  compare   Estimate the similarity of two documents
  dedupe    Group near-duplicate documents
  mcp       Serve the pipeline as MCP tools over stdio`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewSketchCommand())
	rootCmd.AddCommand(commands.NewShinglesCommand())
	rootCmd.AddCommand(commands.NewCompareCommand())
	rootCmd.AddCommand(commands.NewDedupeCommand())
	rootCmd.AddCommand(commands.NewMCPCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "treesketch %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
