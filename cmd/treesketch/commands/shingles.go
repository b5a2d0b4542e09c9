package commands

import (
	"github.com/spf13/cobra"
)

// shinglesResult is the serialized output of the shingles command.
type shinglesResult struct {
	Document string   `json:"document" yaml:"document"`
	Count    int      `json:"count" yaml:"count"`
	Shingles []uint32 `json:"shingles" yaml:"shingles"`
}

// NewShinglesCommand creates the shingles command.
func NewShinglesCommand() *cobra.Command {
	var flags pipelineFlags

	cmd := &cobra.Command{
		Use:   "shingles <document>",
		Short: "Dump the frequency-filtered feature set of a JSON document",
		Long: `Extract the shingle feature set a document contributes to its sketch.

The output is the exact sorted feature set the MinHash engine consumes,
which makes it useful for debugging why two documents do or do not
match. Use "-" to read from stdin.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sketcher, _, err := flags.newSketcher(cmd)
			if err != nil {
				return err
			}

			data, err := readDocument(args[0])
			if err != nil {
				return err
			}

			set, err := sketcher.GenerateShingleSetJSON(data)
			if err != nil {
				return err
			}

			return writeOutput(cmd.OutOrStdout(), flags.format, shinglesResult{
				Document: args[0],
				Count:    len(set),
				Shingles: set,
			})
		},
	}

	flags.register(cmd)

	return cmd
}
