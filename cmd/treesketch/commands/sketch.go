package commands

import (
	"github.com/spf13/cobra"
)

// sketchResult is the serialized output of the sketch command for one
// document.
type sketchResult struct {
	Document  string   `json:"document" yaml:"document"`
	NumHashes int      `json:"num_hashes" yaml:"num_hashes"`
	Sketch    []uint64 `json:"sketch" yaml:"sketch"`
}

// NewSketchCommand creates the sketch command.
func NewSketchCommand() *cobra.Command {
	var flags pipelineFlags

	cmd := &cobra.Command{
		Use:   "sketch [documents...]",
		Short: "Generate MinHash sketches of JSON documents",
		Long: `Generate a fixed-length MinHash sketch for each JSON document.

Sketches of documents processed under the same configuration can be
compared with the compare command. Use "-" to read a single document
from stdin.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sketcher, _, err := flags.newSketcher(cmd)
			if err != nil {
				return err
			}

			results := make([]sketchResult, 0, len(args))

			for _, path := range args {
				data, readErr := readDocument(path)
				if readErr != nil {
					return readErr
				}

				sk, genErr := sketcher.GenerateSketchJSON(data)
				if genErr != nil {
					return genErr
				}

				results = append(results, sketchResult{
					Document:  path,
					NumHashes: len(sk),
					Sketch:    sk,
				})
			}

			return writeOutput(cmd.OutOrStdout(), flags.format, results)
		},
	}

	flags.register(cmd)

	return cmd
}
