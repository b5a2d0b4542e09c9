package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/treesketch/pkg/sketch"
)

// compareArgCount is the number of documents the compare command accepts.
const compareArgCount = 2

// NewCompareCommand creates the compare command.
func NewCompareCommand() *cobra.Command {
	var (
		flags     pipelineFlags
		threshold float64
		tolerance float64
		bounded   bool
		nocolor   bool
		quiet     bool
	)

	cmd := &cobra.Command{
		Use:   "compare <document-a> <document-b>",
		Short: "Estimate the Jaccard similarity of two JSON documents",
		Long: `Sketch two documents under the same configuration and estimate their
Jaccard similarity from the sketches.

With --bounded, estimation may terminate early once the similarity is
provably on one side of --threshold, returning exactly 0 or 1.`,
		Args:          cobra.ExactArgs(compareArgCount),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if nocolor {
				color.NoColor = true //nolint:reassign // intentional override of library global
			}

			sketcher, cfg, err := flags.newSketcher(cmd)
			if err != nil {
				return err
			}

			flagSet := cmd.Flags()

			if !flagSet.Changed("threshold") {
				threshold = cfg.Compare.SimilarityThreshold
			}

			if !flagSet.Changed("tolerance") {
				tolerance = cfg.Compare.ErrorTolerance
			}

			if !flagSet.Changed("bounded") {
				bounded = cfg.Compare.Bounded
			}

			dataA, err := readDocument(args[0])
			if err != nil {
				return err
			}

			dataB, err := readDocument(args[1])
			if err != nil {
				return err
			}

			ska, err := sketcher.GenerateSketchJSON(dataA)
			if err != nil {
				return fmt.Errorf("sketch %s: %w", args[0], err)
			}

			skb, err := sketcher.GenerateSketchJSON(dataB)
			if err != nil {
				return fmt.Errorf("sketch %s: %w", args[1], err)
			}

			var compareOpts *sketch.CompareOptions
			if bounded {
				compareOpts = &sketch.CompareOptions{
					SimilarityThreshold: threshold,
					ErrorTolerance:      tolerance,
				}
			}

			sim, err := sketcher.CompareSketches(ska, skb, compareOpts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if quiet {
				fmt.Fprintf(out, "%.4f\n", sim)

				return nil
			}

			fmt.Fprintf(out, "similarity: %.4f (threshold %.2f)\n", sim, threshold)

			if sim >= threshold {
				color.New(color.FgGreen).Fprintf(out, "DUPLICATE: %s ~ %s\n", args[0], args[1])
			} else {
				color.New(color.FgYellow).Fprintf(out, "distinct: %s / %s\n", args[0], args[1])
			}

			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().Float64Var(&threshold, "threshold", 0.8, "similarity at or above which documents count as duplicates")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 0.05, "error tolerance for bounded estimation")
	cmd.Flags().BoolVar(&bounded, "bounded", false, "enable early-terminating estimation")
	cmd.Flags().BoolVar(&nocolor, "no-color", false, "disable colored output")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print only the similarity value")

	return cmd
}
