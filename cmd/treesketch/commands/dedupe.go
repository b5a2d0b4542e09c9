package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/xeipuuv/gojsonschema"

	"github.com/Sumatoshi-tech/treesketch/internal/config"
	"github.com/Sumatoshi-tech/treesketch/pkg/alg/lsh"
	"github.com/Sumatoshi-tech/treesketch/pkg/alg/minhash"
	"github.com/Sumatoshi-tech/treesketch/pkg/sketch"
)

// dedupeMinArgs is the minimum number of documents dedupe operates on.
const dedupeMinArgs = 2

// NewDedupeCommand creates the dedupe command.
func NewDedupeCommand() *cobra.Command {
	var (
		flags      pipelineFlags
		threshold  float64
		bands      int
		rows       int
		plotPath   string
		schemaPath string
	)

	cmd := &cobra.Command{
		Use:   "dedupe <documents...>",
		Short: "Group near-duplicate JSON documents",
		Long: `Sketch every document, index the sketches in an LSH banding index, and
report all pairs whose estimated similarity reaches the threshold.

With --schema, documents are validated against a JSON Schema first and
invalid ones are skipped. With --plot, an HTML chart of pair similarities
is written alongside the table.`,
		Args:          cobra.MinimumNArgs(dedupeMinArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig(cmd)
			if err != nil {
				return err
			}

			flagSet := cmd.Flags()

			if !flagSet.Changed("threshold") {
				threshold = cfg.Dedupe.Threshold
			}

			if !flagSet.Changed("bands") {
				bands = cfg.Dedupe.Bands
			}

			if !flagSet.Changed("rows") {
				rows = cfg.Dedupe.Rows
			}

			runner, err := newDedupeRunner(cfg, threshold, bands, rows, schemaPath)
			if err != nil {
				return err
			}

			result, err := runner.run(args, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			renderDedupeTable(cmd.OutOrStdout(), result)

			if plotPath != "" {
				plotErr := writeDedupePlot(plotPath, result.pairs)
				if plotErr != nil {
					return plotErr
				}

				fmt.Fprintf(cmd.OutOrStdout(), "plot written to %s\n", plotPath)
			}

			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().Float64Var(&threshold, "threshold", 0.8, "similarity at or above which documents are grouped")
	cmd.Flags().IntVar(&bands, "bands", 32, "LSH band count")
	cmd.Flags().IntVar(&rows, "rows", 4, "hash values per LSH band")
	cmd.Flags().StringVar(&plotPath, "plot", "", "write an HTML similarity chart to this path")
	cmd.Flags().StringVar(&schemaPath, "schema", "", "JSON Schema file; non-conforming documents are skipped")

	return cmd
}

// docInfo carries per-document bookkeeping for the report table.
type docInfo struct {
	path string
	size uint64
}

// dedupeResult is the outcome of a dedupe run.
type dedupeResult struct {
	docs    []docInfo
	pairs   []lsh.Pair
	skipped []string
}

// dedupeRunner sketches and indexes documents for pair extraction.
type dedupeRunner struct {
	sketcher  *sketch.Sketcher
	index     *lsh.Index
	groups    int
	threshold float64
	schema    *gojsonschema.Schema
}

func newDedupeRunner(
	cfg *config.Config, threshold float64, bands, rows int, schemaPath string,
) (*dedupeRunner, error) {
	sketcher, err := sketch.New(cfg.ToSketchOptions())
	if err != nil {
		return nil, err
	}

	index, err := lsh.New(bands, rows)
	if err != nil {
		return nil, err
	}

	var schema *gojsonschema.Schema

	if schemaPath != "" {
		schemaBytes, readErr := os.ReadFile(schemaPath)
		if readErr != nil {
			return nil, fmt.Errorf("read schema: %w", readErr)
		}

		schema, err = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaBytes))
		if err != nil {
			return nil, fmt.Errorf("compile schema: %w", err)
		}
	}

	return &dedupeRunner{
		sketcher:  sketcher,
		index:     index,
		groups:    cfg.Sketch.NumGroups,
		threshold: threshold,
		schema:    schema,
	}, nil
}

func (r *dedupeRunner) run(paths []string, errOut io.Writer) (*dedupeResult, error) {
	result := &dedupeResult{}

	for _, path := range paths {
		data, err := readDocument(path)
		if err != nil {
			return nil, err
		}

		if r.schema != nil {
			valid, validateErr := r.conforms(data)
			if validateErr != nil {
				return nil, fmt.Errorf("validate %s: %w", path, validateErr)
			}

			if !valid {
				fmt.Fprintf(errOut, "skipping %s: does not conform to schema\n", path)
				result.skipped = append(result.skipped, path)

				continue
			}
		}

		sk, err := r.sketcher.GenerateSketchJSON(data)
		if err != nil {
			return nil, fmt.Errorf("sketch %s: %w", path, err)
		}

		sig, err := minhash.FromValues(sk, r.groups)
		if err != nil {
			return nil, fmt.Errorf("sketch %s: %w", path, err)
		}

		err = r.index.Insert(path, sig)
		if err != nil {
			return nil, fmt.Errorf("index %s: %w", path, err)
		}

		result.docs = append(result.docs, docInfo{path: path, size: uint64(len(data))})
	}

	pairs, err := r.index.SimilarPairs(r.threshold)
	if err != nil {
		return nil, err
	}

	result.pairs = pairs

	return result, nil
}

func (r *dedupeRunner) conforms(data []byte) (bool, error) {
	res, err := r.schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return false, err
	}

	return res.Valid(), nil
}

// renderDedupeTable prints the duplicate pairs and a document summary.
func renderDedupeTable(w io.Writer, result *dedupeResult) {
	fmt.Fprintf(w, "indexed %d documents, %d skipped, %d duplicate pairs\n\n",
		len(result.docs), len(result.skipped), len(result.pairs))

	if len(result.pairs) > 0 {
		tbl := table.NewWriter()
		tbl.SetOutputMirror(w)
		tbl.SetStyle(table.StyleLight)
		tbl.AppendHeader(table.Row{"Document A", "Document B", "Similarity"})

		for _, pair := range result.pairs {
			tbl.AppendRow(table.Row{pair.A, pair.B, fmt.Sprintf("%.4f", pair.Similarity)})
		}

		tbl.Render()
		fmt.Fprintln(w)
	}

	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Document", "Size"})

	for _, doc := range result.docs {
		tbl.AppendRow(table.Row{doc.path, humanize.Bytes(doc.size)})
	}

	tbl.Render()
}
