// Package commands implements CLI command handlers for treesketch.
package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/treesketch/internal/config"
	"github.com/Sumatoshi-tech/treesketch/pkg/sketch"
)

// Output format identifiers.
const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// stdinPath selects standard input as the document source.
const stdinPath = "-"

var (
	// ErrUnknownFormat indicates an unsupported output format was requested.
	ErrUnknownFormat = errors.New("unknown output format (supported: json, yaml)")
)

// pipelineFlags holds the CLI overrides for the sketching pipeline. Only
// flags the user actually set override the loaded configuration.
type pipelineFlags struct {
	configPath    string
	format        string
	depth         int
	freqThreshold int
	hashes        int
	groups        int
	shingleSize   int
	ignoreKeys    []string
	arrayOrder    bool
	cache         bool
	cacheSize     int
}

// register binds the shared pipeline flags onto a command.
func (f *pipelineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "path to config file (default: .treesketch.yaml in CWD or $HOME)")
	cmd.Flags().StringVarP(&f.format, "format", "f", formatJSON, "output format: json or yaml")
	cmd.Flags().IntVar(&f.depth, "depth", sketch.DefaultSubtreeDepth, "BFS depth of extracted subtrees")
	cmd.Flags().IntVar(&f.freqThreshold, "frequency-threshold", sketch.DefaultFrequencyThreshold, "minimum shingle occurrences to keep a feature")
	cmd.Flags().IntVar(&f.hashes, "hashes", sketch.DefaultNumHashFunctions, "number of MinHash functions")
	cmd.Flags().IntVar(&f.groups, "groups", sketch.DefaultNumGroups, "number of hash groups for bounded estimation")
	cmd.Flags().IntVar(&f.shingleSize, "shingle-size", sketch.DefaultShingleSize, "character window length for shingling")
	cmd.Flags().StringSliceVar(&f.ignoreKeys, "ignore-keys", nil, "object keys whose subtrees are excluded")
	cmd.Flags().BoolVar(&f.arrayOrder, "preserve-array-order", true, "encode array element positions into paths")
	cmd.Flags().BoolVar(&f.cache, "cache", false, "memoize per-node shingle sets")
	cmd.Flags().IntVar(&f.cacheSize, "cache-size", sketch.DefaultNodeStringCacheSize, "node string cache capacity")
}

// loadConfig loads the effective configuration, then layers explicitly set
// flags on top.
func (f *pipelineFlags) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(f.configPath)
	if err != nil {
		return nil, err
	}

	flagSet := cmd.Flags()

	if flagSet.Changed("depth") {
		cfg.Sketch.SubtreeDepth = f.depth
	}

	if flagSet.Changed("frequency-threshold") {
		cfg.Sketch.FrequencyThreshold = f.freqThreshold
	}

	if flagSet.Changed("hashes") {
		cfg.Sketch.NumHashFunctions = f.hashes
	}

	if flagSet.Changed("groups") {
		cfg.Sketch.NumGroups = f.groups
	}

	if flagSet.Changed("shingle-size") {
		cfg.Sketch.ShingleSize = f.shingleSize
	}

	if flagSet.Changed("ignore-keys") {
		cfg.Sketch.IgnoreKeys = f.ignoreKeys
	}

	if flagSet.Changed("preserve-array-order") {
		cfg.Sketch.PreserveArrayOrder = f.arrayOrder
	}

	if flagSet.Changed("cache") {
		cfg.Cache.Enabled = f.cache
	}

	if flagSet.Changed("cache-size") {
		cfg.Cache.Size = f.cacheSize
	}

	return cfg, nil
}

// newSketcher builds a Sketcher from the effective configuration.
func (f *pipelineFlags) newSketcher(cmd *cobra.Command) (*sketch.Sketcher, *config.Config, error) {
	cfg, err := f.loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	s, err := sketch.New(cfg.ToSketchOptions())
	if err != nil {
		return nil, nil, err
	}

	return s, cfg, nil
}

// readDocument reads a JSON document from a file path, or stdin for "-".
func readDocument(path string) ([]byte, error) {
	if path == stdinPath {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}

		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	return data, nil
}

// writeOutput encodes v to w in the requested format.
func writeOutput(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		err := enc.Encode(v)
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
	case formatYAML:
		enc := yaml.NewEncoder(w)

		err := enc.Encode(v)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}

		err = enc.Close()
		if err != nil {
			return fmt.Errorf("close yaml encoder: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	return nil
}
