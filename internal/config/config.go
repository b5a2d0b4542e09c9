package config

import (
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/treesketch/pkg/sketch"
)

// Config is the top-level configuration struct for treesketch.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Sketch        SketchConfig        `mapstructure:"sketch"`
	Cache         CacheConfig         `mapstructure:"cache"`
	Compare       CompareConfig       `mapstructure:"compare"`
	Dedupe        DedupeConfig        `mapstructure:"dedupe"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// SketchConfig holds the fingerprinting pipeline knobs.
type SketchConfig struct {
	SubtreeDepth       int      `mapstructure:"subtree_depth"`
	FrequencyThreshold int      `mapstructure:"frequency_threshold"`
	NumHashFunctions   int      `mapstructure:"num_hash_functions"`
	NumGroups          int      `mapstructure:"num_groups"`
	PreserveArrayOrder bool     `mapstructure:"preserve_array_order"`
	ShingleSize        int      `mapstructure:"shingle_size"`
	IgnoreKeys         []string `mapstructure:"ignore_keys"`
}

// CacheConfig holds node string memoization settings.
type CacheConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Size    int  `mapstructure:"size"`
}

// CompareConfig holds similarity comparison settings.
type CompareConfig struct {
	Bounded             bool    `mapstructure:"bounded"`
	SimilarityThreshold float64 `mapstructure:"similarity_threshold"`
	ErrorTolerance      float64 `mapstructure:"error_tolerance"`
}

// DedupeConfig holds duplicate grouping settings. Bands times rows must
// equal sketch.num_hash_functions.
type DedupeConfig struct {
	Threshold float64 `mapstructure:"threshold"`
	Bands     int     `mapstructure:"bands"`
	Rows      int     `mapstructure:"rows"`
}

// ObservabilityConfig holds logging and telemetry export settings.
type ObservabilityConfig struct {
	LogLevel     string `mapstructure:"log_level"`
	LogFormat    string `mapstructure:"log_format"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
}

// Sentinel errors for configuration validation.
var (
	// ErrInvalidSimilarityThreshold indicates the threshold is outside [0, 1].
	ErrInvalidSimilarityThreshold = errors.New("compare.similarity_threshold must be between 0 and 1")
	// ErrInvalidErrorTolerance indicates the tolerance is negative.
	ErrInvalidErrorTolerance = errors.New("compare.error_tolerance must be non-negative")
	// ErrInvalidDedupeThreshold indicates the dedupe threshold is outside [0, 1].
	ErrInvalidDedupeThreshold = errors.New("dedupe.threshold must be between 0 and 1")
	// ErrInvalidDedupeBands indicates the band count is not positive.
	ErrInvalidDedupeBands = errors.New("dedupe.bands must be positive")
	// ErrInvalidDedupeRows indicates the rows-per-band count is not positive.
	ErrInvalidDedupeRows = errors.New("dedupe.rows must be positive")
	// ErrDedupeBandCoverage indicates bands*rows does not cover the sketch.
	ErrDedupeBandCoverage = errors.New("dedupe.bands * dedupe.rows must equal sketch.num_hash_functions")
)

// unitIntervalMax is the upper bound for similarity threshold values.
const unitIntervalMax = 1.0

// ToSketchOptions converts the sketch and cache sections into pipeline
// options.
func (c *Config) ToSketchOptions() sketch.Options {
	return sketch.Options{
		SubtreeDepth:          c.Sketch.SubtreeDepth,
		FrequencyThreshold:    c.Sketch.FrequencyThreshold,
		NumHashFunctions:      c.Sketch.NumHashFunctions,
		NumGroups:             c.Sketch.NumGroups,
		PreserveArrayOrder:    c.Sketch.PreserveArrayOrder,
		ShingleSize:           c.Sketch.ShingleSize,
		IgnoreKeys:            c.Sketch.IgnoreKeys,
		EnableNodeStringCache: c.Cache.Enabled,
		NodeStringCacheSize:   c.Cache.Size,
	}
}

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	sketchErr := c.ToSketchOptions().Validate()
	if sketchErr != nil {
		return fmt.Errorf("sketch: %w", sketchErr)
	}

	compareErr := c.validateCompare()
	if compareErr != nil {
		return compareErr
	}

	return c.validateDedupe()
}

func (c *Config) validateCompare() error {
	if c.Compare.SimilarityThreshold < 0 || c.Compare.SimilarityThreshold > unitIntervalMax {
		return ErrInvalidSimilarityThreshold
	}

	if c.Compare.ErrorTolerance < 0 {
		return ErrInvalidErrorTolerance
	}

	return nil
}

func (c *Config) validateDedupe() error {
	if c.Dedupe.Threshold < 0 || c.Dedupe.Threshold > unitIntervalMax {
		return ErrInvalidDedupeThreshold
	}

	if c.Dedupe.Bands < 1 {
		return ErrInvalidDedupeBands
	}

	if c.Dedupe.Rows < 1 {
		return ErrInvalidDedupeRows
	}

	if c.Dedupe.Bands*c.Dedupe.Rows != c.Sketch.NumHashFunctions {
		return ErrDedupeBandCoverage
	}

	return nil
}
