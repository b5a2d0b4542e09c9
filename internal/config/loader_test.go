package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/treesketch/internal/config"
	"github.com/Sumatoshi-tech/treesketch/pkg/sketch"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "treesketch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	return path
}

func TestLoadConfig_EmptyFile_UsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfigFile(t, ""))
	require.NoError(t, err)
	assert.Equal(t, sketch.DefaultNumHashFunctions, cfg.Sketch.NumHashFunctions)
	assert.Equal(t, sketch.DefaultShingleSize, cfg.Sketch.ShingleSize)
	assert.True(t, cfg.Sketch.PreserveArrayOrder)
	assert.False(t, cfg.Cache.Enabled)
	assert.InDelta(t, config.DefaultDedupeThreshold, cfg.Dedupe.Threshold, 0)
	assert.Equal(t, config.DefaultDedupeBands, cfg.Dedupe.Bands)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, `
sketch:
  subtree_depth: 3
  shingle_size: 4
  ignore_keys:
    - timestamp
cache:
  enabled: true
  size: 2048
compare:
  bounded: true
  similarity_threshold: 0.9
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Sketch.SubtreeDepth)
	assert.Equal(t, 4, cfg.Sketch.ShingleSize)
	assert.Equal(t, []string{"timestamp"}, cfg.Sketch.IgnoreKeys)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 2048, cfg.Cache.Size)
	assert.True(t, cfg.Compare.Bounded)
	assert.InDelta(t, 0.9, cfg.Compare.SimilarityThreshold, 0)

	// Untouched keys keep their defaults.
	assert.Equal(t, sketch.DefaultNumHashFunctions, cfg.Sketch.NumHashFunctions)
}

func TestLoadConfig_InvalidValues_ReturnsError(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, `
sketch:
  shingle_size: 0
`)

	_, err := config.LoadConfig(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, sketch.ErrShingleSize)
}

func TestLoadConfig_MalformedYAML_ReturnsError(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, "sketch: [unclosed")

	_, err := config.LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("TREESKETCH_SKETCH_NUM_HASH_FUNCTIONS", "64")

	cfg, err := config.LoadConfig(writeConfigFile(t, ""))
	require.NoError(t, err)

	assert.Equal(t, 64, cfg.Sketch.NumHashFunctions)
}
