package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/Sumatoshi-tech/treesketch/pkg/sketch"
)

// configName is the config file name without extension.
const configName = ".treesketch"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for treesketch settings.
const envPrefix = "TREESKETCH"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// Default values for settings not mirrored from the sketch package.
const (
	DefaultCompareThreshold = 0.8
	DefaultCompareTolerance = 0.05
	DefaultDedupeThreshold  = 0.8
	DefaultDedupeBands      = 32
	DefaultDedupeRows       = 4
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
)

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// Missing config file is not an error; defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("sketch.subtree_depth", sketch.DefaultSubtreeDepth)
	viperCfg.SetDefault("sketch.frequency_threshold", sketch.DefaultFrequencyThreshold)
	viperCfg.SetDefault("sketch.num_hash_functions", sketch.DefaultNumHashFunctions)
	viperCfg.SetDefault("sketch.num_groups", sketch.DefaultNumGroups)
	viperCfg.SetDefault("sketch.preserve_array_order", true)
	viperCfg.SetDefault("sketch.shingle_size", sketch.DefaultShingleSize)
	viperCfg.SetDefault("sketch.ignore_keys", []string{})

	viperCfg.SetDefault("cache.enabled", false)
	viperCfg.SetDefault("cache.size", sketch.DefaultNodeStringCacheSize)

	viperCfg.SetDefault("compare.bounded", false)
	viperCfg.SetDefault("compare.similarity_threshold", DefaultCompareThreshold)
	viperCfg.SetDefault("compare.error_tolerance", DefaultCompareTolerance)

	viperCfg.SetDefault("dedupe.threshold", DefaultDedupeThreshold)
	viperCfg.SetDefault("dedupe.bands", DefaultDedupeBands)
	viperCfg.SetDefault("dedupe.rows", DefaultDedupeRows)

	viperCfg.SetDefault("observability.log_level", DefaultLogLevel)
	viperCfg.SetDefault("observability.log_format", DefaultLogFormat)
	viperCfg.SetDefault("observability.otlp_endpoint", "")
}
