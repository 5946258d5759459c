// Package config provides configuration loading and validation for the
// integeriser command line tool.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"

	"github.com/Sumatoshi-tech/integeriser/pkg/observability"
	"github.com/Sumatoshi-tech/integeriser/pkg/persist"
)

// Sentinel validation errors.
var (
	ErrInvalidBacking   = errors.New("invalid table backing")
	ErrInvalidCodec     = errors.New("invalid store codec")
	ErrInvalidCapacity  = errors.New("table capacity must not be negative")
	ErrInvalidInputSize = errors.New("invalid max input size")
	ErrInvalidStoreName = errors.New("store name must not be empty")
	ErrInvalidLogLevel  = errors.New("invalid log level")
	ErrInvalidLogFormat = errors.New("invalid log format")
)

const envPrefix = "INTEGERISER"

// Config holds all configuration for the integeriser tool.
type Config struct {
	Table   TableConfig   `mapstructure:"table"`
	Store   StoreConfig   `mapstructure:"store"`
	Logging LoggingConfig `mapstructure:"logging"`

	Telemetry ObservabilityConfig `mapstructure:"observability"`
}

// TableConfig selects the interning table.
type TableConfig struct {
	Backing  string `mapstructure:"backing"`
	Capacity int    `mapstructure:"capacity"`
}

// StoreConfig describes where and how the dictionary is persisted.
type StoreConfig struct {
	Directory    string `mapstructure:"directory"`
	Name         string `mapstructure:"name"`
	Codec        string `mapstructure:"codec"`
	MaxInputSize string `mapstructure:"max_input_size"`
	Compress     bool   `mapstructure:"compress"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ObservabilityConfig points telemetry export at an OTLP gRPC collector.
// An empty endpoint keeps spans and metrics in process.
type ObservabilityConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool   `mapstructure:"otlp_insecure"`
	OTLPHeaders  string `mapstructure:"otlp_headers"`
}

// LoadConfig loads configuration from defaults, an optional YAML file and
// INTEGERISER_* environment variables, in increasing precedence. With an
// empty configPath, integeriser.yaml is looked up in the working directory
// and in $HOME/.config/integeriser; a missing file is not an error.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("integeriser")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("$HOME/.config/integeriser")
	}

	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("table.backing", DefaultTableBacking)
	viperCfg.SetDefault("table.capacity", DefaultTableCapacity)

	viperCfg.SetDefault("store.directory", DefaultStoreDirectory)
	viperCfg.SetDefault("store.name", DefaultStoreName)
	viperCfg.SetDefault("store.codec", DefaultStoreCodec)
	viperCfg.SetDefault("store.compress", DefaultStoreCompress)
	viperCfg.SetDefault("store.max_input_size", DefaultStoreMaxInputSize)

	viperCfg.SetDefault("logging.level", DefaultLoggingLevel)
	viperCfg.SetDefault("logging.format", DefaultLoggingFormat)

	viperCfg.SetDefault("observability.otlp_endpoint", "")
	viperCfg.SetDefault("observability.otlp_insecure", false)
	viperCfg.SetDefault("observability.otlp_headers", "")
}

// validateConfig validates the configuration.
func validateConfig(config *Config) error {
	if !slices.Contains([]string{BackingHash, BackingOrdered}, config.Table.Backing) {
		return fmt.Errorf("%w: %q", ErrInvalidBacking, config.Table.Backing)
	}

	if config.Table.Capacity < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCapacity, config.Table.Capacity)
	}

	if config.Store.Name == "" {
		return ErrInvalidStoreName
	}

	if !slices.Contains([]string{persist.CodecJSON, persist.CodecGob, persist.CodecYAML}, config.Store.Codec) {
		return fmt.Errorf("%w: %q", ErrInvalidCodec, config.Store.Codec)
	}

	size, err := humanize.ParseBytes(config.Store.MaxInputSize)
	if err != nil || size == 0 {
		return fmt.Errorf("%w: %q", ErrInvalidInputSize, config.Store.MaxInputSize)
	}

	_, err = observability.ParseLevel(config.Logging.Level)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, config.Logging.Level)
	}

	if !slices.Contains([]string{LogFormatText, LogFormatJSON}, config.Logging.Format) {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, config.Logging.Format)
	}

	return nil
}

// MaxInputBytes returns the input size limit in bytes.
func (c *Config) MaxInputBytes() uint64 {
	size, err := humanize.ParseBytes(c.Store.MaxInputSize)
	if err != nil {
		return 0
	}

	return size
}

// Codec returns the persistence codec selected by the store section.
func (c *Config) Codec() (persist.Codec, error) {
	codec, err := persist.CodecByName(c.Store.Codec, c.Store.Compress)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCodec, err)
	}

	return codec, nil
}

// Observability returns the logger settings of the logging section and the
// export settings of the observability section.
func (c *Config) Observability() observability.Config {
	cfg := observability.DefaultConfig()

	level, err := observability.ParseLevel(c.Logging.Level)
	if err == nil {
		cfg.LogLevel = level
	}

	cfg.LogJSON = c.Logging.Format == LogFormatJSON
	cfg.OTLPEndpoint = c.Telemetry.OTLPEndpoint
	cfg.OTLPInsecure = c.Telemetry.OTLPInsecure
	cfg.OTLPHeaders = observability.ParseOTLPHeaders(c.Telemetry.OTLPHeaders)

	return cfg
}
