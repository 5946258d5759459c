package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/integeriser/pkg/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "integeriser.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfig_EmptyFile_UsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, config.DefaultTableBacking, cfg.Table.Backing)
	assert.Equal(t, config.DefaultTableCapacity, cfg.Table.Capacity)
	assert.Equal(t, config.DefaultStoreDirectory, cfg.Store.Directory)
	assert.Equal(t, config.DefaultStoreName, cfg.Store.Name)
	assert.Equal(t, config.DefaultStoreCodec, cfg.Store.Codec)
	assert.Equal(t, config.DefaultStoreCompress, cfg.Store.Compress)
	assert.Equal(t, config.DefaultStoreMaxInputSize, cfg.Store.MaxInputSize)
	assert.Equal(t, config.DefaultLoggingLevel, cfg.Logging.Level)
	assert.Equal(t, config.DefaultLoggingFormat, cfg.Logging.Format)
	assert.Equal(t, uint64(64_000_000), cfg.MaxInputBytes())
	assert.Empty(t, cfg.Observability().OTLPEndpoint)
	assert.Nil(t, cfg.Observability().OTLPHeaders)
}

func TestLoadConfig_ValidFile_Unmarshals(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `table:
  backing: ordered
  capacity: 4096
store:
  directory: /var/lib/integeriser
  name: words
  codec: gob
  compress: true
  max_input_size: 1MiB
logging:
  level: debug
  format: json
observability:
  otlp_endpoint: collector:4317
  otlp_insecure: true
  otlp_headers: "authorization=token, tenant=dev"
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, config.BackingOrdered, cfg.Table.Backing)
	assert.Equal(t, 4096, cfg.Table.Capacity)
	assert.Equal(t, "/var/lib/integeriser", cfg.Store.Directory)
	assert.Equal(t, "words", cfg.Store.Name)
	assert.Equal(t, "gob", cfg.Store.Codec)
	assert.True(t, cfg.Store.Compress)
	assert.Equal(t, uint64(1<<20), cfg.MaxInputBytes())

	codec, err := cfg.Codec()
	require.NoError(t, err)
	assert.Equal(t, ".gob.lz4", codec.Extension())

	obs := cfg.Observability()
	assert.Equal(t, slog.LevelDebug, obs.LogLevel)
	assert.True(t, obs.LogJSON)
	assert.Equal(t, "collector:4317", obs.OTLPEndpoint)
	assert.True(t, obs.OTLPInsecure)
	assert.Equal(t, map[string]string{"authorization": "token", "tenant": "dev"}, obs.OTLPHeaders)
}

func TestLoadConfig_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"backing", "table:\n  backing: trie\n", config.ErrInvalidBacking},
		{"capacity", "table:\n  capacity: -1\n", config.ErrInvalidCapacity},
		{"codec", "store:\n  codec: xml\n", config.ErrInvalidCodec},
		{"store name", "store:\n  name: \"\"\n", config.ErrInvalidStoreName},
		{"input size", "store:\n  max_input_size: lots\n", config.ErrInvalidInputSize},
		{"zero input size", "store:\n  max_input_size: 0B\n", config.ErrInvalidInputSize},
		{"log level", "logging:\n  level: loud\n", config.ErrInvalidLogLevel},
		{"log format", "logging:\n  format: xml\n", config.ErrInvalidLogFormat},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := config.LoadConfig(writeConfig(t, tc.content))
			require.ErrorIs(t, err, tc.wantErr)
			assert.Contains(t, err.Error(), "invalid configuration")
		})
	}
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(writeConfig(t, "table: [unterminated\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "store:\n  codec: yaml\n")

	t.Setenv("INTEGERISER_STORE_CODEC", "gob")
	t.Setenv("INTEGERISER_TABLE_BACKING", "ordered")
	t.Setenv("INTEGERISER_STORE_COMPRESS", "true")
	t.Setenv("INTEGERISER_OBSERVABILITY_OTLP_ENDPOINT", "localhost:4317")

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "gob", cfg.Store.Codec)
	assert.Equal(t, config.BackingOrdered, cfg.Table.Backing)
	assert.True(t, cfg.Store.Compress)
	assert.Equal(t, "localhost:4317", cfg.Observability().OTLPEndpoint)
}

func TestConfig_CodecUnknown(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Store: config.StoreConfig{Codec: "xml"}}

	_, err := cfg.Codec()
	require.ErrorIs(t, err, config.ErrInvalidCodec)
}

func TestConfig_MaxInputBytesInvalid(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Store: config.StoreConfig{MaxInputSize: "nope"}}

	assert.Zero(t, cfg.MaxInputBytes())
}

func TestConfig_ObservabilityDefaultsOnBadLevel(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Logging: config.LoggingConfig{Level: "loud", Format: config.LogFormatText}}

	obs := cfg.Observability()
	assert.Equal(t, slog.LevelInfo, obs.LogLevel)
	assert.False(t, obs.LogJSON)
}
