package persist_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/integeriser/pkg/integeriser"
	"github.com/Sumatoshi-tech/integeriser/pkg/persist"
)

// dictionaryState mirrors what the CLI stores: a named value sequence.
type dictionaryState struct {
	Name   string   `json:"name"   yaml:"name"`
	Values []string `json:"values" yaml:"values"`
}

func allCodecs() map[string]persist.Codec {
	return map[string]persist.Codec{
		"json":         persist.NewJSONCodec(),
		"json-compact": &persist.JSONCodec{},
		"gob":          persist.NewGobCodec(),
		"yaml":         persist.NewYAMLCodec(),
		"json+lz4":     persist.NewLZ4Codec(persist.NewJSONCodec()),
		"gob+lz4":      persist.NewLZ4Codec(persist.NewGobCodec()),
		"yaml+lz4-hc":  &persist.LZ4Codec{Inner: persist.NewYAMLCodec(), Level: lz4.Level9},
	}
}

func TestCodecs_RoundTrip(t *testing.T) {
	t.Parallel()

	for name, codec := range allCodecs() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			original := dictionaryState{Name: "words", Values: []string{"this", "is", "a", "test", "<&>"}}

			var buf bytes.Buffer
			require.NoError(t, codec.Encode(&buf, original))

			var decoded dictionaryState
			require.NoError(t, codec.Decode(&buf, &decoded))
			assert.Equal(t, original, decoded)
		})
	}
}

func TestCodecs_TableRoundTrip(t *testing.T) {
	t.Parallel()

	for name, codec := range allCodecs() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			table := integeriser.NewHashed[string]()
			for _, word := range strings.Fields("this is a test . this test is really simple .") {
				table.Integerise(word)
			}

			var buf bytes.Buffer
			require.NoError(t, codec.Encode(&buf, table))

			restored := integeriser.NewOrdered[string]()
			require.NoError(t, codec.Decode(&buf, restored))
			assert.True(t, integeriser.Equal[string](table, restored))
		})
	}
}

func TestCodecs_Extension(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ".json", persist.NewJSONCodec().Extension())
	assert.Equal(t, ".gob", persist.NewGobCodec().Extension())
	assert.Equal(t, ".yaml", persist.NewYAMLCodec().Extension())
	assert.Equal(t, ".gob.lz4", persist.NewLZ4Codec(persist.NewGobCodec()).Extension())
}

func TestJSONCodec_CompactNoIndent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, (&persist.JSONCodec{}).Encode(&buf, dictionaryState{Name: "compact"}))

	// Compact JSON has at most one trailing newline (from json.Encoder).
	assert.LessOrEqual(t, strings.Count(buf.String(), "\n"), 1)
}

func TestJSONCodec_PrettyPrintKeepsMarkup(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, persist.NewJSONCodec().Encode(&buf, dictionaryState{Values: []string{"<b>"}}))

	assert.Contains(t, buf.String(), "\n  ")
	assert.Contains(t, buf.String(), `"<b>"`)
}

func TestCodecs_EncodeError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		codec  persist.Codec
		prefix string
	}{
		{persist.NewJSONCodec(), "json encode"},
		{persist.NewGobCodec(), "gob encode"},
		{persist.NewLZ4Codec(persist.NewJSONCodec()), "json encode"},
	}

	for _, tc := range tests {
		var buf bytes.Buffer

		// Channels cannot be encoded by either codec.
		err := tc.codec.Encode(&buf, make(chan int))
		require.Error(t, err)
		assert.Contains(t, err.Error(), tc.prefix)
	}
}

func TestCodecs_DecodeError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		codec  persist.Codec
		prefix string
	}{
		{persist.NewJSONCodec(), "json decode"},
		{persist.NewGobCodec(), "gob decode"},
		{persist.NewYAMLCodec(), "yaml decode"},
		{persist.NewLZ4Codec(persist.NewJSONCodec()), "lz4 decode"},
	}

	for _, tc := range tests {
		var decoded dictionaryState

		err := tc.codec.Decode(strings.NewReader("{{{ not valid"), &decoded)
		require.Error(t, err, tc.prefix)
		assert.Contains(t, err.Error(), tc.prefix)
	}
}

func TestLZ4Codec_Compresses(t *testing.T) {
	t.Parallel()

	state := dictionaryState{Values: make([]string, 1000)}
	for i := range state.Values {
		state.Values[i] = "repeated-token"
	}

	var plain, compressed bytes.Buffer
	require.NoError(t, persist.NewJSONCodec().Encode(&plain, state))
	require.NoError(t, persist.NewLZ4Codec(persist.NewJSONCodec()).Encode(&compressed, state))

	assert.Less(t, compressed.Len(), plain.Len())
}

func TestCodecByName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		compress  bool
		extension string
	}{
		{persist.CodecJSON, false, ".json"},
		{persist.CodecGob, false, ".gob"},
		{persist.CodecYAML, false, ".yaml"},
		{persist.CodecJSON, true, ".json.lz4"},
		{persist.CodecYAML, true, ".yaml.lz4"},
	}

	for _, tc := range tests {
		codec, err := persist.CodecByName(tc.name, tc.compress)
		require.NoError(t, err)
		assert.Equal(t, tc.extension, codec.Extension())
	}

	_, err := persist.CodecByName("xml", false)
	require.ErrorIs(t, err, persist.ErrUnknownCodec)
	assert.Contains(t, err.Error(), `"xml"`)
}
