package persist_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/integeriser/pkg/integeriser"
	"github.com/Sumatoshi-tech/integeriser/pkg/persist"
)

func TestPersister_SaveLoad(t *testing.T) {
	t.Parallel()

	for name, codec := range allCodecs() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			p := persist.NewPersister[[]string]("dictionary", codec)

			table := integeriser.NewHashed[string]()
			for _, word := range []string{"alpha", "beta", "alpha", "gamma"} {
				table.Integerise(word)
			}

			require.NoError(t, p.Save(dir, func() *[]string {
				values := table.Values()

				return &values
			}))

			var restored *integeriser.Hashed[string]

			require.NoError(t, p.Load(dir, func(values *[]string) error {
				var err error

				restored, err = integeriser.NewHashedFrom(*values)

				return err
			}))
			assert.True(t, table.Equal(restored))
		})
	}
}

func TestPersister_RestoreErrorPropagates(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := persist.NewPersister[[]string]("dictionary", persist.NewJSONCodec())

	require.NoError(t, p.Save(dir, func() *[]string { return &[]string{"a", "a"} }))

	err := p.Load(dir, func(values *[]string) error {
		_, err := integeriser.NewHashedFrom(*values)

		return err
	})
	require.ErrorIs(t, err, integeriser.ErrMalformedSequence)

	sentinel := errors.New("restore failed")
	err = p.Load(dir, func(*[]string) error { return sentinel })
	require.ErrorIs(t, err, sentinel)
}

func TestPersister_PathAndExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := persist.NewPersister[[]string]("dictionary", persist.NewLZ4Codec(persist.NewYAMLCodec()))

	assert.Equal(t, persist.StatePath(dir, "dictionary", persist.NewLZ4Codec(persist.NewYAMLCodec())), p.Path(dir))

	found, err := p.Exists(dir)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, p.Save(dir, func() *[]string { return &[]string{} }))

	found, err = p.Exists(dir)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestPersister_LoadMissingFile(t *testing.T) {
	t.Parallel()

	p := persist.NewPersister[[]string]("missing", persist.NewJSONCodec())

	called := false
	err := p.Load(t.TempDir(), func(*[]string) error {
		called = true

		return nil
	})

	require.Error(t, err)
	assert.False(t, called)
}

func TestPersister_SaveInvalidDir(t *testing.T) {
	t.Parallel()

	p := persist.NewPersister[[]string]("state", persist.NewJSONCodec())

	err := p.Save("/nonexistent/path", func() *[]string { return &[]string{"x"} })

	assert.Error(t, err)
}
