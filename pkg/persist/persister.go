package persist

// Persister binds a basename and codec to one state type.
type Persister[T any] struct {
	basename string
	codec    Codec
}

// NewPersister creates a persister with the given basename and codec.
func NewPersister[T any](basename string, codec Codec) *Persister[T] {
	return &Persister[T]{
		basename: basename,
		codec:    codec,
	}
}

// Path returns the file the persister reads and writes in dir.
func (p *Persister[T]) Path(dir string) string {
	return StatePath(dir, p.basename, p.codec)
}

// Exists reports whether dir holds a saved state.
func (p *Persister[T]) Exists(dir string) (bool, error) {
	return Exists(dir, p.basename, p.codec)
}

// Save writes the state produced by buildState to dir.
func (p *Persister[T]) Save(dir string, buildState func() *T) error {
	return SaveState(dir, p.basename, p.codec, buildState())
}

// Load decodes the saved state from dir and hands it to restoreState. An
// error from restoreState is returned unchanged.
func (p *Persister[T]) Load(dir string, restoreState func(*T) error) error {
	var state T

	err := LoadState(dir, p.basename, p.codec, &state)
	if err != nil {
		return err
	}

	return restoreState(&state)
}
