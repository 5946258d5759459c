package integeriser

import (
	"fmt"
	"iter"
	"maps"
	"slices"
)

// Hashed is an interning table whose reverse index is a Go map.
//
// Values follow Go equality: a float NaN never equals itself, so every
// Integerise(NaN) assigns a fresh code and FindKey(NaN) never finds one.
// An interface value holding an unhashable dynamic type panics on first use,
// before the table is modified.
//
// The zero value is an empty table ready to use.
type Hashed[T comparable] struct {
	values []T
	codes  map[T]int
}

var _ Integeriser[string] = (*Hashed[string])(nil)

// NewHashed creates an empty hash-backed table.
func NewHashed[T comparable](opts ...Option) *Hashed[T] {
	o := buildOptions(opts)

	return &Hashed[T]{
		values: make([]T, 0, o.capacity),
		codes:  make(map[T]int, o.capacity),
	}
}

// NewHashedFrom rebuilds a table from a dense value sequence, assigning code i
// to values[i]. A repeated value fails with ErrMalformedSequence.
func NewHashedFrom[T comparable](values []T) (*Hashed[T], error) {
	table := NewHashed[T](WithCapacity(len(values)))

	for pos, value := range values {
		if first, found := table.codes[value]; found {
			return nil, duplicateError(first, pos)
		}

		table.codes[value] = pos
		table.values = append(table.values, value)
	}

	return table, nil
}

// Integerise returns the code of value, assigning Size() if value is new.
func (table *Hashed[T]) Integerise(value T) int {
	if code, found := table.codes[value]; found {
		return code
	}

	if table.codes == nil {
		table.codes = make(map[T]int)
	}

	code := len(table.values)
	table.codes[value] = code
	table.values = append(table.values, value)

	return code
}

// FindValue returns the value assigned to code.
func (table *Hashed[T]) FindValue(code int) (T, bool) {
	if code < 0 || code >= len(table.values) {
		var zero T

		return zero, false
	}

	return table.values[code], true
}

// FindKey returns the code of value if it has been interned.
func (table *Hashed[T]) FindKey(value T) (int, bool) {
	code, found := table.codes[value]

	return code, found
}

// Size returns the number of interned values.
func (table *Hashed[T]) Size() int {
	return len(table.values)
}

// Values returns a copy of the interned values in code order.
func (table *Hashed[T]) Values() []T {
	return slices.Clone(table.values)
}

// All iterates over (code, value) pairs in code order.
func (table *Hashed[T]) All() iter.Seq2[int, T] {
	return slices.All(table.values)
}

// Clone returns an independent copy of the table.
func (table *Hashed[T]) Clone() *Hashed[T] {
	return &Hashed[T]{
		values: slices.Clone(table.values),
		codes:  maps.Clone(table.codes),
	}
}

// Equal reports whether other holds the same values under the same codes.
func (table *Hashed[T]) Equal(other *Hashed[T]) bool {
	return slices.Equal(table.values, other.values)
}

// String renders the dense sequence.
func (table *Hashed[T]) String() string {
	return fmt.Sprintf("Hashed%v", table.values)
}

func (table *Hashed[T]) replace(other *Hashed[T]) {
	table.values = other.values
	table.codes = other.codes
}
