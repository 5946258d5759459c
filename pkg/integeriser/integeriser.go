// Package integeriser provides bidirectional interning tables. Each distinct
// value receives a dense, zero-based integer code in first-occurrence order,
// and both directions of the mapping can be queried afterwards.
//
// Two tables are provided. Hashed keeps its reverse index in a Go map and
// needs comparable values. Ordered keeps its reverse index in a red-black
// tree and needs a total order. Both share the same observable contract.
//
// Tables are not safe for concurrent mutation. Concurrent readers are safe
// while no Integerise call is in flight.
package integeriser

import (
	"cmp"
	"errors"
	"fmt"
	"hash/maphash"
	"iter"
)

// Sentinel errors.
var (
	// ErrUnknownCode is returned by Resolve for a code that was never assigned.
	ErrUnknownCode = errors.New("unknown code")
	// ErrMalformedSequence is returned when a serialized value sequence
	// repeats a value.
	ErrMalformedSequence = errors.New("malformed value sequence")
	// ErrNoComparator is returned when decoding into an Ordered table that
	// was not constructed with a comparator.
	ErrNoComparator = errors.New("ordered table has no comparator")
)

// Integeriser is the interning contract shared by all tables.
type Integeriser[T any] interface {
	// Integerise returns the code of value, assigning the next free code
	// when value has not been seen before.
	Integerise(value T) int
	// FindValue returns the value that was assigned code.
	FindValue(code int) (T, bool)
	// FindKey returns the code of value without assigning one.
	FindKey(value T) (int, bool)
	// Size returns the number of distinct values interned so far.
	Size() int
}

type options struct {
	capacity int
}

// Option configures a table at construction.
type Option func(*options)

// WithCapacity presizes the table for n values.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = max(n, 0)
	}
}

func buildOptions(opts []Option) options {
	var o options

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// IntegeriseAll interns every value of seq in order and returns the codes.
func IntegeriseAll[T any](table Integeriser[T], seq iter.Seq[T]) []int {
	var codes []int

	for value := range seq {
		codes = append(codes, table.Integerise(value))
	}

	return codes
}

// Resolve maps codes back to their values. The first code that was never
// assigned fails the whole call with ErrUnknownCode.
func Resolve[T any](table Integeriser[T], codes []int) ([]T, error) {
	values := make([]T, len(codes))

	for pos, code := range codes {
		value, ok := table.FindValue(code)
		if !ok {
			return nil, fmt.Errorf("code %d at position %d: %w", code, pos, ErrUnknownCode)
		}

		values[pos] = value
	}

	return values, nil
}

// Values returns the dense sequence of any table, in code order.
func Values[T any](table Integeriser[T]) []T {
	values := make([]T, 0, table.Size())

	for code := range table.Size() {
		value, _ := table.FindValue(code)
		values = append(values, value)
	}

	return values
}

// Equal reports whether two tables hold the same values under the same codes.
// The tables may be of different kinds.
func Equal[T comparable](a, b Integeriser[T]) bool {
	if a.Size() != b.Size() {
		return false
	}

	for code := range a.Size() {
		left, _ := a.FindValue(code)
		right, _ := b.FindValue(code)

		if left != right {
			return false
		}
	}

	return true
}

// Compare orders two tables lexicographically by their dense sequences.
func Compare[T cmp.Ordered](a, b Integeriser[T]) int {
	return compareFunc(a, b, cmp.Compare[T])
}

func compareFunc[T any](a, b Integeriser[T], compare func(x, y T) int) int {
	shared := min(a.Size(), b.Size())

	for code := range shared {
		left, _ := a.FindValue(code)
		right, _ := b.FindValue(code)

		if c := compare(left, right); c != 0 {
			return c
		}
	}

	return cmp.Compare(a.Size(), b.Size())
}

// Hash returns a hash of the dense sequence of table. Tables that are Equal
// hash equally under the same seed.
func Hash[T comparable](seed maphash.Seed, table Integeriser[T]) uint64 {
	var hasher maphash.Hash

	hasher.SetSeed(seed)
	maphash.WriteComparable(&hasher, table.Size())

	for code := range table.Size() {
		value, _ := table.FindValue(code)
		maphash.WriteComparable(&hasher, value)
	}

	return hasher.Sum64()
}

func duplicateError(first, second int) error {
	return fmt.Errorf("%w: value at position %d repeats position %d", ErrMalformedSequence, second, first)
}
