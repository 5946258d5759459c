package integeriser

import (
	"cmp"
	"fmt"
	"iter"
	"slices"

	"github.com/Sumatoshi-tech/integeriser/pkg/rbtree"
)

// Ordered is an interning table whose reverse index is a red-black tree keyed
// by a total order. Two values are the same value when the comparator returns
// 0 for them.
//
// The zero value has no comparator. It reports Size 0 and finds nothing, but
// Integerise panics and decoding fails with ErrNoComparator.
type Ordered[T any] struct {
	compare func(a, b T) int
	values  []T
	index   *rbtree.Tree[T, int]
}

var _ Integeriser[string] = (*Ordered[string])(nil)

// NewOrdered creates an empty table ordered by cmp.Compare.
func NewOrdered[T cmp.Ordered](opts ...Option) *Ordered[T] {
	return NewOrderedFunc(cmp.Compare[T], opts...)
}

// NewOrderedFunc creates an empty table ordered by compare, which must be a
// total order. A nil compare panics.
func NewOrderedFunc[T any](compare func(a, b T) int, opts ...Option) *Ordered[T] {
	if compare == nil {
		panic("integeriser: nil compare function")
	}

	o := buildOptions(opts)
	index := rbtree.New[T, int](compare)
	index.Grow(o.capacity)

	return &Ordered[T]{
		compare: compare,
		values:  make([]T, 0, o.capacity),
		index:   index,
	}
}

// NewOrderedFrom rebuilds a table ordered by cmp.Compare from a dense value
// sequence. A repeated value fails with ErrMalformedSequence.
func NewOrderedFrom[T cmp.Ordered](values []T) (*Ordered[T], error) {
	return NewOrderedFuncFrom(cmp.Compare[T], values)
}

// NewOrderedFuncFrom rebuilds a table ordered by compare from a dense value
// sequence, assigning code i to values[i].
func NewOrderedFuncFrom[T any](compare func(a, b T) int, values []T) (*Ordered[T], error) {
	table := NewOrderedFunc(compare, WithCapacity(len(values)))

	for pos, value := range values {
		if first, inserted := table.index.Insert(value, pos); !inserted {
			return nil, duplicateError(first, pos)
		}

		table.values = append(table.values, value)
	}

	return table, nil
}

// Integerise returns the code of value, assigning Size() if value is new.
func (table *Ordered[T]) Integerise(value T) int {
	if table.index == nil {
		panic("integeriser: Ordered table has no comparator")
	}

	// The tree runs every comparison before linking the new node, so a
	// panicking comparator leaves both structures as they were.
	code, inserted := table.index.Insert(value, len(table.values))
	if inserted {
		table.values = append(table.values, value)
	}

	return code
}

// FindValue returns the value assigned to code.
func (table *Ordered[T]) FindValue(code int) (T, bool) {
	if code < 0 || code >= len(table.values) {
		var zero T

		return zero, false
	}

	return table.values[code], true
}

// FindKey returns the code of value if it has been interned.
func (table *Ordered[T]) FindKey(value T) (int, bool) {
	if table.index == nil {
		return 0, false
	}

	return table.index.Get(value)
}

// Size returns the number of interned values.
func (table *Ordered[T]) Size() int {
	return len(table.values)
}

// Values returns a copy of the interned values in code order.
func (table *Ordered[T]) Values() []T {
	return slices.Clone(table.values)
}

// All iterates over (code, value) pairs in code order.
func (table *Ordered[T]) All() iter.Seq2[int, T] {
	return slices.All(table.values)
}

// Clone returns an independent copy of the table sharing only the comparator.
func (table *Ordered[T]) Clone() *Ordered[T] {
	clone := &Ordered[T]{
		compare: table.compare,
		values:  slices.Clone(table.values),
	}

	if table.index != nil {
		clone.index = table.index.Clone()
	}

	return clone
}

// Equal reports whether other holds equivalent values under the same codes,
// using this table's comparator.
func (table *Ordered[T]) Equal(other *Ordered[T]) bool {
	if len(table.values) != len(other.values) {
		return false
	}

	if len(table.values) == 0 {
		return true
	}

	return slices.EqualFunc(table.values, other.values, func(a, b T) bool {
		return table.compare(a, b) == 0
	})
}

// Compare orders two tables lexicographically by their dense sequences using
// this table's comparator.
func (table *Ordered[T]) Compare(other *Ordered[T]) int {
	if len(table.values) == 0 || len(other.values) == 0 {
		return cmp.Compare(len(table.values), len(other.values))
	}

	return compareFunc[T](table, other, table.compare)
}

// String renders the dense sequence.
func (table *Ordered[T]) String() string {
	return fmt.Sprintf("Ordered%v", table.values)
}

func (table *Ordered[T]) replace(other *Ordered[T]) {
	table.compare = other.compare
	table.values = other.values
	table.index = other.index
}
