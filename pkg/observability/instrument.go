package observability

import (
	"context"

	"github.com/Sumatoshi-tech/integeriser/pkg/integeriser"
)

// Instrumented decorates a table and records every call into InternMetrics.
type Instrumented[T any] struct {
	inner   integeriser.Integeriser[T]
	metrics *InternMetrics
	ctx     context.Context
}

var _ integeriser.Integeriser[string] = (*Instrumented[string])(nil)

// Instrument wraps inner so its lookups are counted by m. Measurements are
// recorded with ctx, which may carry a span.
func Instrument[T any](ctx context.Context, inner integeriser.Integeriser[T], m *InternMetrics) *Instrumented[T] {
	return &Instrumented[T]{inner: inner, metrics: m, ctx: ctx}
}

// Integerise interns value and records a hit when value was already present.
func (in *Instrumented[T]) Integerise(value T) int {
	before := in.inner.Size()
	code := in.inner.Integerise(value)
	added := in.inner.Size() - before

	in.metrics.RecordLookup(in.ctx, OpIntegerise, added == 0)

	if added > 0 {
		in.metrics.RecordValues(in.ctx, int64(added))
	}

	return code
}

// FindValue resolves code and records whether it was assigned.
func (in *Instrumented[T]) FindValue(code int) (T, bool) {
	value, found := in.inner.FindValue(code)
	in.metrics.RecordLookup(in.ctx, OpFindValue, found)

	return value, found
}

// FindKey looks value up and records whether it was interned.
func (in *Instrumented[T]) FindKey(value T) (int, bool) {
	code, found := in.inner.FindKey(value)
	in.metrics.RecordLookup(in.ctx, OpFindKey, found)

	return code, found
}

// Size returns the size of the wrapped table.
func (in *Instrumented[T]) Size() int {
	return in.inner.Size()
}

// Unwrap returns the wrapped table.
func (in *Instrumented[T]) Unwrap() integeriser.Integeriser[T] {
	return in.inner
}
