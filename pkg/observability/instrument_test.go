package observability_test

import (
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/integeriser/pkg/integeriser"
	"github.com/Sumatoshi-tech/integeriser/pkg/observability"
)

func TestInstrument_CountsEveryOperation(t *testing.T) {
	t.Parallel()

	metrics, reader := setupTestMeter(t)
	inner := integeriser.NewOrdered[string]()
	table := observability.Instrument[string](context.Background(), inner, metrics)

	codes := integeriser.IntegeriseAll[string](table, slices.Values(strings.Fields("this is a test . this test is really simple .")))
	assert.Equal(t, []int{0, 1, 2, 3, 4, 0, 3, 1, 5, 6, 4}, codes)

	_, found := table.FindKey("really")
	assert.True(t, found)

	_, found = table.FindKey("absent")
	assert.False(t, found)

	_, found = table.FindValue(6)
	assert.True(t, found)

	_, found = table.FindValue(7)
	assert.False(t, found)

	counts := observability.CountsFrom(collectMetrics(t, reader))

	assert.Equal(t, observability.LookupCounts{Hits: 4, Misses: 7}, counts.Ops[observability.OpIntegerise])
	assert.Equal(t, observability.LookupCounts{Hits: 1, Misses: 1}, counts.Ops[observability.OpFindKey])
	assert.Equal(t, observability.LookupCounts{Hits: 1, Misses: 1}, counts.Ops[observability.OpFindValue])
	assert.Equal(t, int64(7), counts.Values)
	assert.Equal(t, 7, table.Size())
}

func TestInstrument_PreservesContract(t *testing.T) {
	t.Parallel()

	metrics, _ := setupTestMeter(t)
	inner := integeriser.NewHashed[int]()
	table := observability.Instrument[int](context.Background(), inner, metrics)

	assert.Equal(t, 0, table.Integerise(42))
	assert.Equal(t, 1, table.Integerise(7))
	assert.Equal(t, 0, table.Integerise(42))

	values, err := integeriser.Resolve[int](table, []int{1, 0})
	require.NoError(t, err)
	assert.Equal(t, []int{7, 42}, values)

	assert.Same(t, inner, table.Unwrap())
	assert.True(t, integeriser.Equal[int](inner, table))
}
