package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

const (
	metricLookupsTotal = "integeriser.lookups.total"
	metricValues       = "integeriser.values"

	attrOp     = "op"
	attrResult = "result"

	resultHit  = "hit"
	resultMiss = "miss"
)

// Operation names recorded in the op attribute.
const (
	OpIntegerise = "integerise"
	OpFindKey    = "find_key"
	OpFindValue  = "find_value"
)

// InternMetrics holds the OTel instruments for interning tables.
type InternMetrics struct {
	lookupsTotal metric.Int64Counter
	values       metric.Int64UpDownCounter
}

// NewInternMetrics creates interning instruments from the given meter.
func NewInternMetrics(mt metric.Meter) (*InternMetrics, error) {
	lookups, err := mt.Int64Counter(metricLookupsTotal,
		metric.WithDescription("Total number of table lookups by operation and result"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricLookupsTotal, err)
	}

	values, err := mt.Int64UpDownCounter(metricValues,
		metric.WithDescription("Number of distinct values interned"),
		metric.WithUnit("{value}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricValues, err)
	}

	return &InternMetrics{
		lookupsTotal: lookups,
		values:       values,
	}, nil
}

// RecordLookup counts one lookup of op as a hit or a miss.
func (im *InternMetrics) RecordLookup(ctx context.Context, op string, hit bool) {
	result := resultMiss
	if hit {
		result = resultHit
	}

	im.lookupsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrOp, op),
		attribute.String(attrResult, result),
	))
}

// RecordValues adjusts the number of interned values by delta.
func (im *InternMetrics) RecordValues(ctx context.Context, delta int64) {
	im.values.Add(ctx, delta)
}

// LookupCounts holds hit and miss totals of one operation.
type LookupCounts struct {
	Hits   int64
	Misses int64
}

// Counts summarizes interning metrics.
type Counts struct {
	// Ops maps an operation name to its totals.
	Ops map[string]LookupCounts
	// Values is the number of values added while instrumented.
	Values int64
}

// Hits returns the hit total across operations.
func (c Counts) Hits() int64 {
	var total int64
	for _, op := range c.Ops {
		total += op.Hits
	}

	return total
}

// Misses returns the miss total across operations.
func (c Counts) Misses() int64 {
	var total int64
	for _, op := range c.Ops {
		total += op.Misses
	}

	return total
}

// CountsFrom extracts interning totals from collected metrics.
func CountsFrom(rm metricdata.ResourceMetrics) Counts {
	counts := Counts{Ops: map[string]LookupCounts{}}

	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}

			switch m.Name {
			case metricLookupsTotal:
				for _, dp := range sum.DataPoints {
					addLookup(counts.Ops, dp)
				}
			case metricValues:
				for _, dp := range sum.DataPoints {
					counts.Values += dp.Value
				}
			}
		}
	}

	return counts
}

func addLookup(ops map[string]LookupCounts, dp metricdata.DataPoint[int64]) {
	op, _ := dp.Attributes.Value(attrOp)
	result, _ := dp.Attributes.Value(attrResult)

	entry := ops[op.AsString()]

	switch result.AsString() {
	case resultHit:
		entry.Hits += dp.Value
	case resultMiss:
		entry.Misses += dp.Value
	}

	ops[op.AsString()] = entry
}
