package observe

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/lguimbarda/min-fizzbuzz/fizzbuzz/batch"
)

// Instrument names reported by Instrument.
const (
	MetricBatches  = "fizzbuzz.batches"
	MetricItems    = "fizzbuzz.items"
	MetricChunks   = "fizzbuzz.chunks"
	MetricErrors   = "fizzbuzz.errors"
	MetricDuration = "fizzbuzz.batch.duration"
)

// ModeKey is the attribute carrying the dispatch mode on batch measurements.
const ModeKey = attribute.Key("mode")

// Instrument creates OpenTelemetry instruments on meter and returns hooks
// that record into them. Batches are counted by dispatch mode; durations
// are recorded in milliseconds.
//
// Example:
//
//	hooks, err := observe.Instrument(otel.Meter("fizzbuzz"))
//	if err != nil {
//	    return err
//	}
//	ctx = batch.WithHooks(ctx, hooks)
func Instrument(meter metric.Meter) (batch.Hooks, error) {
	batches, err := meter.Int64Counter(MetricBatches,
		metric.WithDescription("batches classified"))
	if err != nil {
		return batch.Hooks{}, fmt.Errorf("create %s counter: %w", MetricBatches, err)
	}
	items, err := meter.Int64Counter(MetricItems,
		metric.WithDescription("values classified"))
	if err != nil {
		return batch.Hooks{}, fmt.Errorf("create %s counter: %w", MetricItems, err)
	}
	chunks, err := meter.Int64Counter(MetricChunks,
		metric.WithDescription("chunks evaluated on the worker pool"))
	if err != nil {
		return batch.Hooks{}, fmt.Errorf("create %s counter: %w", MetricChunks, err)
	}
	errs, err := meter.Int64Counter(MetricErrors,
		metric.WithDescription("batches that failed"))
	if err != nil {
		return batch.Hooks{}, fmt.Errorf("create %s counter: %w", MetricErrors, err)
	}
	duration, err := meter.Float64Histogram(MetricDuration,
		metric.WithDescription("time to classify a batch"),
		metric.WithUnit("ms"))
	if err != nil {
		return batch.Hooks{}, fmt.Errorf("create %s histogram: %w", MetricDuration, err)
	}

	// Hooks carry no context of their own.
	ctx := context.Background()

	return batch.Hooks{
		OnChunk: func(batch.ChunkDone) {
			chunks.Add(ctx, 1)
		},
		OnComplete: func(s batch.Summary) {
			mode := metric.WithAttributes(ModeKey.String(s.Mode.String()))
			batches.Add(ctx, 1, mode)
			items.Add(ctx, int64(s.Items))
			duration.Record(ctx, float64(s.Duration.Microseconds())/1000, mode)
			if s.Err != nil {
				errs.Add(ctx, 1, mode)
			}
		},
	}, nil
}
