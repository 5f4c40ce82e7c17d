// Package observe turns batch hooks into metrics and log records.
// Nothing here changes how a batch is classified; every function returns a
// batch.Hooks value to attach with batch.WithHooks.
package observe

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/lguimbarda/min-fizzbuzz/fizzbuzz/batch"
)

// LiveMetrics holds running totals that can be read concurrently while
// batches are being processed.
type LiveMetrics struct {
	batches    atomic.Int64
	sequential atomic.Int64
	parallel   atomic.Int64
	items      atomic.Int64
	chunks     atomic.Int64
	errors     atomic.Int64
	busy       atomic.Int64 // total batch duration, nanoseconds
	lastBatch  atomic.Int64 // Unix nano
}

// Batches returns the number of completed batches.
func (m *LiveMetrics) Batches() int64 { return m.batches.Load() }

// Sequential returns the number of batches dispatched sequentially.
func (m *LiveMetrics) Sequential() int64 { return m.sequential.Load() }

// Parallel returns the number of batches dispatched to the worker pool.
func (m *LiveMetrics) Parallel() int64 { return m.parallel.Load() }

// Items returns the number of classified values.
func (m *LiveMetrics) Items() int64 { return m.items.Load() }

// Chunks returns the number of chunks evaluated on the parallel path.
func (m *LiveMetrics) Chunks() int64 { return m.chunks.Load() }

// Errors returns the number of batches that failed.
func (m *LiveMetrics) Errors() int64 { return m.errors.Load() }

// Busy returns the total time spent inside batches.
func (m *LiveMetrics) Busy() time.Duration {
	return time.Duration(m.busy.Load())
}

// LastBatch returns when the most recent batch completed, or the zero time.
func (m *LiveMetrics) LastBatch() time.Time {
	ns := m.lastBatch.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// ItemsPerSecond returns throughput over the time spent inside batches.
func (m *LiveMetrics) ItemsPerSecond() float64 {
	busy := m.Busy().Seconds()
	if busy <= 0 {
		return 0
	}
	return float64(m.Items()) / busy
}

// Hooks returns hooks that update m.
func (m *LiveMetrics) Hooks() batch.Hooks {
	return batch.Hooks{
		OnDispatch: func(d batch.Dispatch) {
			if d.Mode == batch.Parallel {
				m.parallel.Add(1)
			} else {
				m.sequential.Add(1)
			}
		},
		OnChunk: func(batch.ChunkDone) {
			m.chunks.Add(1)
		},
		OnComplete: func(s batch.Summary) {
			m.batches.Add(1)
			m.items.Add(int64(s.Items))
			m.busy.Add(int64(s.Duration))
			m.lastBatch.Store(time.Now().UnixNano())
			if s.Err != nil {
				m.errors.Add(1)
			}
		},
	}
}

// WithLiveMetrics attaches a fresh LiveMetrics to the context and returns it
// for querying.
func WithLiveMetrics(ctx context.Context) (context.Context, *LiveMetrics) {
	m := &LiveMetrics{}
	return batch.WithHooks(ctx, m.Hooks()), m
}
