package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/exp/constraints"
	"golang.org/x/sync/errgroup"

	"github.com/lguimbarda/min-fizzbuzz/fizzbuzz/core"
)

// Integers classifies a batch of integers. A nil Processor selects the one
// attached to ctx with WithProcessor, or the default.
func Integers[T constraints.Integer](ctx context.Context, p *Processor, b Batch[T]) ([]core.Outcome, error) {
	return Map(ctx, p, b, core.Classify[T])
}

// Floats classifies a batch of floating-point values.
func Floats[T constraints.Float](ctx context.Context, p *Processor, b Batch[T]) ([]core.Outcome, error) {
	return Map(ctx, p, b, core.ClassifyFloat[T])
}

// Numerics classifies a batch of values of a custom Numeric type.
func Numerics[T core.Numeric[T]](ctx context.Context, p *Processor, b Batch[T]) ([]core.Outcome, error) {
	return Map(ctx, p, b, core.ClassifyNumeric[T])
}

// Map applies classify to every element of b and returns the Outcomes in
// input order.
//
// Batches implementing Validator are validated first; a RangeSpec with a
// zero step fails with core.ErrInvalidStep. Batches whose size hint is
// below the Processor's threshold run on the calling goroutine. Larger or
// unsized batches are cut into contiguous chunks evaluated on a pool of
// workers and reassembled by chunk index. A panic in classify is returned
// as core.ErrPanic.
func Map[T any](ctx context.Context, p *Processor, b Batch[T], classify func(T) core.Outcome) ([]core.Outcome, error) {
	if p == nil {
		p = FromContext(ctx)
	}
	cfg := p.config()
	if v, ok := b.(Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hooks := newHookInvoker(ctx)
	hint := b.Len()
	indexed, isIndexed := b.(Indexed[T])
	if isIndexed && hint > MaxLen {
		return nil, fmt.Errorf("%w: batch of %d values exceeds %d", core.ErrInvalidArgument, hint, MaxLen)
	}

	d := Dispatch{
		Mode:      p.ModeFor(hint),
		SizeHint:  hint,
		Threshold: cfg.Threshold,
		Workers:   1,
	}
	if d.Mode == Parallel {
		d.Workers = cfg.Workers
		if isIndexed && hint >= 0 {
			d.ChunkSize = p.chunkSize(hint)
		} else {
			d.ChunkSize = p.chunkSize(UnknownLen)
		}
	}
	hooks.dispatch(d)

	start := time.Now()
	var (
		out    []core.Outcome
		chunks int
		err    error
	)
	switch {
	case d.Mode == Sequential:
		out, err = sequential(ctx, b, classify)
	case isIndexed && hint >= 0:
		out, chunks, err = parallelIndexed(ctx, indexed, classify, d, hooks)
	default:
		out, chunks, err = parallelStream(ctx, b, classify, d, hooks)
	}

	hooks.complete(Summary{
		Mode:     d.Mode,
		Items:    len(out),
		Chunks:   chunks,
		Duration: time.Since(start),
		Err:      err,
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// guard converts a panic in fn into a core.ErrPanic.
func guard(fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = core.NewPanicError(r)
			}
		}()
		return fn()
	}
}

func sequential[T any](ctx context.Context, b Batch[T], classify func(T) core.Outcome) ([]core.Outcome, error) {
	out := make([]core.Outcome, 0, max(b.Len(), 0))
	err := guard(func() error {
		for v, err := range b.Values(ctx) {
			if err != nil {
				return err
			}
			out = append(out, classify(v))
		}
		return nil
	})()
	if err != nil {
		return nil, err
	}
	return out, nil
}

// parallelIndexed splits [0, n) into contiguous chunks. Workers pull chunk
// indices from a queue and each writes only to its own chunk's range of the
// output, so no reassembly step is needed.
func parallelIndexed[T any](ctx context.Context, b Indexed[T], classify func(T) core.Outcome, d Dispatch, hooks hookInvoker) ([]core.Outcome, int, error) {
	n := b.Len()
	size := d.ChunkSize
	out := make([]core.Outcome, n)
	numChunks := (n + size - 1) / size

	work := make(chan int, numChunks)
	for c := range numChunks {
		work <- c
	}
	close(work)

	g, gctx := errgroup.WithContext(ctx)
	for range min(d.Workers, numChunks) {
		g.Go(guard(func() error {
			for c := range work {
				if err := gctx.Err(); err != nil {
					return err
				}
				lo := c * size
				hi := min(lo+size, n)

				start := time.Now()
				classifyRange(out[lo:hi], b, lo, classify)
				hooks.chunk(ChunkDone{Index: c, Len: hi - lo, Duration: time.Since(start)})
			}
			return nil
		}))
	}
	if err := g.Wait(); err != nil {
		return nil, numChunks, err
	}
	return out, numChunks, nil
}

func classifyRange[T any](dst []core.Outcome, b Indexed[T], offset int, classify func(T) core.Outcome) {
	if s, ok := b.(Slice[T]); ok {
		for i, v := range s[offset : offset+len(dst)] {
			dst[i] = classify(v)
		}
		return
	}
	for i := range dst {
		dst[i] = classify(b.At(offset + i))
	}
}

type chunkJob[T any] struct {
	index  int
	values []T
}

type chunkResult struct {
	index    int
	outcomes []core.Outcome
}

// parallelStream reads a batch of unknown length. A producer cuts the
// stream into chunks of d.ChunkSize, workers classify them, and the
// collector reassembles the results by chunk index rather than by
// completion order.
func parallelStream[T any](ctx context.Context, b Batch[T], classify func(T) core.Outcome, d Dispatch, hooks hookInvoker) ([]core.Outcome, int, error) {
	size := d.ChunkSize
	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan chunkJob[T], d.Workers)
	results := make(chan chunkResult, d.Workers)

	// Producer
	g.Go(guard(func() error {
		defer close(jobs)

		index := 0
		buf := make([]T, 0, size)
		flush := func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case jobs <- chunkJob[T]{index: index, values: buf}:
			}
			index++
			buf = make([]T, 0, size)
			return nil
		}

		for v, err := range b.Values(gctx) {
			if err != nil {
				return err
			}
			buf = append(buf, v)
			if len(buf) == size {
				if err := flush(); err != nil {
					return err
				}
			}
		}
		if len(buf) > 0 {
			return flush()
		}
		return nil
	}))

	var workers sync.WaitGroup
	workers.Add(d.Workers)
	for range d.Workers {
		g.Go(guard(func() error {
			defer workers.Done()
			for job := range jobs {
				start := time.Now()
				outcomes := make([]core.Outcome, len(job.values))
				for i, v := range job.values {
					outcomes[i] = classify(v)
				}
				hooks.chunk(ChunkDone{Index: job.index, Len: len(outcomes), Duration: time.Since(start)})

				select {
				case <-gctx.Done():
					return gctx.Err()
				case results <- chunkResult{index: job.index, outcomes: outcomes}:
				}
			}
			return nil
		}))
	}

	go func() {
		workers.Wait()
		close(results)
	}()

	// Collector
	parts := make(map[int][]core.Outcome)
	total := 0
	for r := range results {
		parts[r.index] = r.outcomes
		total += len(r.outcomes)
	}
	if err := g.Wait(); err != nil {
		return nil, len(parts), err
	}

	out := make([]core.Outcome, 0, total)
	for i := range len(parts) {
		out = append(out, parts[i]...)
	}
	return out, len(parts), nil
}
