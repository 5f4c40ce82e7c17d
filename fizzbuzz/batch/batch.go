// Package batch classifies many numbers at once. It decides, from the size
// of the input, whether to evaluate on the calling goroutine or to split the
// input into contiguous chunks and evaluate them on a worker pool. Either way
// the output has the same length and order as the input.
package batch

import (
	"context"
	"iter"
)

// UnknownLen is returned by Batch.Len when the size is not known up front.
// Such batches are treated as large and dispatched to the parallel path.
const UnknownLen = -1

// Batch is a finite collection of numbers submitted for bulk classification.
// A Batch is consumed once per call and never retained by the Processor.
type Batch[T any] interface {
	// Len returns the exact number of elements, an estimate for streamed
	// sources created with a hint, or UnknownLen.
	Len() int

	// Values yields the elements in order. A non-nil error ends the batch;
	// the value paired with it is meaningless.
	Values(ctx context.Context) iter.Seq2[T, error]
}

// Indexed is a Batch with random access. The parallel path partitions
// Indexed batches by index without materializing them.
type Indexed[T any] interface {
	Batch[T]
	At(i int) T
}

// Validator is implemented by batches that must be checked before
// evaluation, such as RangeSpec.
type Validator interface {
	Validate() error
}

// Slice is an in-memory Batch.
type Slice[T any] []T

// Of creates a Slice batch from the given values.
func Of[T any](values ...T) Slice[T] {
	return Slice[T](values)
}

func (s Slice[T]) Len() int { return len(s) }

func (s Slice[T]) At(i int) T { return s[i] }

func (s Slice[T]) Values(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for _, v := range s {
			if !yield(v, nil) {
				return
			}
		}
	}
}

// seqBatch streams values from an iterator.
type seqBatch[T any] struct {
	seq  iter.Seq[T]
	hint int
}

// FromSeq creates a streamed Batch from a Go 1.23+ iterator. Its size is
// unknown, so it always takes the parallel path.
func FromSeq[T any](seq iter.Seq[T]) Batch[T] {
	return seqBatch[T]{seq: seq, hint: UnknownLen}
}

// FromSeqHint creates a streamed Batch with an estimated size. The estimate
// only steers the dispatch decision; the iterator may yield more or fewer.
func FromSeqHint[T any](seq iter.Seq[T], hint int) Batch[T] {
	if hint < 0 {
		hint = UnknownLen
	}
	return seqBatch[T]{seq: seq, hint: hint}
}

func (b seqBatch[T]) Len() int { return b.hint }

func (b seqBatch[T]) Values(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for v := range b.seq {
			if err := ctx.Err(); err != nil {
				var zero T
				yield(zero, err)
				return
			}
			if !yield(v, nil) {
				return
			}
		}
	}
}

// chanBatch streams values received from a channel.
type chanBatch[T any] struct {
	ch <-chan T
}

// FromChannel creates a streamed Batch from a channel. The batch ends when
// the channel is closed; the caller is responsible for closing it.
func FromChannel[T any](ch <-chan T) Batch[T] {
	return chanBatch[T]{ch: ch}
}

func (b chanBatch[T]) Len() int { return UnknownLen }

func (b chanBatch[T]) Values(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			select {
			case <-ctx.Done():
				var zero T
				yield(zero, ctx.Err())
				return
			case v, ok := <-b.ch:
				if !ok {
					return
				}
				if !yield(v, nil) {
					return
				}
			}
		}
	}
}
