// Package benchmarks measures batch classification across sizes and
// dispatch modes, and compares the parallel path with popular Go
// data-parallel libraries. It is used to tune batch.DefaultThreshold.
//
// Run with: go test -bench . -benchmem
package benchmarks

import (
	"context"
	"fmt"
	"testing"

	"github.com/lguimbarda/min-fizzbuzz/fizzbuzz/batch"
	"github.com/lguimbarda/min-fizzbuzz/fizzbuzz/core"
)

// Batch sizes from tens to tens of millions of values.
var sizes = []int{10, 1_000, 100_000, 1_000_000, 10_000_000}

// generateInts creates the slice 1..n.
func generateInts(n int) []int {
	data := make([]int, n)
	for i := range data {
		data[i] = i + 1
	}
	return data
}

// classifyLoop is the baseline: a plain loop on one goroutine.
func classifyLoop(data []int) []core.Outcome {
	out := make([]core.Outcome, len(data))
	for i, v := range data {
		out[i] = core.Classify(v)
	}
	return out
}

func sizeName(n int) string {
	return fmt.Sprintf("n=%d", n)
}

// mustClassify fails the benchmark on error.
func mustClassify(b *testing.B, p *batch.Processor, data []int) []core.Outcome {
	out, err := batch.Integers(ctx, p, batch.Slice[int](data))
	if err != nil {
		b.Fatal(err)
	}
	return out
}

// Background context for benchmarks
var ctx = context.Background()
