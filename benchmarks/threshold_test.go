package benchmarks

import (
	"math"
	"testing"

	"github.com/lguimbarda/min-fizzbuzz/fizzbuzz/batch"
)

// =============================================================================
// Threshold Benchmarks
// Compare forced sequential and forced parallel dispatch at each size. The
// crossover point is where BenchmarkDispatch/parallel starts beating
// BenchmarkDispatch/sequential on the target hardware.
// =============================================================================

func BenchmarkDispatch(b *testing.B) {
	seq := batch.New(batch.WithThreshold(math.MaxInt))
	par := batch.New(batch.WithThreshold(0))

	for _, n := range sizes {
		data := generateInts(n)

		b.Run("sequential/"+sizeName(n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = mustClassify(b, seq, data)
			}
		})
		b.Run("parallel/"+sizeName(n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = mustClassify(b, par, data)
			}
		})
	}
}

// BenchmarkThresholdSweep measures the default processor just below, at and
// above the threshold, where the dispatch mode flips.
func BenchmarkThresholdSweep(b *testing.B) {
	p := batch.Default()
	for _, n := range []int{batch.DefaultThreshold / 2, batch.DefaultThreshold - 1, batch.DefaultThreshold, batch.DefaultThreshold * 2} {
		data := generateInts(n)
		b.Run(p.ModeFor(n).String()+"/"+sizeName(n), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_ = mustClassify(b, p, data)
			}
		})
	}
}

// BenchmarkRange classifies ranges, which the parallel path partitions
// without materializing.
func BenchmarkRange(b *testing.B) {
	for _, n := range sizes {
		r := batch.Range(1, n+1)
		b.Run(sizeName(n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := batch.Integers(ctx, nil, r); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkChunkSize varies the chunk size on a large parallel batch.
func BenchmarkChunkSize(b *testing.B) {
	data := generateInts(1_000_000)
	for _, size := range []int{1_024, 4_096, 16_384, 65_536, 262_144} {
		p := batch.New(batch.WithThreshold(0), batch.WithChunkSize(size))
		b.Run(sizeName(size), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_ = mustClassify(b, p, data)
			}
		})
	}
}

// BenchmarkStream compares a streamed source with the same values held in
// memory.
func BenchmarkStream(b *testing.B) {
	const n = 1_000_000
	data := generateInts(n)

	b.Run("slice", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = mustClassify(b, nil, data)
		}
	})
	b.Run("seq", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			seq := func(yield func(int) bool) {
				for _, v := range data {
					if !yield(v) {
						return
					}
				}
			}
			if _, err := batch.Integers(ctx, nil, batch.FromSeq(seq)); err != nil {
				b.Fatal(err)
			}
		}
	})
}
