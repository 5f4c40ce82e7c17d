package batch_test

import (
	"context"
	"errors"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/lguimbarda/min-fizzbuzz/fizzbuzz/batch"
	"github.com/lguimbarda/min-fizzbuzz/fizzbuzz/core"
	"github.com/lguimbarda/min-fizzbuzz/fizzbuzz/format"
)

func TestRangeSemantics(t *testing.T) {
	tests := []struct {
		name  string
		rng   batch.RangeSpec[int]
		want  []string
		wantN int
	}{
		{"step one", batch.Range(1, 6).By(1), []string{"1", "2", "fizz", "4", "buzz"}, 5},
		{"no step", batch.Range(1, 6), []string{"1", "2", "fizz", "4", "buzz"}, 5},
		{"step two", batch.Range(1, 6).By(2), []string{"1", "fizz", "buzz"}, 3},
		{"reversed bounds positive step", batch.Range(5, 0).By(1), []string{}, 0},
		{"negative step two", batch.Range(5, 0).By(-2), []string{"buzz", "fizz", "1"}, 3},
		{"negative step one", batch.Range(5, 1).By(-1), []string{"buzz", "4", "fizz", "2"}, 4},
		{"negative step forward bounds", batch.Range(1, 5).By(-1), []string{}, 0},
		{"empty", batch.Range(3, 3), []string{}, 0},
		{"every third from zero", batch.Range(0, 16).By(3), []string{"fizzbuzz", "fizz", "fizz", "fizz", "fizz", "fizzbuzz"}, 6},
		{"backwards by three", batch.Range(15, 0).By(-3), []string{"fizzbuzz", "fizz", "fizz", "fizz", "fizz"}, 5},
		{"step larger than span", batch.Range(1, 3).By(10), []string{"1"}, 1},
		{"negative numbers keep their sign", batch.Range(-5, 0), []string{"buzz", "-4", "fizz", "-2", "-1"}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rng.Len(); got != tt.wantN {
				t.Errorf("Len() = %d, want %d", got, tt.wantN)
			}
			outcomes, err := batch.Integers(context.Background(), nil, tt.rng)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := format.Strings(outcomes)
			if !slices.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRangeZeroStep(t *testing.T) {
	rng := batch.Range(1, 16).By(0)

	if err := rng.Validate(); !errors.Is(err, core.ErrInvalidStep) {
		t.Fatalf("Validate() = %v, want ErrInvalidStep", err)
	}
	if rng.Len() != 0 {
		t.Errorf("Len() = %d, want 0", rng.Len())
	}

	_, err := batch.Integers(context.Background(), nil, rng)
	if !errors.Is(err, core.ErrInvalidStep) {
		t.Fatalf("got %v, want ErrInvalidStep", err)
	}
	if !errors.Is(err, core.ErrInvalidArgument) {
		t.Errorf("ErrInvalidStep should also be an invalid argument")
	}

	// Zero-step ranges fail even on the parallel path.
	_, err = batch.Integers(context.Background(), batch.New(batch.WithThreshold(0)), rng)
	if !errors.Is(err, core.ErrInvalidStep) {
		t.Fatalf("parallel path: got %v, want ErrInvalidStep", err)
	}

	// Iterating the range directly reports the error too.
	for _, err := range rng.Values(context.Background()) {
		if !errors.Is(err, core.ErrInvalidStep) {
			t.Fatalf("Values: got %v, want ErrInvalidStep", err)
		}
	}
}

func TestRangeStepDefaults(t *testing.T) {
	if got := batch.Range(0, 10).Step(); got != 1 {
		t.Errorf("Step() = %d, want 1", got)
	}
	if got := batch.Range(0, 10).By(-4).Step(); got != -4 {
		t.Errorf("Step() = %d, want -4", got)
	}
	if got := batch.Range(15, 0).By(-3).String(); got != "15:0:-3" {
		t.Errorf("String() = %q", got)
	}
}

func TestRangeExtremeBounds(t *testing.T) {
	t.Run("int8 span overflows the type", func(t *testing.T) {
		rng := batch.Range[int8](-128, 127)
		if got := rng.Len(); got != 255 {
			t.Fatalf("Len() = %d, want 255", got)
		}
		if got := rng.At(254); got != 126 {
			t.Errorf("At(254) = %d, want 126", got)
		}
	})

	t.Run("int8 reversed full span", func(t *testing.T) {
		rng := batch.Range[int8](127, -128).By(-1)
		if got := rng.Len(); got != 255 {
			t.Fatalf("Len() = %d, want 255", got)
		}
		if rng.At(0) != 127 || rng.At(254) != -127 {
			t.Errorf("At(0)=%d At(254)=%d", rng.At(0), rng.At(254))
		}
	})

	t.Run("int8 minimum step", func(t *testing.T) {
		rng := batch.Range[int8](127, -128).By(-128)
		if got := rng.Len(); got != 2 {
			t.Fatalf("Len() = %d, want 2", got)
		}
		if rng.At(1) != -1 {
			t.Errorf("At(1) = %d, want -1", rng.At(1))
		}
	})

	t.Run("uint8 ranges", func(t *testing.T) {
		rng := batch.Range[uint8](250, 255).By(2)
		got, err := batch.Integers(context.Background(), nil, rng)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{"buzz", "fizz", "254"}
		if !slices.Equal(format.Strings(got), want) {
			t.Errorf("got %v, want %v", format.Strings(got), want)
		}
	})

	t.Run("int64 full span is clamped", func(t *testing.T) {
		rng := batch.Range[int64](math.MinInt64, math.MaxInt64)
		if got := rng.Len(); got != math.MaxInt {
			t.Errorf("Len() = %d, want MaxInt", got)
		}
		if got := rng.At(0); got != math.MinInt64 {
			t.Errorf("At(0) = %d", got)
		}
	})

	t.Run("int64 full span is too large to classify", func(t *testing.T) {
		rng := batch.Range[int64](math.MinInt64, math.MaxInt64)
		err := rng.Validate()
		if !errors.Is(err, core.ErrInvalidArgument) || errors.Is(err, core.ErrInvalidStep) {
			t.Fatalf("Validate() = %v, want ErrInvalidArgument", err)
		}
		if !strings.Contains(err.Error(), "too large") {
			t.Errorf("message = %q", err.Error())
		}
		for _, p := range []*batch.Processor{nil, batch.New(batch.WithThreshold(0))} {
			if _, err := batch.Integers(context.Background(), p, rng); !errors.Is(err, core.ErrInvalidArgument) {
				t.Errorf("Integers() = %v, want ErrInvalidArgument", err)
			}
		}
	})

	t.Run("largest accepted range validates", func(t *testing.T) {
		rng := batch.Range(0, batch.MaxLen)
		if err := rng.Validate(); err != nil {
			t.Errorf("Validate() = %v", err)
		}
		if err := rng.By(2).Validate(); err != nil {
			t.Errorf("Validate() with step 2 = %v", err)
		}
		if err := batch.Range(0, batch.MaxLen+1).Validate(); !errors.Is(err, core.ErrInvalidArgument) {
			t.Errorf("one past MaxLen: Validate() = %v", err)
		}
	})

	t.Run("int64 wide step", func(t *testing.T) {
		rng := batch.Range[int64](math.MinInt64, math.MaxInt64).By(math.MaxInt64)
		if got := rng.Len(); got != 3 {
			t.Fatalf("Len() = %d, want 3", got)
		}
		if got := rng.At(2); got != math.MaxInt64-1 {
			t.Errorf("At(2) = %d, want %d", got, int64(math.MaxInt64-1))
		}
	})

	t.Run("uint64 near the top", func(t *testing.T) {
		rng := batch.Range[uint64](math.MaxUint64-3, math.MaxUint64)
		if got := rng.Len(); got != 3 {
			t.Fatalf("Len() = %d, want 3", got)
		}
		if got := rng.At(2); got != math.MaxUint64-1 {
			t.Errorf("At(2) = %d", got)
		}
	})
}

func TestRangeParallelMatchesSequential(t *testing.T) {
	ctx := context.Background()
	rng := batch.Range(-50_000, 50_000).By(7)

	seq, err := batch.Integers(ctx, batch.New(batch.WithThreshold(math.MaxInt)), rng)
	if err != nil {
		t.Fatalf("sequential: %v", err)
	}
	par, err := batch.Integers(ctx, batch.New(batch.WithThreshold(0), batch.WithChunkSize(1_000), batch.WithWorkers(4)), rng)
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}
	if !slices.Equal(seq, par) {
		t.Fatal("parallel and sequential results differ")
	}
	if len(seq) != rng.Len() {
		t.Errorf("len = %d, want %d", len(seq), rng.Len())
	}
}
