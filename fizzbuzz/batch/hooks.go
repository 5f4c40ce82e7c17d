package batch

import (
	"context"
	"time"
)

// Dispatch describes the strategy chosen for one batch.
type Dispatch struct {
	Mode      Mode
	SizeHint  int // UnknownLen for streamed batches without a hint
	Threshold int
	Workers   int // 1 on the sequential path
	ChunkSize int // 0 on the sequential path
}

// ChunkDone describes one chunk evaluated on the parallel path.
type ChunkDone struct {
	Index    int
	Len      int
	Duration time.Duration
}

// Summary describes a finished batch.
type Summary struct {
	Mode     Mode
	Items    int
	Chunks   int
	Duration time.Duration
	Err      error
}

// Hooks holds observation callbacks for batch processing.
// All fields are optional - nil means no observation for that event.
// OnDispatch and OnComplete run on the calling goroutine; OnChunk runs on
// worker goroutines and may be called concurrently.
type Hooks struct {
	OnDispatch func(Dispatch)
	OnChunk    func(ChunkDone)
	OnComplete func(Summary)
}

type hooksKey struct{}

// WithHooks attaches hooks to the context.
// Multiple calls compose in FIFO order - hooks from earlier calls are
// invoked before hooks from later calls.
//
// Example:
//
//	ctx := batch.WithHooks(ctx, batch.Hooks{
//	    OnDispatch: func(d batch.Dispatch) { log.Printf("mode=%s", d.Mode) },
//	})
func WithHooks(ctx context.Context, hooks Hooks) context.Context {
	if ctx == nil {
		panic("nil context")
	}

	existing, _ := ctx.Value(hooksKey{}).([]Hooks)
	sets := make([]Hooks, len(existing)+1)
	copy(sets, existing)
	sets[len(existing)] = hooks
	return context.WithValue(ctx, hooksKey{}, sets)
}

// hookInvoker caches which hook kinds are present so the hot path skips
// them with a single branch.
type hookInvoker struct {
	sets        []Hooks
	hasDispatch bool
	hasChunk    bool
	hasComplete bool
}

func newHookInvoker(ctx context.Context) hookInvoker {
	sets, _ := ctx.Value(hooksKey{}).([]Hooks)
	h := hookInvoker{sets: sets}
	for _, s := range sets {
		h.hasDispatch = h.hasDispatch || s.OnDispatch != nil
		h.hasChunk = h.hasChunk || s.OnChunk != nil
		h.hasComplete = h.hasComplete || s.OnComplete != nil
	}
	return h
}

func (h hookInvoker) dispatch(d Dispatch) {
	if !h.hasDispatch {
		return
	}
	for _, s := range h.sets {
		if s.OnDispatch != nil {
			s.OnDispatch(d)
		}
	}
}

func (h hookInvoker) chunk(c ChunkDone) {
	if !h.hasChunk {
		return
	}
	for _, s := range h.sets {
		if s.OnChunk != nil {
			s.OnChunk(c)
		}
	}
}

func (h hookInvoker) complete(s Summary) {
	if !h.hasComplete {
		return
	}
	for _, set := range h.sets {
		if set.OnComplete != nil {
			set.OnComplete(s)
		}
	}
}
