package batch

import (
	"context"
	"math"
	"runtime"

	"github.com/lguimbarda/min-fizzbuzz/fizzbuzz/core"
)

// DefaultThreshold is the batch size from which parallel evaluation pays
// off. Below it, coordinating workers costs more than the handful of
// arithmetic operations per element. The value was chosen empirically with
// the benchmarks in this repository and is sensitive to hardware; override
// it with WithThreshold.
const DefaultThreshold = 300_000

// MaxLen is the largest indexed batch Map accepts. Larger ranges fail with
// core.ErrInvalidArgument instead of allocating their output.
const MaxLen = min(math.MaxInt/64, 1<<40)

// Chunk sizing for the parallel path.
const (
	// MinChunkSize is the smallest automatic chunk. Smaller chunks spend
	// more time on scheduling than on classification.
	MinChunkSize = 4_096

	// StreamChunkSize is the automatic chunk size for streamed batches,
	// whose total length is not known when chunks are cut.
	StreamChunkSize = 16_384

	// chunksPerWorker controls automatic chunking of indexed batches:
	// several chunks per worker keep the pool balanced when some chunks
	// finish early.
	chunksPerWorker = 4
)

// Mode is the evaluation strategy chosen for a batch.
type Mode int

const (
	Sequential Mode = iota
	Parallel
)

func (m Mode) String() string {
	if m == Parallel {
		return "parallel"
	}
	return "sequential"
}

// Config holds the tunables of a Processor.
type Config struct {
	// Threshold is the size hint from which batches run in parallel.
	Threshold int
	// Workers is the size of the worker pool used on the parallel path.
	Workers int
	// ChunkSize is the number of elements per chunk; 0 selects it
	// automatically.
	ChunkSize int
}

// Option is a functional option for configuring a Processor.
type Option func(*Config)

// WithThreshold sets the size hint from which batches run in parallel.
// A threshold of 0 or less makes every batch run in parallel.
func WithThreshold(n int) Option {
	return func(c *Config) {
		c.Threshold = n
	}
}

// WithWorkers sets the worker pool size. Values <= 0 default to
// runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(c *Config) {
		c.Workers = n
	}
}

// WithChunkSize sets a fixed chunk size for the parallel path. Values <= 0
// select the size automatically.
func WithChunkSize(n int) Option {
	return func(c *Config) {
		c.ChunkSize = n
	}
}

func defaultConfig() Config {
	return Config{
		Threshold: DefaultThreshold,
		Workers:   runtime.GOMAXPROCS(0),
	}
}

// Processor classifies batches. It holds configuration only; a Processor
// is safe for concurrent use and keeps no state between calls. The zero
// Processor behaves like Default().
type Processor struct {
	cfg Config
}

// New creates a Processor with the given options applied over the defaults.
func New(opts ...Option) *Processor {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.ChunkSize < 0 {
		cfg.ChunkSize = 0
	}
	return &Processor{cfg: cfg}
}

var defaultProcessor = New()

// Default returns the shared Processor with default configuration.
func Default() *Processor {
	return defaultProcessor
}

// Config returns a copy of the Processor's configuration.
func (p *Processor) Config() Config {
	return p.config()
}

// config returns the defaults for a Processor not built with New.
func (p *Processor) config() Config {
	if p.cfg.Workers <= 0 {
		return defaultProcessor.cfg
	}
	return p.cfg
}

// ModeFor returns the strategy for a batch with the given size hint.
// An unknown size (UnknownLen) is treated as large.
func (p *Processor) ModeFor(hint int) Mode {
	if hint < 0 || hint >= p.config().Threshold {
		return Parallel
	}
	return Sequential
}

// chunkSize returns the chunk length for n elements; n < 0 means streamed.
func (p *Processor) chunkSize(n int) int {
	cfg := p.config()
	if cfg.ChunkSize > 0 {
		return cfg.ChunkSize
	}
	if n < 0 {
		return StreamChunkSize
	}
	k := cfg.Workers * chunksPerWorker
	size := n / k
	if n%k != 0 {
		size++
	}
	return max(size, MinChunkSize)
}

// WithProcessor attaches p to the context. Map and its typed helpers use it
// when they are called with a nil Processor.
func WithProcessor(ctx context.Context, p *Processor) context.Context {
	return core.WithConfig(ctx, p)
}

// FromContext returns the Processor attached with WithProcessor, or the
// default Processor.
func FromContext(ctx context.Context) *Processor {
	return core.ConfigOr(ctx, defaultProcessor, func(p *Processor) bool { return p != nil })
}
