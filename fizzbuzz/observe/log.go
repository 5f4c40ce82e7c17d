package observe

import (
	"context"
	"log/slog"

	"github.com/lguimbarda/min-fizzbuzz/fizzbuzz/batch"
)

// Log returns hooks that write the dispatch decision at debug level and the
// batch summary at info level, or at error level when the batch failed.
// Chunk events are logged at debug level. A nil logger uses slog.Default.
func Log(logger *slog.Logger) batch.Hooks {
	if logger == nil {
		logger = slog.Default()
	}
	ctx := context.Background()

	return batch.Hooks{
		OnDispatch: func(d batch.Dispatch) {
			logger.LogAttrs(ctx, slog.LevelDebug, "batch dispatched",
				slog.String("mode", d.Mode.String()),
				slog.Int("size_hint", d.SizeHint),
				slog.Int("threshold", d.Threshold),
				slog.Int("workers", d.Workers),
				slog.Int("chunk_size", d.ChunkSize),
			)
		},
		OnChunk: func(c batch.ChunkDone) {
			logger.LogAttrs(ctx, slog.LevelDebug, "chunk done",
				slog.Int("chunk", c.Index),
				slog.Int("len", c.Len),
				slog.Duration("duration", c.Duration),
			)
		},
		OnComplete: func(s batch.Summary) {
			attrs := []slog.Attr{
				slog.String("mode", s.Mode.String()),
				slog.Int("items", s.Items),
				slog.Int("chunks", s.Chunks),
				slog.Duration("duration", s.Duration),
			}
			if s.Err != nil {
				logger.LogAttrs(ctx, slog.LevelError, "batch failed", append(attrs, slog.Any("error", s.Err))...)
				return
			}
			logger.LogAttrs(ctx, slog.LevelInfo, "batch done", attrs...)
		},
	}
}
