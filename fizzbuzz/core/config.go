package core

import "context"

// ctxKey keys context values by their static type C.
type ctxKey[C any] struct{}

// WithConfig stores cfg in the context under its type. Storing another
// value of the same type shadows the first; *T and T are distinct types.
//
//	ctx = core.WithConfig(ctx, batch.New(batch.WithThreshold(1_000)))
func WithConfig[C any](ctx context.Context, cfg C) context.Context {
	return context.WithValue(ctx, ctxKey[C]{}, cfg)
}

// GetConfig returns the value of type C stored with WithConfig. A nil
// context holds nothing.
func GetConfig[C any](ctx context.Context) (cfg C, ok bool) {
	if ctx == nil {
		return cfg, false
	}
	cfg, ok = ctx.Value(ctxKey[C]{}).(C)
	return cfg, ok
}

// ConfigOr returns the value of type C stored with WithConfig when present
// and accepted by valid, and fallback otherwise. A nil valid accepts every
// stored value.
func ConfigOr[C any](ctx context.Context, fallback C, valid func(C) bool) C {
	cfg, ok := GetConfig[C](ctx)
	if !ok || (valid != nil && !valid(cfg)) {
		return fallback
	}
	return cfg
}
