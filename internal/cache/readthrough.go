package cache

import (
	"context"
	"log/slog"
	"time"
)

// ReadThrough wraps a Store with a single get-or-compute entry point.
// Cache faults never surface to the caller: a failing store degrades to a
// direct compute, and a failing write-back is logged and ignored.
type ReadThrough struct {
	store  Store
	logger *slog.Logger
}

// NewReadThrough creates a ReadThrough over the given store.
func NewReadThrough(store Store, logger *slog.Logger) *ReadThrough {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReadThrough{store: store, logger: logger}
}

// GetOrCompute returns the cached bytes for key, or invokes compute and
// stores its result with the given ttl. compute errors are returned as-is;
// store errors are swallowed.
func (r *ReadThrough) GetOrCompute(ctx context.Context, key string, ttl time.Duration, compute func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	value, found, err := r.store.Get(ctx, key)
	if err != nil {
		r.logger.WarnContext(ctx, "cache read failed, bypassing", slog.String("key", key), slog.Any("error", err))
	} else if found {
		return value, nil
	}

	value, err = compute(ctx)
	if err != nil {
		return nil, err
	}

	if setErr := r.store.Set(ctx, key, value, ttl); setErr != nil {
		r.logger.WarnContext(ctx, "cache write failed", slog.String("key", key), slog.Any("error", setErr))
	}
	return value, nil
}

// Store exposes the wrapped store for invalidation wiring.
func (r *ReadThrough) Store() Store { return r.store }
