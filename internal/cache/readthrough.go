package cache

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/example/booking-platform/internal/logging"
)

// GetOrCompute is the read-through wrapper: probe the store, on a miss run
// compute and populate the cache only if the computation succeeded. Cache I/O
// and serialization failures are logged and never fail the surrounding
// request; a nil store degrades to calling compute directly.
func GetOrCompute[T any](ctx context.Context, store Store, logger *slog.Logger, key Key, compute func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	if store == nil {
		return compute(ctx)
	}

	log := loggerFor(ctx, logger)

	if raw, ok, err := store.Get(key); err != nil {
		log.WarnContext(ctx, "cache read failed", "key", key.String(), "error", err)
	} else if ok {
		var value T
		if err := json.Unmarshal(raw, &value); err != nil {
			log.WarnContext(ctx, "cache entry undecodable, recomputing", "key", key.String(), "error", err)
		} else {
			return value, nil
		}
	}

	value, err := compute(ctx)
	if err != nil {
		return zero, err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		log.WarnContext(ctx, "cache encode failed", "key", key.String(), "error", err)
		return value, nil
	}
	if err := store.Set(key, raw); err != nil {
		log.WarnContext(ctx, "cache write failed", "key", key.String(), "error", err)
	}

	return value, nil
}

func loggerFor(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger := logging.FromContext(ctx); logger != nil {
		return logger
	}
	if fallback != nil {
		return fallback
	}
	return slog.Default()
}
