package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/pfrederiksen/dxp-leaderboard/internal/logger"
	"github.com/pfrederiksen/dxp-leaderboard/internal/scraper"
	"github.com/pfrederiksen/dxp-leaderboard/internal/tally"
)

// DefaultTTL is how long a lookup is reused.
const DefaultTTL = 10 * time.Minute

const keyPrefix = "dxp:xp:"

// Key returns the cache key for a player. Names are case-insensitive on the tracker.
func Key(name string) string {
	return keyPrefix + strings.ToLower(strings.TrimSpace(name))
}

// Cached wraps next so that lookups are served from store when present.
// Store failures are logged and fall through to next; fetch errors are never stored.
func Cached(store Store, next tally.LookupFunc, ttl time.Duration) tally.LookupFunc {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return func(ctx context.Context, name string) (scraper.Lookup, error) {
		key := Key(name)

		raw, err := store.Get(ctx, key)
		switch {
		case err == nil:
			var hit scraper.Lookup
			uerr := json.Unmarshal([]byte(raw), &hit)
			if uerr == nil {
				logger.IncrCounter("cache.hits")
				return hit, nil
			}
			logger.Warn("Discarding unreadable cache entry", logger.Fields{"key": key, "error": uerr.Error()})
		case errors.Is(err, ErrMiss):
			logger.IncrCounter("cache.misses")
		default:
			logger.Error("Cache read failed", logger.Fields{"key": key}, err)
		}

		lookup, err := next(ctx, name)
		if err != nil {
			return scraper.Lookup{}, err
		}

		data, err := json.Marshal(lookup)
		if err == nil {
			err = store.Set(ctx, key, string(data), ttl)
		}
		if err != nil {
			logger.Error("Cache write failed", logger.Fields{"key": key}, err)
		}
		return lookup, nil
	}
}
