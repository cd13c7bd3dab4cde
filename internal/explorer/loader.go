// Package explorer orchestrates metadata loads: cached fetch+parse+validate
// and the latest-load-wins session state behind the dashboard.
package explorer

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/victorlin/metadata-explorer/internal/cache"
	"github.com/victorlin/metadata-explorer/internal/core"
	"github.com/victorlin/metadata-explorer/internal/source"
)

// Loader memoizes validated datasets by source key. Within the TTL a
// repeat load returns the cached dataset without re-fetching; concurrent
// loads of the same source are collapsed into one fetch.
type Loader struct {
	cache *cache.TTLCache[*core.Dataset]
	group singleflight.Group
}

func NewLoader(maxEntries int, ttl time.Duration) *Loader {
	return &Loader{cache: cache.New[*core.Dataset](maxEntries, ttl)}
}

// Load returns the validated dataset for src, reporting whether it came
// from cache.
func (l *Loader) Load(ctx context.Context, src source.Source) (*core.Dataset, bool, error) {
	key := src.Key()
	if ds, ok := l.cache.Get(key); ok {
		return ds, true, nil
	}

	fetched := false
	v, err, _ := l.group.Do(key, func() (interface{}, error) {
		if ds, ok := l.cache.Get(key); ok {
			return ds, nil
		}
		fetched = true
		tbl, err := src.Open(ctx)
		if err != nil {
			return nil, err
		}
		ds, err := core.ValidateAndSummarize(tbl)
		if err != nil {
			return nil, err
		}
		l.cache.Set(key, ds)
		return ds, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.(*core.Dataset), !fetched, nil
}

// Invalidate drops the cached dataset for a source key.
func (l *Loader) Invalidate(key string) {
	l.cache.Delete(key)
}

// Sweep removes expired cache entries, for the periodic cleanup loop.
func (l *Loader) Sweep() int {
	return l.cache.Sweep()
}
