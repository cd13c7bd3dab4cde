package worker

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/victorlin/metadata-explorer/internal/explorer"
	"github.com/victorlin/metadata-explorer/internal/log"
	"github.com/victorlin/metadata-explorer/internal/source"
)

// Prefetcher periodically re-fetches the preset datasets so that picking
// one from the dropdown usually hits a warm cache.
type Prefetcher struct {
	loader      *explorer.Loader
	resolver    *source.Resolver
	presets     []source.Preset
	interval    time.Duration
	concurrency int
}

func NewPrefetcher(loader *explorer.Loader, resolver *source.Resolver, presets []source.Preset, interval time.Duration, concurrency int) *Prefetcher {
	return &Prefetcher{
		loader:      loader,
		resolver:    resolver,
		presets:     presets,
		interval:    interval,
		concurrency: concurrency,
	}
}

// Run refreshes all presets on every tick until ctx is cancelled. An
// interval of zero disables the worker.
func (p *Prefetcher) Run(ctx context.Context) error {
	if p.interval <= 0 {
		slog.InfoContext(ctx, "Preset prefetch disabled")
		return nil
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "Preset prefetch started",
		"interval", p.interval.String(),
		"presets", len(p.presets))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.refreshAll(ctx)
		}
	}
}

// RefreshNow fetches every preset once, for warmup at startup.
func (p *Prefetcher) RefreshNow(ctx context.Context) {
	p.refreshAll(ctx)
}

func (p *Prefetcher) refreshAll(ctx context.Context) {
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for _, preset := range p.presets {
		g.Go(func() error {
			src, err := p.resolver.Resolve(preset.URL)
			if err != nil {
				slog.WarnContext(gctx, "Skipping preset",
					log.FieldSourceLabel, preset.Label,
					log.FieldError, err)
				return nil
			}

			// Force a fetch so the cached copy never ages past the
			// refresh interval.
			p.loader.Invalidate(src.Key())
			if _, _, err := p.loader.Load(gctx, src); err != nil {
				slog.WarnContext(gctx, "Preset refresh failed",
					log.FieldSourceLabel, preset.Label,
					log.FieldError, err)
			}
			return nil
		})
	}

	// Individual failures are logged, not propagated.
	_ = g.Wait()

	slog.InfoContext(ctx, "Preset refresh completed",
		"presets", len(p.presets),
		log.FieldDuration, time.Since(start).Milliseconds())
}
