package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cardtable/pkg/cache"
	"github.com/matzehuels/cardtable/pkg/deal"
	"github.com/matzehuels/cardtable/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete layout → animate → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{Stats: Stats{Cards: opts.Cards}}

	// Stage 1: Layout
	layoutStart := time.Now()
	l, layoutHit, err := r.LayoutWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("dealt cards",
		"cards", l.Len(),
		"seeded", l.Stats.Seeded,
		"accepted", l.Stats.Accepted,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stages 2 and 3: Animate and render
	renderStart := time.Now()
	artifacts, a, renderHit, err := r.render(ctx, opts, l)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Animation = a
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit
	if a != nil {
		result.Stats.Nodes = a.Graph.Len()
		result.Stats.Timeline = a.Scene.Duration()
	}

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo deals the cards with caching and returns cache hit info.
// Options.Refresh skips the lookup but still stores the fresh layout.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, opts Options) (*deal.Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	configHash, err := cache.HashJSON(opts.Deal)
	if err != nil {
		return nil, false, fmt.Errorf("hash deal config: %w", err)
	}
	cacheKey := r.Keyer.LayoutKey(configHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, err := cache.Fetch(ctx, r.Cache, cacheKey); err == nil {
			if l, err := deal.Unmarshal(data); err == nil {
				observability.Cache().OnCacheHit(ctx, cache.KindLayout)
				return l, true, nil
			}
			// Undecodable entries are recomputed and overwritten below.
		}
		observability.Cache().OnCacheMiss(ctx, cache.KindLayout)
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.Cards)
	start := time.Now()
	l, err := Deal(opts)
	hooks.OnLayoutComplete(ctx, opts.Cards, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if data, err := l.Marshal(); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err != nil {
			r.Logger.Warn("cache layout", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, cache.KindLayout, len(data))
		}
	}
	return l, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, opts Options) (*deal.Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, opts)
	return l, err
}

// Animate builds the animation for l and runs it to completion.
func (r *Runner) Animate(ctx context.Context, opts Options, l *deal.Layout) (*Animation, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnAnimateStart(ctx, l.Len())
	a, err := BuildAnimation(opts, l)
	if err != nil {
		hooks.OnAnimateComplete(ctx, 0, 0, err)
		return nil, err
	}
	end := a.Run()
	hooks.OnAnimateComplete(ctx, a.Graph.Len(), end, nil)

	r.Logger.Debug("built animation",
		"nodes", a.Graph.Len(),
		"timeline", end)
	return a, nil
}

// RenderWithCacheInfo renders l's animation in every requested format and
// returns cache hit info. The animation is only built when some format is
// missing from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, opts Options, l *deal.Layout) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	artifacts, _, hit, err := r.render(ctx, opts, l)
	return artifacts, hit, err
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, opts Options, l *deal.Layout) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, opts, l)
	return artifacts, err
}

// render expects validated options.
func (r *Runner) render(ctx context.Context, opts Options, l *deal.Layout) (map[string][]byte, *Animation, bool, error) {
	hash := opts.artifactHash(l)

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			data, err := cache.Fetch(ctx, r.Cache, r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format)))
			if err != nil {
				observability.Cache().OnCacheMiss(ctx, cache.KindArtifact)
				break
			}
			observability.Cache().OnCacheHit(ctx, cache.KindArtifact)
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, nil, true, nil
		}
	}

	a, err := r.Animate(ctx, opts, l)
	if err != nil {
		return nil, nil, false, fmt.Errorf("animate: %w", err)
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := RenderAnimation(ctx, a, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, nil, false, fmt.Errorf("render: %w", err)
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache artifact", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, cache.KindArtifact, len(data))
	}
	return rendered, a, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
