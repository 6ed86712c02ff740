package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/topicmap/pkg/cache"
	"github.com/matzehuels/topicmap/pkg/graph"
	"github.com/matzehuels/topicmap/pkg/hierarchy"
	"github.com/matzehuels/topicmap/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options. Concurrent requests for the same layout
// are coalesced so it is generated once.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	group singleflight.Group
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

// Execute runs layout → visibility → render for h with caching.
func (r *Runner) Execute(ctx context.Context, h *hierarchy.Node, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{Hierarchy: h}

	layoutStart := time.Now()
	base, layoutHit, err := r.GenerateLayoutWithCacheInfo(ctx, h, opts)
	if err != nil {
		return nil, err
	}
	l, _, err := ApplyCollapsed(base, opts.Collapsed, opts)
	if err != nil {
		return nil, err
	}
	result.HierarchyHash, _ = HierarchyHash(h)
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.NodeCount = len(l.Nodes)
	result.Stats.EdgeCount = len(l.Edges)
	result.Stats.VisibleNodes = len(l.VisibleNodes())
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"nodes", result.Stats.NodeCount,
		"visible", result.Stats.VisibleNodes,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// HierarchyHash returns the content hash of h's canonical JSON encoding.
func HierarchyHash(h *hierarchy.Node) (string, error) {
	data, err := hierarchy.Canonical(h)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}

// GenerateLayoutWithCacheInfo generates the uncollapsed layout for h with
// caching and returns cache hit info. The returned layout may be shared with
// concurrent callers and must not be modified.
func (r *Runner) GenerateLayoutWithCacheInfo(ctx context.Context, h *hierarchy.Node, opts Options) (graph.Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, false, err
	}
	if err := hierarchy.Validate(h); err != nil {
		return graph.Layout{}, false, err
	}

	hash, err := HierarchyHash(h)
	if err != nil {
		return graph.Layout{}, false, fmt.Errorf("hash hierarchy: %w", err)
	}
	cacheKey := r.Keyer.LayoutKey(hash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if l, ok := r.cachedLayout(ctx, cacheKey); ok {
			return l, true, nil
		}
	}

	v, err, shared := r.group.Do(cacheKey, func() (any, error) {
		return r.generateLayout(ctx, h, cacheKey, opts)
	})
	if err != nil {
		return graph.Layout{}, false, err
	}
	if shared {
		opts.Logger.Debug("layout generation coalesced", "key", cacheKey)
	}
	return v.(graph.Layout), false, nil
}

func (r *Runner) cachedLayout(ctx context.Context, key string) (graph.Layout, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "err", err)
	}
	if err == nil && hit {
		if l, err := graph.UnmarshalLayout(data); err == nil {
			observability.Cache().OnCacheHit(ctx, cache.KeyTypeLayout)
			return l, true
		}
		// Undecodable entry: fall through to regenerate and overwrite it.
	}
	observability.Cache().OnCacheMiss(ctx, cache.KeyTypeLayout)
	return graph.Layout{}, false
}

func (r *Runner) generateLayout(ctx context.Context, h *hierarchy.Node, cacheKey string, opts Options) (graph.Layout, error) {
	hooks := observability.Pipeline()
	nodes := hierarchy.Count(h).Nodes()
	hooks.OnLayoutStart(ctx, nodes)
	start := time.Now()

	l, err := GenerateLayout(h, opts)
	hooks.OnLayoutComplete(ctx, nodes, time.Since(start), err)
	if err != nil {
		return graph.Layout{}, err
	}

	if data, err := graph.MarshalLayout(l); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, opts.LayoutTTL); err != nil {
			r.Logger.Warn("cache write failed", "key", cacheKey, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, cache.KeyTypeLayout, len(data))
		}
	}
	return l, nil
}

// GenerateLayout is a convenience wrapper that calls GenerateLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) GenerateLayout(ctx context.Context, h *hierarchy.Node, opts Options) (graph.Layout, error) {
	l, _, err := r.GenerateLayoutWithCacheInfo(ctx, h, opts)
	return l, err
}

// ToggleResult is the outcome of [Runner.Toggle].
type ToggleResult struct {
	// NodeID is the toggled node.
	NodeID string `json:"node_id"`

	// IsCollapsed reports the node's state after the toggle.
	IsCollapsed bool `json:"is_collapsed"`

	// Collapsed is the full collapsed set after the toggle, sorted.
	Collapsed []string `json:"collapsed"`

	// Layout carries the hidden flags after the toggle.
	Layout graph.Layout `json:"layout"`
}

// Toggle is the functional form of the visibility engine's Toggle: it
// replays collapsed onto the layout of h, toggles nodeID and returns the
// new collapsed set with the resulting layout. Nothing is retained between
// calls.
func (r *Runner) Toggle(ctx context.Context, h *hierarchy.Node, collapsed []string, nodeID string, opts Options) (*ToggleResult, error) {
	r.applyLogger(&opts)
	base, _, err := r.GenerateLayoutWithCacheInfo(ctx, h, opts)
	if err != nil {
		return nil, err
	}
	_, eng, err := ApplyCollapsed(base, collapsed, opts)
	if err != nil {
		return nil, err
	}

	now, err := eng.Toggle(nodeID)
	observability.Visibility().OnToggle(ctx, nodeID, now, err)
	if err != nil {
		return nil, err
	}

	set := eng.Collapsed()
	return &ToggleResult{
		NodeID:      nodeID,
		IsCollapsed: now,
		Collapsed:   set,
		Layout:      graph.FromDiagram(eng.Diagram(), opts.Layout, set),
	}, nil
}

// RenderWithCacheInfo renders l with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	layoutData, err := graph.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				observability.Cache().OnCacheMiss(ctx, cache.KeyTypeArtifact)
				break
			}
			observability.Cache().OnCacheHit(ctx, cache.KeyTypeArtifact)
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	rendered, err := r.render(ctx, l, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, opts.ArtifactTTL); err != nil {
			r.Logger.Warn("cache write failed", "key", key, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, cache.KeyTypeArtifact, len(data))
	}
	return rendered, false, nil
}

func (r *Runner) render(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	hooks := observability.Pipeline()
	out := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		hooks.OnRenderStart(ctx, format)
		start := time.Now()

		single := opts
		single.Formats = []string{format}
		res, err := RenderFromLayout(ctx, l, single)

		size := len(res[format])
		hooks.OnRenderComplete(ctx, format, size, time.Since(start), err)
		if err != nil {
			return nil, err
		}
		out[format] = res[format]
	}
	return out, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
	return artifacts, err
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
