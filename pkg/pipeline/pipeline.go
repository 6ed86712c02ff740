// Package pipeline provides the decode → layout → visibility → render
// pipeline shared by the CLI and the HTTP server.
//
// By centralizing this logic, both entry points cache, log, and report
// errors the same way.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Decode: read a hierarchy from JSON, YAML or TOML
//  2. Layout: place the hierarchy on a radial diagram (cached)
//  3. Visibility: replay a collapsed set onto the diagram
//  4. Render: produce SVG, DOT, JSON, PNG or PDF from the visible subset
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, h, pipeline.Options{
//	    Formats:   []string{"svg"},
//	    Collapsed: []string{"t1"},
//	})
//	svg := result.Artifacts["svg"]
//
// Toggling is exposed in functional form so stateless callers can carry the
// collapsed set between requests:
//
//	res, err := runner.Toggle(ctx, h, collapsed, "t0", opts)
//	collapsed = res.Collapsed
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topicmap/pkg/cache"
	"github.com/matzehuels/topicmap/pkg/errors"
	"github.com/matzehuels/topicmap/pkg/graph"
	"github.com/matzehuels/topicmap/pkg/hierarchy"
	"github.com/matzehuels/topicmap/pkg/layout"
	"github.com/matzehuels/topicmap/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// SVG engines.
const (
	EngineNative   = "native"
	EngineGraphviz = "graphviz"
)

const (
	// DefaultEngine draws SVG without Graphviz.
	DefaultEngine = EngineNative

	// DefaultPNGScale is the PNG export scale factor.
	DefaultPNGScale = 2.0
)

// ValidEngines is the set of supported SVG engines.
var ValidEngines = map[string]bool{
	EngineNative:   true,
	EngineGraphviz: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	Layout layout.Options `json:"layout"`

	// Visibility options
	Collapsed []string `json:"collapsed,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Engine   string   `json:"engine,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`
	PNGScale float64  `json:"png_scale,omitempty"`

	// Cache options
	Refresh     bool          `json:"refresh,omitempty"`
	LayoutTTL   time.Duration `json:"-"`
	ArtifactTTL time.Duration `json:"-"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Hierarchy is the input.
	Hierarchy *hierarchy.Node

	// HierarchyHash is the content hash of the canonical hierarchy.
	HierarchyHash string

	// Layout is the positioned diagram with hidden flags applied.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int
	EdgeCount    int
	VisibleNodes int
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := render.ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every stage's options and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout generation.
func (o *Options) SetLayoutDefaults() {
	o.Layout.SetDefaults()
	if o.LayoutTTL == 0 {
		o.LayoutTTL = cache.TTLLayout
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout generation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	return o.Layout.Validate()
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{render.FormatSVG}
	}
	if o.Engine == "" {
		o.Engine = DefaultEngine
	}
	if o.PNGScale == 0 {
		o.PNGScale = DefaultPNGScale
	}
	if o.ArtifactTTL == 0 {
		o.ArtifactTTL = cache.TTLArtifact
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if !ValidEngines[o.Engine] {
		return invalidOptions("invalid engine %q (must be one of: native, graphviz)", o.Engine)
	}
	if o.PNGScale < 0 {
		return invalidOptions("png_scale must be positive, got %v", o.PNGScale)
	}
	return ValidateFormats(o.Formats)
}

// LayoutKeyOpts returns cache key options for layout generation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	l := o.Layout
	return cache.LayoutKeyOpts{
		OriginX:           l.Origin.X,
		OriginY:           l.Origin.Y,
		TopicRadius:       l.TopicRadius,
		KeyPointRadius:    l.KeyPointRadius,
		SubtopicRadius:    l.SubtopicRadius,
		SubKeyPointRadius: l.SubKeyPointRadius,
		KeyPointArc:       l.KeyPointArc,
		SubtopicArc:       l.SubtopicArc,
		SubKeyPointArc:    l.SubKeyPointArc,
		NodeWidth:         l.NodeWidth,
		NodeHeight:        l.NodeHeight,
	}
}

// ArtifactKeyOpts returns cache key options for rendering one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	collapsed := slices.Clone(o.Collapsed)
	slices.Sort(collapsed)
	return cache.ArtifactKeyOpts{
		Format:    format,
		Engine:    o.Engine,
		Detailed:  o.Detailed,
		PNGScale:  o.PNGScale,
		Collapsed: collapsed,
	}
}

func invalidOptions(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidOptions, format, args...)
}
