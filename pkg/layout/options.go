package layout

import (
	"math"

	"github.com/matzehuels/topicmap/pkg/diagram"
	"github.com/matzehuels/topicmap/pkg/errors"
)

// Default geometry. See the package documentation for how these were chosen.
const (
	DefaultTopicRadius       = 800.0
	DefaultKeyPointRadius    = 240.0
	DefaultSubtopicRadius    = 600.0
	DefaultSubKeyPointRadius = 260.0

	DefaultKeyPointArc    = 0.9 * math.Pi
	DefaultSubtopicArc    = 0.36 * math.Pi
	DefaultSubKeyPointArc = 0.4 * math.Pi

	// Renderer node footprint the defaults were validated against.
	DefaultNodeWidth  = 140.0
	DefaultNodeHeight = 36.0
)

// Options holds the fixed geometry of a radial layout.
// Arcs are in radians.
type Options struct {
	Origin diagram.Position `json:"origin" toml:"origin"`

	TopicRadius       float64 `json:"topic_radius" toml:"topic_radius"`
	KeyPointRadius    float64 `json:"key_point_radius" toml:"key_point_radius"`
	SubtopicRadius    float64 `json:"subtopic_radius" toml:"subtopic_radius"`
	SubKeyPointRadius float64 `json:"sub_key_point_radius" toml:"sub_key_point_radius"`

	KeyPointArc    float64 `json:"key_point_arc" toml:"key_point_arc"`
	SubtopicArc    float64 `json:"subtopic_arc" toml:"subtopic_arc"`
	SubKeyPointArc float64 `json:"sub_key_point_arc" toml:"sub_key_point_arc"`

	// NodeWidth and NodeHeight describe the renderer's node footprint.
	// They do not affect placement; renderers and [Overlaps] use them.
	NodeWidth  float64 `json:"node_width" toml:"node_width"`
	NodeHeight float64 `json:"node_height" toml:"node_height"`
}

// DefaultOptions returns the validated default geometry.
func DefaultOptions() Options {
	return Options{
		TopicRadius:       DefaultTopicRadius,
		KeyPointRadius:    DefaultKeyPointRadius,
		SubtopicRadius:    DefaultSubtopicRadius,
		SubKeyPointRadius: DefaultSubKeyPointRadius,
		KeyPointArc:       DefaultKeyPointArc,
		SubtopicArc:       DefaultSubtopicArc,
		SubKeyPointArc:    DefaultSubKeyPointArc,
		NodeWidth:         DefaultNodeWidth,
		NodeHeight:        DefaultNodeHeight,
	}
}

// SetDefaults fills zero fields from [DefaultOptions]. Origin is left alone:
// (0, 0) is a valid origin.
func (o *Options) SetDefaults() {
	d := DefaultOptions()
	setIfZero(&o.TopicRadius, d.TopicRadius)
	setIfZero(&o.KeyPointRadius, d.KeyPointRadius)
	setIfZero(&o.SubtopicRadius, d.SubtopicRadius)
	setIfZero(&o.SubKeyPointRadius, d.SubKeyPointRadius)
	setIfZero(&o.KeyPointArc, d.KeyPointArc)
	setIfZero(&o.SubtopicArc, d.SubtopicArc)
	setIfZero(&o.SubKeyPointArc, d.SubKeyPointArc)
	setIfZero(&o.NodeWidth, d.NodeWidth)
	setIfZero(&o.NodeHeight, d.NodeHeight)
}

func setIfZero(v *float64, def float64) {
	if *v == 0 {
		*v = def
	}
}

// Validate rejects geometry the generator cannot use.
func (o Options) Validate() error {
	radii := []struct {
		name string
		v    float64
	}{
		{"topic_radius", o.TopicRadius},
		{"key_point_radius", o.KeyPointRadius},
		{"subtopic_radius", o.SubtopicRadius},
		{"sub_key_point_radius", o.SubKeyPointRadius},
		{"node_width", o.NodeWidth},
		{"node_height", o.NodeHeight},
	}
	for _, r := range radii {
		if !(r.v > 0) || math.IsInf(r.v, 0) {
			return errors.New(errors.ErrCodeInvalidOptions, "%s must be a positive number, got %v", r.name, r.v)
		}
	}

	arcs := []struct {
		name string
		v    float64
	}{
		{"key_point_arc", o.KeyPointArc},
		{"subtopic_arc", o.SubtopicArc},
		{"sub_key_point_arc", o.SubKeyPointArc},
	}
	for _, a := range arcs {
		if !(a.v > 0) || a.v > 2*math.Pi {
			return errors.New(errors.ErrCodeInvalidOptions, "%s must be in (0, 2π], got %v", a.name, a.v)
		}
	}
	if o.SubtopicArc >= o.KeyPointArc {
		return errors.New(errors.ErrCodeInvalidOptions,
			"subtopic_arc (%v) must be narrower than key_point_arc (%v)", o.SubtopicArc, o.KeyPointArc)
	}
	if o.SubtopicRadius <= o.KeyPointRadius {
		return errors.New(errors.ErrCodeInvalidOptions,
			"subtopic_radius (%v) must exceed key_point_radius (%v)", o.SubtopicRadius, o.KeyPointRadius)
	}
	return nil
}
