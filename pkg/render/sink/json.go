package sink

import (
	"encoding/json"

	"github.com/matzehuels/topicmap/pkg/graph"
)

// JSONOption configures [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	all    bool
	indent bool
}

// WithHidden includes hidden nodes and edges, each carrying its hidden flag.
func WithHidden() JSONOption { return func(r *jsonRenderer) { r.all = true } }

// WithIndent pretty-prints the output.
func WithIndent() JSONOption { return func(r *jsonRenderer) { r.indent = true } }

type jsonOutput struct {
	Title     string       `json:"title"`
	Width     float64      `json:"width"`
	Height    float64      `json:"height"`
	Nodes     []graph.Node `json:"nodes"`
	Edges     []graph.Edge `json:"edges"`
	Collapsed []string     `json:"collapsed"`
}

// RenderJSON serializes the visible part of l for clients that draw the
// diagram themselves.
func RenderJSON(l graph.Layout, opts ...JSONOption) ([]byte, error) {
	var r jsonRenderer
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Title:     l.Title,
		Width:     l.Width,
		Height:    l.Height,
		Nodes:     l.VisibleNodes(),
		Edges:     l.VisibleEdges(),
		Collapsed: l.Collapsed,
	}
	if r.all {
		out.Nodes, out.Edges = l.Nodes, l.Edges
	}
	if out.Nodes == nil {
		out.Nodes = []graph.Node{}
	}
	if out.Edges == nil {
		out.Edges = []graph.Edge{}
	}
	if out.Collapsed == nil {
		out.Collapsed = []string{}
	}

	if r.indent {
		return json.MarshalIndent(out, "", "  ")
	}
	return json.Marshal(out)
}
