package graph

import (
	"fmt"

	"github.com/matzehuels/topicmap/pkg/diagram"
	"github.com/matzehuels/topicmap/pkg/layout"
)

// FormatVersion is the current layout wire format version.
const FormatVersion = 1

// =============================================================================
// Layout - Positioned Diagram
// =============================================================================

// Layout is the canonical serialization format for a positioned diagram.
// Used for API responses, storage, caching, and file export.
type Layout struct {
	Version int    `json:"version" bson:"version"`
	Title   string `json:"title" bson:"title"`

	// Frame of the visible nodes, including their footprints.
	Width  float64     `json:"width" bson:"width"`
	Height float64     `json:"height" bson:"height"`
	Bounds layout.Rect `json:"bounds" bson:"bounds"`

	NodeWidth  float64 `json:"node_width" bson:"node_width"`
	NodeHeight float64 `json:"node_height" bson:"node_height"`

	Nodes     []Node   `json:"nodes" bson:"nodes"`
	Edges     []Edge   `json:"edges" bson:"edges"`
	Collapsed []string `json:"collapsed,omitempty" bson:"collapsed,omitempty"`
}

// Node is a positioned node.
type Node struct {
	ID        string  `json:"id" bson:"id"`
	Kind      string  `json:"kind" bson:"kind"`
	Label     string  `json:"label" bson:"label"`
	X         float64 `json:"x" bson:"x"`
	Y         float64 `json:"y" bson:"y"`
	Hidden    bool    `json:"hidden,omitempty" bson:"hidden,omitempty"`
	Collapsed bool    `json:"collapsed,omitempty" bson:"collapsed,omitempty"`
}

// Edge is a parent→child edge.
type Edge struct {
	ID     string `json:"id" bson:"id"`
	Source string `json:"source" bson:"source"`
	Target string `json:"target" bson:"target"`
	Hidden bool   `json:"hidden,omitempty" bson:"hidden,omitempty"`
}

// VisibleNodes returns the nodes not marked hidden.
func (l *Layout) VisibleNodes() []Node {
	var out []Node
	for _, n := range l.Nodes {
		if !n.Hidden {
			out = append(out, n)
		}
	}
	return out
}

// VisibleEdges returns the edges not marked hidden.
func (l *Layout) VisibleEdges() []Edge {
	var out []Edge
	for _, e := range l.Edges {
		if !e.Hidden {
			out = append(out, e)
		}
	}
	return out
}

// =============================================================================
// Diagram ↔ Layout Conversion
// =============================================================================

// FromDiagram converts d to its serialization format. opts supplies the
// node footprint used for the frame; collapsed marks nodes the visibility
// engine folded and is copied verbatim.
func FromDiagram(d *diagram.Diagram, opts layout.Options, collapsed []string) Layout {
	opts.SetDefaults()

	folded := make(map[string]bool, len(collapsed))
	for _, id := range collapsed {
		folded[id] = true
	}

	nodes := d.Nodes()
	edges := d.Edges()
	out := Layout{
		Version:    FormatVersion,
		NodeWidth:  opts.NodeWidth,
		NodeHeight: opts.NodeHeight,
		Nodes:      make([]Node, len(nodes)),
		Edges:      make([]Edge, len(edges)),
	}
	if len(collapsed) > 0 {
		out.Collapsed = append([]string(nil), collapsed...)
	}
	if r := d.Root(); r != nil {
		out.Title = r.Label
	}

	for i, n := range nodes {
		out.Nodes[i] = Node{
			ID:        n.ID,
			Kind:      string(n.Kind),
			Label:     n.Label,
			X:         n.Position.X,
			Y:         n.Position.Y,
			Hidden:    n.Hidden,
			Collapsed: folded[n.ID],
		}
	}
	for i, e := range edges {
		out.Edges[i] = Edge{ID: e.ID, Source: e.Source, Target: e.Target, Hidden: e.Hidden}
	}

	out.Bounds = layout.Bounds(d, opts.NodeWidth, opts.NodeHeight)
	out.Width = out.Bounds.Width()
	out.Height = out.Bounds.Height()
	return out
}

// ToDiagram rebuilds a diagram from l, including Hidden flags.
// Returns an error if the structure violates the diagram's tree invariants.
func ToDiagram(l Layout) (*diagram.Diagram, error) {
	d := diagram.New(len(l.Nodes))
	for _, n := range l.Nodes {
		dn := diagram.Node{
			ID:       n.ID,
			Kind:     diagram.Kind(n.Kind),
			Label:    n.Label,
			Position: diagram.Position{X: n.X, Y: n.Y},
			Hidden:   n.Hidden,
		}
		if err := d.AddNode(dn); err != nil {
			return nil, fmt.Errorf("add node %s: %w", n.ID, err)
		}
	}
	for _, e := range l.Edges {
		de, err := d.AddEdge(e.Source, e.Target)
		if err != nil {
			return nil, fmt.Errorf("add edge %s→%s: %w", e.Source, e.Target, err)
		}
		if e.ID != "" && e.ID != de.ID {
			return nil, fmt.Errorf("edge %s: id does not match %s", e.ID, de.ID)
		}
		de.Hidden = e.Hidden
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}
