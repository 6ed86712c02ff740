package layout

import (
	"fmt"
	"math"

	"github.com/matzehuels/topicmap/pkg/diagram"
	"github.com/matzehuels/topicmap/pkg/hierarchy"
)

// RootID is the ID of the diagram root.
const RootID = "root"

// TopicID returns the node ID of topic i.
func TopicID(i int) string { return fmt.Sprintf("t%d", i) }

// KeyPointID returns the node ID of the j-th key point under parent.
func KeyPointID(parent string, j int) string { return fmt.Sprintf("%s-k%d", parent, j) }

// SubtopicID returns the node ID of the j-th subtopic of topic.
func SubtopicID(topic string, j int) string { return fmt.Sprintf("%s-s%d", topic, j) }

// Generate validates h and places it on a radial diagram.
//
// Zero fields of opts are filled from [DefaultOptions]; the resulting
// geometry must pass [Options.Validate]. A hierarchy without topics yields
// a diagram holding only the root. Nodes are inserted in source order:
// root, then per topic the topic, its key points, and each subtopic
// followed by its key points.
func Generate(h *hierarchy.Node, opts Options) (*diagram.Diagram, error) {
	if err := hierarchy.Validate(h); err != nil {
		return nil, err
	}
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	b := &builder{d: diagram.New(hierarchy.Count(h).Nodes())}
	b.node(RootID, diagram.KindRoot, h.Title, opts.Origin)

	topics := h.Subtopics
	if len(topics) == 0 {
		return b.finish(), nil
	}

	step := 2 * math.Pi / float64(len(topics))
	for i, t := range topics {
		theta := float64(i) * step
		tid := TopicID(i)
		tpos := polar(opts.Origin, opts.TopicRadius, theta)
		b.node(tid, diagram.KindTopic, t.Title, tpos)
		b.edge(RootID, tid)

		for j, a := range Spread(len(t.KeyPoints), theta, opts.KeyPointArc) {
			kid := KeyPointID(tid, j)
			b.node(kid, diagram.KindKeyPoint, t.KeyPoints[j], polar(tpos, opts.KeyPointRadius, a))
			b.edge(tid, kid)
		}

		for j, a := range Spread(len(t.Subtopics), theta, opts.SubtopicArc) {
			st := t.Subtopics[j]
			sid := SubtopicID(tid, j)
			spos := polar(tpos, opts.SubtopicRadius, a)
			b.node(sid, diagram.KindSubtopic, st.Title, spos)
			b.edge(tid, sid)

			for m, sa := range Spread(len(st.KeyPoints), a, opts.SubKeyPointArc) {
				kid := KeyPointID(sid, m)
				b.node(kid, diagram.KindKeyPoint, st.KeyPoints[m], polar(spos, opts.SubKeyPointRadius, sa))
				b.edge(sid, kid)
			}
		}
	}

	return b.finish(), nil
}

// Spread returns n angles subdividing an arc of the given width centered on
// center. One child sits exactly at center; n > 1 children sit at n−1 equal
// steps with the first and last on the arc endpoints. n ≤ 0 yields nil.
func Spread(n int, center, arc float64) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{center}
	}
	out := make([]float64, n)
	start := center - arc/2
	step := arc / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func polar(c diagram.Position, r, angle float64) diagram.Position {
	return diagram.Position{
		X: round(c.X + r*math.Cos(angle)),
		Y: round(c.Y + r*math.Sin(angle)),
	}
}

// round trims floating-point noise (cos(π/2) ≈ 6e-17) so serialized
// positions stay readable. Rounding is deterministic, so it keeps layouts
// reproducible.
func round(v float64) float64 {
	r := math.Round(v*1000) / 1000
	if r == 0 {
		return 0 // drop negative zero
	}
	return r
}

// builder wraps diagram construction. Any error here means the generator
// produced a duplicate ID or a non-tree edge, which is a bug.
type builder struct {
	d *diagram.Diagram
}

func (b *builder) node(id string, kind diagram.Kind, label string, pos diagram.Position) {
	if err := b.d.AddNode(diagram.Node{ID: id, Kind: kind, Label: label, Position: pos}); err != nil {
		panic(fmt.Sprintf("layout: add node %s: %v", id, err))
	}
}

func (b *builder) edge(source, target string) {
	if _, err := b.d.AddEdge(source, target); err != nil {
		panic(fmt.Sprintf("layout: add edge %s->%s: %v", source, target, err))
	}
}

func (b *builder) finish() *diagram.Diagram {
	b.d.MustValidate()
	return b.d
}
