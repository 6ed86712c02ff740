package layout

import (
	"math"

	"github.com/matzehuels/topicmap/pkg/diagram"
)

// Rect is an axis-aligned rectangle in diagram space.
type Rect struct {
	MinX float64 `json:"min_x" bson:"min_x"`
	MinY float64 `json:"min_y" bson:"min_y"`
	MaxX float64 `json:"max_x" bson:"max_x"`
	MaxY float64 `json:"max_y" bson:"max_y"`
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Footprint returns the rectangle a node of size w×h occupies when centered
// on p.
func Footprint(p diagram.Position, w, h float64) Rect {
	return Rect{MinX: p.X - w/2, MinY: p.Y - h/2, MaxX: p.X + w/2, MaxY: p.Y + h/2}
}

// Intersects reports whether the interiors of r and o overlap. Rectangles
// that only touch along an edge do not intersect.
func (r Rect) Intersects(o Rect) bool {
	return r.MinX < o.MaxX && o.MinX < r.MaxX && r.MinY < o.MaxY && o.MinY < r.MaxY
}

// Bounds returns the rectangle enclosing the w×h footprints of the visible
// nodes of d. It returns the zero Rect when nothing is visible.
func Bounds(d *diagram.Diagram, w, h float64) Rect {
	nodes := d.VisibleNodes()
	if len(nodes) == 0 {
		return Rect{}
	}
	b := Rect{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	for _, n := range nodes {
		f := Footprint(n.Position, w, h)
		b.MinX = math.Min(b.MinX, f.MinX)
		b.MinY = math.Min(b.MinY, f.MinY)
		b.MaxX = math.Max(b.MaxX, f.MaxX)
		b.MaxY = math.Max(b.MaxY, f.MaxY)
	}
	return b
}

// Overlap names two nodes whose footprints intersect.
type Overlap struct {
	A, B string
}

// Overlaps reports every pair of visible nodes whose w×h footprints
// intersect. It is quadratic in the number of visible nodes, which is fine
// for summary-sized diagrams.
func Overlaps(d *diagram.Diagram, w, h float64) []Overlap {
	nodes := d.VisibleNodes()
	var out []Overlap
	for i := 0; i < len(nodes); i++ {
		fi := Footprint(nodes[i].Position, w, h)
		for j := i + 1; j < len(nodes); j++ {
			if fi.Intersects(Footprint(nodes[j].Position, w, h)) {
				out = append(out, Overlap{A: nodes[i].ID, B: nodes[j].ID})
			}
		}
	}
	return out
}
