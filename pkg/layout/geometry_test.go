package layout

import (
	"testing"

	"github.com/matzehuels/topicmap/pkg/diagram"
)

func TestRectIntersects(t *testing.T) {
	a := Rect{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}
	tests := []struct {
		name string
		b    Rect
		want bool
	}{
		{"overlapping", Rect{MinX: 5, MinY: 5, MaxX: 15, MaxY: 15}, true},
		{"contained", Rect{MinX: 2, MinY: 2, MaxX: 3, MaxY: 3}, true},
		{"touching edge", Rect{MinX: 10, MinY: 0, MaxX: 20, MaxY: 10}, false},
		{"disjoint", Rect{MinX: 20, MinY: 20, MaxX: 30, MaxY: 30}, false},
		{"x overlap only", Rect{MinX: 5, MinY: 11, MaxX: 15, MaxY: 20}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Intersects(tt.b); got != tt.want {
				t.Errorf("Intersects = %v, want %v", got, tt.want)
			}
			if got := tt.b.Intersects(a); got != tt.want {
				t.Errorf("reverse Intersects = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOverlapsIgnoresHidden(t *testing.T) {
	d := diagram.New(3)
	_ = d.AddNode(diagram.Node{ID: "root", Kind: diagram.KindRoot})
	_ = d.AddNode(diagram.Node{ID: "t0", Kind: diagram.KindTopic, Position: diagram.Position{X: 10}})
	_ = d.AddNode(diagram.Node{ID: "t0-k0", Kind: diagram.KindKeyPoint, Position: diagram.Position{X: 500}})
	_, _ = d.AddEdge("root", "t0")
	_, _ = d.AddEdge("t0", "t0-k0")

	got := Overlaps(d, 140, 36)
	if len(got) != 1 || got[0] != (Overlap{A: "root", B: "t0"}) {
		t.Fatalf("Overlaps = %v", got)
	}

	n, _ := d.Node("t0")
	n.Hidden = true
	d.ParentEdge("t0").Hidden = true
	if got := Overlaps(d, 140, 36); len(got) != 0 {
		t.Errorf("hidden node still reported: %v", got)
	}
}

func TestBounds(t *testing.T) {
	if b := Bounds(diagram.New(0), 10, 10); b != (Rect{}) {
		t.Errorf("empty bounds = %+v", b)
	}

	d, err := Generate(scenario(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	b := Bounds(d, 140, 36)
	if b.MinX != -1040-70 {
		t.Errorf("MinX = %v, want %v", b.MinX, -1040-70)
	}
	if b.Width() <= 0 || b.Height() <= 0 {
		t.Errorf("degenerate bounds %+v", b)
	}
}
