package visibility

import (
	"reflect"
	"testing"

	"github.com/matzehuels/topicmap/pkg/diagram"
	"github.com/matzehuels/topicmap/pkg/errors"
	"github.com/matzehuels/topicmap/pkg/hierarchy"
	"github.com/matzehuels/topicmap/pkg/layout"
)

// scenario lays out two topics: A with 3 key points and subtopic A.1
// (2 key points), B with one key point. 10 nodes, 9 edges.
func scenario(t *testing.T) *diagram.Diagram {
	t.Helper()
	h := &hierarchy.Node{
		Title: "Summary",
		Subtopics: []*hierarchy.Node{
			{
				Title:     "A",
				KeyPoints: []string{"a1", "a2", "a3"},
				Subtopics: []*hierarchy.Node{{Title: "A.1", KeyPoints: []string{"a1.1", "a1.2"}}},
			},
			{Title: "B", KeyPoints: []string{"b1"}},
		},
	}
	d, err := layout.Generate(h, layout.Options{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return d
}

func visibleIDs(e *Engine) []string {
	return diagram.NodeIDs(e.Diagram().VisibleNodes())
}

func mustValidate(t *testing.T, e *Engine) {
	t.Helper()
	if err := e.Diagram().Validate(); err != nil {
		t.Fatalf("diagram invalid: %v", err)
	}
}

func TestToggleScenario(t *testing.T) {
	e := New(scenario(t))

	collapsed, err := e.Toggle("t0")
	if err != nil || !collapsed {
		t.Fatalf("Toggle(t0) = %v, %v; want true, nil", collapsed, err)
	}
	mustValidate(t, e)

	want := []string{"root", "t0", "t1", "t1-k0"}
	if got := visibleIDs(e); !reflect.DeepEqual(got, want) {
		t.Errorf("visible nodes = %v, want %v", got, want)
	}
	if got := len(e.Diagram().VisibleEdges()); got != 3 {
		t.Errorf("visible edges = %d, want 3", got)
	}

	collapsed, err = e.Toggle("t0")
	if err != nil || collapsed {
		t.Fatalf("second Toggle(t0) = %v, %v; want false, nil", collapsed, err)
	}
	mustValidate(t, e)
	if got := len(visibleIDs(e)); got != 10 {
		t.Errorf("visible nodes after expand = %d, want 10", got)
	}
	if got := len(e.Diagram().VisibleEdges()); got != 9 {
		t.Errorf("visible edges after expand = %d, want 9", got)
	}
}

func TestCollapseKeepsNodeVisible(t *testing.T) {
	for _, id := range []string{"t0", "t0-s0", "t1"} {
		t.Run(id, func(t *testing.T) {
			e := New(scenario(t))
			if _, err := e.Toggle(id); err != nil {
				t.Fatal(err)
			}
			n, _ := e.Diagram().Node(id)
			if n.Hidden {
				t.Errorf("%s hidden by its own toggle", id)
			}
			nodes, edges := e.Diagram().Descendants(id)
			for _, d := range nodes {
				if !d.Hidden {
					t.Errorf("descendant %s still visible", d.ID)
				}
			}
			for _, ed := range edges {
				if !ed.Hidden {
					t.Errorf("edge %s still visible", ed.ID)
				}
			}
			mustValidate(t, e)
		})
	}
}

func TestDoubleToggleIsIdentity(t *testing.T) {
	d := scenario(t)
	before := d.Clone()
	e := New(d)
	for _, id := range []string{"t0", "t0-s0", "t1"} {
		if _, err := e.Toggle(id); err != nil {
			t.Fatal(err)
		}
		if _, err := e.Toggle(id); err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(d.Nodes(), before.Nodes()) || !reflect.DeepEqual(d.Edges(), before.Edges()) {
			t.Fatalf("double toggle of %s changed the diagram", id)
		}
		if len(e.Collapsed()) != 0 {
			t.Fatalf("collapsed set not empty: %v", e.Collapsed())
		}
	}
}

func TestToggleErrors(t *testing.T) {
	tests := []struct {
		id   string
		code errors.Code
	}{
		{"root", errors.ErrCodeNotCollapsible},
		{"t0-k0", errors.ErrCodeNotCollapsible},
		{"t0-s0-k1", errors.ErrCodeNotCollapsible},
		{"t9", errors.ErrCodeNodeNotFound},
		{"", errors.ErrCodeNodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			e := New(scenario(t))
			if err := e.Collapse("t1"); err != nil {
				t.Fatal(err)
			}
			before := visibleIDs(e)

			collapsed, err := e.Toggle(tt.id)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
			if collapsed {
				t.Error("reported collapsed on error")
			}
			if got := visibleIDs(e); !reflect.DeepEqual(got, before) {
				t.Errorf("visibility changed: %v -> %v", before, got)
			}
			if got := e.Collapsed(); !reflect.DeepEqual(got, []string{"t1"}) {
				t.Errorf("collapsed = %v", got)
			}
		})
	}
}

func TestNestedCollapseIsRemembered(t *testing.T) {
	e := New(scenario(t))
	mustToggle(t, e, "t0-s0", true)
	mustToggle(t, e, "t0", true)
	mustToggle(t, e, "t0", false)
	mustValidate(t, e)

	want := []string{"root", "t0", "t0-k0", "t0-k1", "t0-k2", "t0-s0", "t1", "t1-k0"}
	if got := visibleIDs(e); !reflect.DeepEqual(got, want) {
		t.Errorf("visible = %v, want %v", got, want)
	}
	if !e.IsCollapsed("t0-s0") {
		t.Error("t0-s0 should still be collapsed")
	}

	mustToggle(t, e, "t0-s0", false)
	if got := len(visibleIDs(e)); got != 10 {
		t.Errorf("visible after expanding subtopic = %d, want 10", got)
	}
}

func TestExpandHiddenNodeOnlyClearsFlag(t *testing.T) {
	e := New(scenario(t))
	mustToggle(t, e, "t0-s0", true)
	mustToggle(t, e, "t0", true)
	mustToggle(t, e, "t0-s0", false) // hidden under t0

	for _, id := range []string{"t0-s0", "t0-s0-k0"} {
		if n, _ := e.Diagram().Node(id); !n.Hidden {
			t.Errorf("%s revealed while t0 is collapsed", id)
		}
	}
	mustValidate(t, e)

	mustToggle(t, e, "t0", false)
	if got := len(visibleIDs(e)); got != 10 {
		t.Errorf("visible = %d, want 10", got)
	}
}

func TestCollapseExpandIdempotent(t *testing.T) {
	e := New(scenario(t))
	for i := 0; i < 2; i++ {
		if err := e.Collapse("t0"); err != nil {
			t.Fatal(err)
		}
	}
	if got := len(visibleIDs(e)); got != 4 {
		t.Errorf("visible = %d, want 4", got)
	}
	for i := 0; i < 2; i++ {
		if err := e.Expand("t0"); err != nil {
			t.Fatal(err)
		}
	}
	if got := len(visibleIDs(e)); got != 10 {
		t.Errorf("visible = %d, want 10", got)
	}
	if err := e.Expand("root"); !errors.Is(err, errors.ErrCodeNotCollapsible) {
		t.Errorf("Expand(root) = %v", err)
	}
}

func TestCollapseAllExpandAll(t *testing.T) {
	e := New(scenario(t))
	e.CollapseAll()
	mustValidate(t, e)
	if got, want := visibleIDs(e), []string{"root", "t0", "t1"}; !reflect.DeepEqual(got, want) {
		t.Errorf("visible = %v, want %v", got, want)
	}
	if got, want := e.Collapsed(), []string{"t0", "t0-s0", "t1"}; !reflect.DeepEqual(got, want) {
		t.Errorf("collapsed = %v, want %v", got, want)
	}

	e.ExpandAll()
	mustValidate(t, e)
	if got := len(visibleIDs(e)); got != 10 {
		t.Errorf("visible = %d, want 10", got)
	}
	if len(e.Collapsed()) != 0 {
		t.Errorf("collapsed = %v", e.Collapsed())
	}
}

func TestRestore(t *testing.T) {
	a := New(scenario(t))
	mustToggle(t, a, "t0-s0", true)
	mustToggle(t, a, "t1", true)

	b := New(scenario(t))
	if err := b.Restore([]string{"t1", "t0-s0"}); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a.Snapshot(), b.Snapshot()) {
		t.Error("restored engine differs from toggled engine")
	}

	if err := b.Restore([]string{"t0", "t0-k0"}); !errors.Is(err, errors.ErrCodeNotCollapsible) {
		t.Fatalf("Restore with key point = %v", err)
	}
	if got := b.Collapsed(); !reflect.DeepEqual(got, []string{"t0-s0", "t1"}) {
		t.Errorf("failed Restore changed state: %v", got)
	}

	if err := b.Restore(nil); err != nil {
		t.Fatal(err)
	}
	if got := len(visibleIDs(b)); got != 10 {
		t.Errorf("visible = %d, want 10", got)
	}
}

func TestReplaceResetsState(t *testing.T) {
	e := New(scenario(t))
	mustToggle(t, e, "t0", true)

	next := scenario(t)
	e.Replace(next)
	if e.Diagram() != next {
		t.Error("Replace did not swap diagram")
	}
	if len(e.Collapsed()) != 0 {
		t.Errorf("collapsed = %v", e.Collapsed())
	}
	if got := len(visibleIDs(e)); got != 10 {
		t.Errorf("visible = %d, want 10", got)
	}
}

func TestNewClearsHiddenFlags(t *testing.T) {
	d := scenario(t)
	for _, n := range d.Nodes() {
		n.Hidden = true
	}
	e := New(d)
	if got := len(visibleIDs(e)); got != 10 {
		t.Errorf("visible = %d, want 10", got)
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	e := New(scenario(t))
	mustToggle(t, e, "t0", true)
	v := e.Snapshot()
	if len(v.Nodes) != 4 || len(v.Edges) != 3 {
		t.Fatalf("snapshot has %d nodes, %d edges", len(v.Nodes), len(v.Edges))
	}
	if !reflect.DeepEqual(v.Collapsed, []string{"t0"}) {
		t.Errorf("collapsed = %v", v.Collapsed)
	}
	v.Nodes[0].Label = "changed"
	if r := e.Diagram().Root(); r.Label == "changed" {
		t.Error("snapshot shares node memory with the engine")
	}
}

func mustToggle(t *testing.T, e *Engine, id string, want bool) {
	t.Helper()
	got, err := e.Toggle(id)
	if err != nil {
		t.Fatalf("Toggle(%s): %v", id, err)
	}
	if got != want {
		t.Fatalf("Toggle(%s) = %v, want %v", id, got, want)
	}
}
