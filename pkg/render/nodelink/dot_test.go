package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/topicmap/pkg/graph"
	"github.com/matzehuels/topicmap/pkg/hierarchy"
	"github.com/matzehuels/topicmap/pkg/layout"
	"github.com/matzehuels/topicmap/pkg/visibility"
)

func testLayout(t *testing.T, collapse ...string) graph.Layout {
	t.Helper()
	h := &hierarchy.Node{
		Title: "Caching",
		Subtopics: []*hierarchy.Node{
			{Title: "Why", KeyPoints: []string{"Latency", "Cost"}},
			{Title: "How", KeyPoints: []string{"LRU"}},
		},
	}
	d, err := layout.Generate(h, layout.Options{})
	if err != nil {
		t.Fatal(err)
	}
	eng := visibility.New(d)
	if err := eng.Restore(collapse); err != nil {
		t.Fatal(err)
	}
	return graph.FromDiagram(d, layout.Options{}, eng.Collapsed())
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testLayout(t), Options{})

	for _, want := range []string{
		"digraph topicmap {",
		"layout=neato;",
		`"root" [label="Caching", pos="0.00,0.00!"`,
		`"t0" [label="Why", pos="800.00,0.00!"`,
		`"root" -> "t0";`,
		`"t1" -> "t1-k0";`,
		"width=1.944, height=0.500",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "peripheries") {
		t.Error("no node is collapsed")
	}
}

func TestToDOTHiddenAndCollapsed(t *testing.T) {
	dot := ToDOT(testLayout(t, "t0"), Options{})

	if strings.Contains(dot, `"t0-k0"`) || strings.Contains(dot, `"t0" -> `) {
		t.Errorf("hidden nodes or edges exported:\n%s", dot)
	}
	line := lineFor(dot, `"t0" [`)
	if !strings.Contains(line, "peripheries=2") {
		t.Errorf("collapsed node not marked: %s", line)
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(testLayout(t), Options{Detailed: true})
	if !strings.Contains(dot, `label="Why\n[t0]"`) {
		t.Errorf("detailed label missing ID:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50">`) {
		t.Errorf("unexpected tag: %s", out)
	}

	plain := []byte(`<svg><g/></svg>`)
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("SVG without viewBox should pass through")
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(testLayout(t), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	s := string(svg)
	if !strings.Contains(s, "<svg") || !strings.Contains(s, "Caching") {
		t.Errorf("unexpected SVG output: %.200s", s)
	}
}

func TestRenderSVGParseError(t *testing.T) {
	if _, err := RenderSVG(context.Background(), "digraph {"); err == nil {
		t.Error("expected parse error")
	}
}

func lineFor(s, prefix string) string {
	for _, l := range strings.Split(s, "\n") {
		if strings.Contains(l, prefix) {
			return l
		}
	}
	return ""
}
