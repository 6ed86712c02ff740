package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/topicmap/pkg/graph"
	"github.com/matzehuels/topicmap/pkg/render"
)

// Options configures DOT generation.
type Options struct {
	// Detailed appends the node ID to each label.
	Detailed bool

	// FontSize in points. Zero means 11.
	FontSize float64
}

const pointsPerInch = 72.0

// ToDOT converts the visible part of l to Graphviz DOT with pinned positions.
// Layout Y grows downward; DOT Y grows upward, so Y is negated.
func ToDOT(l graph.Layout, opts Options) string {
	if opts.FontSize <= 0 {
		opts.FontSize = 11
	}
	chars := charsPerLine(l.NodeWidth, opts.FontSize)

	var buf bytes.Buffer
	buf.WriteString("digraph topicmap {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  notranslate=true;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=line;\n")
	fmt.Fprintf(&buf, "  node [shape=box, style=\"rounded,filled\", fixedsize=true, width=%.3f, height=%.3f, fontsize=%g, fontname=\"Helvetica\"];\n",
		l.NodeWidth/pointsPerInch, l.NodeHeight/pointsPerInch, opts.FontSize)
	fmt.Fprintf(&buf, "  edge [arrowhead=none, color=%q];\n", render.EdgeColor)
	buf.WriteString("\n")

	for _, n := range l.VisibleNodes() {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(fmtAttrs(n, chars, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, e := range l.VisibleEdges() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func charsPerLine(width, fontSize float64) int {
	// Helvetica averages about 0.55em per character.
	n := int((width - 12) / (fontSize * 0.55))
	return max(n, 4)
}

func fmtAttrs(n graph.Node, chars int, detailed bool) []string {
	label := strings.Join(render.WrapLabel(n.Label, chars, 2), "\n")
	if detailed {
		label += "\n[" + n.ID + "]"
	}
	s := render.StyleFor(n.Kind)
	attrs := []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("pos=\"%.2f,%.2f!\"", n.X, 0-n.Y),
		fmt.Sprintf("fillcolor=%q", s.Fill),
		fmt.Sprintf("color=%q", s.Stroke),
		fmt.Sprintf("fontcolor=%q", s.Text),
	}
	if s.Bold {
		attrs = append(attrs, "fontname=\"Helvetica-Bold\"")
	}
	if n.Collapsed {
		attrs = append(attrs, "peripheries=2")
	}
	return attrs
}

// RenderSVG renders DOT produced by [ToDOT] to SVG using Graphviz neato.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's <svg> tag, which carries pt units,
// with a unitless one so the output scales like the native SVG sink.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
