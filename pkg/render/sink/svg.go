package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/topicmap/pkg/graph"
	"github.com/matzehuels/topicmap/pkg/render"
)

const interactionCSS = `
    .node rect { transition: stroke-width 0.2s ease; }
    .node:hover rect { stroke-width: 3; }
    .node.collapsed { cursor: pointer; }`

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	margin   float64
	fontSize float64
	title    bool
}

// WithMargin sets the blank border around the diagram. Default 40.
func WithMargin(m float64) SVGOption { return func(r *svgRenderer) { r.margin = m } }

// WithFontSize sets the label font size. Default 12.
func WithFontSize(s float64) SVGOption { return func(r *svgRenderer) { r.fontSize = s } }

// WithTitle embeds the root label as the document <title>.
func WithTitle() SVGOption { return func(r *svgRenderer) { r.title = true } }

// RenderSVG draws the visible part of l. Edges are drawn first so node boxes
// cover their ends.
func RenderSVG(l graph.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{margin: 40, fontSize: 12}
	for _, opt := range opts {
		opt(&r)
	}

	nodes := l.VisibleNodes()
	pos := make(map[string]graph.Node, len(nodes))
	for _, n := range nodes {
		pos[n.ID] = n
	}

	minX, minY := l.Bounds.MinX-r.margin, l.Bounds.MinY-r.margin
	w, h := l.Bounds.Width()+2*r.margin, l.Bounds.Height()+2*r.margin

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		minX, minY, w, h, w, h)
	if r.title && l.Title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", render.EscapeXML(l.Title))
	}
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", interactionCSS)

	buf.WriteString(`  <g class="edges">` + "\n")
	for _, e := range l.VisibleEdges() {
		src, okS := pos[e.Source]
		dst, okD := pos[e.Target]
		if !okS || !okD {
			continue
		}
		fmt.Fprintf(&buf, `    <line id="%s" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="1.5"/>`+"\n",
			render.EscapeXML(e.ID), src.X, src.Y, dst.X, dst.Y, render.EdgeColor)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g class="nodes">` + "\n")
	chars := charsPerLine(l.NodeWidth, r.fontSize)
	for _, n := range nodes {
		r.renderNode(&buf, n, l.NodeWidth, l.NodeHeight, chars)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderNode(buf *bytes.Buffer, n graph.Node, w, h float64, chars int) {
	s := render.StyleFor(n.Kind)
	class := "node " + n.Kind
	if n.Collapsed {
		class += " collapsed"
	}
	fmt.Fprintf(buf, `    <g id="node-%s" class="%s" data-id="%s">`+"\n",
		render.EscapeXML(n.ID), class, render.EscapeXML(n.ID))
	fmt.Fprintf(buf, `      <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="8" fill="%s" stroke="%s" stroke-width="1.5"/>`+"\n",
		n.X-w/2, n.Y-h/2, w, h, s.Fill, s.Stroke)

	lines := render.WrapLabel(n.Label, chars, 2)
	weight := "normal"
	if s.Bold {
		weight = "bold"
	}
	lineHeight := r.fontSize * 1.15
	top := n.Y - lineHeight*float64(len(lines)-1)/2
	fmt.Fprintf(buf, `      <text x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="central" font-family="Helvetica, Arial, sans-serif" font-size="%g" font-weight="%s" fill="%s">`,
		n.X, top, r.fontSize, weight, s.Text)
	for i, line := range lines {
		if i == 0 {
			fmt.Fprintf(buf, `<tspan x="%.2f">%s</tspan>`, n.X, render.EscapeXML(line))
			continue
		}
		fmt.Fprintf(buf, `<tspan x="%.2f" dy="%.2f">%s</tspan>`, n.X, lineHeight, render.EscapeXML(line))
	}
	buf.WriteString("</text>\n")
	fmt.Fprintf(buf, "      <title>%s</title>\n", render.EscapeXML(n.Label))

	if n.Collapsed {
		cx, cy := n.X+w/2, n.Y-h/2
		fmt.Fprintf(buf, `      <circle class="badge" cx="%.2f" cy="%.2f" r="9" fill="%s" stroke="#ffffff" stroke-width="1.5"/>`+"\n", cx, cy, s.Stroke)
		fmt.Fprintf(buf, `      <text x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="central" font-family="Helvetica, Arial, sans-serif" font-size="13" font-weight="bold" fill="#ffffff">+</text>`+"\n", cx, cy)
	}
	buf.WriteString("    </g>\n")
}

func charsPerLine(width, fontSize float64) int {
	n := int((width - 16) / (fontSize * 0.55))
	return max(n, 4)
}
