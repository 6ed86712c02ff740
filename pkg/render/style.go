package render

import (
	"bytes"
	"encoding/xml"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/topicmap/pkg/diagram"
)

// NodeStyle holds the colors a renderer uses for one node kind.
type NodeStyle struct {
	Fill   string
	Stroke string
	Text   string
	Bold   bool
}

// EdgeColor is the stroke color for edges.
const EdgeColor = "#94a3b8"

var styles = map[diagram.Kind]NodeStyle{
	diagram.KindRoot:     {Fill: "#1e293b", Stroke: "#0f172a", Text: "#ffffff", Bold: true},
	diagram.KindTopic:    {Fill: "#2563eb", Stroke: "#1d4ed8", Text: "#ffffff", Bold: true},
	diagram.KindSubtopic: {Fill: "#dbeafe", Stroke: "#2563eb", Text: "#1e3a8a"},
	diagram.KindKeyPoint: {Fill: "#ffffff", Stroke: "#cbd5e1", Text: "#334155"},
}

// StyleFor returns the style for a node kind. Unknown kinds get the key
// point style.
func StyleFor(kind string) NodeStyle {
	if s, ok := styles[diagram.Kind(kind)]; ok {
		return s
	}
	return styles[diagram.KindKeyPoint]
}

// WrapLabel breaks text into at most maxLines lines of at most width runes,
// splitting on spaces. Words longer than a line are hard-split. Text that
// does not fit ends in "…".
func WrapLabel(text string, width, maxLines int) []string {
	if width <= 0 || maxLines <= 0 {
		return nil
	}
	var lines []string
	line := ""
	for _, w := range strings.Fields(text) {
		for utf8.RuneCountInString(w) > width {
			if line != "" {
				lines = append(lines, line)
				line = ""
			}
			r := []rune(w)
			lines = append(lines, string(r[:width]))
			w = string(r[width:])
		}
		switch {
		case line == "":
			line = w
		case utf8.RuneCountInString(line)+1+utf8.RuneCountInString(w) <= width:
			line += " " + w
		default:
			lines = append(lines, line)
			line = w
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	if len(lines) <= maxLines {
		return lines
	}

	lines = lines[:maxLines]
	last := []rune(lines[maxLines-1])
	if len(last) >= width {
		last = last[:width-1]
	}
	lines[maxLines-1] = string(last) + "…"
	return lines
}

// EscapeXML escapes text for use in SVG content and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
