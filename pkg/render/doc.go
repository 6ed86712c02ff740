// Package render turns positioned topic map layouts into visual outputs.
//
// # Overview
//
// Renderers only read a [graph.Layout]; they never change visibility. Every
// renderer draws the visible subset of the layout, marking nodes in the
// collapsed set so a viewer can tell that more content is folded away.
//
//   - [sink]: self-contained SVG and JSON output, no external tools
//   - [nodelink]: Graphviz DOT export and Graphviz-rendered SVG with node
//     positions pinned to the radial layout
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg):
//
//	svg := sink.RenderSVG(l)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// [graph.Layout]: github.com/matzehuels/topicmap/pkg/graph.Layout
// [sink]: github.com/matzehuels/topicmap/pkg/render/sink
// [nodelink]: github.com/matzehuels/topicmap/pkg/render/nodelink
package render

import (
	"slices"

	"github.com/matzehuels/topicmap/pkg/errors"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatJSON = "json"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// Formats lists every supported output format.
var Formats = []string{FormatSVG, FormatDOT, FormatJSON, FormatPNG, FormatPDF}

// ValidateFormat returns an INVALID_FORMAT error for unknown formats.
func ValidateFormat(f string) error {
	if !slices.Contains(Formats, f) {
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported output format %q (want one of %v)", f, Formats)
	}
	return nil
}

// ContentType returns the MIME type for a format.
func ContentType(f string) string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatDOT:
		return "text/vnd.graphviz"
	case FormatJSON:
		return "application/json"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
