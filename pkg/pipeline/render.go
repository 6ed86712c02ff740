package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/topicmap/pkg/graph"
	"github.com/matzehuels/topicmap/pkg/render"
	"github.com/matzehuels/topicmap/pkg/render/nodelink"
	"github.com/matzehuels/topicmap/pkg/render/sink"
)

// RenderFromLayout generates output artifacts in the requested formats.
// PNG and PDF are converted from the SVG output, which is rendered once.
func RenderFromLayout(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	dotOpts := nodelink.Options{Detailed: opts.Detailed}

	var svg []byte
	getSVG := func() ([]byte, error) {
		if svg != nil {
			return svg, nil
		}
		var err error
		if opts.Engine == EngineGraphviz {
			svg, err = nodelink.RenderSVG(ctx, nodelink.ToDOT(l, dotOpts))
		} else {
			svg = sink.RenderSVG(l, sink.WithTitle())
		}
		return svg, err
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case render.FormatSVG:
			data, err = getSVG()
		case render.FormatDOT:
			data = []byte(nodelink.ToDOT(l, dotOpts))
		case render.FormatJSON:
			data, err = sink.RenderJSON(l, sink.WithIndent())
		case render.FormatPNG:
			if data, err = getSVG(); err == nil {
				data, err = render.ToPNG(data, opts.PNGScale)
			}
		case render.FormatPDF:
			if data, err = getSVG(); err == nil {
				data, err = render.ToPDF(data)
			}
		default:
			return nil, render.ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
