package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topicmap/pkg/graph"
	"github.com/matzehuels/topicmap/pkg/pipeline"
)

// renderCommand creates the render command. It accepts either a hierarchy
// or a layout.json written by 'layout'.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		collapsed  string
		engine     string
		detailed   bool
		pngScale   float64
		noCache    bool
		refresh    bool
		geometry   geometryFlags
	)

	cmd := &cobra.Command{
		Use:   "render [hierarchy.json|layout.json]",
		Short: "Render a hierarchy or layout to SVG, DOT, JSON, PNG or PDF",
		Long: `Render a hierarchy or a computed layout.

Input is a hierarchy (JSON, YAML or TOML) or a layout written by 'layout'
(*.layout.json). Only visible nodes are drawn; use --collapsed to hide the
descendants of topics or subtopics.

SVG is drawn natively by default; --engine graphviz renders the DOT output
with Graphviz neato at the same pinned positions. PNG and PDF are converted
from SVG and require rsvg-convert.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions()
			geometry.apply(cmd, &opts.Layout)
			opts.Formats = parseFormats(formatsStr)
			opts.Collapsed = parseList(collapsed)
			opts.Engine = engine
			opts.Detailed = detailed
			opts.PNGScale = pngScale
			opts.Refresh = refresh
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, output, noCache, cmd.Flags().Changed("collapsed"))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, json, png, pdf (comma-separated)")
	cmd.Flags().StringVar(&collapsed, "collapsed", "", "comma-separated topic/subtopic IDs to collapse")
	cmd.Flags().StringVar(&engine, "engine", pipeline.DefaultEngine, "SVG engine: native, graphviz")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show node IDs in labels")
	cmd.Flags().Float64Var(&pngScale, "png-scale", pipeline.DefaultPNGScale, "PNG scale factor")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "re-render even if cached")
	geometry.register(cmd)

	return cmd
}

// runRender renders input and writes one file per format.
// For layout input, the stored collapsed set is kept unless --collapsed was given.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache, collapsedSet bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	var (
		artifacts map[string][]byte
		l         graph.Layout
		cacheHit  bool
	)
	if strings.HasSuffix(input, layoutSuffix) {
		l, err = graph.ReadLayoutFile(input)
		if err == nil {
			if !collapsedSet {
				opts.Collapsed = l.Collapsed
			}
			l, _, err = pipeline.ApplyCollapsed(l, opts.Collapsed, opts)
		}
		if err == nil {
			artifacts, cacheHit, err = runner.RenderWithCacheInfo(ctx, l, opts)
		}
	} else {
		h, herr := pipeline.DecodeSource(ctx, input)
		if herr != nil {
			spinner.StopWithError("Render failed")
			return fmt.Errorf("load hierarchy %s: %w", input, herr)
		}
		var res *pipeline.Result
		res, err = runner.Execute(ctx, h, opts)
		if err == nil {
			artifacts, l, cacheHit = res.Artifacts, res.Layout, res.CacheInfo.RenderHit
		}
	}
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Rendered %d format(s)", len(artifacts)))

	paths, err := writeArtifacts(artifacts, opts.Formats, input, output)
	if err != nil {
		return err
	}

	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(len(l.Nodes), len(l.Edges), len(l.VisibleNodes()), cacheHit)
	return nil
}

// writeArtifacts writes each format to its own file and returns the paths.
// A single format honors output as an exact path.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	base := basePath(output, input)
	var paths []string
	for _, format := range formats {
		path := base + "." + format
		if len(formats) == 1 && output != "" {
			path = output
		}
		if err := os.WriteFile(path, artifacts[format], 0644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
