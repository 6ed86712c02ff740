package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topicmap/pkg/graph"
	"github.com/matzehuels/topicmap/pkg/layout"
	"github.com/matzehuels/topicmap/pkg/pipeline"
)

// geometryFlags holds layout overrides given on the command line.
// Only flags the user actually set replace configured values.
type geometryFlags struct {
	topicRadius       float64
	keyPointRadius    float64
	subtopicRadius    float64
	subKeyPointRadius float64
	nodeWidth         float64
	nodeHeight        float64
}

func (g *geometryFlags) register(cmd *cobra.Command) {
	d := layout.DefaultOptions()
	cmd.Flags().Float64Var(&g.topicRadius, "topic-radius", d.TopicRadius, "distance of topics from the root")
	cmd.Flags().Float64Var(&g.keyPointRadius, "keypoint-radius", d.KeyPointRadius, "distance of key points from their topic")
	cmd.Flags().Float64Var(&g.subtopicRadius, "subtopic-radius", d.SubtopicRadius, "distance of subtopics from their topic")
	cmd.Flags().Float64Var(&g.subKeyPointRadius, "sub-keypoint-radius", d.SubKeyPointRadius, "distance of key points from their subtopic")
	cmd.Flags().Float64Var(&g.nodeWidth, "node-width", d.NodeWidth, "rendered node width")
	cmd.Flags().Float64Var(&g.nodeHeight, "node-height", d.NodeHeight, "rendered node height")
}

func (g *geometryFlags) apply(cmd *cobra.Command, opts *layout.Options) {
	set := func(name string, dst *float64, v float64) {
		if cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	set("topic-radius", &opts.TopicRadius, g.topicRadius)
	set("keypoint-radius", &opts.KeyPointRadius, g.keyPointRadius)
	set("subtopic-radius", &opts.SubtopicRadius, g.subtopicRadius)
	set("sub-keypoint-radius", &opts.SubKeyPointRadius, g.subKeyPointRadius)
	set("node-width", &opts.NodeWidth, g.nodeWidth)
	set("node-height", &opts.NodeHeight, g.nodeHeight)
}

// layoutCommand creates the layout command for computing radial layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output    string
		collapsed string
		noCache   bool
		refresh   bool
		check     bool
		geometry  geometryFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [hierarchy.json|yaml|toml]",
		Short: "Compute a radial layout from a summary hierarchy",
		Long: `Compute a radial layout from a summary hierarchy.

The layout command reads a hierarchy (JSON, YAML or TOML, chosen by file
extension), places it on a radial mind map and writes a layout.json file that
can be rendered with 'render' or served by 'serve'.

Nodes listed in --collapsed start collapsed; their descendants are marked
hidden. With --check, the layout is rejected if any two visible nodes overlap
at the configured node size.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions()
			geometry.apply(cmd, &opts.Layout)
			opts.Collapsed = parseList(collapsed)
			opts.Refresh = refresh
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache, check)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().StringVar(&collapsed, "collapsed", "", "comma-separated topic/subtopic IDs to collapse (e.g. t0,t2-s1)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even if cached")
	cmd.Flags().BoolVar(&check, "check", false, "fail if visible nodes overlap")
	geometry.register(cmd)

	return cmd
}

// runLayout loads the hierarchy, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache, check bool) error {
	h, err := pipeline.DecodeSource(ctx, input)
	if err != nil {
		return fmt.Errorf("load hierarchy %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Computing radial layout...")
	spinner.Start()

	base, cacheHit, err := runner.GenerateLayoutWithCacheInfo(ctx, h, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	l, _, err := pipeline.ApplyCollapsed(base, opts.Collapsed, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if check {
		if err := checkOverlaps(l); err != nil {
			return err
		}
	}

	outputPath := output
	if outputPath == "" {
		outputPath = basePath("", input) + layoutSuffix
	}
	if err := graph.WriteLayoutFile(l, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(l.Nodes), len(l.Edges), len(l.VisibleNodes()), cacheHit)
	printNewline()
	printNextStep("Render", appName+" render "+outputPath)

	return nil
}

// checkOverlaps reports every pair of visible nodes whose footprints intersect.
func checkOverlaps(l graph.Layout) error {
	d, err := graph.ToDiagram(l)
	if err != nil {
		return err
	}
	overlaps := layout.Overlaps(d, l.NodeWidth, l.NodeHeight)
	if len(overlaps) == 0 {
		printSuccess("No overlapping nodes")
		return nil
	}
	for _, o := range overlaps {
		printWarning("%s overlaps %s", o.A, o.B)
	}
	return fmt.Errorf("%d overlapping node pairs at %gx%g", len(overlaps), l.NodeWidth, l.NodeHeight)
}
