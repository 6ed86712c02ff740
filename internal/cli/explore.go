package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/topicmap/pkg/diagram"
	"github.com/matzehuels/topicmap/pkg/errors"
	"github.com/matzehuels/topicmap/pkg/graph"
	"github.com/matzehuels/topicmap/pkg/observability"
	"github.com/matzehuels/topicmap/pkg/pipeline"
	"github.com/matzehuels/topicmap/pkg/visibility"
)

// Tree styles
var (
	treeSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	treeTopicStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	treeSubtopicStyle = lipgloss.NewStyle().Foreground(colorWhite)
	treeKeyPointStyle = lipgloss.NewStyle().Foreground(colorGray)
	treeDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	glyphRoot      = "◉"
	glyphExpanded  = "▾"
	glyphCollapsed = "▸"
	glyphKeyPoint  = "•"
)

// exploreCommand creates the interactive explore command.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		output    string
		collapsed string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "explore [hierarchy.json|yaml|toml]",
		Short: "Collapse and expand a hierarchy interactively",
		Long: `Collapse and expand a hierarchy interactively.

The hierarchy is shown as a tree of its visible nodes. Toggling a topic or
subtopic hides or reveals its branch exactly as the rendered map would. On
exit the collapsed set is printed so it can be passed to 'render --collapsed';
with --output the resulting layout is written as well.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions()
			opts.Collapsed = parseList(collapsed)
			return c.runExplore(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the final layout to this file")
	cmd.Flags().StringVar(&collapsed, "collapsed", "", "comma-separated IDs to start collapsed")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runExplore(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	if err := opts.ValidateForLayout(); err != nil {
		return err
	}
	h, err := pipeline.DecodeSource(ctx, input)
	if err != nil {
		return fmt.Errorf("load hierarchy %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	base, err := runner.GenerateLayout(ctx, h, opts)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}
	_, eng, err := pipeline.ApplyCollapsed(base, opts.Collapsed, opts)
	if err != nil {
		return err
	}

	if _, err := tea.NewProgram(newExploreModel(ctx, eng), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("explore: %w", err)
	}

	set := eng.Collapsed()
	if len(set) == 0 {
		printInfo("Nothing collapsed")
	} else {
		printInfo("Collapsed: %s", strings.Join(set, ","))
	}

	if output != "" {
		l := graph.FromDiagram(eng.Diagram(), opts.Layout, set)
		if err := graph.WriteLayoutFile(l, output); err != nil {
			return fmt.Errorf("write output %s: %w", output, err)
		}
		printFile(output)
		printNextStep("Render", appName+" render "+output)
	} else if len(set) > 0 {
		printNextStep("Render this view", fmt.Sprintf("%s render %s --collapsed %s", appName, input, strings.Join(set, ",")))
	}
	return nil
}

// =============================================================================
// exploreModel - Interactive collapse/expand tree
// =============================================================================

// exploreRow is one visible node in depth-first order.
type exploreRow struct {
	id        string
	label     string
	kind      diagram.Kind
	depth     int
	collapsed bool
}

// exploreModel is the bubbletea model for the explore command.
// The engine is shared by every copy of the model.
type exploreModel struct {
	ctx    context.Context
	engine *visibility.Engine
	rows   []exploreRow
	cursor int
	offset int
	height int
	status string
}

func newExploreModel(ctx context.Context, eng *visibility.Engine) exploreModel {
	m := exploreModel{ctx: ctx, engine: eng, height: 20}
	m.refresh()
	return m
}

// refresh rebuilds the rows from the engine's diagram and keeps the cursor
// in range.
func (m *exploreModel) refresh() {
	d := m.engine.Diagram()
	var rows []exploreRow
	var walk func(id string, depth int)
	walk = func(id string, depth int) {
		n, ok := d.Node(id)
		if !ok || n.Hidden {
			return
		}
		rows = append(rows, exploreRow{
			id:        n.ID,
			label:     n.Label,
			kind:      n.Kind,
			depth:     depth,
			collapsed: m.engine.IsCollapsed(n.ID),
		})
		for _, child := range d.Children(id) {
			walk(child, depth+1)
		}
	}
	if root := d.Root(); root != nil {
		walk(root.ID, 0)
	}
	m.rows = rows

	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.scroll()
}

func (m *exploreModel) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

// toggle flips the selected node and reports the result to the hooks.
func (m *exploreModel) toggle() {
	if len(m.rows) == 0 {
		return
	}
	id := m.rows[m.cursor].id
	collapsed, err := m.engine.Toggle(id)
	observability.Visibility().OnToggle(m.ctx, id, collapsed, err)
	switch {
	case err != nil:
		m.status = errors.UserMessage(err)
	case collapsed:
		m.status = "collapsed " + id
	default:
		m.status = "expanded " + id
	}
	m.refresh()
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
		case "home", "g":
			m.cursor = 0
		case "end", "G":
			m.cursor = len(m.rows) - 1
		case "enter", " ":
			m.toggle()
		case "c":
			m.engine.CollapseAll()
			m.status = "collapsed all"
			m.refresh()
		case "e":
			m.engine.ExpandAll()
			m.status = "expanded all"
			m.refresh()
		}
		m.scroll()
	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
		m.scroll()
	}
	return m, nil
}

func (m exploreModel) View() string {
	var b strings.Builder

	title := "Topic Map"
	if len(m.rows) > 0 {
		title = m.rows[0].label
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(treeDimStyle.Render("↑/↓ navigate  ⏎ toggle  c collapse all  e expand all  q quit"))
	b.WriteString("\n\n")

	end := min(m.offset+m.height, len(m.rows))
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderRow(i))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	total := m.engine.Diagram().NodeCount()
	b.WriteString(treeDimStyle.Render(fmt.Sprintf("  [%d/%d visible]", len(m.rows), total)))
	if m.status != "" {
		b.WriteString("  " + StyleHighlight.Render(m.status))
	}
	return b.String()
}

func (m exploreModel) renderRow(i int) string {
	r := m.rows[i]

	cursor := "  "
	if i == m.cursor {
		cursor = "› "
	}

	glyph := glyphKeyPoint
	switch {
	case r.kind == diagram.KindRoot:
		glyph = glyphRoot
	case r.collapsed:
		glyph = glyphCollapsed
	case r.kind.Collapsible():
		glyph = glyphExpanded
	}

	line := fmt.Sprintf("%s%s%s %s", cursor, strings.Repeat("  ", r.depth), glyph, r.label)
	if r.collapsed {
		line += treeDimStyle.Render(fmt.Sprintf("  (%s)", r.id))
	}

	switch {
	case i == m.cursor:
		return treeSelectedStyle.Render(line)
	case r.kind == diagram.KindTopic || r.kind == diagram.KindRoot:
		return treeTopicStyle.Render(line)
	case r.kind == diagram.KindSubtopic:
		return treeSubtopicStyle.Render(line)
	default:
		return treeKeyPointStyle.Render(line)
	}
}
