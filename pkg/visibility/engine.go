package visibility

import (
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topicmap/pkg/diagram"
	"github.com/matzehuels/topicmap/pkg/errors"
)

// Engine owns a diagram and its collapsed set.
type Engine struct {
	d         *diagram.Diagram
	collapsed map[string]bool
	logger    *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for debug output. The default discards.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New takes ownership of d and returns an engine with nothing collapsed.
// Any Hidden flags already set on d are cleared. The caller must not mutate
// d afterwards.
func New(d *diagram.Diagram, opts ...Option) *Engine {
	e := &Engine{logger: log.NewWithOptions(io.Discard, log.Options{})}
	for _, opt := range opts {
		opt(e)
	}
	e.reset(d)
	return e
}

// Replace swaps in a new diagram and clears the collapsed set in one step.
// It is used when a new hierarchy arrives.
func (e *Engine) Replace(d *diagram.Diagram) {
	e.reset(d)
	e.logger.Debug("diagram replaced", "nodes", d.NodeCount(), "edges", d.EdgeCount())
}

func (e *Engine) reset(d *diagram.Diagram) {
	for _, n := range d.Nodes() {
		n.Hidden = false
	}
	for _, ed := range d.Edges() {
		ed.Hidden = false
	}
	e.d = d
	e.collapsed = make(map[string]bool)
}

// Diagram returns the owned diagram. Callers must treat it as read-only.
func (e *Engine) Diagram() *diagram.Diagram { return e.d }

// Toggle flips nodeID between collapsed and expanded and reports whether it
// is collapsed afterwards.
func (e *Engine) Toggle(nodeID string) (bool, error) {
	n, err := e.collapsible(nodeID)
	if err != nil {
		return false, err
	}
	if e.collapsed[nodeID] {
		e.expand(n)
		return false, nil
	}
	e.collapse(n)
	return true, nil
}

// Collapse folds nodeID. Collapsing an already collapsed node is a no-op.
func (e *Engine) Collapse(nodeID string) error {
	n, err := e.collapsible(nodeID)
	if err != nil {
		return err
	}
	if !e.collapsed[nodeID] {
		e.collapse(n)
	}
	return nil
}

// Expand unfolds nodeID. Expanding a node that is not collapsed is a no-op.
func (e *Engine) Expand(nodeID string) error {
	n, err := e.collapsible(nodeID)
	if err != nil {
		return err
	}
	if e.collapsed[nodeID] {
		e.expand(n)
	}
	return nil
}

// IsCollapsed reports whether nodeID is in the collapsed set.
func (e *Engine) IsCollapsed(nodeID string) bool { return e.collapsed[nodeID] }

// Collapsed returns the collapsed node IDs in sorted order.
func (e *Engine) Collapsed() []string {
	out := make([]string, 0, len(e.collapsed))
	for id := range e.collapsed {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// CollapseAll folds every topic and subtopic.
func (e *Engine) CollapseAll() {
	for _, n := range e.d.Nodes() {
		if n.Collapsible() {
			e.collapsed[n.ID] = true
			if n.Kind == diagram.KindTopic {
				e.setSubtree(n.ID, true)
			}
		}
	}
	e.logger.Debug("collapsed all", "collapsed", len(e.collapsed))
}

// ExpandAll clears the collapsed set and reveals every node.
func (e *Engine) ExpandAll() {
	e.reset(e.d)
	e.logger.Debug("expanded all")
}

// Restore replaces the collapsed set with ids. Every id is checked before
// any state changes, so a failed Restore leaves the engine untouched.
// The resulting visibility does not depend on the order of ids.
func (e *Engine) Restore(ids []string) error {
	nodes := make([]*diagram.Node, 0, len(ids))
	for _, id := range ids {
		n, err := e.collapsible(id)
		if err != nil {
			return err
		}
		nodes = append(nodes, n)
	}
	e.reset(e.d)
	for _, n := range nodes {
		if !e.collapsed[n.ID] {
			e.collapse(n)
		}
	}
	return nil
}

// View is a detached copy of the visible part of a diagram.
type View struct {
	Nodes     []diagram.Node `json:"nodes"`
	Edges     []diagram.Edge `json:"edges"`
	Collapsed []string       `json:"collapsed"`
}

// Snapshot copies the currently visible nodes and edges.
func (e *Engine) Snapshot() View {
	v := View{Collapsed: e.Collapsed()}
	for _, n := range e.d.VisibleNodes() {
		v.Nodes = append(v.Nodes, *n)
	}
	for _, ed := range e.d.VisibleEdges() {
		v.Edges = append(v.Edges, *ed)
	}
	return v
}

func (e *Engine) collapsible(id string) (*diagram.Node, error) {
	n, ok := e.d.Node(id)
	if !ok {
		return nil, errors.New(errors.ErrCodeNodeNotFound, "node %q not found", id)
	}
	if !n.Collapsible() {
		return nil, errors.New(errors.ErrCodeNotCollapsible, "node %q is a %s and cannot be collapsed", id, n.Kind)
	}
	return n, nil
}

func (e *Engine) collapse(n *diagram.Node) {
	e.collapsed[n.ID] = true
	hidden := e.setSubtree(n.ID, true)
	e.logger.Debug("collapsed", "node", n.ID, "hidden", hidden)
}

// setSubtree sets Hidden on every descendant of id and the edges reaching
// them. It returns the number of nodes touched.
func (e *Engine) setSubtree(id string, hidden bool) int {
	nodes, edges := e.d.Descendants(id)
	for _, n := range nodes {
		n.Hidden = hidden
	}
	for _, ed := range edges {
		ed.Hidden = hidden
	}
	return len(nodes)
}

func (e *Engine) expand(n *diagram.Node) {
	delete(e.collapsed, n.ID)
	if n.Hidden {
		e.logger.Debug("expanded hidden node", "node", n.ID)
		return
	}
	shown := e.reveal(n.ID)
	e.logger.Debug("expanded", "node", n.ID, "shown", shown)
}

// reveal shows the children of id and recurses into those not collapsed.
func (e *Engine) reveal(id string) int {
	shown := 0
	for _, ed := range e.d.ChildEdges(id) {
		child, _ := e.d.Node(ed.Target)
		ed.Hidden = false
		child.Hidden = false
		shown++
		if !e.collapsed[child.ID] {
			shown += e.reveal(child.ID)
		}
	}
	return shown
}
