package diagram

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidNodeID is returned by [Diagram.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Diagram.AddNode] when a node with the
	// same ID already exists.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrDuplicateRoot is returned by [Diagram.AddNode] when a second root is added.
	ErrDuplicateRoot = errors.New("diagram already has a root")

	// ErrUnknownSourceNode is returned by [Diagram.AddEdge] when the source
	// node does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Diagram.AddEdge] when the target
	// node does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrMultipleParents is returned by [Diagram.AddEdge] when the target
	// already has an incoming edge, or when the target is the root.
	ErrMultipleParents = errors.New("node already has a parent")

	// ErrNoRoot is returned by [Diagram.Validate] for a diagram without a root.
	ErrNoRoot = errors.New("diagram has no root")

	// ErrDanglingNode is returned by [Diagram.Validate] when a non-root node
	// has no incoming edge or cannot be reached from the root.
	ErrDanglingNode = errors.New("node not reachable from root")

	// ErrHiddenMismatch is returned by [Diagram.Validate] when hidden flags
	// of an edge and its endpoints disagree.
	ErrHiddenMismatch = errors.New("inconsistent hidden flags")
)

// Kind classifies a diagram node.
type Kind string

const (
	KindRoot     Kind = "root"
	KindTopic    Kind = "topic"
	KindSubtopic Kind = "subtopic"
	KindKeyPoint Kind = "keypoint"
)

// Collapsible reports whether nodes of this kind can hide their descendants.
func (k Kind) Collapsible() bool { return k == KindTopic || k == KindSubtopic }

// Valid reports whether k is one of the four known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindRoot, KindTopic, KindSubtopic, KindKeyPoint:
		return true
	}
	return false
}

// Position is a 2D coordinate in diagram space. The root sits at the layout
// origin; Y grows downward as in SVG.
type Position struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Node is a positioned diagram vertex.
type Node struct {
	ID       string
	Kind     Kind
	Label    string
	Position Position
	Hidden   bool
}

// Collapsible reports whether the node can hide its descendants.
func (n *Node) Collapsible() bool { return n.Kind.Collapsible() }

// Edge is a parent→child relation.
type Edge struct {
	ID     string
	Source string
	Target string
	Hidden bool
}

// EdgeID returns the deterministic edge identifier for source→target, so that
// regenerating a diagram from the same hierarchy reproduces the same IDs.
func EdgeID(source, target string) string {
	return "e:" + source + "->" + target
}

// Diagram is a tree of positioned nodes held as flat, insertion-ordered
// slices plus an adjacency index.
//
// The zero value is not usable - use New to create a Diagram.
// Diagram is not safe for concurrent use without external synchronization.
type Diagram struct {
	nodes    []*Node
	edges    []*Edge
	index    map[string]int   // node ID -> position in nodes
	children map[string][]int // node ID -> positions in edges (outgoing)
	parent   map[string]int   // node ID -> position in edges (incoming)
	root     string
}

// New creates an empty diagram with room for n nodes.
func New(n int) *Diagram {
	return &Diagram{
		nodes:    make([]*Node, 0, n),
		edges:    make([]*Edge, 0, max(n-1, 0)),
		index:    make(map[string]int, n),
		children: make(map[string][]int),
		parent:   make(map[string]int, n),
	}
}

// AddNode appends a node. Returns ErrInvalidNodeID for an empty ID,
// ErrDuplicateNodeID if the ID is taken, and ErrDuplicateRoot for a second
// root. The node is copied; use [Diagram.Node] to obtain the stored pointer.
func (d *Diagram) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if !n.Kind.Valid() {
		return fmt.Errorf("node %s: unknown kind %q", n.ID, n.Kind)
	}
	if _, exists := d.index[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Kind == KindRoot {
		if d.root != "" {
			return ErrDuplicateRoot
		}
		d.root = n.ID
	}
	d.index[n.ID] = len(d.nodes)
	d.nodes = append(d.nodes, &n)
	return nil
}

// AddEdge links two existing nodes. The edge ID is always derived with
// [EdgeID]. Returns ErrUnknownSourceNode / ErrUnknownTargetNode for missing
// endpoints and ErrMultipleParents if the target is the root or already has
// a parent, which keeps the collection a tree.
func (d *Diagram) AddEdge(source, target string) (*Edge, error) {
	if _, ok := d.index[source]; !ok {
		return nil, ErrUnknownSourceNode
	}
	if _, ok := d.index[target]; !ok {
		return nil, ErrUnknownTargetNode
	}
	if _, ok := d.parent[target]; ok || target == d.root {
		return nil, ErrMultipleParents
	}
	e := &Edge{ID: EdgeID(source, target), Source: source, Target: target}
	pos := len(d.edges)
	d.edges = append(d.edges, e)
	d.children[source] = append(d.children[source], pos)
	d.parent[target] = pos
	return e, nil
}

// Node returns the node with the given ID. The pointer refers to the stored
// node, so setting Hidden affects the diagram.
func (d *Diagram) Node(id string) (*Node, bool) {
	i, ok := d.index[id]
	if !ok {
		return nil, false
	}
	return d.nodes[i], true
}

// Nodes returns all nodes in insertion order: root, then per topic the
// topic, its key points, and each subtopic followed by its key points.
// The slice is a copy; the pointers are shared with the diagram.
func (d *Diagram) Nodes() []*Node { return append([]*Node(nil), d.nodes...) }

// Edges returns all edges in insertion order. The slice is a copy; the
// pointers are shared with the diagram.
func (d *Diagram) Edges() []*Edge { return append([]*Edge(nil), d.edges...) }

// NodeCount returns the number of nodes.
func (d *Diagram) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the number of edges.
func (d *Diagram) EdgeCount() int { return len(d.edges) }

// Root returns the root node, or nil for an empty diagram.
func (d *Diagram) Root() *Node {
	if d.root == "" {
		return nil
	}
	n, _ := d.Node(d.root)
	return n
}

// Children returns the IDs of id's direct children in insertion order.
func (d *Diagram) Children(id string) []string {
	out := make([]string, 0, len(d.children[id]))
	for _, ei := range d.children[id] {
		out = append(out, d.edges[ei].Target)
	}
	return out
}

// ChildEdges returns the edges leaving id in insertion order.
func (d *Diagram) ChildEdges(id string) []*Edge {
	out := make([]*Edge, 0, len(d.children[id]))
	for _, ei := range d.children[id] {
		out = append(out, d.edges[ei])
	}
	return out
}

// Parent returns the ID of id's parent and true, or "" and false for the
// root and for unknown IDs.
func (d *Diagram) Parent(id string) (string, bool) {
	ei, ok := d.parent[id]
	if !ok {
		return "", false
	}
	return d.edges[ei].Source, true
}

// ParentEdge returns the edge entering id, or nil for the root.
func (d *Diagram) ParentEdge(id string) *Edge {
	ei, ok := d.parent[id]
	if !ok {
		return nil
	}
	return d.edges[ei]
}

// Descendants returns every node strictly below id together with the edges
// used to reach them, in breadth-first order. Each node and edge is visited
// once. An unknown id yields nil slices.
func (d *Diagram) Descendants(id string) ([]*Node, []*Edge) {
	if _, ok := d.index[id]; !ok {
		return nil, nil
	}
	var nodes []*Node
	var edges []*Edge
	queue := []string{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, ei := range d.children[cur] {
			e := d.edges[ei]
			n := d.nodes[d.index[e.Target]]
			nodes = append(nodes, n)
			edges = append(edges, e)
			queue = append(queue, e.Target)
		}
	}
	return nodes, edges
}

// VisibleNodes returns the nodes whose Hidden flag is false, in insertion order.
func (d *Diagram) VisibleNodes() []*Node {
	var out []*Node
	for _, n := range d.nodes {
		if !n.Hidden {
			out = append(out, n)
		}
	}
	return out
}

// VisibleEdges returns the edges whose Hidden flag is false, in insertion order.
func (d *Diagram) VisibleEdges() []*Edge {
	var out []*Edge
	for _, e := range d.edges {
		if !e.Hidden {
			out = append(out, e)
		}
	}
	return out
}

// Clone returns a deep copy. Hidden flags are copied too.
func (d *Diagram) Clone() *Diagram {
	c := New(len(d.nodes))
	for _, n := range d.nodes {
		cp := *n
		_ = c.AddNode(cp)
	}
	for _, e := range d.edges {
		ce, _ := c.AddEdge(e.Source, e.Target)
		ce.Hidden = e.Hidden
	}
	return c
}

// Validate checks the tree invariants described in the package
// documentation. An empty diagram is valid.
//
// Runs in O(N+E).
func (d *Diagram) Validate() error {
	if len(d.nodes) == 0 {
		return nil
	}
	if d.root == "" {
		return ErrNoRoot
	}
	if len(d.edges) != len(d.nodes)-1 {
		return fmt.Errorf("%w: %d nodes but %d edges", ErrDanglingNode, len(d.nodes), len(d.edges))
	}
	for _, n := range d.nodes {
		if n.ID != d.root {
			if _, ok := d.parent[n.ID]; !ok {
				return fmt.Errorf("%w: %s", ErrDanglingNode, n.ID)
			}
		}
	}
	reached, _ := d.Descendants(d.root)
	if len(reached) != len(d.nodes)-1 {
		return fmt.Errorf("%w: %d of %d nodes reachable", ErrDanglingNode, len(reached)+1, len(d.nodes))
	}
	for _, e := range d.edges {
		src := d.nodes[d.index[e.Source]]
		dst := d.nodes[d.index[e.Target]]
		if e.Hidden != dst.Hidden {
			return fmt.Errorf("%w: edge %s hidden=%t, target hidden=%t", ErrHiddenMismatch, e.ID, e.Hidden, dst.Hidden)
		}
		if src.Hidden && !dst.Hidden {
			return fmt.Errorf("%w: %s is visible under hidden %s", ErrHiddenMismatch, dst.ID, src.ID)
		}
	}
	return nil
}

// MustValidate panics if Validate fails. The layout generator calls it on
// every diagram it builds: a violation there is a bug, not an input error.
func (d *Diagram) MustValidate() {
	if err := d.Validate(); err != nil {
		panic(fmt.Sprintf("diagram: invariant violated: %v", err))
	}
}

// NodeIDs extracts the ID from each node in a slice.
func NodeIDs(nodes []*Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}

// EdgeIDs extracts the ID from each edge in a slice.
func EdgeIDs(edges []*Edge) []string {
	ids := make([]string, len(edges))
	for i, e := range edges {
		ids[i] = e.ID
	}
	return ids
}
