// Package diagram provides the flat node-and-edge collection produced by the
// layout generator and mutated by the visibility engine.
//
// # Overview
//
// A [Diagram] is a tree stored as two insertion-ordered slices, nodes and
// edges, rather than as linked structs. Renderers consume the slices
// directly; traversal goes through an adjacency index (node ID → child
// edges, node ID → parent edge) that is built as edges are added, so
// subtree walks never rescan the edge slice.
//
// # Node Kinds
//
// Every node has a [Kind]:
//
//   - [KindRoot]: the single summary root, no incoming edge
//   - [KindTopic]: a first-level topic (collapsible)
//   - [KindSubtopic]: a nested subtopic (collapsible)
//   - [KindKeyPoint]: a leaf key point
//
// # Invariants
//
// [Diagram.Validate] checks what the rest of the system relies on:
// exactly one root, exactly one incoming edge for every other node, unique
// IDs, every node reachable from the root, and consistent hidden flags
// (an edge is hidden exactly when its target is hidden, and a hidden source
// implies a hidden target).
//
// # Mutation
//
// After construction the only mutable fields are [Node.Hidden] and
// [Edge.Hidden]. Positions, labels and structure are fixed for the lifetime
// of a diagram; a new hierarchy yields a new diagram.
package diagram
