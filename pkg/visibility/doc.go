// Package visibility tracks which subtrees of a radial diagram are collapsed.
//
// An [Engine] owns one [diagram.Diagram] and is the only code that mutates
// its Hidden flags. The collapsed set records which topics and subtopics the
// user folded; the Hidden flags are derived from it:
//
//	a node is hidden  ⇔  some proper ancestor is collapsed
//	an edge is hidden ⇔  its target is hidden
//
// # Toggling
//
// [Engine.Toggle] flips one node between collapsed and expanded. Collapsing
// hides every descendant. Expanding reveals descendants top-down but stops at
// any descendant that is itself still collapsed, so nested folds survive a
// collapse/expand of an ancestor:
//
//	eng := visibility.New(d)
//	eng.Toggle("t0-s0") // fold the subtopic
//	eng.Toggle("t0")    // fold the topic: everything below t0 hidden
//	eng.Toggle("t0")    // unfold: t0's children return, t0-s0 stays folded
//
// Expanding a node that is itself hidden only clears its flag; its subtree
// appears once the collapsed ancestor is expanded.
//
// Only topics and subtopics are collapsible. Toggling the root or a key point
// fails with errors.ErrCodeNotCollapsible and unknown IDs fail with
// errors.ErrCodeNodeNotFound; neither changes any state.
//
// # Concurrency
//
// An Engine is not safe for concurrent use. Callers that serve several
// clients build one Engine per request (see [Engine.Restore]) or serialize
// access themselves.
package visibility
