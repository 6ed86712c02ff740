// Package sink renders topic map layouts without external tools.
//
// [RenderSVG] produces a self-contained SVG of the visible nodes and edges,
// styled per node kind, with a "+" badge on collapsed nodes. [RenderJSON]
// produces the visible subset as JSON for web front ends that draw the
// diagram themselves.
package sink
