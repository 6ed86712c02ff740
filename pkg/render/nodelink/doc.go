// Package nodelink exports topic map layouts to Graphviz.
//
// # Overview
//
// [ToDOT] writes the visible part of a layout as Graphviz DOT source. Node
// positions are pinned (pos="x,y!") so Graphviz draws the radial layout as
// computed instead of running its own placement; [RenderSVG] renders that
// DOT in-process with the neato engine.
//
// # Usage
//
//	dot := nodelink.ToDOT(l, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Styling
//
// Nodes are styled per kind (root, topic, subtopic, key point). Collapsed
// nodes get a double outline. Long labels are wrapped to the node footprint.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
