// Package graph provides the serialization format for topic map layouts.
//
// This package defines the canonical wire format for a positioned diagram,
// used for JSON files, API responses, caching, and document storage.
//
// # Architecture
//
// The package sits at the serialization boundary between the in-memory
// diagram and external formats:
//
//   - [Layout]: Serialization type (this package)
//   - pkg/diagram.Diagram: Internal tree with adjacency index
//
// Use [FromDiagram] and [ToDiagram] to convert between them.
//
// # Layout Format
//
// A layout lists every node with its position and visibility, every edge,
// and the collapsed set that produced the Hidden flags:
//
//	{
//	  "title": "Caching",
//	  "width": 2380, "height": 516,
//	  "nodes": [{"id": "root", "kind": "root", "label": "Caching", "x": 0, "y": 0}, ...],
//	  "edges": [{"id": "e:root->t0", "source": "root", "target": "t0"}, ...],
//	  "collapsed": ["t1"]
//	}
//
// Node and edge order is the diagram's insertion order, so serializing the
// same diagram twice yields identical bytes.
//
// Common operations:
//
//	l := graph.FromDiagram(d, opts, eng.Collapsed())
//	data, _ := graph.MarshalLayout(l)
//	graph.WriteLayoutFile(l, "layout.json")
//	d, _ := graph.ToDiagram(l)
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
