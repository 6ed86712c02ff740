// Package pkg provides the core libraries for Topicmap radial mind maps.
//
// # Overview
//
// Topicmap turns a summary hierarchy (a root title, topics, subtopics and
// key points) into a radial diagram whose topic and subtopic branches can be
// collapsed and expanded. The pkg directory is organized into four areas:
//
//  1. Domain logic: [hierarchy], [diagram], [layout], [visibility]
//  2. Serialization and output: [graph], [render]
//  3. Infrastructure: [cache], [store], [config], [httputil], [observability]
//  4. Orchestration: [pipeline]
//
// # Architecture
//
// The typical data flow:
//
//	hierarchy file or URL (JSON, YAML, TOML)
//	         ↓
//	    [hierarchy] package (decode + validate)
//	         ↓
//	    [layout] package (radial placement into a [diagram.Diagram])
//	         ↓
//	    [visibility] package (collapse/expand, hidden flags)
//	         ↓
//	    [graph] package (layout.json)
//	         ↓
//	    [render] package (SVG, DOT, JSON, PNG, PDF)
//
// # Quick Start
//
// Lay out a hierarchy, collapse one topic and render the visible part:
//
//	h, _ := hierarchy.ReadFile("summary.json")
//	d, _ := layout.Generate(h, layout.DefaultOptions())
//
//	eng := visibility.New(d)
//	eng.Collapse("t0")
//
//	l := graph.FromDiagram(eng.Diagram(), layout.DefaultOptions(), eng.Collapsed())
//	svg := sink.RenderSVG(l)
//
// The [pipeline] package wraps these steps with caching and hooks:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	result, _ := runner.Execute(ctx, h, pipeline.Options{
//	    Formats:   []string{"svg", "json"},
//	    Collapsed: []string{"t0"},
//	})
//
// # Node IDs
//
// IDs are derived from position in the hierarchy and are stable across runs:
// "root", topics "t0", "t1", key points "t0-k0", subtopics "t0-s0" and their
// key points "t0-s0-k0". Edges are "e:source->target".
//
// # Command Line and Server
//
// The topicmap binary (cmd/topicmap) exposes these packages through the
// layout, render, explore, store and serve commands; internal/server is the
// HTTP API used by serve.
package pkg
