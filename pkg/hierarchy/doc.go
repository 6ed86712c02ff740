// Package hierarchy defines the summary tree consumed by the layout engine.
//
// # Overview
//
// A hierarchy is the already-parsed output of summarization: a root title,
// a list of topics, each topic with ordered key points and optional
// subtopics, each subtopic with its own key points:
//
//	root
//	├── topic
//	│   ├── key point
//	│   └── subtopic
//	│       └── key point
//	└── topic
//
// The same [Node] type represents the root, topics and subtopics; the
// root's Subtopics are the topics. Key points are plain strings and become
// leaves of the diagram.
//
// # Decoding
//
// [ReadFile] picks a decoder from the file extension (.json, .yaml/.yml,
// .toml). Decoders accept "topics" as an alias for "subtopics" so that raw
// summarizer output can be fed in unchanged. Every decoder fails fast with
// an INVALID_HIERARCHY error on missing titles or non-array key points.
//
// # Validation
//
// [Validate] enforces the shape the layout generator supports: depth of at
// most root → topic → subtopic, non-empty titles and key points, and no key
// points directly on the root.
package hierarchy
