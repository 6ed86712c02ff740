package hierarchy

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/topicmap/pkg/errors"
)

// MaxDepth is the deepest level of [Node] the layout generator places:
// 0 = root, 1 = topic, 2 = subtopic. Key points hang one level below.
const MaxDepth = 2

// Node is a root, topic or subtopic of a summary hierarchy.
type Node struct {
	Title     string   `json:"title" yaml:"title" toml:"title" bson:"title"`
	KeyPoints []string `json:"keyPoints" yaml:"keyPoints" toml:"keyPoints" bson:"key_points"`
	Subtopics []*Node  `json:"subtopics,omitempty" yaml:"subtopics,omitempty" toml:"subtopics,omitempty" bson:"subtopics,omitempty"`
}

// Topics returns the root's topics. It is an alias for Subtopics that
// reads better at the top level.
func (n *Node) Topics() []*Node { return n.Subtopics }

// Stats summarizes the size of a hierarchy.
type Stats struct {
	Topics       int `json:"topics"`
	KeyPoints    int `json:"key_points"`     // key points directly under topics
	Subtopics    int `json:"subtopics"`      // subtopics across all topics
	SubKeyPoints int `json:"sub_key_points"` // key points under subtopics
}

// Nodes returns the number of diagram nodes the hierarchy produces:
// the root plus every topic, subtopic and key point.
func (s Stats) Nodes() int {
	return 1 + s.Topics + s.KeyPoints + s.Subtopics + s.SubKeyPoints
}

// Edges returns the number of diagram edges. A tree has one less edge than
// it has nodes.
func (s Stats) Edges() int { return s.Nodes() - 1 }

// Count computes [Stats] for a validated hierarchy.
func Count(root *Node) Stats {
	var s Stats
	if root == nil {
		return s
	}
	for _, t := range root.Subtopics {
		s.Topics++
		s.KeyPoints += len(t.KeyPoints)
		for _, st := range t.Subtopics {
			s.Subtopics++
			s.SubKeyPoints += len(st.KeyPoints)
		}
	}
	return s
}

// Validate checks that root is a hierarchy the layout generator can place.
// It returns the first problem found as an INVALID_HIERARCHY error whose
// message names the offending position (e.g. "topic 2 subtopic 0 title").
func Validate(root *Node) error {
	if root == nil {
		return errors.New(errors.ErrCodeInvalidHierarchy, "hierarchy is nil")
	}
	if err := errors.ValidateLabel("root title", root.Title); err != nil {
		return err
	}
	if len(root.KeyPoints) > 0 {
		return errors.New(errors.ErrCodeInvalidHierarchy,
			"root has %d key points; key points must belong to a topic", len(root.KeyPoints))
	}
	for i, t := range root.Subtopics {
		if err := validateNode(t, fmt.Sprintf("topic %d", i), 1); err != nil {
			return err
		}
	}
	return nil
}

func validateNode(n *Node, where string, depth int) error {
	if n == nil {
		return errors.New(errors.ErrCodeInvalidHierarchy, "%s is null", where)
	}
	if err := errors.ValidateLabel(where+" title", n.Title); err != nil {
		return err
	}
	for j, kp := range n.KeyPoints {
		if err := errors.ValidateLabel(fmt.Sprintf("%s key point %d", where, j), kp); err != nil {
			return err
		}
	}
	if len(n.Subtopics) > 0 && depth >= MaxDepth {
		return errors.New(errors.ErrCodeInvalidHierarchy,
			"%s has subtopics; nesting deeper than topic → subtopic is not supported", where)
	}
	for j, st := range n.Subtopics {
		if err := validateNode(st, fmt.Sprintf("%s subtopic %d", where, j), depth+1); err != nil {
			return err
		}
	}
	return nil
}

// Canonical returns a stable JSON encoding of the hierarchy, used for
// content hashing (cache keys, store deduplication).
func Canonical(root *Node) ([]byte, error) {
	return json.Marshal(root)
}
