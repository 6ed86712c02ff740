package hierarchy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/topicmap/pkg/errors"
)

// Supported input formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// rawNode mirrors Node with pointer fields so that decoders can tell a
// missing title from an empty one, and accepts "topics" as an alias.
type rawNode struct {
	Title     *string    `json:"title" yaml:"title" toml:"title"`
	KeyPoints []string   `json:"keyPoints" yaml:"keyPoints" toml:"keyPoints"`
	Subtopics []*rawNode `json:"subtopics" yaml:"subtopics" toml:"subtopics"`
	Topics    []*rawNode `json:"topics" yaml:"topics" toml:"topics"`
}

// ReadJSON decodes a JSON hierarchy from r and validates it.
//
// The input must be an object with a "title" string, an optional
// "keyPoints" string array and an optional "subtopics" (or "topics") array
// of nested objects:
//
//	{
//	  "title": "Caching",
//	  "topics": [
//	    {"title": "Why", "keyPoints": ["latency", "cost"]},
//	    {"title": "How", "keyPoints": [], "subtopics": [{"title": "TTL", "keyPoints": ["expiry"]}]}
//	  ]
//	}
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Node, error) {
	var raw rawNode
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidHierarchy, err, "decode json")
	}
	return build(&raw)
}

// ReadYAML decodes a YAML hierarchy from r and validates it.
// Field names match the JSON form (title, keyPoints, subtopics/topics).
func ReadYAML(r io.Reader) (*Node, error) {
	var raw rawNode
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidHierarchy, err, "decode yaml")
	}
	return build(&raw)
}

// ReadTOML decodes a TOML hierarchy from r and validates it.
// Topics are written as arrays of tables:
//
//	title = "Caching"
//
//	[[topics]]
//	title = "Why"
//	keyPoints = ["latency", "cost"]
//
//	[[topics.subtopics]]
//	title = "TTL"
//	keyPoints = ["expiry"]
func ReadTOML(r io.Reader) (*Node, error) {
	var raw rawNode
	if _, err := toml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidHierarchy, err, "decode toml")
	}
	return build(&raw)
}

// Decode reads a hierarchy in the given format.
func Decode(r io.Reader, format string) (*Node, error) {
	switch strings.ToLower(format) {
	case FormatJSON, "":
		return ReadJSON(r)
	case FormatYAML, "yml":
		return ReadYAML(r)
	case FormatTOML:
		return ReadTOML(r)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported hierarchy format %q (must be json, yaml or toml)", format)
	}
}

// Parse decodes a hierarchy held in memory.
func Parse(data []byte, format string) (*Node, error) {
	return Decode(bytes.NewReader(data), format)
}

// FormatFromPath infers the input format from a file extension.
// Unknown extensions fall back to JSON.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// ReadFile reads and validates the hierarchy stored at path.
func ReadFile(path string) (*Node, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h, err := Decode(f, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return h, nil
}

// WriteJSON encodes the hierarchy as indented JSON.
func WriteJSON(w io.Writer, root *Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(root)
}

func build(raw *rawNode) (*Node, error) {
	root, err := convert(raw, "root")
	if err != nil {
		return nil, err
	}
	if err := Validate(root); err != nil {
		return nil, err
	}
	return root, nil
}

func convert(raw *rawNode, where string) (*Node, error) {
	if raw == nil {
		return nil, errors.New(errors.ErrCodeInvalidHierarchy, "%s is null", where)
	}
	if raw.Title == nil {
		return nil, errors.New(errors.ErrCodeInvalidHierarchy, "%s is missing a title", where)
	}
	if len(raw.Subtopics) > 0 && len(raw.Topics) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidHierarchy, "%s sets both topics and subtopics", where)
	}
	children := raw.Subtopics
	if len(raw.Topics) > 0 {
		children = raw.Topics
	}

	n := &Node{Title: *raw.Title, KeyPoints: raw.KeyPoints}
	if n.KeyPoints == nil {
		n.KeyPoints = []string{}
	}
	for i, c := range children {
		label := fmt.Sprintf("topic %d", i)
		if where != "root" {
			label = fmt.Sprintf("%s subtopic %d", where, i)
		}
		child, err := convert(c, label)
		if err != nil {
			return nil, err
		}
		n.Subtopics = append(n.Subtopics, child)
	}
	return n, nil
}
