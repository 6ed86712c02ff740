package hierarchy

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/topicmap/pkg/errors"
)

const scenarioJSON = `{
  "title": "Summary",
  "topics": [
    {"title": "A", "keyPoints": ["a1", "a2", "a3"],
     "subtopics": [{"title": "A.1", "keyPoints": ["a1.1", "a1.2"]}]},
    {"title": "B", "keyPoints": ["b1"]}
  ]
}`

const scenarioYAML = `
title: Summary
topics:
  - title: A
    keyPoints: [a1, a2, a3]
    subtopics:
      - title: A.1
        keyPoints: [a1.1, a1.2]
  - title: B
    keyPoints: [b1]
`

const scenarioTOML = `
title = "Summary"

[[topics]]
title = "A"
keyPoints = ["a1", "a2", "a3"]

[[topics.subtopics]]
title = "A.1"
keyPoints = ["a1.1", "a1.2"]

[[topics]]
title = "B"
keyPoints = ["b1"]
`

func TestDecodeFormats(t *testing.T) {
	tests := []struct {
		format string
		input  string
	}{
		{FormatJSON, scenarioJSON},
		{FormatYAML, scenarioYAML},
		{FormatTOML, scenarioTOML},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			h, err := Decode(strings.NewReader(tt.input), tt.format)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if h.Title != "Summary" {
				t.Errorf("title = %q, want Summary", h.Title)
			}
			got := Count(h)
			want := Stats{Topics: 2, KeyPoints: 4, Subtopics: 1, SubKeyPoints: 2}
			if got != want {
				t.Errorf("Count() = %+v, want %+v", got, want)
			}
			if h.Topics()[0].Subtopics[0].KeyPoints[1] != "a1.2" {
				t.Errorf("subtopic key points out of order: %v", h.Topics()[0].Subtopics[0].KeyPoints)
			}
			if h.Topics()[1].Subtopics != nil {
				t.Errorf("topic B should have no subtopics")
			}
		})
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"malformed", `{"title": `, "decode json"},
		{"missing root title", `{"topics": []}`, "root is missing a title"},
		{"missing topic title", `{"title": "r", "topics": [{"keyPoints": []}]}`, "topic 0 is missing a title"},
		{"key points not array", `{"title": "r", "topics": [{"title": "t", "keyPoints": "oops"}]}`, "decode json"},
		{"both aliases", `{"title": "r", "topics": [{"title": "a"}], "subtopics": [{"title": "b"}]}`, "both topics and subtopics"},
		{"null topic", `{"title": "r", "topics": [null]}`, "topic 0 is null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			if err == nil {
				t.Fatalf("ReadJSON() = nil error, want %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ReadJSON() = %v, want error containing %q", err, tt.wantErr)
			}
			if !errors.Is(err, errors.ErrCodeInvalidHierarchy) {
				t.Errorf("code = %q, want %q", errors.GetCode(err), errors.ErrCodeInvalidHierarchy)
			}
		})
	}
}

func TestReadYAMLKeyPointsNotArray(t *testing.T) {
	_, err := ReadYAML(strings.NewReader("title: r\ntopics:\n  - title: t\n    keyPoints: oops\n"))
	if !errors.Is(err, errors.ErrCodeInvalidHierarchy) {
		t.Fatalf("ReadYAML() = %v, want INVALID_HIERARCHY", err)
	}
}

func TestMissingKeyPointsIsEmpty(t *testing.T) {
	h, err := ReadJSON(strings.NewReader(`{"title": "r", "topics": [{"title": "t"}]}`))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if kp := h.Topics()[0].KeyPoints; kp == nil || len(kp) != 0 {
		t.Errorf("KeyPoints = %#v, want empty non-nil slice", kp)
	}
}

func TestDecodeUnknownFormat(t *testing.T) {
	_, err := Decode(strings.NewReader(scenarioJSON), "xml")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Decode(xml) = %v, want INVALID_FORMAT", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]string{
		"summary.json": FormatJSON,
		"summary.yaml": FormatYAML,
		"summary.YML":  FormatYAML,
		"summary.toml": FormatTOML,
		"summary":      FormatJSON,
	}
	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "summary.yaml")
	if err := os.WriteFile(path, []byte(scenarioYAML), 0644); err != nil {
		t.Fatal(err)
	}

	h, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if Count(h).Nodes() != 10 {
		t.Errorf("nodes = %d, want 10", Count(h).Nodes())
	}

	_, err = ReadFile(filepath.Join(dir, "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ReadFile(missing) = %v, want FILE_NOT_FOUND", err)
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	var sb strings.Builder
	if err := WriteJSON(&sb, scenario()); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	h, err := ReadJSON(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if Count(h) != Count(scenario()) {
		t.Errorf("round trip changed shape: %+v", Count(h))
	}
}
