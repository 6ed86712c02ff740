package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/topicmap/pkg/graph"
)

// scenarioJSON has two topics: A with 3 key points and subtopic A.1
// (2 key points), B with one key point. 10 nodes, 9 edges.
const scenarioJSON = `{
  "title": "Summary",
  "keyPoints": [],
  "subtopics": [
    {"title": "A", "keyPoints": ["a1", "a2", "a3"],
     "subtopics": [{"title": "A.1", "keyPoints": ["a1.1", "a1.2"]}]},
    {"title": "B", "keyPoints": ["b1"]}
  ]
}`

// testEnv points config, cache and store at temp directories and returns
// a directory holding scenario.json.
func testEnv(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	dir := t.TempDir()
	cfg := "[store]\ndir = \"" + filepath.ToSlash(filepath.Join(dir, "store")) + "\"\n"
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "scenario.json"), []byte(scenarioJSON), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func run(t *testing.T, dir string, args ...string) error {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(append([]string{"--config", filepath.Join(dir, "config.toml")}, args...))
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestParseList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"t0", []string{"t0"}},
		{"t0, t1-s0 ,,", []string{"t0", "t1-s0"}},
	}
	for _, tt := range tests {
		if got := parseList(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseList(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if got := parseFormats(""); !reflect.DeepEqual(got, []string{"svg"}) {
		t.Errorf("parseFormats(\"\") = %v", got)
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "notes/summary.json", "notes/summary"},
		{"", "notes/summary.layout.json", "notes/summary"},
		{"out.svg", "summary.json", "out"},
		{"out.dot", "summary.json", "out"},
		{"out", "summary.json", "out"},
		{"out.txt", "summary.json", "out.txt"},
		{"", "https://example.com/notes/summary.yaml?v=2", "summary"},
		{"", "https://example.com/", appName},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestDefaultCacheDir(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)
	dir, err := defaultCacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(xdg, appName); dir != want {
		t.Errorf("defaultCacheDir() = %q, want %q", dir, want)
	}

	t.Setenv("XDG_CACHE_HOME", "")
	dir, err = defaultCacheDir()
	if err != nil {
		t.Fatal(err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("defaultCacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirFromConfig(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.cfg.Cache.Dir = "/var/cache/topicmap"
	dir, err := c.cacheDir()
	if err != nil || dir != "/var/cache/topicmap" {
		t.Errorf("cacheDir() = %q, %v", dir, err)
	}
}

func TestLayoutCommand(t *testing.T) {
	dir := testEnv(t)
	input := filepath.Join(dir, "scenario.json")

	if err := run(t, dir, "layout", input, "--collapsed", "t0", "--check"); err != nil {
		t.Fatalf("layout: %v", err)
	}

	l, err := graph.ReadLayoutFile(filepath.Join(dir, "scenario.layout.json"))
	if err != nil {
		t.Fatal(err)
	}
	if len(l.Nodes) != 10 || len(l.VisibleNodes()) != 4 {
		t.Errorf("layout has %d nodes, %d visible; want 10, 4", len(l.Nodes), len(l.VisibleNodes()))
	}
	if !reflect.DeepEqual(l.Collapsed, []string{"t0"}) {
		t.Errorf("collapsed = %v", l.Collapsed)
	}
}

func TestLayoutCommandErrors(t *testing.T) {
	dir := testEnv(t)
	input := filepath.Join(dir, "scenario.json")

	if err := run(t, dir, "layout", input, "--collapsed", "t0-k0"); err == nil {
		t.Error("collapsing a key point should fail")
	}
	if err := run(t, dir, "layout", filepath.Join(dir, "missing.json")); err == nil {
		t.Error("missing input should fail")
	}
	// Shrinking every radius to 1 packs all nodes onto the root.
	err := run(t, dir, "layout", input, "--check",
		"--topic-radius", "1", "--keypoint-radius", "1", "--subtopic-radius", "1", "--sub-keypoint-radius", "1")
	if err == nil || !strings.Contains(err.Error(), "overlapping") {
		t.Errorf("--check err = %v, want overlap failure", err)
	}
}

func TestRenderCommand(t *testing.T) {
	dir := testEnv(t)
	input := filepath.Join(dir, "scenario.json")
	base := filepath.Join(dir, "out")

	if err := run(t, dir, "render", input, "-f", "dot,json,svg", "-o", base, "--collapsed", "t0"); err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, ext := range []string{"dot", "json", "svg"} {
		data, err := os.ReadFile(base + "." + ext)
		if err != nil {
			t.Fatalf("read %s: %v", ext, err)
		}
		if strings.Contains(string(data), "t0-k0") {
			t.Errorf("%s output contains hidden node t0-k0", ext)
		}
	}
}

func TestRenderFromLayout(t *testing.T) {
	dir := testEnv(t)
	input := filepath.Join(dir, "scenario.json")
	if err := run(t, dir, "layout", input, "--collapsed", "t1"); err != nil {
		t.Fatal(err)
	}

	layoutPath := filepath.Join(dir, "scenario.layout.json")
	out := filepath.Join(dir, "view.dot")
	if err := run(t, dir, "render", layoutPath, "-f", "dot", "-o", out); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	dot := string(data)
	if strings.Contains(dot, `"t1-k0"`) {
		t.Error("stored collapsed set was not applied")
	}
	if !strings.Contains(dot, `"t0-k0"`) {
		t.Error("visible node missing from output")
	}
}

func TestStoreCommands(t *testing.T) {
	dir := testEnv(t)
	if err := run(t, dir, "store", "add", filepath.Join(dir, "scenario.json")); err != nil {
		t.Fatalf("store add: %v", err)
	}
	entries, err := os.ReadDir(filepath.Join(dir, "store"))
	if err != nil || len(entries) != 1 {
		t.Fatalf("store dir has %d entries, err %v", len(entries), err)
	}
	id := strings.TrimSuffix(entries[0].Name(), ".json")

	if err := run(t, dir, "store", "list"); err != nil {
		t.Errorf("store list: %v", err)
	}
	if err := run(t, dir, "store", "show", id); err != nil {
		t.Errorf("store show: %v", err)
	}
	if err := run(t, dir, "store", "rm", id); err != nil {
		t.Errorf("store rm: %v", err)
	}
	if err := run(t, dir, "store", "show", id); err == nil {
		t.Error("show after rm should fail")
	}
}

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	if err := run(t, filepath.Dir(path), "config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	// The written file must load.
	if err := run(t, filepath.Dir(path), "cache", "path"); err != nil {
		t.Errorf("loading written config: %v", err)
	}
}

func TestInvalidConfig(t *testing.T) {
	dir := testEnv(t)
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[store]\nbackend = \"sqlite\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := run(t, dir, "layout", filepath.Join(dir, "scenario.json")); err == nil {
		t.Error("invalid config should fail")
	}
}
