package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/matzehuels/topicmap/pkg/hierarchy"
	"github.com/matzehuels/topicmap/pkg/httputil"
	"github.com/matzehuels/topicmap/pkg/observability"
)

// Decode reads a hierarchy in the given format (json, yaml or toml).
func Decode(ctx context.Context, r io.Reader, format string) (*hierarchy.Node, error) {
	hooks := observability.Pipeline()
	hooks.OnDecodeStart(ctx, format)
	start := time.Now()

	h, err := hierarchy.Decode(r, format)

	nodes := 0
	if err == nil {
		nodes = hierarchy.Count(h).Nodes()
	}
	hooks.OnDecodeComplete(ctx, format, nodes, time.Since(start), err)
	return h, err
}

// DecodeFile reads a hierarchy file, choosing the format by extension.
func DecodeFile(ctx context.Context, path string) (*hierarchy.Node, error) {
	format := hierarchy.FormatFromPath(path)
	hooks := observability.Pipeline()
	hooks.OnDecodeStart(ctx, format)
	start := time.Now()

	h, err := hierarchy.ReadFile(path)

	nodes := 0
	if err == nil {
		nodes = hierarchy.Count(h).Nodes()
	}
	hooks.OnDecodeComplete(ctx, format, nodes, time.Since(start), err)
	return h, err
}

// DecodeSource reads a hierarchy from a local path or an http(s) URL.
// For URLs the format is taken from the extension of the URL path.
func DecodeSource(ctx context.Context, src string) (*hierarchy.Node, error) {
	if !httputil.IsURL(src) {
		return DecodeFile(ctx, src)
	}
	data, err := httputil.NewClient().Get(ctx, src)
	if err != nil {
		return nil, err
	}
	u, _ := url.Parse(src)
	h, err := Decode(ctx, bytes.NewReader(data), hierarchy.FormatFromPath(u.Path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src, err)
	}
	return h, nil
}
