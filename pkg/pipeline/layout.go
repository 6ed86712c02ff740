package pipeline

import (
	"github.com/matzehuels/topicmap/pkg/errors"
	"github.com/matzehuels/topicmap/pkg/graph"
	"github.com/matzehuels/topicmap/pkg/hierarchy"
	"github.com/matzehuels/topicmap/pkg/layout"
	"github.com/matzehuels/topicmap/pkg/visibility"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout places h on a radial diagram and serializes it with
// nothing collapsed. The result is what the layout cache stores.
func GenerateLayout(h *hierarchy.Node, opts Options) (graph.Layout, error) {
	d, err := layout.Generate(h, opts.Layout)
	if err != nil {
		return graph.Layout{}, err
	}
	return graph.FromDiagram(d, opts.Layout, nil), nil
}

// =============================================================================
// Visibility
// =============================================================================

// ApplyCollapsed rebuilds the diagram from l, replays collapsed onto it and
// returns the resulting layout together with the engine that owns the
// diagram. An invalid ID in collapsed fails with NODE_NOT_FOUND or
// NOT_COLLAPSIBLE.
func ApplyCollapsed(l graph.Layout, collapsed []string, opts Options) (graph.Layout, *visibility.Engine, error) {
	d, err := graph.ToDiagram(l)
	if err != nil {
		return graph.Layout{}, nil, errors.Wrap(errors.ErrCodeInternal, err, "rebuild diagram")
	}
	eng := visibility.New(d, visibility.WithLogger(opts.Logger))
	if err := eng.Restore(collapsed); err != nil {
		return graph.Layout{}, nil, err
	}
	return graph.FromDiagram(d, opts.Layout, eng.Collapsed()), eng, nil
}
