package diagram_test

import (
	"fmt"

	"github.com/matzehuels/topicmap/pkg/diagram"
)

func ExampleDiagram() {
	d := diagram.New(3)
	_ = d.AddNode(diagram.Node{ID: "root", Kind: diagram.KindRoot, Label: "Caching"})
	_ = d.AddNode(diagram.Node{ID: "t0", Kind: diagram.KindTopic, Label: "Why"})
	_ = d.AddNode(diagram.Node{ID: "t0-k0", Kind: diagram.KindKeyPoint, Label: "Latency"})
	_, _ = d.AddEdge("root", "t0")
	e, _ := d.AddEdge("t0", "t0-k0")

	fmt.Println("Nodes:", d.NodeCount())
	fmt.Println("Edges:", d.EdgeCount())
	fmt.Println("Edge ID:", e.ID)
	fmt.Println("Children of t0:", d.Children("t0"))
	// Output:
	// Nodes: 3
	// Edges: 2
	// Edge ID: e:t0->t0-k0
	// Children of t0: [t0-k0]
}
