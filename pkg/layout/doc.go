// Package layout places a summary hierarchy on a radial diagram.
//
// # Algorithm
//
// [Generate] is a pure function from a [hierarchy.Node] to a
// [diagram.Diagram]. Placement is angular and fully determined by the
// hierarchy and [Options]:
//
//  1. The root sits at the origin.
//  2. Topic i of T sits on a circle of radius TopicRadius at angle
//     θᵢ = i·2π/T.
//  3. A topic's key points sit on a circle of radius KeyPointRadius around
//     the topic, spread over KeyPointArc centered on θᵢ.
//  4. A topic's subtopics sit further out (SubtopicRadius) on a narrower
//     arc (SubtopicArc), also centered on θᵢ.
//  5. A subtopic's key points sit on a circle of radius SubKeyPointRadius
//     around the subtopic, spread over SubKeyPointArc centered on the
//     subtopic's own angle.
//
// Arc subdivision places a single child exactly on the arc's center angle
// and N > 1 children at N−1 equal steps from one arc endpoint to the other.
//
// # Quality
//
// The radii and arcs are configuration, not derived from content.
// [DefaultOptions] was tuned so that for up to 7 topics × 5 key points ×
// 3 subtopics × 3 sub-key-points no two node footprints of
// NodeWidth×NodeHeight overlap. [Overlaps] checks this for any diagram.
//
// # IDs
//
// Node IDs are positional paths: "root", "t0", "t0-k2", "t0-s1",
// "t0-s1-k0". Edge IDs come from [diagram.EdgeID]. Generating twice from
// the same hierarchy yields identical IDs, positions and edges.
package layout
