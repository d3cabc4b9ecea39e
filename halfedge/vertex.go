package halfedge

import "meshsimplify/math"

// Vertex is a positioned point with a stable identity. Ids are never reused
// within a mesh's lifetime, even across CollapseEdge calls.
type Vertex struct {
	ID       uint64
	Position math.Vec3

	// Edge is some half-edge whose head is this vertex, kept up to date so
	// traversal can always start from the vertex. Nil only for a vertex
	// that has just been removed from the mesh's one-ring entirely.
	Edge *HalfEdge
}
