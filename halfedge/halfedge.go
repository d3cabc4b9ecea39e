package halfedge

// HalfEdge is a directed edge. Each undirected edge of the mesh is
// represented by exactly two HalfEdges, one per direction, linked through
// Flip.
type HalfEdge struct {
	Vertex *Vertex // head of this directed edge
	Next   *HalfEdge
	Flip   *HalfEdge
	Face   *Face
}

// edgeKey identifies a directed half-edge by (tail id, head id).
type edgeKey struct {
	Tail uint64
	Head uint64
}

func (e *HalfEdge) tailID() uint64 {
	return e.Flip.Vertex.ID
}

func (e *HalfEdge) key() edgeKey {
	return edgeKey{Tail: e.tailID(), Head: e.Vertex.ID}
}
