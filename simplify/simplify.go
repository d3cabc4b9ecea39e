package simplify

import (
	"fmt"

	"meshsimplify/halfedge"
	"meshsimplify/internal/applog"
	"meshsimplify/quadric"
)

var log = applog.New("simplify")

// Simplify reduces mesh's triangle count by the given rate using iterative
// quadric-error-guided edge contraction. rate == 0 is a contractual no-op;
// rate == 1 removes as many triangles as the link condition allows. Input
// must describe a closed, oriented, 2-manifold triangle mesh; violating
// that fails with an error wrapping halfedge.ErrNonManifoldInput or
// halfedge.ErrDegenerateTriangle.
func Simplify(mesh Mesh, rate float32) (Mesh, error) {
	if rate < 0 || rate > 1 {
		return Mesh{}, ErrInvalidRate
	}

	m, err := halfedge.Build(mesh.Positions, mesh.Indices, mesh.ModelTransform)
	if err != nil {
		return Mesh{}, fmt.Errorf("simplify: building half-edge mesh: %w", err)
	}

	initialFaces := m.FaceCount()

	if rate == 0 {
		return export(m), nil
	}

	quadrics := quadric.ComputeAll(m)
	target := float32(initialFaces) * (1 - rate)

	q := newContractionQueue()
	for _, e := range m.CanonicalEdges() {
		c := makeContraction(e, quadrics)
		q.push(c)
	}

	applied := 0
	for float32(m.FaceCount()) >= target && q.Len() > 0 {
		top := q.pop()
		if top.valid && !edgeDegenerates(m, top) {
			if err := apply(m, q, quadrics, top); err != nil {
				return Mesh{}, fmt.Errorf("simplify: %w", err)
			}
			applied++
		}
	}

	log.Printf("faces %d -> %d (target %.1f), %d collapses applied", initialFaces, m.FaceCount(), target, applied)

	return export(m), nil
}

// edgeDegenerates re-resolves a contraction's half-edge from its endpoint
// ids and checks the link condition. No half-edge pointer is kept in the
// queue entry, because CollapseEdge replaces half-edge objects even for rim
// edges whose endpoints survive. A contraction whose endpoints or edge no
// longer exist is reported as degenerate.
func edgeDegenerates(m *halfedge.Mesh, c *contraction) bool {
	v1, ok := m.Vertex(c.v1)
	if !ok {
		return true
	}
	he := findCanonicalHalfEdge(m, v1, c.v0)
	if he == nil {
		return true
	}
	return m.WillDegenerate(he)
}

// findCanonicalHalfEdge walks head's incident spokes (every half-edge whose
// own head is head) looking for the one whose tail is tailID, and returns
// that half-edge: the directed edge tailID -> head.
func findCanonicalHalfEdge(m *halfedge.Mesh, head *halfedge.Vertex, tailID uint64) *halfedge.HalfEdge {
	start := head.Edge
	if start == nil {
		return nil
	}
	cur := start
	for {
		if cur.Flip.Vertex.ID == tailID {
			return cur
		}
		cur = cur.Next.Flip
		if cur == nil || cur == start {
			return nil
		}
	}
}

func makeContraction(e *halfedge.HalfEdge, quadrics quadric.Table) *contraction {
	v0 := e.Flip.Vertex
	v1 := e.Vertex
	sum := quadric.Sum(quadrics[v0.ID], quadrics[v1.ID])
	pos, cost := quadric.Optimal(sum, v0.Position, v1.Position)
	return &contraction{
		key:      edgeKey{Tail: v0.ID, Head: v1.ID},
		v0:       v0.ID,
		v1:       v1.ID,
		position: pos,
		cost:     cost,
	}
}

// apply executes one edge collapse: it invalidates every canonical edge
// incident to either endpoint's old one-ring, performs the topological
// collapse, sums the new vertex's quadric, and reseeds every canonical
// edge reachable from the new vertex's 2-ring so costs reflect the updated
// quadrics.
func apply(m *halfedge.Mesh, q *contractionQueue, quadrics quadric.Table, c *contraction) error {
	v0, ok0 := m.Vertex(c.v0)
	v1, ok1 := m.Vertex(c.v1)
	if !ok0 || !ok1 {
		return halfedge.ErrMissingEdge
	}
	he := findCanonicalHalfEdge(m, v1, v0.ID)
	if he == nil {
		return halfedge.ErrMissingEdge
	}

	invalidateOneRing(m, q, v0)
	invalidateOneRing(m, q, v1)
	q.invalidate(canonicalKey(v0.ID, v1.ID))

	qSum := quadric.Sum(quadrics[v0.ID], quadrics[v1.ID])
	newID := m.AllocateVertexID()

	vNew, err := m.CollapseEdge(he, newID, c.position)
	if err != nil {
		return err
	}
	delete(quadrics, v0.ID)
	delete(quadrics, v1.ID)
	quadrics[vNew.ID] = qSum

	refreshTwoRing(m, q, quadrics, vNew)
	return nil
}

func canonicalKey(a, b uint64) edgeKey {
	if a < b {
		return edgeKey{Tail: b, Head: a}
	}
	return edgeKey{Tail: a, Head: b}
}

func invalidateOneRing(m *halfedge.Mesh, q *contractionQueue, v *halfedge.Vertex) {
	for _, nb := range m.OneRingNeighbors(v) {
		q.invalidate(canonicalKey(v.ID, nb.ID))
	}
}

// refreshTwoRing recomputes and reseeds every canonical edge incident to
// vNew or to one of vNew's immediate neighbors. This includes every edge
// whose summed quadric changed (those incident to vNew), plus the
// neighbor-to-neighbor edges around them.
func refreshTwoRing(m *halfedge.Mesh, q *contractionQueue, quadrics quadric.Table, vNew *halfedge.Vertex) {
	seen := make(map[edgeKey]bool)
	neighbors := m.OneRingNeighbors(vNew)
	for _, vj := range neighbors {
		seen[canonicalKey(vNew.ID, vj.ID)] = true
	}
	for _, vj := range neighbors {
		for _, vk := range m.OneRingNeighbors(vj) {
			key := canonicalKey(vj.ID, vk.ID)
			if seen[key] {
				continue
			}
			seen[key] = true
		}
	}

	for key := range seen {
		head, ok := m.Vertex(key.Head)
		if !ok {
			continue
		}
		he := findCanonicalHalfEdge(m, head, key.Tail)
		if he == nil {
			continue
		}
		// Reorient he so the half-edge points toward the lower-id endpoint,
		// matching the canonical edge convention used by the seed loop.
		if he.Vertex.ID > he.Flip.Vertex.ID {
			he = he.Flip
		}
		q.push(makeContraction(he, quadrics))
	}
}

func export(m *halfedge.Mesh) Mesh {
	positions, normals, indices := m.Export()
	return Mesh{
		Positions:      positions,
		Normals:        normals,
		Indices:        indices,
		ModelTransform: m.ModelTransform,
	}
}
