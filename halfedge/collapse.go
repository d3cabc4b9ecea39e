package halfedge

import "meshsimplify/math"

// CollapseEdge collapses the directed edge e01 (from v0 = e01.Flip.Vertex
// to v1 = e01.Vertex), replacing both endpoints with a freshly inserted
// vertex of the given id and position. newID must not already be resident
// in the mesh.
//
// The walk that plans each endpoint's fan rebuild (planFan) is a pure
// function of the mesh's current state; only once both fans have been
// planned successfully does CollapseEdge start mutating the mesh, so a
// MissingEdge failure during planning leaves the mesh untouched.
func (m *Mesh) CollapseEdge(e01 *HalfEdge, newID uint64, newPos math.Vec3) (*Vertex, error) {
	v0 := e01.Flip.Vertex
	v1 := e01.Vertex

	taSpokeB := e01.Next       // v1 -> w1
	tbSpokeB := e01.Flip.Next  // v0 -> w0

	fan0Start := taSpokeB.Next.Flip // v0 -> w1
	fan0End := tbSpokeB             // v0 -> w0
	fan1Start := tbSpokeB.Next.Flip // v1 -> w0
	fan1End := taSpokeB             // v1 -> w1

	plan0, err := m.planFan(v0, fan0Start, fan0End)
	if err != nil {
		return nil, err
	}
	plan1, err := m.planFan(v1, fan1Start, fan1End)
	if err != nil {
		return nil, err
	}

	taEdges := [3]*HalfEdge{e01, e01.Next, e01.Next.Next}
	tbEdges := [3]*HalfEdge{e01.Flip, e01.Flip.Next, e01.Flip.Next.Next}
	taFace, tbFace := e01.Face, e01.Flip.Face

	vNew := &Vertex{ID: newID, Position: newPos}

	if err := m.applyFan(vNew, plan0); err != nil {
		return nil, err
	}
	if err := m.applyFan(vNew, plan1); err != nil {
		return nil, err
	}

	m.deleteFace(taFace)
	m.deleteFace(tbFace)
	for _, e := range taEdges {
		m.deleteHalfEdge(e)
	}
	for _, e := range tbEdges {
		m.deleteHalfEdge(e)
	}

	delete(m.vertices, v0.ID)
	delete(m.vertices, v1.ID)
	m.vertices[vNew.ID] = vNew

	return vNew, nil
}

// fanTriangle is one triangle that used to fan around a collapsing
// endpoint, captured along with its three half-edges and face so the
// apply phase can delete exactly what the plan phase observed.
type fanTriangle struct {
	vi, vj       *Vertex
	e0i, eij, ej0 *HalfEdge
	face         *Face
}

// planFan walks the one-ring of center from startSpoke (inclusive) to
// endSpoke (exclusive), recording every triangle that must be rebuilt
// around the new vertex. It reads the mesh but does not mutate it.
func (m *Mesh) planFan(center *Vertex, startSpoke, endSpoke *HalfEdge) ([]fanTriangle, error) {
	var plan []fanTriangle
	edge0i := startSpoke
	for edge0i != endSpoke {
		if edge0i == nil {
			return nil, ErrMissingEdge
		}
		edgeij := edge0i.Next
		edgej0 := edgeij.Next
		if edgej0 == nil || edgej0.Flip == nil {
			return nil, ErrMissingEdge
		}
		plan = append(plan, fanTriangle{
			vi: edge0i.Vertex, vj: edgeij.Vertex,
			e0i: edge0i, eij: edgeij, ej0: edgej0,
			face: edge0i.Face,
		})
		edge0i = edgej0.Flip
	}
	return plan, nil
}

// applyFan deletes the old triangles recorded by planFan and rebuilds each
// with vNew as the shared vertex.
func (m *Mesh) applyFan(vNew *Vertex, plan []fanTriangle) error {
	for _, t := range plan {
		m.deleteFace(t.face)
		m.deleteHalfEdge(t.e0i)
		m.deleteHalfEdge(t.eij)
		m.deleteHalfEdge(t.ej0)
		if _, err := m.createTriangle(vNew, t.vi, t.vj); err != nil {
			return err
		}
	}
	return nil
}

func (m *Mesh) deleteHalfEdge(e *HalfEdge) {
	if e == nil {
		return
	}
	delete(m.edges, e.key())
}

func (m *Mesh) deleteFace(f *Face) {
	if f == nil {
		return
	}
	delete(m.faces, f.key())
}

// WillDegenerate reports whether collapsing e01 would violate the link
// condition: the one-rings of its two endpoints must not share any vertex
// other than the two wing vertices (the apex of each triangle incident to
// e01). Accepting such a collapse would fuse two previously distinct
// triangles and break manifoldness.
func (m *Mesh) WillDegenerate(e01 *HalfEdge) bool {
	v0 := e01.Flip.Vertex
	v1 := e01.Vertex
	w1 := e01.Next.Vertex
	w0 := e01.Flip.Next.Vertex

	excluded0 := map[uint64]bool{v1.ID: true, w0.ID: true, w1.ID: true}
	n0 := make(map[uint64]bool)
	for _, u := range m.OneRingNeighbors(v0) {
		if !excluded0[u.ID] {
			n0[u.ID] = true
		}
	}

	excluded1 := map[uint64]bool{v0.ID: true, w0.ID: true, w1.ID: true}
	for _, u := range m.OneRingNeighbors(v1) {
		if excluded1[u.ID] {
			continue
		}
		if n0[u.ID] {
			return true
		}
	}
	return false
}
