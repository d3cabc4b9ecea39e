// Package halfedge implements a manifold-oriented, edge-centric
// connectivity structure for triangle meshes: build it from an indexed
// triangle list, walk it, collapse a single edge at a time, and export it
// back to an indexed triangle list with freshly computed vertex normals.
package halfedge

import (
	"fmt"
	"sort"

	"meshsimplify/math"
)

// Mesh owns every Vertex, HalfEdge and Face it contains. Handles returned
// by its methods are non-owning pointers that stay valid until the entity
// they reference is explicitly removed by CollapseEdge.
type Mesh struct {
	vertices map[uint64]*Vertex
	edges    map[edgeKey]*HalfEdge
	faces    map[faceKey]*Face

	nextVertexID uint64

	// ModelTransform passes through opaquely; the kernel never reads it.
	ModelTransform math.Mat4
}

func newMesh() *Mesh {
	return &Mesh{
		vertices: make(map[uint64]*Vertex),
		edges:    make(map[edgeKey]*HalfEdge),
		faces:    make(map[faceKey]*Face),
	}
}

// Build constructs a half-edge mesh from parallel position/index arrays.
// indices must have a length divisible by 3; each consecutive triple is a
// CCW triangle referencing positions by index.
func Build(positions []math.Vec3, indices []uint32, transform math.Mat4) (*Mesh, error) {
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("halfedge: index count %d not divisible by 3", len(indices))
	}

	m := newMesh()
	m.ModelTransform = transform

	for i, p := range positions {
		id := uint64(i)
		m.vertices[id] = &Vertex{ID: id, Position: p}
	}
	m.nextVertexID = uint64(len(positions))

	for i := 0; i < len(indices); i += 3 {
		a, err := m.vertexByID(uint64(indices[i]))
		if err != nil {
			return nil, err
		}
		b, err := m.vertexByID(uint64(indices[i+1]))
		if err != nil {
			return nil, err
		}
		c, err := m.vertexByID(uint64(indices[i+2]))
		if err != nil {
			return nil, err
		}
		if _, err := m.createTriangle(a, b, c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Mesh) vertexByID(id uint64) (*Vertex, error) {
	v, ok := m.vertices[id]
	if !ok {
		return nil, fmt.Errorf("halfedge: index %d out of range", id)
	}
	return v, nil
}

// AllocateVertexID returns the next fresh vertex id without reserving it in
// the mesh; the caller is responsible for inserting a Vertex with this id.
func (m *Mesh) AllocateVertexID() uint64 {
	id := m.nextVertexID
	m.nextVertexID++
	return id
}

// NextVertexID reports the id AllocateVertexID would hand out next, without
// consuming it. Used by callers to check the vertex-id-monotonicity
// property.
func (m *Mesh) NextVertexID() uint64 {
	return m.nextVertexID
}

func (m *Mesh) Vertex(id uint64) (*Vertex, bool) {
	v, ok := m.vertices[id]
	return v, ok
}

func (m *Mesh) VertexCount() int { return len(m.vertices) }
func (m *Mesh) FaceCount() int   { return len(m.faces) }

// Vertices returns all live vertices, sorted by id for deterministic
// iteration (the source relied on std::map's ordering; a slice sorted by id
// here reproduces that ordering explicitly).
func (m *Mesh) Vertices() []*Vertex {
	out := make([]*Vertex, 0, len(m.vertices))
	for _, v := range m.vertices {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Faces returns all live faces in no particular order.
func (m *Mesh) Faces() []*Face {
	out := make([]*Face, 0, len(m.faces))
	for _, f := range m.faces {
		out = append(out, f)
	}
	return out
}

// CanonicalEdges returns one HalfEdge per undirected edge: the directed
// representative pointing toward the lower-id endpoint.
func (m *Mesh) CanonicalEdges() []*HalfEdge {
	out := make([]*HalfEdge, 0, len(m.edges)/2)
	for _, e := range m.edges {
		if e.Vertex.ID < e.Flip.Vertex.ID {
			out = append(out, e)
		}
	}
	return out
}

// getOrCreateHalfEdge returns the directed half-edge tail->head, creating
// it (and linking it to its flip, if the flip already exists) on first
// sight. Returns ErrNonManifoldInput if the directed half-edge already
// belongs to a face (i.e. this exact directed edge would be created a
// second time).
func (m *Mesh) getOrCreateHalfEdge(tail, head *Vertex) (*HalfEdge, error) {
	key := edgeKey{Tail: tail.ID, Head: head.ID}
	if existing, ok := m.edges[key]; ok {
		if existing.Face != nil {
			return nil, ErrNonManifoldInput
		}
		return existing, nil
	}

	he := &HalfEdge{Vertex: head}
	m.edges[key] = he

	flipKey := edgeKey{Tail: head.ID, Head: tail.ID}
	if flip, ok := m.edges[flipKey]; ok {
		he.Flip = flip
		flip.Flip = he
	}
	return he, nil
}

// createTriangle allocates (or looks up) the three half-edges a->b, b->c,
// c->a, links the triangle cycle, builds the Face, and refreshes each
// vertex's incident-edge handle.
func (m *Mesh) createTriangle(a, b, c *Vertex) (*Face, error) {
	eAB, err := m.getOrCreateHalfEdge(a, b)
	if err != nil {
		return nil, err
	}
	eBC, err := m.getOrCreateHalfEdge(b, c)
	if err != nil {
		return nil, err
	}
	eCA, err := m.getOrCreateHalfEdge(c, a)
	if err != nil {
		return nil, err
	}

	face, err := newFace(a, b, c)
	if err != nil {
		return nil, err
	}

	eAB.Next, eBC.Next, eCA.Next = eBC, eCA, eAB
	eAB.Face, eBC.Face, eCA.Face = face, face, face

	a.Edge, b.Edge, c.Edge = eCA, eAB, eBC

	m.faces[face.key()] = face
	return face, nil
}

// OneRingNeighbors returns one vertex per face incident to center, walked
// in rotational order starting from center.Edge.
func (m *Mesh) OneRingNeighbors(center *Vertex) []*Vertex {
	start := center.Edge
	if start == nil {
		return nil
	}
	var out []*Vertex
	cur := start
	for {
		out = append(out, cur.Flip.Vertex)
		cur = cur.Next.Flip
		if cur == nil || cur == start {
			break
		}
	}
	return out
}

// OneRingFaces returns the faces incident to center, walked in the same
// rotational order as OneRingNeighbors.
func (m *Mesh) OneRingFaces(center *Vertex) []*Face {
	start := center.Edge
	if start == nil {
		return nil
	}
	var out []*Face
	cur := start
	for {
		out = append(out, cur.Face)
		cur = cur.Next.Flip
		if cur == nil || cur == start {
			break
		}
	}
	return out
}

// Export walks vertices in id order, assigning sequential export indices,
// and returns flat positions/indices plus area-weighted, normalized
// per-vertex normals.
func (m *Mesh) Export() (positions []math.Vec3, normals []math.Vec3, indices []uint32) {
	verts := m.Vertices()
	exportIndex := make(map[uint64]uint32, len(verts))
	positions = make([]math.Vec3, len(verts))
	normals = make([]math.Vec3, len(verts))

	for i, v := range verts {
		exportIndex[v.ID] = uint32(i)
		positions[i] = v.Position
	}

	for _, f := range m.faces {
		indices = append(indices,
			exportIndex[f.V0.ID], exportIndex[f.V1.ID], exportIndex[f.V2.ID])
	}

	for i, v := range verts {
		var sum math.Vec3
		for _, f := range m.OneRingFaces(v) {
			sum = sum.Add(f.Normal.Mul(f.Area))
		}
		normals[i] = sum.Normalize()
	}

	return positions, normals, indices
}
