package halfedge

import (
	"errors"
	"testing"

	"meshsimplify/math"
)

func tetrahedronPositions() []math.Vec3 {
	return []math.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1},
	}
}

func tetrahedronIndices() []uint32 {
	return []uint32{
		0, 2, 1,
		0, 1, 3,
		1, 2, 3,
		2, 0, 3,
	}
}

func buildTetrahedron(t *testing.T) *Mesh {
	m, err := Build(tetrahedronPositions(), tetrahedronIndices(), math.Mat4Identity())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return m
}

func TestBuildTetrahedron(t *testing.T) {
	m := buildTetrahedron(t)
	if m.VertexCount() != 4 {
		t.Errorf("expected 4 vertices, got %d", m.VertexCount())
	}
	if m.FaceCount() != 4 {
		t.Errorf("expected 4 faces, got %d", m.FaceCount())
	}
	if m.NextVertexID() != 4 {
		t.Errorf("expected next vertex id 4, got %d", m.NextVertexID())
	}
}

func TestTwinSymmetry(t *testing.T) {
	m := buildTetrahedron(t)
	for _, e := range m.edges {
		if e.Flip == nil {
			t.Fatalf("half-edge %v has no flip", e.key())
		}
		if e.Flip.Flip != e {
			t.Errorf("flip.flip != e for %v", e.key())
		}
	}
}

func TestTriangleClosure(t *testing.T) {
	m := buildTetrahedron(t)
	for _, e := range m.edges {
		if e.Next.Next.Next != e {
			t.Errorf("next.next.next != e for %v", e.key())
		}
		if e.Face != e.Next.Face || e.Face != e.Next.Next.Face {
			t.Errorf("cycle does not share a single face for %v", e.key())
		}
	}
}

func TestVertexIncidence(t *testing.T) {
	m := buildTetrahedron(t)
	for _, v := range m.Vertices() {
		if v.Edge == nil {
			t.Fatalf("vertex %d has no incident edge", v.ID)
		}
		if v.Edge.Vertex != v {
			t.Errorf("vertex %d's incident edge does not point back to it", v.ID)
		}
	}
}

func TestBuildRejectsNonManifoldInput(t *testing.T) {
	positions := tetrahedronPositions()
	indices := append(tetrahedronIndices(), 0, 2, 1) // repeat a face's exact winding
	_, err := Build(positions, indices, math.Mat4Identity())
	if !errors.Is(err, ErrNonManifoldInput) {
		t.Fatalf("expected ErrNonManifoldInput, got %v", err)
	}
}

func TestBuildRejectsDegenerateTriangle(t *testing.T) {
	positions := []math.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 2, Y: 0, Z: 0},
	}
	_, err := Build(positions, []uint32{0, 1, 2}, math.Mat4Identity())
	if !errors.Is(err, ErrDegenerateTriangle) {
		t.Fatalf("expected ErrDegenerateTriangle, got %v", err)
	}
}

func TestExportPreservesVertexAndFaceCounts(t *testing.T) {
	m := buildTetrahedron(t)
	positions, normals, indices := m.Export()
	if len(positions) != 4 {
		t.Errorf("expected 4 exported positions, got %d", len(positions))
	}
	if len(normals) != 4 {
		t.Errorf("expected 4 exported normals, got %d", len(normals))
	}
	if len(indices) != 12 {
		t.Errorf("expected 12 exported indices, got %d", len(indices))
	}
	for i, n := range normals {
		if l := n.Length(); l < 0.99 || l > 1.01 {
			t.Errorf("normal %d not unit length: %v (len %v)", i, n, l)
		}
	}
}

func TestOneRingNeighborsCountsMatchValence(t *testing.T) {
	m := buildTetrahedron(t)
	for _, v := range m.Vertices() {
		neighbors := m.OneRingNeighbors(v)
		if len(neighbors) != 3 {
			t.Errorf("vertex %d: expected valence 3 in a tetrahedron, got %d", v.ID, len(neighbors))
		}
	}
}

func TestCollapseEdgePreservesManifoldClosure(t *testing.T) {
	positions := []math.Vec3{
		{X: 1, Y: 0, Z: 0}, {X: -1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0}, {X: 0, Y: -1, Z: 0},
		{X: 0, Y: 0, Z: 1}, {X: 0, Y: 0, Z: -1},
	}
	indices := []uint32{
		0, 2, 4, 2, 1, 4, 1, 3, 4, 3, 0, 4,
		2, 0, 5, 1, 2, 5, 3, 1, 5, 0, 3, 5,
	}
	m, err := Build(positions, indices, math.Mat4Identity())
	if err != nil {
		t.Fatalf("Build octahedron: %v", err)
	}

	e, ok := m.edges[edgeKey{Tail: 0, Head: 2}]
	if !ok {
		t.Fatal("expected edge 0->2 to exist")
	}
	if m.WillDegenerate(e) {
		t.Fatal("expected 0->2 collapse on an octahedron to satisfy the link condition")
	}

	newID := m.AllocateVertexID()
	newPos := e.Flip.Vertex.Position.Add(e.Vertex.Position).Mul(0.5)
	vNew, err := m.CollapseEdge(e, newID, newPos)
	if err != nil {
		t.Fatalf("CollapseEdge: %v", err)
	}
	if vNew.ID != newID {
		t.Errorf("expected new vertex id %d, got %d", newID, vNew.ID)
	}
	if m.FaceCount() != 6 {
		t.Errorf("expected 6 faces after collapsing an octahedron edge, got %d", m.FaceCount())
	}
	for _, he := range m.edges {
		if he.Flip.Flip != he {
			t.Errorf("post-collapse: flip symmetry broken for %v", he.key())
		}
		if he.Next.Next.Next != he {
			t.Errorf("post-collapse: triangle closure broken for %v", he.key())
		}
	}
}
