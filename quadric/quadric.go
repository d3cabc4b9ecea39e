// Package quadric computes and combines Garland-Heckbert error quadrics
// over a half-edge mesh, and solves for the optimal contraction point and
// cost of a candidate edge collapse.
package quadric

import (
	"meshsimplify/halfedge"
	"meshsimplify/math"
)

const epsilon = 1e-8

// Table holds one 4x4 symmetric error quadric per live vertex id.
type Table map[uint64]math.Mat4

// ComputeAll sums, for every vertex in m, the outer product of the
// homogeneous plane of each incident face: Q_v = sum_f p_f * p_f^T where
// p_f = (n_f.x, n_f.y, n_f.z, -n_f . v).
func ComputeAll(m *halfedge.Mesh) Table {
	t := make(Table, m.VertexCount())
	for _, v := range m.Vertices() {
		t[v.ID] = ForVertex(m, v)
	}
	return t
}

// ForVertex computes a single vertex's quadric from its current one-ring
// of incident faces.
func ForVertex(m *halfedge.Mesh, v *halfedge.Vertex) math.Mat4 {
	q := math.Mat4Zero()
	for _, f := range m.OneRingFaces(v) {
		n := f.Normal
		plane := math.Vec4{X: n.X, Y: n.Y, Z: n.Z, W: -n.Dot(v.Position)}
		q = q.Add(plane.OuterProduct(plane))
	}
	return q
}

// Sum implements the classic Garland-Heckbert rule for the quadric of a
// vertex produced by collapsing an edge: the sum of its two endpoints'
// quadrics.
func Sum(a, b math.Mat4) math.Mat4 {
	return a.Add(b)
}

// Optimal solves for the minimum-error contraction point and its cost
// given the summed quadric of an edge's two endpoints. When the upper-left
// 3x3 block is not safely invertible, or the homogeneous scale term is
// negligible, it falls back to the midpoint of v0 and v1 with cost 0 —
// chosen to tie-break toward contractions that cannot be solved
// analytically rather than reject them.
func Optimal(q math.Mat4, v0, v1 math.Vec3) (position math.Vec3, cost float32) {
	a := math.Mat3FromMat4UpperLeft(q)
	b := math.Vec3{X: q[0][3], Y: q[1][3], Z: q[2][3]}
	d := q[3][3]

	if d > -epsilon && d < epsilon {
		return midpoint(v0, v1), 0
	}

	aInv, ok := a.Inverse(epsilon)
	if !ok {
		return midpoint(v0, v1), 0
	}

	x := aInv.MulVec(b).Negate()
	return x, quadricCost(q, x)
}

func quadricCost(q math.Mat4, x math.Vec3) float32 {
	xh := math.Vec4{X: x.X, Y: x.Y, Z: x.Z, W: 1}
	qx := q.MulVec(xh)
	return xh.Dot(qx)
}

func midpoint(v0, v1 math.Vec3) math.Vec3 {
	return v0.Add(v1).Mul(0.5)
}
