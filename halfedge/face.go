package halfedge

import "meshsimplify/math"

// Face is an oriented triangle. V0, V1, V2 are stored in canonical
// rotation: rotated so the lowest-id vertex appears first, preserving
// winding. Normal and Area are cached at construction and never
// recomputed in place — a face is replaced, not mutated, when its
// geometry changes.
type Face struct {
	V0, V1, V2 *Vertex
	Normal     math.Vec3
	Area       float32
}

// faceKey identifies a face by its canonically rotated vertex ids.
type faceKey struct {
	A, B, C uint64
}

// newFace builds a Face from a triangle given in winding order a,b,c. It
// rotates the three vertices so the lowest id comes first (preserving
// winding) and fails with ErrDegenerateTriangle if the two edge vectors
// from the rotated first vertex are parallel (zero cross-product length).
func newFace(a, b, c *Vertex) (*Face, error) {
	ra, rb, rc := rotateMinFirst(a, b, c)

	e1 := rb.Position.Sub(ra.Position)
	e2 := rc.Position.Sub(ra.Position)
	cross := e1.Cross(e2)
	length := cross.Length()
	if length == 0 {
		return nil, ErrDegenerateTriangle
	}

	return &Face{
		V0:     ra,
		V1:     rb,
		V2:     rc,
		Normal: cross.Mul(1 / length),
		Area:   0.5 * length,
	}, nil
}

func rotateMinFirst(a, b, c *Vertex) (*Vertex, *Vertex, *Vertex) {
	switch {
	case a.ID <= b.ID && a.ID <= c.ID:
		return a, b, c
	case b.ID <= a.ID && b.ID <= c.ID:
		return b, c, a
	default:
		return c, a, b
	}
}

func (f *Face) key() faceKey {
	return faceKey{A: f.V0.ID, B: f.V1.ID, C: f.V2.ID}
}
