package simplify

import (
	"errors"
	"math"
	"testing"

	remath "meshsimplify/math"
)

func tetrahedronMesh() Mesh {
	return Mesh{
		Positions: []remath.Vec3{
			{X: 0, Y: 0, Z: 0},
			{X: 1, Y: 0, Z: 0},
			{X: 0, Y: 1, Z: 0},
			{X: 0, Y: 0, Z: 1},
		},
		Indices: []uint32{
			0, 2, 1,
			0, 1, 3,
			1, 2, 3,
			2, 0, 3,
		},
		ModelTransform: remath.Mat4Identity(),
	}
}

func octahedronMesh() Mesh {
	return Mesh{
		Positions: []remath.Vec3{
			{X: 1, Y: 0, Z: 0}, {X: -1, Y: 0, Z: 0},
			{X: 0, Y: 1, Z: 0}, {X: 0, Y: -1, Z: 0},
			{X: 0, Y: 0, Z: 1}, {X: 0, Y: 0, Z: -1},
		},
		Indices: []uint32{
			0, 2, 4, 2, 1, 4, 1, 3, 4, 3, 0, 4,
			2, 0, 5, 1, 2, 5, 3, 1, 5, 0, 3, 5,
		},
		ModelTransform: remath.Mat4Identity(),
	}
}

// icosphere returns a subdivided icosahedron-like closed manifold with a
// small number of faces. It is not a geodesic subdivision; its only
// purpose is to exercise the simplifier on a mesh with enough faces that
// more than one collapse is required to reach an aggressive target rate.
func icosphere(t *testing.T) Mesh {
	const rings = 8
	const segments = 20

	var positions []remath.Vec3
	positions = append(positions, remath.Vec3{X: 0, Y: 1, Z: 0})
	for r := 1; r < rings; r++ {
		phi := math.Pi * float64(r) / float64(rings)
		y := float32(math.Cos(phi))
		ringRadius := float32(math.Sin(phi))
		for s := 0; s < segments; s++ {
			theta := 2 * math.Pi * float64(s) / float64(segments)
			x := ringRadius * float32(math.Cos(theta))
			z := ringRadius * float32(math.Sin(theta))
			positions = append(positions, remath.Vec3{X: x, Y: y, Z: z})
		}
	}
	positions = append(positions, remath.Vec3{X: 0, Y: -1, Z: 0})

	topPole := uint32(0)
	bottomPole := uint32(len(positions) - 1)
	ringStart := func(r int) uint32 { return 1 + uint32((r-1)*segments) }

	var indices []uint32
	for s := 0; s < segments; s++ {
		a := ringStart(1) + uint32(s)
		b := ringStart(1) + uint32((s+1)%segments)
		indices = append(indices, topPole, b, a)
	}
	for r := 1; r < rings-1; r++ {
		for s := 0; s < segments; s++ {
			a := ringStart(r) + uint32(s)
			b := ringStart(r) + uint32((s+1)%segments)
			c := ringStart(r+1) + uint32(s)
			d := ringStart(r+1) + uint32((s+1)%segments)
			indices = append(indices, a, b, c, b, d, c)
		}
	}
	for s := 0; s < segments; s++ {
		a := ringStart(rings-1) + uint32(s)
		b := ringStart(rings-1) + uint32((s+1)%segments)
		indices = append(indices, bottomPole, a, b)
	}

	return Mesh{
		Positions:      positions,
		Indices:        indices,
		ModelTransform: remath.Mat4Identity(),
	}
}

func faceCount(m Mesh) int { return len(m.Indices) / 3 }

func TestSimplifyRateZeroIsIdempotent(t *testing.T) {
	in := tetrahedronMesh()
	out, err := Simplify(in, 0)
	if err != nil {
		t.Fatalf("Simplify: %v", err)
	}
	if len(out.Positions) != 4 {
		t.Errorf("expected 4 positions, got %d", len(out.Positions))
	}
	if faceCount(out) != 4 {
		t.Errorf("expected 4 faces, got %d", faceCount(out))
	}
	for i, n := range out.Normals {
		if l := n.Length(); l < 0.99 || l > 1.01 {
			t.Errorf("normal %d not unit length: %v", i, l)
		}
	}
}

func TestSimplifyRateOneOnTetrahedron(t *testing.T) {
	in := tetrahedronMesh()
	out, err := Simplify(in, 1)
	if err != nil {
		t.Fatalf("Simplify: %v", err)
	}
	fc := faceCount(out)
	if fc != 0 && fc != 2 {
		t.Errorf("expected 0 or 2 faces after collapsing a tetrahedron at rate 1, got %d", fc)
	}
}

func TestSimplifyOctahedronHalfRate(t *testing.T) {
	in := octahedronMesh()
	out, err := Simplify(in, 0.5)
	if err != nil {
		t.Fatalf("Simplify: %v", err)
	}
	if faceCount(out) > 4 {
		t.Errorf("expected at most 4 faces, got %d", faceCount(out))
	}
	assertEulerCharacteristic(t, out, 2)
}

func TestSimplifyIcosphereAggressiveRate(t *testing.T) {
	in := icosphere(t)
	before := faceCount(in)
	out, err := Simplify(in, 0.9)
	if err != nil {
		t.Fatalf("Simplify: %v", err)
	}
	if faceCount(out) >= before/10 {
		t.Errorf("expected face count well under %d, got %d", before/10, faceCount(out))
	}
	assertEulerCharacteristic(t, out, 2)
}

func TestSimplifyTwiceCompoundsReduction(t *testing.T) {
	in := icosphere(t)
	first, err := Simplify(in, 0.5)
	if err != nil {
		t.Fatalf("Simplify (first pass): %v", err)
	}
	second, err := Simplify(first, 0.5)
	if err != nil {
		t.Fatalf("Simplify (second pass): %v", err)
	}
	if faceCount(second) >= faceCount(first) {
		t.Errorf("expected second pass to reduce further: first=%d second=%d", faceCount(first), faceCount(second))
	}
	assertEulerCharacteristic(t, second, 2)
}

func TestSimplifyInvalidRate(t *testing.T) {
	in := tetrahedronMesh()
	for _, rate := range []float32{-0.1, 1.01} {
		_, err := Simplify(in, rate)
		if !errors.Is(err, ErrInvalidRate) {
			t.Errorf("rate %v: expected ErrInvalidRate, got %v", rate, err)
		}
	}
	if faceCount(in) != 4 || len(in.Positions) != 4 {
		t.Error("input mesh must be left unmodified on InvalidRate")
	}
}

func TestSimplifyFaceCountNeverIncreases(t *testing.T) {
	in := octahedronMesh()
	before := faceCount(in)
	out, err := Simplify(in, 0.3)
	if err != nil {
		t.Fatalf("Simplify: %v", err)
	}
	if faceCount(out) > before {
		t.Errorf("face count increased: %d -> %d", before, faceCount(out))
	}
}

// assertEulerCharacteristic recomputes the edge count from the index list
// (each triangle contributes three directed half-edges, each undirected
// edge shared by exactly two) and checks V - E + F.
func assertEulerCharacteristic(t *testing.T, m Mesh, want int) {
	t.Helper()
	edges := make(map[[2]uint32]bool)
	for i := 0; i+2 < len(m.Indices); i += 3 {
		tri := [3]uint32{m.Indices[i], m.Indices[i+1], m.Indices[i+2]}
		for k := 0; k < 3; k++ {
			a, b := tri[k], tri[(k+1)%3]
			if a > b {
				a, b = b, a
			}
			edges[[2]uint32{a, b}] = true
		}
	}
	v := len(m.Positions)
	e := len(edges)
	f := faceCount(m)
	if got := v - e + f; got != want {
		t.Errorf("Euler characteristic: V(%d) - E(%d) + F(%d) = %d, want %d", v, e, f, got, want)
	}
}
