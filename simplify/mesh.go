// Package simplify is the kernel's external boundary: a plain indexed-mesh
// exchange type, and Simplify, the single entry point that drives an
// edge-contraction loop over the half-edge connectivity package to reduce a
// mesh's triangle count under quadric-error-metric guidance.
package simplify

import "meshsimplify/math"

// Mesh is the indexed-triangle exchange type crossing the kernel boundary
// in both directions. TexCoords is passed through on input but discarded
// on output: simplification does not track per-vertex attributes.
type Mesh struct {
	Positions      []math.Vec3
	Normals        []math.Vec3
	TexCoords      []math.Vec2
	Indices        []uint32
	ModelTransform math.Mat4
}
