package sceneio

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"meshsimplify/math"
	"meshsimplify/simplify"
)

// LoadGLTF opens a .glb or .gltf file and flattens its first mesh primitive
// into the kernel's exchange type. Materials, textures, and the node
// hierarchy are not loaded: simplification only needs geometry. The
// translation and scale of the first node referencing mesh 0 are folded
// into ModelTransform; its rotation is not applied. Without such a node,
// ModelTransform is identity.
func LoadGLTF(path string) (simplify.Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return simplify.Mesh{}, fmt.Errorf("sceneio: gltf open %q: %w", path, err)
	}
	if len(doc.Meshes) == 0 || len(doc.Meshes[0].Primitives) == 0 {
		return simplify.Mesh{}, fmt.Errorf("sceneio: %q has no mesh primitives", path)
	}

	prim := doc.Meshes[0].Primitives[0]

	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return simplify.Mesh{}, fmt.Errorf("sceneio: %q primitive has no POSITION attribute", path)
	}
	rawPositions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return simplify.Mesh{}, fmt.Errorf("sceneio: reading positions: %w", err)
	}

	var rawUVs [][2]float32
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		rawUVs, _ = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
	}

	positions := make([]math.Vec3, len(rawPositions))
	for i, p := range rawPositions {
		positions[i] = math.Vec3{X: p[0], Y: p[1], Z: p[2]}
	}
	var texCoords []math.Vec2
	if len(rawUVs) == len(rawPositions) {
		texCoords = make([]math.Vec2, len(rawUVs))
		for i, uv := range rawUVs {
			texCoords[i] = math.Vec2{X: uv[0], Y: uv[1]}
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return simplify.Mesh{}, fmt.Errorf("sceneio: reading indices: %w", err)
		}
	}

	transform := math.Mat4Identity()
	for _, node := range doc.Nodes {
		if node.Mesh != nil && *node.Mesh == 0 {
			t := node.TranslationOrDefault()
			sc := node.ScaleOrDefault()
			transform = math.Mat4Translation(math.Vec3{X: float32(t[0]), Y: float32(t[1]), Z: float32(t[2])}).
				Mul(math.Mat4Scale(math.Vec3{X: float32(sc[0]), Y: float32(sc[1]), Z: float32(sc[2])}))
			break
		}
	}

	return simplify.Mesh{
		Positions:      positions,
		TexCoords:      texCoords,
		Indices:        indices,
		ModelTransform: transform,
	}, nil
}
