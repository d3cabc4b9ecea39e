// Package sceneio loads and saves the indexed-triangle meshes that cross
// the simplification kernel's boundary, from Wavefront OBJ and glTF 2.0
// files. Material data and source-file normals are not loaded: the loaders
// fill only a simplify.Mesh's positions, texture coordinates, indices and
// model transform.
package sceneio

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"meshsimplify/math"
	"meshsimplify/simplify"
)

// LoadOBJ parses a Wavefront .obj file into the kernel's exchange type.
// Faces with more than three vertices are fan-triangulated. Normals in the
// source file are ignored: the kernel recomputes them on export.
func LoadOBJ(path string) (simplify.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return simplify.Mesh{}, fmt.Errorf("sceneio: open %q: %w", path, err)
	}
	defer f.Close()

	var positions []math.Vec3
	var uvs []math.Vec2
	var indices []uint32

	vertexPositions := make([]math.Vec3, 0)
	vertexUVs := make([]math.Vec2, 0)
	vertexIndex := make(map[string]uint32)

	resolveVertex := func(spec string) uint32 {
		if idx, ok := vertexIndex[spec]; ok {
			return idx
		}
		p, uv := parseFaceVertex(spec, positions, uvs)
		newIdx := uint32(len(vertexPositions))
		vertexPositions = append(vertexPositions, p)
		vertexUVs = append(vertexUVs, uv)
		vertexIndex[spec] = newIdx
		return newIdx
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "v":
			if len(parts) >= 4 {
				x, _ := strconv.ParseFloat(parts[1], 32)
				y, _ := strconv.ParseFloat(parts[2], 32)
				z, _ := strconv.ParseFloat(parts[3], 32)
				positions = append(positions, math.Vec3{X: float32(x), Y: float32(y), Z: float32(z)})
			}
		case "vt":
			if len(parts) >= 3 {
				u, _ := strconv.ParseFloat(parts[1], 32)
				v, _ := strconv.ParseFloat(parts[2], 32)
				uvs = append(uvs, math.Vec2{X: float32(u), Y: float32(v)})
			}
		case "f":
			faceVerts := make([]uint32, 0, len(parts)-1)
			for _, spec := range parts[1:] {
				faceVerts = append(faceVerts, resolveVertex(spec))
			}
			for i := 2; i < len(faceVerts); i++ {
				indices = append(indices, faceVerts[0], faceVerts[i-1], faceVerts[i])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return simplify.Mesh{}, fmt.Errorf("sceneio: reading %q: %w", path, err)
	}
	if len(vertexPositions) == 0 {
		return simplify.Mesh{}, fmt.Errorf("sceneio: no geometry found in %q", path)
	}

	return simplify.Mesh{
		Positions:      vertexPositions,
		TexCoords:      vertexUVs,
		Indices:        indices,
		ModelTransform: math.Mat4Identity(),
	}, nil
}

func parseFaceVertex(spec string, positions []math.Vec3, uvs []math.Vec2) (math.Vec3, math.Vec2) {
	var p math.Vec3
	var uv math.Vec2
	parts := strings.Split(spec, "/")

	if len(parts) >= 1 && parts[0] != "" {
		idx, _ := strconv.Atoi(parts[0])
		if idx < 0 {
			idx = len(positions) + idx + 1
		}
		if idx > 0 && idx <= len(positions) {
			p = positions[idx-1]
		}
	}
	if len(parts) >= 2 && parts[1] != "" {
		idx, _ := strconv.Atoi(parts[1])
		if idx < 0 {
			idx = len(uvs) + idx + 1
		}
		if idx > 0 && idx <= len(uvs) {
			uv = uvs[idx-1]
		}
	}
	return p, uv
}

// SaveOBJ writes mesh to a Wavefront .obj file, including recomputed
// normals and any surviving texture coordinates.
func SaveOBJ(path string, mesh simplify.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("sceneio: create %q: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	defer w.Flush()

	fmt.Fprintln(w, "# Exported by meshsimplify")
	for _, p := range mesh.Positions {
		fmt.Fprintf(w, "v %f %f %f\n", p.X, p.Y, p.Z)
	}
	for _, n := range mesh.Normals {
		fmt.Fprintf(w, "vn %f %f %f\n", n.X, n.Y, n.Z)
	}
	for _, uv := range mesh.TexCoords {
		fmt.Fprintf(w, "vt %f %f\n", uv.X, uv.Y)
	}
	hasNormals := len(mesh.Normals) == len(mesh.Positions)
	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		a, b, c := mesh.Indices[i]+1, mesh.Indices[i+1]+1, mesh.Indices[i+2]+1
		if hasNormals {
			fmt.Fprintf(w, "f %d//%d %d//%d %d//%d\n", a, a, b, b, c, c)
		} else {
			fmt.Fprintf(w, "f %d %d %d\n", a, b, c)
		}
	}
	return nil
}
