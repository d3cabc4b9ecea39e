// Command meshdemo loads a mesh, simplifies it, and displays either the
// original or the simplified version (Space switches between them) in an
// orbit-camera viewport.
package main

import (
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/glfw/v3.3/glfw"

	"meshsimplify/camera"
	"meshsimplify/core"
	"meshsimplify/internal/applog"
	"meshsimplify/internal/glrender"
	"meshsimplify/internal/glwindow"
	"meshsimplify/internal/sceneio"
	"meshsimplify/simplify"
)

var log = applog.New("meshdemo")

func main() {
	modelPath := flag.String("model", "", "path to an .obj or .gltf/.glb model")
	rate := flag.Float64("rate", 0.5, "target simplification rate in [0,1]")
	width := flag.Int("width", 1280, "window width")
	height := flag.Int("height", 720, "window height")
	flag.Parse()

	if *modelPath == "" {
		log.Printf("usage: meshdemo -model path/to/mesh.obj [-rate 0.5] [-width 1280] [-height 720]")
		os.Exit(2)
	}

	original, err := loadModel(*modelPath)
	if err != nil {
		log.Printf("load failed: %v", err)
		os.Exit(1)
	}
	log.Printf("loaded %q: %d vertices, %d faces", *modelPath, len(original.Positions), len(original.Indices)/3)

	simplified, err := simplify.Simplify(original, float32(*rate))
	if err != nil {
		log.Printf("simplify failed: %v", err)
		os.Exit(1)
	}
	log.Printf("simplified at rate %.2f: %d faces", *rate, len(simplified.Indices)/3)

	// Recompute vertex normals for the unsimplified mesh too, via the
	// rate-zero fast path, so both meshes render with correct shading.
	original, err = simplify.Simplify(original, 0)
	if err != nil {
		log.Printf("normal pass failed: %v", err)
		os.Exit(1)
	}

	win, err := glwindow.New(glwindow.Config{
		Width: *width, Height: *height,
		Title: "meshdemo", Resizable: true, VSync: true,
	})
	if err != nil {
		log.Printf("window creation failed: %v", err)
		os.Exit(1)
	}
	defer win.Destroy()

	renderer, err := glrender.NewRenderer()
	if err != nil {
		log.Printf("renderer init failed: %v", err)
		os.Exit(1)
	}
	defer renderer.Destroy()

	originalGPU := glrender.Upload(original)
	simplifiedGPU := glrender.Upload(simplified)
	defer glrender.Release(originalGPU)
	defer glrender.Release(simplifiedGPU)

	cam := camera.FrameBounds(original.Positions, 1.0, float32(*width)/float32(*height))

	state := &demoState{showSimplified: false, wireframe: false}

	win.SetKeyCallback(func(key glfw.Key, action glfw.Action) {
		if action != glfw.Press {
			return
		}
		switch key {
		case glfw.KeySpace:
			state.showSimplified = !state.showSimplified
		case glfw.KeyTab:
			state.wireframe = !state.wireframe
			renderer.SetWireframe(state.wireframe)
		}
	})
	win.SetScrollCallback(func(xoff, yoff float64) {
		cam.Zoom(float32(-yoff) * 0.3)
	})

	var dragging bool
	var lastX, lastY float64

	for !win.ShouldClose() {
		win.PollEvents()

		x, y := win.GetCursorPos()
		if win.IsMouseButtonPressed(glfw.MouseButtonLeft) {
			if dragging {
				cam.Orbit(float32(x-lastX)*0.005, float32(y-lastY)*0.005)
			}
			dragging = true
		} else {
			dragging = false
		}
		lastX, lastY = x, y

		fbW, fbH := win.GetFramebufferSize()
		if fbH > 0 {
			cam.UpdateAspectRatio(float32(fbW), float32(fbH))
		}
		renderer.SetViewport(fbW, fbH)
		renderer.BeginFrame(core.Color{R: 0.08, G: 0.08, B: 0.1, A: 1})

		vp := cam.GetViewProjectionMatrix()
		if state.showSimplified {
			renderer.Draw(simplifiedGPU, vp.Mul(simplified.ModelTransform), core.Color{R: 0.9, G: 0.5, B: 0.2, A: 1})
		} else {
			renderer.Draw(originalGPU, vp.Mul(original.ModelTransform), core.Color{R: 0.3, G: 0.7, B: 0.9, A: 1})
		}

		win.SwapBuffers()
	}
}

type demoState struct {
	showSimplified bool
	wireframe      bool
}

func loadModel(path string) (simplify.Mesh, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gltf", ".glb":
		return sceneio.LoadGLTF(path)
	default:
		return sceneio.LoadOBJ(path)
	}
}
