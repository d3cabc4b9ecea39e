// Package glrender is the OpenGL 4.1 core-profile rendering backend used
// to view a mesh before and after simplification. It uploads a
// simplify.Mesh's parallel position/normal/index arrays to a VAO/VBO/EBO
// triple and draws it with a small directionally-lit shader pair.
package glrender

import (
	"fmt"
	"strings"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"meshsimplify/core"
	"meshsimplify/math"
	"meshsimplify/simplify"
)

// GPUMesh holds the OpenGL buffer objects for an uploaded mesh.
type GPUMesh struct {
	VAO        uint32
	VBO        uint32
	EBO        uint32
	IndexCount int32
}

// Renderer is the OpenGL rendering backend.
type Renderer struct {
	program uint32
	mvpLoc  int32
	colorLoc int32
}

const vertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec3 inNormal;

uniform mat4 mvp;

out vec3 fragNormal;

void main() {
    gl_Position = mvp * vec4(inPosition, 1.0);
    fragNormal  = inNormal;
}
` + "\x00"

const fragSrc = `
#version 410 core
in vec3 fragNormal;

uniform vec4 tint;

out vec4 outColor;

void main() {
    vec3  lightDir = normalize(vec3(0.5, -1.0, -0.5));
    float diff     = max(dot(normalize(fragNormal), -lightDir), 0.0);
    vec3  lit       = tint.rgb * (0.3 + 0.7 * diff);
    outColor = vec4(lit, tint.a);
}
` + "\x00"

// NewRenderer initializes OpenGL. Must be called after the GLFW window's
// context has been made current.
func NewRenderer() (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("glrender: initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	fmt.Printf("glrender: OpenGL version %s\n", version)

	prog, err := newProgram(vertSrc, fragSrc)
	if err != nil {
		return nil, fmt.Errorf("glrender: shader compile: %w", err)
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	return &Renderer{
		program:  prog,
		mvpLoc:   gl.GetUniformLocation(prog, gl.Str("mvp\x00")),
		colorLoc: gl.GetUniformLocation(prog, gl.Str("tint\x00")),
	}, nil
}

// SetWireframe toggles between filled and wireframe triangle rasterization.
func (r *Renderer) SetWireframe(on bool) {
	if on {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
}

// SetViewport resizes the OpenGL viewport.
func (r *Renderer) SetViewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

// BeginFrame clears the framebuffer with the given colour.
func (r *Renderer) BeginFrame(sky core.Color) {
	gl.ClearColor(sky.R, sky.G, sky.B, sky.A)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Upload builds a GPUMesh from a simplify.Mesh's parallel arrays. Normals
// must already be populated (Simplify always populates them on output).
func Upload(mesh simplify.Mesh) *GPUMesh {
	if len(mesh.Positions) == 0 {
		return nil
	}

	type glVertex struct {
		Position math.Vec3
		Normal   math.Vec3
	}
	verts := make([]glVertex, len(mesh.Positions))
	for i, p := range mesh.Positions {
		v := glVertex{Position: p}
		if i < len(mesh.Normals) {
			v.Normal = mesh.Normals[i]
		}
		verts[i] = v
	}
	stride := int32(unsafe.Sizeof(glVertex{}))

	gpu := &GPUMesh{IndexCount: int32(len(mesh.Indices))}

	gl.GenVertexArrays(1, &gpu.VAO)
	gl.GenBuffers(1, &gpu.VBO)
	gl.BindVertexArray(gpu.VAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*int(stride), gl.Ptr(verts), gl.STATIC_DRAW)

	var v glVertex
	posOff := int(unsafe.Offsetof(v.Position))
	normOff := int(unsafe.Offsetof(v.Normal))

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(posOff))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(normOff))

	gl.GenBuffers(1, &gpu.EBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gpu.EBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, gl.Ptr(mesh.Indices), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	return gpu
}

// Draw issues a draw call for gpu with the given MVP matrix and flat tint
// colour.
func (r *Renderer) Draw(gpu *GPUMesh, mvp math.Mat4, tint core.Color) {
	if gpu == nil {
		return
	}
	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.mvpLoc, 1, false, (*float32)(unsafe.Pointer(&mvp[0][0])))
	gl.Uniform4f(r.colorLoc, tint.R, tint.G, tint.B, tint.A)

	gl.BindVertexArray(gpu.VAO)
	gl.DrawElements(gl.TRIANGLES, gpu.IndexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// Release frees gpu's buffer objects.
func Release(gpu *GPUMesh) {
	if gpu == nil {
		return
	}
	gl.DeleteVertexArrays(1, &gpu.VAO)
	gl.DeleteBuffers(1, &gpu.VBO)
	gl.DeleteBuffers(1, &gpu.EBO)
}

// Destroy releases the renderer's shader program.
func (r *Renderer) Destroy() {
	gl.DeleteProgram(r.program)
}

func newProgram(vertSrc, fragSrc string) (uint32, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment: %w", err)
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		return 0, fmt.Errorf("link failed: %v", log)
	}

	gl.DeleteShader(vert)
	gl.DeleteShader(frag)
	return prog, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		return 0, fmt.Errorf("compile failed: %v", log)
	}
	return shader, nil
}
