package renderer

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/eulertour/manim-opengl-tutorial/internal/engine/shader"
	"github.com/eulertour/manim-opengl-tutorial/internal/geometry"
	"github.com/eulertour/manim-opengl-tutorial/internal/material"
	"github.com/eulertour/manim-opengl-tutorial/internal/render"
)

// Attribute locations shared by every mesh shader.
const (
	attribPosition = 0
	attribNormal   = 1
)

// Buffers is a geometry uploaded to the GPU.
type Buffers struct {
	vao, vbo, nbo, ebo uint32
	count              int32
	indexed            bool
	mode               uint32
}

// Upload copies g into new vertex buffers.
func Upload(g *geometry.Geometry) *Buffers {
	b := &Buffers{mode: gl.TRIANGLES}
	if g.Lines {
		b.mode = gl.LINES
	}

	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)

	b.vbo = uploadAttribute(attribPosition, g.Positions)
	if g.HasNormals() {
		b.nbo = uploadAttribute(attribNormal, g.Normals)
	}

	if len(g.Indices) > 0 {
		gl.GenBuffers(1, &b.ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(g.Indices)*4, unsafe.Pointer(&g.Indices[0]), gl.STATIC_DRAW)
		b.count = int32(len(g.Indices))
		b.indexed = true
	} else {
		b.count = int32(g.VertexCount())
	}

	gl.BindVertexArray(0)
	return b
}

func uploadAttribute(location uint32, data []float32) uint32 {
	var buf uint32
	if len(data) == 0 {
		return buf
	}
	gl.GenBuffers(1, &buf)
	gl.BindBuffer(gl.ARRAY_BUFFER, buf)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, unsafe.Pointer(&data[0]), gl.STATIC_DRAW)
	gl.VertexAttribPointerWithOffset(location, 3, gl.FLOAT, false, 3*4, 0)
	gl.EnableVertexAttribArray(location)
	return buf
}

// Draw issues the draw call. The caller makes the program current.
func (b *Buffers) Draw() {
	gl.BindVertexArray(b.vao)
	if b.indexed {
		gl.DrawElementsWithOffset(b.mode, b.count, gl.UNSIGNED_INT, 0)
	} else {
		gl.DrawArrays(b.mode, 0, b.count)
	}
	gl.BindVertexArray(0)
}

// Delete releases the GPU buffers.
func (b *Buffers) Delete() {
	for _, buf := range []*uint32{&b.vbo, &b.nbo, &b.ebo} {
		if *buf != 0 {
			gl.DeleteBuffers(1, buf)
			*buf = 0
		}
	}
	if b.vao != 0 {
		gl.DeleteVertexArrays(1, &b.vao)
		b.vao = 0
	}
}

// Drawable is the GPU form of a render.Mesh: a linked program holding the
// material's uniforms and the uploaded geometry. As a scene payload it
// lets the binder write directly into the program.
type Drawable struct {
	Program *shader.Program
	Buffers *Buffers
	bounds  geometry.AABB
}

// NewDrawable compiles def's shaders, writes its values and uploads the
// mesh geometry.
func NewDrawable(mesh *render.Mesh, def *material.Definition) (*Drawable, error) {
	prog, err := shader.NewProgram(def.VertexShader, def.FragmentShader)
	if err != nil {
		return nil, err
	}
	def.Apply(prog)
	return &Drawable{Program: prog, Buffers: Upload(mesh.Geometry), bounds: mesh.LocalBounds()}, nil
}

// LocalBounds implements scene.Renderable.
func (d *Drawable) LocalBounds() geometry.AABB { return d.bounds }

// ShaderInputs implements render.Bindable.
func (d *Drawable) ShaderInputs() render.Inputs { return d.Program }

// Draw draws the geometry with the drawable's program.
func (d *Drawable) Draw() {
	d.Program.Use()
	d.Buffers.Draw()
}

// Delete releases the program and buffers.
func (d *Drawable) Delete() {
	d.Program.Delete()
	d.Buffers.Delete()
}
