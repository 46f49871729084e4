package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	geometry "github.com/richinsley/glquad/geometry"
)

// meshBuffers are the device objects holding one uploaded mesh.
type meshBuffers struct {
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
}

// uploadMesh copies the mesh into static buffers and records the vertex
// layout in a new VAO, one attribute location per layout entry.
func uploadMesh(m *geometry.Mesh) *meshBuffers {
	mb := &meshBuffers{indexCount: int32(len(m.Indices))}

	gl.GenVertexArrays(1, &mb.vao)
	gl.BindVertexArray(mb.vao)

	gl.GenBuffers(1, &mb.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, mb.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*geometry.FloatSize, gl.Ptr(m.Vertices), gl.STATIC_DRAW)

	stride := m.Layout.StrideBytes()
	for i, components := range m.Layout.Components {
		gl.VertexAttribPointer(uint32(i), int32(components), gl.FLOAT, false, stride, gl.PtrOffset(m.Layout.OffsetBytes(i)))
		gl.EnableVertexAttribArray(uint32(i))
	}

	// the element binding is VAO state, so bind it while the VAO is bound
	gl.GenBuffers(1, &mb.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, mb.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, gl.Ptr(m.Indices), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return mb
}

func (mb *meshBuffers) draw() {
	gl.BindVertexArray(mb.vao)
	gl.DrawElements(gl.TRIANGLES, mb.indexCount, gl.UNSIGNED_INT, gl.PtrOffset(0))
	gl.BindVertexArray(0)
}

func (mb *meshBuffers) destroy() {
	gl.DeleteVertexArrays(1, &mb.vao)
	gl.DeleteBuffers(1, &mb.vbo)
	gl.DeleteBuffers(1, &mb.ebo)
}
