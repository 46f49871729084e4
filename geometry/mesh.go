package geometry

import (
	"errors"
	"fmt"
)

// FloatSize is the size in bytes of one float32 vertex component.
const FloatSize = 4

var ErrInvalidMesh = errors.New("invalid mesh")

// Layout describes how one vertex is interleaved in the vertex array.
// Components[i] is the float count of attribute location i.
type Layout struct {
	Components []int
}

// PositionColor is position (vec3) followed by color (vec3).
var PositionColor = Layout{Components: []int{3, 3}}

// Stride returns the number of floats in one vertex.
func (l Layout) Stride() int {
	n := 0
	for _, c := range l.Components {
		n += c
	}
	return n
}

// Offset returns the float offset of attribute i inside a vertex.
func (l Layout) Offset(i int) int {
	n := 0
	for _, c := range l.Components[:i] {
		n += c
	}
	return n
}

func (l Layout) StrideBytes() int32 {
	return int32(l.Stride() * FloatSize)
}

func (l Layout) OffsetBytes(i int) int {
	return l.Offset(i) * FloatSize
}

// Mesh is an interleaved vertex array plus the triangle list drawn from it.
type Mesh struct {
	Vertices []float32
	Indices  []uint32
	Layout   Layout
}

// VertexCount returns the number of whole vertices in the mesh.
func (m *Mesh) VertexCount() int {
	stride := m.Layout.Stride()
	if stride == 0 {
		return 0
	}
	return len(m.Vertices) / stride
}

// Validate checks that the vertex array matches the layout and that every
// index refers to an existing vertex.
func (m *Mesh) Validate() error {
	if len(m.Layout.Components) == 0 {
		return fmt.Errorf("%w: layout has no attributes", ErrInvalidMesh)
	}
	for i, c := range m.Layout.Components {
		if c < 1 || c > 4 {
			return fmt.Errorf("%w: attribute %d has %d components, want 1-4", ErrInvalidMesh, i, c)
		}
	}
	stride := m.Layout.Stride()
	if len(m.Vertices) == 0 || len(m.Vertices)%stride != 0 {
		return fmt.Errorf("%w: %d floats is not a whole number of %d-float vertices", ErrInvalidMesh, len(m.Vertices), stride)
	}
	if len(m.Indices) == 0 || len(m.Indices)%3 != 0 {
		return fmt.Errorf("%w: %d indices is not a whole number of triangles", ErrInvalidMesh, len(m.Indices))
	}
	count := uint32(m.VertexCount())
	for i, idx := range m.Indices {
		if idx >= count {
			return fmt.Errorf("%w: index %d (position %d) out of range for %d vertices", ErrInvalidMesh, idx, i, count)
		}
	}
	return nil
}

// Triangles groups the index list into triangles.
func (m *Mesh) Triangles() [][3]uint32 {
	tris := make([][3]uint32, 0, len(m.Indices)/3)
	for i := 0; i+2 < len(m.Indices); i += 3 {
		tris = append(tris, [3]uint32{m.Indices[i], m.Indices[i+1], m.Indices[i+2]})
	}
	return tris
}

// Quad returns the stock two-triangle quad with a color per corner. It is
// drawn when no geometry file is configured.
func Quad() *Mesh {
	return &Mesh{
		Vertices: []float32{
			0.5, 0.5, 0.0, 1.0, 0.0, 0.0, // top right
			0.5, -0.5, 0.0, 0.0, 1.0, 0.0, // bottom right
			-0.5, -0.5, 0.0, 0.0, 0.0, 1.0, // bottom left
			-0.5, 0.5, 0.0, 0.0, 1.0, 0.0, // top left
		},
		Indices: []uint32{
			0, 1, 3,
			1, 2, 3,
		},
		Layout: PositionColor,
	}
}
