package geometry

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// meshFile is the on-disk form of a Mesh:
//
//	layout: [3, 3]
//	vertices: [x, y, z, r, g, b, ...]
//	indices: [0, 1, 3, 1, 2, 3]
type meshFile struct {
	Layout   []int     `yaml:"layout"`
	Vertices []float32 `yaml:"vertices"`
	Indices  []uint32  `yaml:"indices"`
}

// Decode parses a YAML mesh and validates it. A missing layout means PositionColor.
func Decode(data []byte) (*Mesh, error) {
	var f meshFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode mesh: %w", err)
	}

	m := &Mesh{
		Vertices: f.Vertices,
		Indices:  f.Indices,
		Layout:   Layout{Components: f.Layout},
	}
	if len(f.Layout) == 0 {
		m.Layout = PositionColor
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}
