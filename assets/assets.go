// Package assets loads the shader sources and mesh the renderer draws.
// Empty shader paths fall back to the copies embedded in the binary; an
// empty geometry path falls back to geometry.Quad.
package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"os"

	"github.com/richinsley/glquad/geometry"
	"github.com/richinsley/glquad/options"
)

//go:embed quad.vert quad.frag quad_es.vert quad_es.frag
var defaults embed.FS

// Bundle is the loaded content for one run.
type Bundle struct {
	VertexSource   string
	FragmentSource string
	Mesh           *geometry.Mesh
}

// Loader reads assets from FS. A nil FS reads paths straight from the OS.
type Loader struct {
	FS fs.FS
}

// Load reads the shaders and mesh named by cfg.
func Load(cfg *options.Config) (*Bundle, error) {
	return (&Loader{}).Load(cfg)
}

func (l *Loader) Load(cfg *options.Config) (*Bundle, error) {
	vertDefault, fragDefault := "quad.vert", "quad.frag"
	if cfg.Shaders.Dialect == options.DialectESSL {
		vertDefault, fragDefault = "quad_es.vert", "quad_es.frag"
	}

	vs, err := l.read(cfg.Shaders.Vertex, vertDefault)
	if err != nil {
		return nil, fmt.Errorf("failed to load vertex shader: %w", err)
	}
	fsrc, err := l.read(cfg.Shaders.Fragment, fragDefault)
	if err != nil {
		return nil, fmt.Errorf("failed to load fragment shader: %w", err)
	}

	mesh, err := l.LoadMesh(cfg.Geometry)
	if err != nil {
		return nil, err
	}

	return &Bundle{
		VertexSource:   string(vs),
		FragmentSource: string(fsrc),
		Mesh:           mesh,
	}, nil
}

// LoadMesh decodes the mesh at path, or returns the stock quad when path is empty.
func (l *Loader) LoadMesh(path string) (*geometry.Mesh, error) {
	if path == "" {
		return geometry.Quad(), nil
	}
	data, err := l.read(path, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load geometry: %w", err)
	}
	mesh, err := geometry.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("geometry %s: %w", path, err)
	}
	return mesh, nil
}

func (l *Loader) read(name, fallback string) ([]byte, error) {
	if name == "" {
		return fs.ReadFile(defaults, fallback)
	}
	if l.FS == nil {
		return os.ReadFile(name)
	}
	return fs.ReadFile(l.FS, name)
}
