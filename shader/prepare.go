package shader

import (
	"github.com/richinsley/glquad/options"
	"github.com/richinsley/glquad/translator"
)

// Program is a vertex/fragment pair ready for the driver.
type Program struct {
	Vertex   string
	Fragment string
	// Attributes maps driver-visible vertex input names to their locations.
	Attributes map[string]int
	// InterfaceChecked is set once both stages compiled and CheckInterface passed.
	InterfaceChecked bool
}

// Prepare readies a shader pair for the driver. GLSL sources pass through
// untouched and are checked after the driver compiles them. ESSL sources are
// translated to the desktop GLSL version matching the requested context and,
// once both stages translate, checked with CheckInterface.
func Prepare(vertexSrc, fragmentSrc string, cfg *options.Config) (*Program, error) {
	if cfg.Shaders.Dialect != options.DialectESSL {
		return &Program{
			Vertex:     vertexSrc,
			Fragment:   fragmentSrc,
			Attributes: AttributeLocations(vertexSrc),
		}, nil
	}

	vs, err := translator.ToDesktop(vertexSrc, translator.VertexShader, cfg.GL.Major, cfg.GL.Minor)
	if err != nil {
		return nil, &CompileError{Stage: Vertex, Log: BoundLog(err.Error())}
	}
	fs, err := translator.ToDesktop(fragmentSrc, translator.FragmentShader, cfg.GL.Major, cfg.GL.Minor)
	if err != nil {
		return nil, &CompileError{Stage: Fragment, Log: BoundLog(err.Error())}
	}
	if err := CheckInterface(vertexSrc, fragmentSrc); err != nil {
		return nil, err
	}

	// the translator renames user variables, so bind by the mapped names
	attrs := make(map[string]int)
	for name, loc := range AttributeLocations(vertexSrc) {
		mapped := name
		if m, ok := vs.MappedNames[name]; ok {
			mapped = m
		}
		attrs[mapped] = loc
	}

	return &Program{Vertex: vs.Code, Fragment: fs.Code, Attributes: attrs, InterfaceChecked: true}, nil
}
