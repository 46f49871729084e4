package renderer

import (
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	shader "github.com/richinsley/glquad/shader"
)

// newProgram compiles both stages and links them. The stage objects are
// deleted before returning, whether or not the link succeeded.
func newProgram(p *shader.Program) (uint32, error) {
	vertexShader, err := compileShader(p.Vertex, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertexShader)

	fragmentShader, err := compileShader(p.Fragment, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragmentShader)

	// varyings are checked only once both stages compiled
	if !p.InterfaceChecked {
		if err := shader.CheckInterface(p.Vertex, p.Fragment); err != nil {
			return 0, err
		}
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	for name, loc := range p.Attributes {
		gl.BindAttribLocation(program, uint32(loc), gl.Str(name+"\x00"))
	}
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		logText := strings.Repeat("\x00", shader.MaxInfoLog)
		gl.GetProgramInfoLog(program, shader.MaxInfoLog, nil, gl.Str(logText))
		gl.DeleteProgram(program)
		return 0, &shader.LinkError{Log: shader.BoundLog(logText)}
	}

	gl.DetachShader(program, vertexShader)
	gl.DetachShader(program, fragmentShader)
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	s := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(s, 1, csources, nil)
	free()
	gl.CompileShader(s)

	var status int32
	gl.GetShaderiv(s, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		logText := strings.Repeat("\x00", shader.MaxInfoLog)
		gl.GetShaderInfoLog(s, shader.MaxInfoLog, nil, gl.Str(logText))
		gl.DeleteShader(s)

		stage := shader.Vertex
		if shaderType == gl.FRAGMENT_SHADER {
			stage = shader.Fragment
		}
		return 0, &shader.CompileError{Stage: stage, Log: shader.BoundLog(logText)}
	}
	return s, nil
}
