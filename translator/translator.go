// Package translator turns GLSL ES 3.00 (WebGL2) sources into desktop GLSL.
package translator

import (
	"context"
	"fmt"
	"sync"

	gst "github.com/richinsley/goshadertranslator"
)

const (
	VertexShader   = "vertex"
	FragmentShader = "fragment"
)

var (
	translator *gst.ShaderTranslator
	initOnce   sync.Once
	initErr    error
)

// GetTranslator returns the process-wide translator, starting it on first use.
func GetTranslator() (*gst.ShaderTranslator, error) {
	initOnce.Do(func() {
		translator, initErr = gst.NewShaderTranslator(context.Background())
	})
	if initErr != nil {
		return nil, fmt.Errorf("failed to start shader translator: %w", initErr)
	}
	return translator, nil
}

// Result is a translated stage.
type Result struct {
	Code string
	// MappedNames maps source variable names to the names in Code.
	MappedNames map[string]string
}

// ToDesktop translates one ESSL stage to GLSL 410 for 4.1+ contexts and
// GLSL 330 otherwise.
func ToDesktop(source, shaderType string, major, minor int) (*Result, error) {
	t, err := GetTranslator()
	if err != nil {
		return nil, err
	}

	outputFormat := gst.OutputFormatGLSL330
	if major > 4 || (major == 4 && minor >= 1) {
		outputFormat = gst.OutputFormatGLSL410
	}
	out, err := t.TranslateShader(source, shaderType, gst.ShaderSpecWebGL2, outputFormat)
	if err != nil {
		return nil, fmt.Errorf("%s shader translation failed: %w", shaderType, err)
	}

	res := &Result{Code: out.Code, MappedNames: make(map[string]string, len(out.Variables))}
	for name, v := range out.Variables {
		res.MappedNames[name] = v.MappedName
	}
	return res, nil
}
