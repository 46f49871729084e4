package shader

import (
	"errors"
	"strings"
	"testing"

	"github.com/richinsley/glquad/options"
)

const quadVertex = `#version 330 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aColor;
out vec3 ourColor;
void main() {
    gl_Position = vec4(aPos, 1.0);
    ourColor = aColor;
}
`

const quadFragment = `#version 330 core
out vec4 FragColor;
in vec3 ourColor;
void main() {
    FragColor = vec4(ourColor, 1.0);
}
`

func TestDeclarations(t *testing.T) {
	ins, outs, ok := Declarations(quadVertex)
	if !ok {
		t.Fatal("Declarations() could not parse the quad vertex shader")
	}
	want := []Variable{{Name: "aPos", Type: "vec3", Location: 0}, {Name: "aColor", Type: "vec3", Location: 1}}
	if len(ins) != len(want) {
		t.Fatalf("ins = %+v, want %+v", ins, want)
	}
	for i := range want {
		if ins[i] != want[i] {
			t.Errorf("ins[%d] = %+v, want %+v", i, ins[i], want[i])
		}
	}
	if len(outs) != 1 || outs[0] != (Variable{Name: "ourColor", Type: "vec3", Location: -1}) {
		t.Errorf("outs = %+v, want ourColor vec3", outs)
	}
}

func TestDeclarationsIgnoresComments(t *testing.T) {
	src := `#version 330 core
// in vec3 commented;
/* out vec2 alsoCommented;
   in float block; */
flat out int id;
smooth out vec2 uv[2];
`
	ins, outs, ok := Declarations(src)
	if !ok {
		t.Fatal("Declarations() reported unparsed declarations")
	}
	if len(ins) != 0 {
		t.Errorf("ins = %+v, want none", ins)
	}
	if len(outs) != 2 || outs[0].Name != "id" || outs[1].Type != "vec2[2]" {
		t.Errorf("outs = %+v, want id and uv[2]", outs)
	}
}

func TestDeclarationsForms(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		wantOk bool
		ins    []Variable
		outs   []Variable
	}{
		{
			name:   "declarator list",
			src:    "out vec3 extra, ourColor;\n",
			wantOk: true,
			outs:   []Variable{{Name: "extra", Type: "vec3", Location: -1}, {Name: "ourColor", Type: "vec3", Location: -1}},
		},
		{
			name:   "precision after storage",
			src:    "out highp vec3 ourColor;\n",
			wantOk: true,
			outs:   []Variable{{Name: "ourColor", Type: "vec3", Location: -1}},
		},
		{
			name:   "interpolation after storage",
			src:    "in flat mediump int id;\n",
			wantOk: true,
			ins:    []Variable{{Name: "id", Type: "int", Location: -1}},
		},
		{
			name:   "located list",
			src:    "layout(location = 2) in vec2 uv, st;\n",
			wantOk: true,
			ins:    []Variable{{Name: "uv", Type: "vec2", Location: 2}, {Name: "st", Type: "vec2", Location: 3}},
		},
		{
			name:   "declarations inside functions are ignored",
			src:    "float f(float x) { float in_ = x; return in_; }\nuniform float t;\nprecision mediump float;\n",
			wantOk: true,
		},
		{
			name:   "interface block is not understood",
			src:    "out VertexData { vec3 color; } vd;\n",
			wantOk: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ins, outs, ok := Declarations(tt.src)
			if ok != tt.wantOk {
				t.Fatalf("Declarations() ok = %v, want %v", ok, tt.wantOk)
			}
			if !tt.wantOk {
				return
			}
			if len(ins) != len(tt.ins) || len(outs) != len(tt.outs) {
				t.Fatalf("Declarations() = %+v / %+v, want %+v / %+v", ins, outs, tt.ins, tt.outs)
			}
			for i := range tt.ins {
				if ins[i] != tt.ins[i] {
					t.Errorf("ins[%d] = %+v, want %+v", i, ins[i], tt.ins[i])
				}
			}
			for i := range tt.outs {
				if outs[i] != tt.outs[i] {
					t.Errorf("outs[%d] = %+v, want %+v", i, outs[i], tt.outs[i])
				}
			}
		})
	}
}

func TestAttributeLocations(t *testing.T) {
	locs := AttributeLocations(quadVertex)
	if locs["aPos"] != 0 || locs["aColor"] != 1 || len(locs) != 2 {
		t.Errorf("AttributeLocations() = %v, want aPos:0 aColor:1", locs)
	}
}

func TestCheckInterface(t *testing.T) {
	tests := []struct {
		name     string
		vertex   string
		fragment string
		wantErr  string
	}{
		{name: "matching quad", vertex: quadVertex, fragment: quadFragment},
		{
			name:     "renamed varying",
			vertex:   strings.ReplaceAll(quadVertex, "ourColor", "vertColor"),
			fragment: quadFragment,
			wantErr:  `"ourColor" is not written`,
		},
		{
			name:     "type mismatch",
			vertex:   strings.Replace(quadVertex, "out vec3 ourColor", "out vec4 ourColor", 1),
			fragment: quadFragment,
			wantErr:  "is vec3 but the vertex shader writes vec4",
		},
		{
			name:     "varying in a declarator list",
			vertex:   strings.Replace(quadVertex, "out vec3 ourColor;", "out vec3 extra, ourColor;", 1),
			fragment: quadFragment,
		},
		{
			name:     "precision qualifier after out",
			vertex:   strings.Replace(quadVertex, "out vec3 ourColor;", "out highp vec3 ourColor;", 1),
			fragment: quadFragment,
		},
		{
			name:     "unparsed block leaves the decision to the compiler",
			vertex:   strings.Replace(quadVertex, "out vec3 ourColor;", "out Block { vec3 c; } blk;", 1),
			fragment: quadFragment,
		},
		{
			name:     "unused vertex output",
			vertex:   strings.Replace(quadVertex, "out vec3 ourColor;", "out vec3 ourColor;\nout vec2 extra;", 1),
			fragment: quadFragment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckInterface(tt.vertex, tt.fragment)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("CheckInterface() = %v, want nil", err)
				}
				return
			}
			var linkErr *LinkError
			if !errors.As(err, &linkErr) {
				t.Fatalf("CheckInterface() = %v, want *LinkError", err)
			}
			if !strings.Contains(linkErr.Log, tt.wantErr) {
				t.Errorf("LinkError.Log = %q, want it to contain %q", linkErr.Log, tt.wantErr)
			}
		})
	}
}

func TestBoundLog(t *testing.T) {
	long := strings.Repeat("x", 2000)
	if got := BoundLog(long); len(got) != MaxInfoLog-1 {
		t.Errorf("len(BoundLog(2000 bytes)) = %d, want %d", len(got), MaxInfoLog-1)
	}
	if got := BoundLog("0:3: error\n\x00\x00\x00"); got != "0:3: error" {
		t.Errorf("BoundLog() = %q, want %q", got, "0:3: error")
	}
	if got := BoundLog("\x00"); got == "" {
		t.Error("BoundLog() of an empty log is empty, want a placeholder")
	}
}

func TestErrorMessages(t *testing.T) {
	err := &CompileError{Stage: Fragment, Log: "0:5: syntax error"}
	if got := err.Error(); got != "failed to compile fragment shader: 0:5: syntax error" {
		t.Errorf("CompileError.Error() = %q", got)
	}
	if got := (&LinkError{Log: "mismatch"}).Error(); got != "failed to link shader program: mismatch" {
		t.Errorf("LinkError.Error() = %q", got)
	}
}

func TestPrepareGLSLPassesThrough(t *testing.T) {
	p, err := Prepare(quadVertex, quadFragment, options.Default())
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if p.Vertex != quadVertex || p.Fragment != quadFragment {
		t.Error("Prepare() changed glsl sources")
	}
	if p.Attributes["aPos"] != 0 || p.Attributes["aColor"] != 1 {
		t.Errorf("Attributes = %v", p.Attributes)
	}
}

// GLSL stages are only checked once the driver has compiled them, so a
// syntax error is never mistaken for a link failure.
func TestPrepareGLSLLeavesErrorsToTheDriver(t *testing.T) {
	broken := strings.Replace(quadVertex, "out vec3 ourColor;", "out vec3 ourColor", 1)
	p, err := Prepare(broken, quadFragment, options.Default())
	if err != nil {
		t.Fatalf("Prepare() = %v, want the source passed through", err)
	}
	if p.InterfaceChecked {
		t.Error("InterfaceChecked = true before the driver compiled the stages")
	}
}

func TestPrepareESSLRejectsMismatchedStages(t *testing.T) {
	cfg := options.Default()
	cfg.Shaders.Dialect = options.DialectESSL
	_, err := Prepare(strings.ReplaceAll(esVertex, "ourColor", "color"), esFragment, cfg)
	var linkErr *LinkError
	if !errors.As(err, &linkErr) {
		t.Errorf("Prepare() = %v, want *LinkError", err)
	}
}

const esVertex = `#version 300 es
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aColor;
out vec3 ourColor;
void main() {
    gl_Position = vec4(aPos, 1.0);
    ourColor = aColor;
}
`

const esFragment = `#version 300 es
precision mediump float;
out vec4 FragColor;
in vec3 ourColor;
void main() {
    FragColor = vec4(ourColor, 1.0);
}
`

func TestPrepareESSL(t *testing.T) {
	cfg := options.Default()
	cfg.Shaders.Dialect = options.DialectESSL

	p, err := Prepare(esVertex, esFragment, cfg)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if !strings.Contains(p.Vertex, "#version 330") || !strings.Contains(p.Fragment, "#version 330") {
		t.Errorf("Prepare() did not emit GLSL 330:\n%s\n%s", p.Vertex, p.Fragment)
	}
	if len(p.Attributes) != 2 {
		t.Errorf("Attributes = %v, want two entries", p.Attributes)
	}
}

func TestPrepareESSLCompileErrors(t *testing.T) {
	cfg := options.Default()
	cfg.Shaders.Dialect = options.DialectESSL

	tests := []struct {
		name     string
		vertex   string
		fragment string
		stage    Stage
	}{
		{name: "vertex", vertex: strings.Replace(esVertex, "void main() {", "void main() {{", 1), fragment: esFragment, stage: Vertex},
		{name: "vertex varying missing semicolon", vertex: strings.Replace(esVertex, "out vec3 ourColor;", "out vec3 ourColor", 1), fragment: esFragment, stage: Vertex},
		{name: "fragment", vertex: esVertex, fragment: strings.Replace(esFragment, "FragColor = ", "FragColor == ", 1) + "garbage", stage: Fragment},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Prepare(tt.vertex, tt.fragment, cfg)
			var compileErr *CompileError
			if !errors.As(err, &compileErr) {
				t.Fatalf("Prepare() = %v, want *CompileError", err)
			}
			if compileErr.Stage != tt.stage {
				t.Errorf("Stage = %v, want %v", compileErr.Stage, tt.stage)
			}
			if compileErr.Log == "" || len(compileErr.Log) >= MaxInfoLog {
				t.Errorf("Log length = %d, want 1..%d", len(compileErr.Log), MaxInfoLog-1)
			}
		})
	}
}
