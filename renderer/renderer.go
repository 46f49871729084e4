package renderer

import (
	"fmt"
	"log"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
	geometry "github.com/richinsley/glquad/geometry"
	graphics "github.com/richinsley/glquad/graphics"
	options "github.com/richinsley/glquad/options"
	shader "github.com/richinsley/glquad/shader"
)

var glInitOnce sync.Once

// Renderer owns the program and mesh buffers drawn every frame.
type Renderer struct {
	context    graphics.Context
	program    uint32
	mesh       *meshBuffers
	clearColor [4]float32
}

// InitGL loads the OpenGL function table for the current context. Only the
// first call does any work.
func InitGL() error {
	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
		if initErr == nil {
			log.Printf("OpenGL version %s", gl.GoStr(gl.GetString(gl.VERSION)))
		}
	})
	if initErr != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}
	return nil
}

// NewRenderer builds the shader program and uploads the mesh on ctx.
// The context is made current first.
func NewRenderer(cfg *options.Config, prog *shader.Program, mesh *geometry.Mesh, ctx graphics.Context) (*Renderer, error) {
	if err := mesh.Validate(); err != nil {
		return nil, err
	}

	ctx.MakeCurrent()
	if err := InitGL(); err != nil {
		return nil, err
	}

	program, err := newProgram(prog)
	if err != nil {
		return nil, err
	}

	r := &Renderer{
		context:    ctx,
		program:    program,
		mesh:       uploadMesh(mesh),
		clearColor: cfg.ClearColor,
	}
	log.Printf("Uploaded %d vertices, %d triangles", mesh.VertexCount(), len(mesh.Triangles()))
	return r, nil
}

// DrawFrame clears the framebuffer and draws the mesh once.
func (r *Renderer) DrawFrame() {
	fbWidth, fbHeight := r.context.GetFramebufferSize()
	gl.Viewport(0, 0, int32(fbWidth), int32(fbHeight))

	c := r.clearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.UseProgram(r.program)
	r.mesh.draw()
}

// Run renders until Escape is pressed or the window is closed.
func (r *Renderer) Run() int {
	log.Println("Starting render loop...")
	frames := Run(r.context, r)
	log.Printf("Render loop finished after %d frames", frames)
	return frames
}

// Shutdown releases the program and buffers. The context is shut down by its owner.
func (r *Renderer) Shutdown() {
	if r.mesh != nil {
		r.mesh.destroy()
	}
	gl.DeleteProgram(r.program)
}
