package glfwcontext

import (
	"errors"
	"fmt"
	"log"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	options "github.com/richinsley/glquad/options"
)

var errNoWindow = errors.New("glfw returned no window")

// Context is a GLFW window with its OpenGL context.
type Context struct {
	window *glfw.Window
}

// New creates a window with the context version and profile requested by
// cfg and makes its context current on the calling thread.
func New(cfg *options.Config, visible bool) (*Context, error) {
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.ContextVersionMajor, cfg.GL.Major)
	glfw.WindowHint(glfw.ContextVersionMinor, cfg.GL.Minor)
	if cfg.GL.Core {
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	}
	// macOS returns no window for a core context without this
	if cfg.GL.ForwardCompat {
		glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	}

	if visible {
		glfw.WindowHint(glfw.Resizable, glfw.True)
	} else {
		glfw.WindowHint(glfw.Visible, glfw.False)
		glfw.WindowHint(glfw.Resizable, glfw.False)
	}

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create GLFW window for OpenGL %d.%d: %w", cfg.GL.Major, cfg.GL.Minor, err)
	}
	if win == nil {
		return nil, errNoWindow
	}

	win.MakeContextCurrent()
	// a press between two polls must still be seen by the exit check
	win.SetInputMode(glfw.StickyKeysMode, glfw.True)

	return &Context{window: win}, nil
}

// MakeCurrent makes the context current for the calling goroutine.
func (c *Context) MakeCurrent() {
	c.window.MakeContextCurrent()
}

func (c *Context) Shutdown() {
	c.window.Destroy()
}

func (c *Context) PollEvents() {
	glfw.PollEvents()
}

func (c *Context) SwapBuffers() {
	c.window.SwapBuffers()
}

func (c *Context) ShouldClose() bool {
	return c.window.ShouldClose()
}

func (c *Context) EscapePressed() bool {
	return escapePressed(c.window.GetKey)
}

// escapePressed reports whether getKey reads Escape as pressed. No other key
// is consulted.
func escapePressed(getKey func(glfw.Key) glfw.Action) bool {
	return getKey(glfw.KeyEscape) == glfw.Press
}

func (c *Context) GetFramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}

func (c *Context) Time() float64 {
	return glfw.GetTime()
}

// InitGraphics initializes GLFW. Must be called from the main thread.
func InitGraphics() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return err
	}
	log.Printf("GLFW Initialized")
	return nil
}

// TerminateGraphics shuts down GLFW. Must be called from the main thread.
func TerminateGraphics() {
	glfw.Terminate()
	log.Printf("GLFW Terminated")
}
