package graphics

// Context defines the window and OpenGL context the render loop drives.
type Context interface {
	MakeCurrent()
	Shutdown()
	// PollEvents processes pending window events without waiting.
	PollEvents()
	SwapBuffers()
	ShouldClose() bool
	EscapePressed() bool
	GetFramebufferSize() (int, int)
	Time() float64
}
