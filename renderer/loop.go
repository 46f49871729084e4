package renderer

import (
	graphics "github.com/richinsley/glquad/graphics"
)

type State int

const (
	Running State = iota
	Terminating
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "terminating"
}

// Frame draws one frame into the current context.
type Frame interface {
	DrawFrame()
}

// Run is a do/while loop: poll, draw, swap, then decide whether to go round
// again. It never sleeps or waits for events, so pacing is whatever the
// buffer swap imposes. It returns the number of frames presented.
func Run(ctx graphics.Context, f Frame) int {
	frames := 0
	for state := Running; state == Running; state = nextState(ctx) {
		ctx.PollEvents()
		f.DrawFrame()
		ctx.SwapBuffers()
		frames++
	}
	return frames
}

// nextState leaves Running only on Escape or a close request.
func nextState(ctx graphics.Context) State {
	if ctx.EscapePressed() || ctx.ShouldClose() {
		return Terminating
	}
	return Running
}
