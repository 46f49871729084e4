package shader

import (
	"fmt"
	"strings"
)

// MaxInfoLog bounds every compile or link diagnostic, NUL included.
const MaxInfoLog = 512

type Stage int

const (
	Vertex Stage = iota
	Fragment
)

func (s Stage) String() string {
	switch s {
	case Vertex:
		return "vertex"
	case Fragment:
		return "fragment"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// CompileError reports a shader stage that failed to compile or translate.
type CompileError struct {
	Stage Stage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("failed to compile %s shader: %s", e.Stage, e.Log)
}

// LinkError reports a program that failed to link, or two stages whose
// interfaces cannot be linked.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("failed to link shader program: %s", e.Log)
}

// BoundLog turns a raw driver info log into the text reported to the user:
// trailing NULs and whitespace dropped, at most MaxInfoLog-1 bytes kept.
func BoundLog(raw string) string {
	if i := strings.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	if len(raw) > MaxInfoLog-1 {
		raw = raw[:MaxInfoLog-1]
	}
	raw = strings.TrimRight(raw, " \t\r\n")
	if raw == "" {
		return "(no info log)"
	}
	return raw
}
