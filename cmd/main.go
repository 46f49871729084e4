package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	assets "github.com/richinsley/glquad/assets"
	geometry "github.com/richinsley/glquad/geometry"
	glfwcontext "github.com/richinsley/glquad/glfwcontext"
	options "github.com/richinsley/glquad/options"
	renderer "github.com/richinsley/glquad/renderer"
	shader "github.com/richinsley/glquad/shader"
)

const (
	exitOK      = 0
	exitFailure = -1
)

func init() {
	// GLFW and the GL context must stay on the main OS thread
	runtime.LockOSThread()
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	flags := flag.NewFlagSet("glquad", flag.ContinueOnError)
	flags.SetOutput(stdout)
	var configPath = flags.String("config", "", "Path to a YAML config file (defaults to the built-in 800x600 quad)")
	var help = flags.Bool("help", false, "Show help message")

	// Recording flags
	var record = flags.Bool("record", false, "Render offscreen and encode the frames with ffmpeg")
	var frames = flags.Int("frames", 0, "Number of frames to record")
	var fps = flags.Int("fps", 0, "Frames per second of the recording")
	var outputFile = flags.String("output", "", "Output file for recording (.png/.jpg writes a single frame)")
	var ffmpegPath = flags.String("ffmpeg", "", "Path to ffmpeg executable")

	if err := flags.Parse(args); err != nil {
		return exitFailure
	}
	if *help {
		fmt.Fprintln(stdout, "glquad: draws a colored quad with OpenGL")
		flags.PrintDefaults()
		return exitOK
	}

	cfg := options.Default()
	if *configPath != "" {
		var err error
		cfg, err = options.Load(*configPath)
		if err != nil {
			log.Printf("Failed to load config: %v", err)
			return exitFailure
		}
	}

	// flags given on the command line win over the config file
	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "frames":
			cfg.Record.Frames = *frames
		case "fps":
			cfg.Record.FPS = *fps
		case "output":
			cfg.Record.Output = *outputFile
		case "ffmpeg":
			cfg.Record.FFmpegPath = *ffmpegPath
		}
	})

	if err := cfg.Validate(); err != nil {
		log.Printf("Refusing to create window: %v", err)
		return exitFailure
	}
	if *record {
		if err := cfg.ValidateRecord(); err != nil {
			log.Printf("Cannot record: %v", err)
			return exitFailure
		}
	}

	bundle, err := assets.Load(cfg)
	if err != nil {
		log.Printf("Failed to load assets: %v", err)
		return exitFailure
	}

	// ESSL translation and interface errors are reported before any window opens
	prog, err := shader.Prepare(bundle.VertexSource, bundle.FragmentSource, cfg)
	if err != nil {
		reportSetupError(err)
		return exitFailure
	}

	return render(cfg, prog, bundle.Mesh, *record)
}

func render(cfg *options.Config, prog *shader.Program, mesh *geometry.Mesh, record bool) int {
	if err := glfwcontext.InitGraphics(); err != nil {
		log.Printf("Failed to initialize GLFW: %v", err)
		return exitFailure
	}
	defer glfwcontext.TerminateGraphics()

	// If recording, the window is hidden
	ctx, err := glfwcontext.New(cfg, !record)
	if err != nil {
		log.Printf("Failed to create GLFW window: %v", err)
		return exitFailure
	}
	defer ctx.Shutdown()

	r, err := renderer.NewRenderer(cfg, prog, mesh, ctx)
	if err != nil {
		reportSetupError(err)
		return exitFailure
	}
	defer r.Shutdown()

	if record {
		if err := r.Record(cfg.Record); err != nil {
			log.Printf("Recording failed: %v", err)
			return exitFailure
		}
		log.Printf("Successfully rendered to %s", cfg.Record.Output)
		return exitOK
	}

	r.Run()
	return exitOK
}

func reportSetupError(err error) {
	var compileErr *shader.CompileError
	var linkErr *shader.LinkError
	switch {
	case errors.As(err, &compileErr):
		log.Printf("Failed to compile %s shader:\n%s", compileErr.Stage, compileErr.Log)
	case errors.As(err, &linkErr):
		log.Printf("Failed to link shaders via shader program:\n%s", linkErr.Log)
	default:
		log.Printf("Failed to initialize renderer: %v", err)
	}
}
