package renderer

import (
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	options "github.com/richinsley/glquad/options"
	"github.com/schollz/progressbar/v3"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// isImageOutput reports whether the output file holds a single still frame.
func isImageOutput(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".bmp":
		return true
	}
	return false
}

// getArgs builds the ffmpeg arguments for raw RGBA frames of the given size.
// Rows arrive bottom-up from glReadPixels, hence the vflip.
func getArgs(rec options.RecordOptions, width, height int) (inputArgs ffmpeg.KwArgs, outputArgs ffmpeg.KwArgs) {
	inputArgs = ffmpeg.KwArgs{
		"format":    "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", width, height),
		"framerate": rec.FPS,
	}

	outputArgs = ffmpeg.KwArgs{
		"vf": "vflip",
	}
	if isImageOutput(rec.Output) {
		outputArgs["frames:v"] = 1
	} else {
		outputArgs["pix_fmt"] = "yuv420p"
	}
	return
}

// recordFrames returns how many frames to render for rec.
func recordFrames(rec options.RecordOptions) int {
	if isImageOutput(rec.Output) {
		return 1
	}
	return rec.Frames
}

// readFrame reads the back buffer as tightly packed RGBA8 rows.
func readFrame(pixels []byte, width, height int) {
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadBuffer(gl.BACK)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&pixels[0]))
}

// Record renders a fixed number of frames and streams them to ffmpeg.
// GL calls stay on the calling thread; only the ffmpeg process is waited on
// from a goroutine.
func (r *Renderer) Record(rec options.RecordOptions) error {
	width, height := r.context.GetFramebufferSize()
	if width <= 0 || height <= 0 {
		return fmt.Errorf("cannot record a %dx%d framebuffer", width, height)
	}
	frames := recordFrames(rec)

	pipeReader, pipeWriter := io.Pipe()
	inputArgs, outputArgs := getArgs(rec, width, height)

	ffmpegCmd := ffmpeg.Input("pipe:", inputArgs).
		Output(rec.Output, outputArgs).
		OverWriteOutput().WithInput(pipeReader).ErrorToStdOut()
	if rec.FFmpegPath != "" {
		ffmpegCmd = ffmpegCmd.SetFfmpegPath(rec.FFmpegPath)
	}

	errc := make(chan error, 1)
	go func() {
		err := ffmpegCmd.Run()
		// unblock the writer if ffmpeg exits before reading every frame
		pipeReader.CloseWithError(fmt.Errorf("ffmpeg exited: %v", err))
		errc <- err
	}()

	log.Printf("Recording %d frame(s) at %dx%d to %s", frames, width, height, rec.Output)
	bar := progressbar.Default(int64(frames), "recording")
	pixels := make([]byte, width*height*4)

	var writeErr error
	barFailed := false
	for i := 0; i < frames; i++ {
		if r.context.ShouldClose() {
			log.Printf("Window closed after %d frame(s)", i)
			break
		}
		r.context.PollEvents()
		r.DrawFrame()
		readFrame(pixels, width, height)
		r.context.SwapBuffers()

		if _, err := pipeWriter.Write(pixels); err != nil {
			writeErr = fmt.Errorf("failed to write frame %d to ffmpeg: %w", i, err)
			break
		}
		if err := bar.Add(1); err != nil && !barFailed {
			log.Printf("Progress bar failed, recording continues: %v", err)
			barFailed = true
		}
	}
	if err := bar.Finish(); err != nil && !barFailed {
		log.Printf("Progress bar failed: %v", err)
	}
	pipeWriter.Close()

	if err := <-errc; err != nil {
		return fmt.Errorf("ffmpeg failed: %w", err)
	}
	return writeErr
}
