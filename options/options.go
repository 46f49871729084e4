package options

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every error returned from Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Shader dialects understood by the shader loader.
const (
	DialectGLSL = "glsl" // desktop GLSL, handed to the driver unchanged
	DialectESSL = "essl" // GLSL ES 3.00, translated to desktop GLSL first
)

type GLOptions struct {
	Major         int  `yaml:"major"`
	Minor         int  `yaml:"minor"`
	Core          bool `yaml:"core"`
	ForwardCompat bool `yaml:"forward_compat"`
}

// ShaderOptions names the shader sources. Empty paths select the embedded defaults.
type ShaderOptions struct {
	Vertex   string `yaml:"vertex"`
	Fragment string `yaml:"fragment"`
	Dialect  string `yaml:"dialect"`
}

type RecordOptions struct {
	Frames     int    `yaml:"frames"`
	FPS        int    `yaml:"fps"`
	Output     string `yaml:"output"`
	FFmpegPath string `yaml:"ffmpeg"`
}

// Config is everything the bootstrap needs to open a window and draw the mesh.
type Config struct {
	Width      int           `yaml:"width"`
	Height     int           `yaml:"height"`
	Title      string        `yaml:"title"`
	GL         GLOptions     `yaml:"gl"`
	ClearColor [4]float32    `yaml:"clear_color"`
	Shaders    ShaderOptions `yaml:"shaders"`
	Geometry   string        `yaml:"geometry"`
	Record     RecordOptions `yaml:"record"`
}

// Default returns the stock 800x600 GL 3.3 core configuration.
func Default() *Config {
	return &Config{
		Width:  800,
		Height: 600,
		Title:  "OpenGLTest",
		GL: GLOptions{
			Major:         3,
			Minor:         3,
			Core:          true,
			ForwardCompat: true,
		},
		ClearColor: [4]float32{0.2, 0.3, 0.3, 1.0},
		Shaders: ShaderOptions{
			Dialect: DialectGLSL,
		},
		Record: RecordOptions{
			Frames: 60,
			FPS:    60,
			Output: "output.mp4",
		},
	}
}

// Load reads a YAML config file on top of Default. Unknown keys are an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	// relative asset paths are resolved against the config file's directory
	dir := filepath.Dir(path)
	cfg.Shaders.Vertex = resolve(dir, cfg.Shaders.Vertex)
	cfg.Shaders.Fragment = resolve(dir, cfg.Shaders.Fragment)
	cfg.Geometry = resolve(dir, cfg.Geometry)
	return cfg, nil
}

// Parse decodes YAML config data on top of Default.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		// an empty document leaves the defaults untouched
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return nil, err
	}
	cfg.Shaders.Dialect = strings.ToLower(cfg.Shaders.Dialect)
	return cfg, nil
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// Validate rejects sizes and context requests that GLFW cannot satisfy
// for a core-profile 3.3+ program.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	gl := c.GL
	if gl.Major < 3 || (gl.Major == 3 && gl.Minor < 3) {
		return fmt.Errorf("%w: OpenGL %d.%d is below the required 3.3", ErrInvalidConfig, gl.Major, gl.Minor)
	}
	if gl.Major > 4 || (gl.Major == 4 && gl.Minor > 6) || (gl.Major == 3 && gl.Minor > 3) {
		return fmt.Errorf("%w: OpenGL %d.%d does not exist", ErrInvalidConfig, gl.Major, gl.Minor)
	}
	if !gl.Core && gl.ForwardCompat {
		return fmt.Errorf("%w: forward compatibility requires the core profile", ErrInvalidConfig)
	}
	for i, v := range c.ClearColor {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: clear_color[%d] = %v is outside [0,1]", ErrInvalidConfig, i, v)
		}
	}
	switch c.Shaders.Dialect {
	case DialectGLSL, DialectESSL:
	default:
		return fmt.Errorf("%w: unknown shader dialect %q", ErrInvalidConfig, c.Shaders.Dialect)
	}
	return nil
}

// ValidateRecord checks the settings used by record mode.
func (c *Config) ValidateRecord() error {
	if c.Record.Frames <= 0 {
		return fmt.Errorf("%w: record frames must be positive, got %d", ErrInvalidConfig, c.Record.Frames)
	}
	if c.Record.FPS <= 0 {
		return fmt.Errorf("%w: record fps must be positive, got %d", ErrInvalidConfig, c.Record.FPS)
	}
	if c.Record.Output == "" {
		return fmt.Errorf("%w: record output file is empty", ErrInvalidConfig)
	}
	return nil
}
