// Package config loads the application settings from YAML.
//
// Every value has a default in the embedded default.yaml. A user file only needs the keys it
// overrides; unknown keys are rejected.
package config

import (
	"bytes"
	_ "embed"
	"io"
	"os"

	"github.com/Carmen-Shannon/oxy-lensflare/engine/logger"
	"github.com/davecgh/go-spew/spew"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Vec3 is a three component YAML sequence.
type Vec3 []float32

// Vec converts v to a mathgl vector. Missing components read as zero.
func (v Vec3) Vec() mgl32.Vec3 {
	var out mgl32.Vec3
	copy(out[:], v)
	return out
}

// Config is the full application configuration.
type Config struct {
	Window     WindowConfig     `yaml:"window"`
	Projection ProjectionConfig `yaml:"projection"`
	FrameRate  float64          `yaml:"frame_rate"`
	Camera     CameraConfig     `yaml:"camera"`
	Light      LightConfig      `yaml:"light"`
	Scene      SceneConfig      `yaml:"scene"`
	Flare      FlareConfig      `yaml:"flare"`
	Assets     AssetsConfig     `yaml:"assets"`
	Log        logger.Config    `yaml:"log"`
	Profiling  bool             `yaml:"profiling"`
}

// WindowConfig sizes the window in pixels and toggles vertical sync.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	VSync  bool   `yaml:"vsync"`
}

// ProjectionConfig holds the perspective parameters. Fov is in degrees.
type ProjectionConfig struct {
	Fov  float32 `yaml:"fov"`
	Near float32 `yaml:"near"`
	Far  float32 `yaml:"far"`
}

// CameraConfig holds the start pose and controller tuning. Pitch and yaw are in radians;
// mouse sensitivity is in pixels per radian.
type CameraConfig struct {
	Position         Vec3    `yaml:"position"`
	Pitch            float32 `yaml:"pitch"`
	Yaw              float32 `yaml:"yaw"`
	MoveSpeed        float32 `yaml:"move_speed"`
	MouseSensitivity float32 `yaml:"mouse_sensitivity"`
}

// LightConfig places the point light in world space. Color components are in [0, 1].
type LightConfig struct {
	Position Vec3 `yaml:"position"`
	Color    Vec3 `yaml:"color"`
}

// SceneConfig tunes the room. The table angle starts at InitialSpin and grows by SpinSpeed
// radians per tick; BallSeed seeds the random ball orientations.
type SceneConfig struct {
	ClearColor  Vec3    `yaml:"clear_color"`
	InitialSpin float32 `yaml:"initial_spin"`
	SpinSpeed   float32 `yaml:"spin_speed"`
	BallSeed    int64   `yaml:"ball_seed"`
}

// FlareElement selects a flare shape texture by index and its size relative to the screen.
type FlareElement struct {
	Shape int     `yaml:"shape"`
	Scale float32 `yaml:"scale"`
}

// FlareConfig holds the cutoff distance, the occlusion probe width (both in NDC units) and the element chain.
type FlareConfig struct {
	Cutoff    float32        `yaml:"cutoff"`
	ProbeSize float32        `yaml:"probe_size"`
	Elements  []FlareElement `yaml:"elements"`
}

// AssetsConfig locates textures and models. Patterns take one integer: the ball number or the
// flare shape index. LampModel is an optional glTF file replacing the procedural lamp shade.
type AssetsConfig struct {
	Dir          string `yaml:"dir"`
	BallPattern  string `yaml:"ball_pattern"`
	FlarePattern string `yaml:"flare_pattern"`
	LampModel    string `yaml:"lamp_model"`
}

// Default returns the embedded default configuration.
//
// Returns:
//   - *Config: the defaults
//   - error: error if the embedded file is malformed
func Default() (*Config, error) {
	cfg := &Config{}
	if err := decode(bytes.NewReader(defaultYAML), cfg); err != nil {
		return nil, errors.Wrap(err, "default config")
	}
	return cfg, nil
}

// Load returns the defaults overridden by the YAML file at path, validated.
// An empty path returns the validated defaults.
//
// Parameters:
//   - path: the user configuration file, or ""
//
// Returns:
//   - *Config: the effective configuration
//   - error: error if the file cannot be read, has unknown keys or fails validation
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "open config")
		}
		defer f.Close()
		if err := decode(f, cfg); err != nil {
			return nil, errors.Wrapf(err, "config %s", path)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse overrides the defaults with YAML read from r and validates the result.
//
// Parameters:
//   - r: the YAML source
//
// Returns:
//   - *Config: the effective configuration
//   - error: error if decoding or validation fails
func Parse(r io.Reader) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}
	if err := decode(r, cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return err
	}
	return nil
}

// Validate checks every value the renderer relies on.
//
// Returns:
//   - error: the first invalid field, or nil
func (c *Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return errors.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	case c.Projection.Fov <= 0 || c.Projection.Fov >= 180:
		return errors.Errorf("projection fov must be in (0, 180), got %v", c.Projection.Fov)
	case c.Projection.Near <= 0 || c.Projection.Near >= c.Projection.Far:
		return errors.Errorf("projection planes must satisfy 0 < near < far, got %v, %v", c.Projection.Near, c.Projection.Far)
	case c.FrameRate <= 0:
		return errors.Errorf("frame rate must be positive, got %v", c.FrameRate)
	case c.Camera.MoveSpeed < 0:
		return errors.Errorf("camera move speed must not be negative, got %v", c.Camera.MoveSpeed)
	case c.Camera.MouseSensitivity <= 0:
		return errors.Errorf("camera mouse sensitivity must be positive, got %v", c.Camera.MouseSensitivity)
	case c.Flare.Cutoff <= 0:
		return errors.Errorf("flare cutoff must be positive, got %v", c.Flare.Cutoff)
	case c.Flare.ProbeSize <= 0:
		return errors.Errorf("flare probe size must be positive, got %v", c.Flare.ProbeSize)
	}

	vectors := []struct {
		name  string
		v     Vec3
		color bool
	}{
		{"camera.position", c.Camera.Position, false},
		{"light.position", c.Light.Position, false},
		{"light.color", c.Light.Color, true},
		{"scene.clear_color", c.Scene.ClearColor, true},
	}
	for _, vec := range vectors {
		if len(vec.v) != 3 {
			return errors.Errorf("%s must have 3 components, got %d", vec.name, len(vec.v))
		}
		if !vec.color {
			continue
		}
		for _, x := range vec.v {
			if x < 0 || x > 1 {
				return errors.Errorf("%s components must be in [0, 1], got %v", vec.name, []float32(vec.v))
			}
		}
	}

	for i, e := range c.Flare.Elements {
		if e.Scale <= 0 {
			return errors.Errorf("flare element %d scale must be positive, got %v", i, e.Scale)
		}
		if e.Shape < 0 {
			return errors.Errorf("flare element %d shape must not be negative, got %d", i, e.Shape)
		}
	}
	return nil
}

// Shapes returns the distinct flare shape indices in first-use order.
func (c *Config) Shapes() []int {
	seen := make(map[int]bool, len(c.Flare.Elements))
	var out []int
	for _, e := range c.Flare.Elements {
		if !seen[e.Shape] {
			seen[e.Shape] = true
			out = append(out, e.Shape)
		}
	}
	return out
}

var dumpConfig = &spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}

// Dump renders the configuration for debug logging.
func (c *Config) Dump() string {
	return dumpConfig.Sdump(c)
}
