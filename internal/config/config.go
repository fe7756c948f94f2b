package config

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"rayder/internal/geom"
	"rayder/internal/mathutil"
)

// Config holds every setting of the renderer and the game loop.
type Config struct {
	Display  DisplayConfig  `yaml:"display"`
	Player   PlayerConfig   `yaml:"player"`
	Movement MovementConfig `yaml:"movement"`
	Render   RenderConfig   `yaml:"render"`
	Assets   AssetsConfig   `yaml:"assets"`
	Logging  LoggingConfig  `yaml:"logging"`
	Debug    DebugConfig    `yaml:"debug"`
}

type DisplayConfig struct {
	ScreenWidth  int    `yaml:"screen_width"`
	ScreenHeight int    `yaml:"screen_height"`
	WindowTitle  string `yaml:"window_title"`
	Resizable    bool   `yaml:"resizable"`
	TargetFPS    int    `yaml:"target_fps"`
}

// PlayerConfig is the starting pose. Vectors are [x, y] in map cells, +y north.
type PlayerConfig struct {
	StartPosition  [2]float64 `yaml:"start_position"`
	StartDirection [2]float64 `yaml:"start_direction"`
	CameraPlane    [2]float64 `yaml:"camera_plane"`
}

type MovementConfig struct {
	MoveSpeed            float64 `yaml:"move_speed"`             // cells per frame
	RotationSpeedDegrees float64 `yaml:"rotation_speed_degrees"` // degrees per frame
}

type RenderConfig struct {
	Workers       int          `yaml:"workers"`      // column casting goroutines, 0 = one per CPU, 1 = inline
	MaxSteps      int          `yaml:"max_steps"`    // DDA step cap, 0 = derived from map size
	DarkenAlpha   int          `yaml:"darken_alpha"` // 0..255
	SliceCache    bool         `yaml:"slice_cache"`
	Colors        ColorsConfig `yaml:"colors"`
	WallPalette   [][3]int     `yaml:"wall_palette"`
	SpritePalette [][3]int     `yaml:"sprite_palette"`
}

type ColorsConfig struct {
	Floor   [3]int `yaml:"floor"`
	Ceiling [3]int `yaml:"ceiling"`
}

// AssetsConfig names the map file and texture folders. Empty entries fall
// back to the built-in map and palette placeholders.
type AssetsConfig struct {
	MapFile        string `yaml:"map_file"`
	WallTextures   string `yaml:"wall_textures"`
	SpriteTextures string `yaml:"sprite_textures"`
	SkyTexture     string `yaml:"sky_texture"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "text"
}

type DebugConfig struct {
	Overlay bool `yaml:"overlay"`
	// PerfLog logs a performance snapshot every PerfLogSeconds.
	PerfLog        bool `yaml:"perf_log"`
	PerfLogSeconds int  `yaml:"perf_log_seconds"`
	// LockChecks turns on lock-order and timeout detection for the
	// renderer's mutexes.
	LockChecks bool `yaml:"lock_checks"`
}

// Default returns the built-in settings: a 640x480 window at 30 frames per
// second, starting at (3,3) looking east.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			ScreenWidth:  640,
			ScreenHeight: 480,
			WindowTitle:  "rayder",
			TargetFPS:    30,
		},
		Player: PlayerConfig{
			StartPosition:  [2]float64{3, 3},
			StartDirection: [2]float64{1, 0},
			CameraPlane:    [2]float64{0, -0.66},
		},
		Movement: MovementConfig{
			MoveSpeed:            0.05,
			RotationSpeedDegrees: 2.5,
		},
		Render: RenderConfig{
			DarkenAlpha: 128,
			Colors: ColorsConfig{
				Floor:   [3]int{102, 102, 102},
				Ceiling: [3]int{51, 51, 51},
			},
			WallPalette: [][3]int{
				{0, 0, 0},       // black
				{255, 255, 255}, // white
				{255, 0, 0},     // red
				{0, 255, 0},     // green
				{0, 0, 255},     // blue
				{255, 255, 0},   // yellow
				{255, 0, 255},   // purple
				{255, 128, 0},   // orange
			},
			SpritePalette: [][3]int{
				{255, 255, 0},
				{0, 255, 255},
				{255, 128, 0},
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Debug: DebugConfig{
			Overlay:        true,
			PerfLogSeconds: 5,
		},
	}
}

// LoadConfig reads a YAML file over the defaults, so a file only needs the
// keys it changes.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", filename, err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", filename, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", filename, err)
	}
	return config, nil
}

// MustLoadConfig loads the configuration and panics on error
func MustLoadConfig(filename string) *Config {
	config, err := LoadConfig(filename)
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}
	return config
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Display.ScreenWidth <= 0 || c.Display.ScreenHeight <= 0 {
		errs = append(errs, fmt.Errorf("screen size %dx%d must be positive", c.Display.ScreenWidth, c.Display.ScreenHeight))
	}
	if c.Display.TargetFPS <= 0 {
		errs = append(errs, fmt.Errorf("target_fps %d must be positive", c.Display.TargetFPS))
	}
	dir, plane := c.GetStartDirection(), c.GetCameraPlane()
	if dir.Len() == 0 {
		errs = append(errs, errors.New("start_direction must not be zero"))
	}
	if plane.Len() == 0 {
		errs = append(errs, errors.New("camera_plane must not be zero"))
	}
	if d := dir.Dot(plane); math.Abs(d) > 1e-9 {
		errs = append(errs, fmt.Errorf("camera_plane is not perpendicular to start_direction (dot %g)", d))
	}
	if c.Movement.MoveSpeed < 0 || c.Movement.RotationSpeedDegrees < 0 {
		errs = append(errs, errors.New("movement speeds must not be negative"))
	}
	if c.Render.DarkenAlpha < 0 || c.Render.DarkenAlpha > 255 {
		errs = append(errs, fmt.Errorf("darken_alpha %d out of range 0..255", c.Render.DarkenAlpha))
	}
	if c.Render.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers %d must not be negative", c.Render.Workers))
	}
	return errors.Join(errs...)
}

// Helper functions for easy access to commonly used values
func (c *Config) GetScreenWidth() int {
	return c.Display.ScreenWidth
}

func (c *Config) GetScreenHeight() int {
	return c.Display.ScreenHeight
}

func (c *Config) GetTargetFPS() int {
	return c.Display.TargetFPS
}

func (c *Config) GetMoveSpeed() float64 {
	return c.Movement.MoveSpeed
}

// GetRotSpeed returns the rotation speed in radians per frame.
func (c *Config) GetRotSpeed() float64 {
	return mathutil.ToRadians(c.Movement.RotationSpeedDegrees)
}

func (c *Config) GetStartPosition() geom.Vec2 {
	return geom.V(c.Player.StartPosition[0], c.Player.StartPosition[1])
}

func (c *Config) GetStartDirection() geom.Vec2 {
	return geom.V(c.Player.StartDirection[0], c.Player.StartDirection[1])
}

func (c *Config) GetCameraPlane() geom.Vec2 {
	return geom.V(c.Player.CameraPlane[0], c.Player.CameraPlane[1])
}

// GetFOV returns the field of view implied by the starting direction and
// camera plane, in radians.
func (c *Config) GetFOV() float64 {
	return 2 * math.Atan2(c.GetCameraPlane().Len(), c.GetStartDirection().Len())
}

func (c *Config) GetFloorColor() color.RGBA {
	return toRGBA(c.Render.Colors.Floor)
}

func (c *Config) GetCeilingColor() color.RGBA {
	return toRGBA(c.Render.Colors.Ceiling)
}

func (c *Config) GetWallPalette() []color.RGBA {
	return toPalette(c.Render.WallPalette)
}

func (c *Config) GetSpritePalette() []color.RGBA {
	return toPalette(c.Render.SpritePalette)
}

func (c *Config) GetDarkenAlpha() uint8 {
	return uint8(mathutil.IntClamp(c.Render.DarkenAlpha, 0, 255))
}

func toRGBA(rgb [3]int) color.RGBA {
	return color.RGBA{
		R: uint8(mathutil.IntClamp(rgb[0], 0, 255)),
		G: uint8(mathutil.IntClamp(rgb[1], 0, 255)),
		B: uint8(mathutil.IntClamp(rgb[2], 0, 255)),
		A: 255,
	}
}

func toPalette(colors [][3]int) []color.RGBA {
	out := make([]color.RGBA, len(colors))
	for i, c := range colors {
		out[i] = toRGBA(c)
	}
	return out
}
