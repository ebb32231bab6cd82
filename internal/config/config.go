package config

import (
	"fmt"
	"os"
	"sync"

	"icoview/internal/geometry"

	"gopkg.in/yaml.v3"
)

// WindowSettings controls the window created at startup
type WindowSettings struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	VSync  bool   `yaml:"vsync"`
}

// CameraSettings places the orbit camera
type CameraSettings struct {
	Position [3]float32 `yaml:"position"`
	Target   [3]float32 `yaml:"target"`
	FOV      float32    `yaml:"fov"` // degrees
	Near     float32    `yaml:"near"`
	Far      float32    `yaml:"far"`
}

// IcosphereSettings places the icosphere
type IcosphereSettings struct {
	Center [3]float32 `yaml:"center"`
	Radius float32    `yaml:"radius"`
}

// SceneSettings holds the initial values of the runtime controls
type SceneSettings struct {
	Tessellation int               `yaml:"tessellation"`
	Shader       string            `yaml:"shader"`
	Color        [4]float32        `yaml:"color"`
	Visible      []string          `yaml:"visible"`
	Icosphere    IcosphereSettings `yaml:"icosphere"`
	CubeCenter   [3]float32        `yaml:"cube_center"`
	SquareCenter [3]float32        `yaml:"square_center"`
	LightDir     [3]float32        `yaml:"light_dir"`
}

// Settings is the viewer configuration file
type Settings struct {
	Window     WindowSettings `yaml:"window"`
	Camera     CameraSettings `yaml:"camera"`
	Scene      SceneSettings  `yaml:"scene"`
	ClearColor [4]float32     `yaml:"clear_color"`
	FPSLimit   int            `yaml:"fps_limit"` // 0 = unlimited
	LogLevel   string         `yaml:"log_level"`
	// ShaderDir overrides the embedded shaders with <kind>.vert/<kind>.frag from disk
	ShaderDir string `yaml:"shader_dir"`
	HUD       bool   `yaml:"hud"`
}

// Default returns the settings used when no file is given
func Default() Settings {
	return Settings{
		Window: WindowSettings{Width: 900, Height: 600, Title: "icoview"},
		Camera: CameraSettings{
			Position: [3]float32{0, 0, 5},
			FOV:      45,
			Near:     0.1,
			Far:      1000,
		},
		Scene: SceneSettings{
			Tessellation: 5,
			Shader:       "lambert",
			Color:        [4]float32{1, 0, 0, 1},
			Visible:      []string{"icosphere"},
			Icosphere:    IcosphereSettings{Radius: 1},
			LightDir:     [3]float32{1, 1, 1},
		},
		ClearColor: [4]float32{0.2, 0.2, 0.2, 1},
		FPSLimit:   120,
		LogLevel:   "info",
		HUD:        true,
	}
}

// Load reads a YAML file over the defaults. An empty path returns the defaults.
func Load(path string) (Settings, error) {
	s := Default()
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read config: %w", err)
	}
	if err := Parse(data, &s); err != nil {
		return s, fmt.Errorf("config %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes YAML into s, keeping fields the document leaves out, and clamps the result
func Parse(data []byte, s *Settings) error {
	if err := yaml.Unmarshal(data, s); err != nil {
		return err
	}
	s.Clamp()
	return nil
}

// Clamp forces numeric settings into usable ranges
func (s *Settings) Clamp() {
	def := Default()
	if s.Window.Width < 1 {
		s.Window.Width = def.Window.Width
	}
	if s.Window.Height < 1 {
		s.Window.Height = def.Window.Height
	}
	if s.FPSLimit < 0 {
		s.FPSLimit = 0
	}
	if s.Scene.Tessellation < 0 {
		s.Scene.Tessellation = 0
	}
	if s.Scene.Tessellation > geometry.MaxIcosphereLevel {
		s.Scene.Tessellation = geometry.MaxIcosphereLevel
	}
	if s.Scene.Icosphere.Radius <= 0 {
		s.Scene.Icosphere.Radius = def.Scene.Icosphere.Radius
	}
	if s.Camera.FOV < 10 {
		s.Camera.FOV = 10
	}
	if s.Camera.FOV > 120 {
		s.Camera.FOV = 120
	}
	if s.Camera.Near <= 0 {
		s.Camera.Near = def.Camera.Near
	}
	if s.Camera.Far <= s.Camera.Near {
		s.Camera.Far = s.Camera.Near * 10000
	}
	if s.Scene.LightDir == [3]float32{} {
		s.Scene.LightDir = def.Scene.LightDir
	}
}

// SetTessellation applies a level given explicitly, e.g. by -level.
// Unlike file values, an out-of-range level is rejected rather than clamped.
func (s *Settings) SetTessellation(level int) error {
	if level < 0 || level > geometry.MaxIcosphereLevel {
		return fmt.Errorf("tessellation %d not in [0, %d]: %w", level, geometry.MaxIcosphereLevel, geometry.ErrInvalidParameter)
	}
	s.Scene.Tessellation = level
	return nil
}

// Marshal renders the settings as YAML, e.g. for -dump-config
func (s Settings) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

// RuntimeSettings holds values changed while the viewer runs
type RuntimeSettings struct {
	mu       sync.RWMutex
	fpsLimit int
}

var globalRuntimeSettings = &RuntimeSettings{
	fpsLimit: 120, // default value
}

// GetFPSLimit returns the frame cap; 0 means unlimited
func GetFPSLimit() int {
	globalRuntimeSettings.mu.RLock()
	defer globalRuntimeSettings.mu.RUnlock()
	return globalRuntimeSettings.fpsLimit
}

// SetFPSLimit sets the frame cap
func SetFPSLimit(limit int) {
	globalRuntimeSettings.mu.Lock()
	defer globalRuntimeSettings.mu.Unlock()

	// Clamp to reasonable values
	if limit < 0 {
		limit = 0
	}
	if limit > 1000 {
		limit = 1000
	}

	globalRuntimeSettings.fpsLimit = limit
}
