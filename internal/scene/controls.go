package scene

import (
	"fmt"

	"icoview/internal/geometry"
	"icoview/internal/graphics"

	"github.com/go-gl/mathgl/mgl32"
)

// Palette colors offered by the controls
var (
	Red   = mgl32.Vec4{1, 0, 0, 1}
	Green = mgl32.Vec4{0, 1, 0, 1}
	Blue  = mgl32.Vec4{0, 0, 1, 1}
)

// Controls holds the values the user edits at runtime. The scene reads them
// once per frame; a tessellation change marks the controls dirty until the
// scene has rebuilt the icosphere.
type Controls struct {
	tessellation int
	dirty        bool
	shader       graphics.ShaderKind
	color        mgl32.Vec4
}

// NewControls starts at the given level with the lambert program and red
func NewControls(level int) (*Controls, error) {
	c := &Controls{shader: graphics.Lambert, color: Red}
	if err := c.SetTessellation(level); err != nil {
		return nil, err
	}
	c.dirty = false
	return c, nil
}

func (c *Controls) Tessellation() int {
	return c.tessellation
}

// SetTessellation changes the icosphere level, marking the controls dirty when it differs
func (c *Controls) SetTessellation(level int) error {
	if level < 0 || level > geometry.MaxIcosphereLevel {
		return fmt.Errorf("tessellation %d outside [0,%d]: %w", level, geometry.MaxIcosphereLevel, geometry.ErrInvalidParameter)
	}
	if level != c.tessellation {
		c.tessellation = level
		c.dirty = true
	}
	return nil
}

// revertTessellation puts back a level the scene has realized without marking the controls dirty
func (c *Controls) revertTessellation(level int) {
	c.tessellation = level
}

// StepTessellation moves the level by delta, stopping at the bounds
func (c *Controls) StepTessellation(delta int) {
	level := c.tessellation + delta
	if level < 0 {
		level = 0
	}
	if level > geometry.MaxIcosphereLevel {
		level = geometry.MaxIcosphereLevel
	}
	_ = c.SetTessellation(level)
}

func (c *Controls) Dirty() bool {
	return c.dirty
}

func (c *Controls) ClearDirty() {
	c.dirty = false
}

func (c *Controls) Shader() graphics.ShaderKind {
	return c.shader
}

func (c *Controls) SetShader(kind graphics.ShaderKind) error {
	if !kind.Valid() {
		return fmt.Errorf("shader %v: %w", kind, geometry.ErrInvalidParameter)
	}
	c.shader = kind
	return nil
}

// ToggleShader switches to the next built-in program
func (c *Controls) ToggleShader() {
	c.shader = c.shader.Next()
}

func (c *Controls) Color() mgl32.Vec4 {
	return c.color
}

func (c *Controls) SetColor(color mgl32.Vec4) {
	c.color = color
}

func (c *Controls) MakeRed()   { c.color = Red }
func (c *Controls) MakeGreen() { c.color = Green }
func (c *Controls) MakeBlue()  { c.color = Blue }
