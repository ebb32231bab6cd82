package scene

import (
	"testing"

	"icoview/internal/geometry"
	"icoview/internal/graphics"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControlsDirtyFlag(t *testing.T) {
	c, err := NewControls(5)
	require.NoError(t, err)
	assert.Equal(t, 5, c.Tessellation())
	assert.False(t, c.Dirty())

	require.NoError(t, c.SetTessellation(5))
	assert.False(t, c.Dirty(), "same level must not mark dirty")

	require.NoError(t, c.SetTessellation(6))
	assert.True(t, c.Dirty())
	c.ClearDirty()
	assert.False(t, c.Dirty())
}

func TestControlsRejectOutOfRange(t *testing.T) {
	_, err := NewControls(9)
	assert.ErrorIs(t, err, geometry.ErrInvalidParameter)

	c, err := NewControls(0)
	require.NoError(t, err)
	assert.ErrorIs(t, c.SetTessellation(-1), geometry.ErrInvalidParameter)
	assert.ErrorIs(t, c.SetTessellation(9), geometry.ErrInvalidParameter)
	assert.Equal(t, 0, c.Tessellation())
	assert.False(t, c.Dirty())
}

func TestControlsStepClamps(t *testing.T) {
	c, err := NewControls(7)
	require.NoError(t, err)
	c.StepTessellation(1)
	assert.Equal(t, 8, c.Tessellation())
	assert.True(t, c.Dirty())
	c.ClearDirty()

	c.StepTessellation(1)
	assert.Equal(t, 8, c.Tessellation())
	assert.False(t, c.Dirty())

	c.StepTessellation(-20)
	assert.Equal(t, 0, c.Tessellation())
}

func TestControlsShaderAndColor(t *testing.T) {
	c, err := NewControls(1)
	require.NoError(t, err)
	assert.Equal(t, graphics.Lambert, c.Shader())
	assert.Equal(t, Red, c.Color())

	c.ToggleShader()
	assert.Equal(t, graphics.Gradient, c.Shader())
	c.ToggleShader()
	assert.Equal(t, graphics.Lambert, c.Shader())
	assert.Error(t, c.SetShader(graphics.ShaderKind(5)))
	require.NoError(t, c.SetShader(graphics.Gradient))
	assert.Equal(t, graphics.Gradient, c.Shader())

	c.MakeGreen()
	assert.Equal(t, Green, c.Color())
	c.MakeBlue()
	assert.Equal(t, Blue, c.Color())
	c.SetColor(mgl32.Vec4{0.5, 0.5, 0.5, 1})
	assert.Equal(t, mgl32.Vec4{0.5, 0.5, 0.5, 1}, c.Color())
	c.MakeRed()
	assert.Equal(t, Red, c.Color())
}
