package hud

import (
	"testing"
	"time"

	"icoview/assets"
	"icoview/internal/graphics"
	"icoview/internal/graphics/devicetest"
	"icoview/internal/graphics/renderer"
	"icoview/internal/graphics/text"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ renderer.Renderable = (*HUD)(nil)

func TestLines(t *testing.T) {
	lines := Lines(Stats{
		FPS:       144,
		Level:     3,
		Vertices:  642,
		Triangles: 1280,
		Shader:    "gradient",
		Color:     mgl32.Vec4{0, 1, 0, 1},
	})
	assert.Equal(t, []string{
		"FPS: 144",
		"Tessellation: 3",
		"Vertices: 642  Triangles: 1280",
		"Shader: gradient",
		"Color: 0.00 1.00 0.00",
	}, lines)
}

func TestToggleAndViewport(t *testing.T) {
	h := NewHUD(nil, nil, nil)
	assert.True(t, h.Visible())
	h.Toggle()
	assert.False(t, h.Visible())

	h.SetViewport(0, 100)
	assert.Equal(t, mgl32.Ortho(0, 900, 600, 0, -1, 1), h.projection)
	h.SetViewport(1280, 720)
	assert.Equal(t, mgl32.Ortho(0, 1280, 720, 0, -1, 1), h.projection)

	// not initialized: rendering is a no-op
	h.Toggle()
	h.Render(renderer.RenderContext{})
}

func TestProfilingLine(t *testing.T) {
	assert.Equal(t, "Scene: 4.2ms  scene.Rebuild:4.2ms, hud.Render:0.1ms",
		ProfilingLine(4200*time.Microsecond, "scene.Rebuild:4.2ms, hud.Render:0.1ms"))
	assert.Equal(t, "Scene: 0.0ms", ProfilingLine(0, ""))
}

func newTextProgram(t *testing.T, dev graphics.Device) *graphics.ShaderProgram {
	t.Helper()
	sources, err := graphics.ReadSources(assets.Shaders, "text")
	require.NoError(t, err)
	p, err := graphics.CompileProgram(dev, sources...)
	require.NoError(t, err)
	return p
}

func TestSetUniforms(t *testing.T) {
	dev := devicetest.NewRecorder()
	h := NewHUD(dev, assets.Shaders, nil)
	h.program = newTextProgram(t, dev)
	h.SetViewport(640, 480)

	require.NoError(t, h.setUniforms())
	proj := dev.UniformsNamed("u_Proj")
	require.Len(t, proj, 1)
	assert.Equal(t, mgl32.Ortho(0, 640, 480, 0, -1, 1), proj[0].Value)
	color := dev.UniformsNamed("u_TextColor")
	require.Len(t, color, 1)
	assert.Equal(t, textColor, color[0].Value)
}

func TestSetUniformsReportsDeletedProgram(t *testing.T) {
	dev := devicetest.NewRecorder()
	h := NewHUD(dev, assets.Shaders, nil)
	h.program = newTextProgram(t, dev)
	h.program.Delete()

	assert.ErrorIs(t, h.setUniforms(), graphics.ErrProgramNotLinked)
	assert.Empty(t, dev.Uniforms)
}

func TestSetUniformsReportsMissingUniform(t *testing.T) {
	dev := devicetest.NewRecorder()
	h := NewHUD(dev, assets.Shaders, nil)
	p, err := graphics.CompileProgram(dev,
		graphics.ShaderSource{Stage: graphics.StageVertex, Source: "uniform mat4 u_Proj;\nvoid main() {}"},
		graphics.ShaderSource{Stage: graphics.StageFragment, Source: "void main() {}"},
	)
	require.NoError(t, err)
	h.program = p

	assert.ErrorIs(t, h.setUniforms(), graphics.ErrUnknownUniform)
	assert.Len(t, dev.UniformsNamed("u_Proj"), 1)
}

func TestRenderStopsOnUniformFailure(t *testing.T) {
	dev := devicetest.NewRecorder()
	h := NewHUD(dev, assets.Shaders, func() Stats { return Stats{FPS: 60} })
	atlas, err := text.Default(fontPixels)
	require.NoError(t, err)
	h.atlas = atlas
	h.program = newTextProgram(t, dev)
	h.program.Delete()

	h.Render(renderer.RenderContext{})
	assert.True(t, h.warned)
	h.Render(renderer.RenderContext{})
	assert.Empty(t, dev.Uniforms)
}
