package hud

import (
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"icoview/internal/graphics"
	"icoview/internal/graphics/renderer"
	"icoview/internal/graphics/text"
	"icoview/internal/profiling"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Stats is what the HUD shows each frame
type Stats struct {
	FPS       int
	Level     int
	Vertices  int
	Triangles int
	Shader    string
	Color     mgl32.Vec4
}

// StatsFunc samples the viewer state for the HUD
type StatsFunc func() Stats

const (
	fontPixels = 18
	margin     = 10
	maxChars   = 512
)

var textColor = mgl32.Vec3{1, 1, 1}

// HUD draws a text readout of the viewer state in the top-left corner
type HUD struct {
	dev     graphics.Device
	shaders fs.FS
	stats   StatsFunc

	atlas   *text.Atlas
	program *graphics.ShaderProgram
	texture uint32
	vao     uint32
	vbo     uint32

	projection    mgl32.Mat4
	visible       bool
	showProfiling bool
	warned        bool
	verts         []float32
}

// NewHUD creates a HUD that reads text.vert/text.frag from shaders
func NewHUD(dev graphics.Device, shaders fs.FS, stats StatsFunc) *HUD {
	return &HUD{
		dev:        dev,
		shaders:    shaders,
		stats:      stats,
		visible:    true,
		projection: mgl32.Ortho(0, 900, 600, 0, -1, 1),
	}
}

// Init bakes the font atlas and uploads it with the text program
func (h *HUD) Init() error {
	atlas, err := text.Default(fontPixels)
	if err != nil {
		return fmt.Errorf("hud font: %w", err)
	}
	sources, err := graphics.ReadSources(h.shaders, "text")
	if err != nil {
		return err
	}
	program, err := graphics.CompileProgram(h.dev, sources...)
	if err != nil {
		return fmt.Errorf("text program: %w", err)
	}
	h.atlas = atlas
	h.program = program

	img := atlas.Image
	gl.GenTextures(1, &h.texture)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, h.texture)
	// Ensure tight byte alignment for single-channel upload
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RED, int32(img.Rect.Dx()), int32(img.Rect.Dy()), 0, gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	gl.GenVertexArrays(1, &h.vao)
	gl.GenBuffers(1, &h.vbo)
	gl.BindVertexArray(h.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, h.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, maxChars*text.FloatsPerGlyph*4, nil, gl.DYNAMIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 4, gl.FLOAT, false, 4*4, 0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return nil
}

// SetViewport updates the pixel projection to the framebuffer size
func (h *HUD) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	h.projection = mgl32.Ortho(0, float32(width), float32(height), 0, -1, 1)
}

// Toggle shows or hides the HUD
func (h *HUD) Toggle() {
	h.visible = !h.visible
}

func (h *HUD) Visible() bool {
	return h.visible
}

// ToggleProfiling adds the frame's scene time and slowest buckets to the readout
func (h *HUD) ToggleProfiling() {
	h.showProfiling = !h.showProfiling
}

// Lines formats the readout, one entry per text row
func Lines(s Stats) []string {
	return []string{
		fmt.Sprintf("FPS: %d", s.FPS),
		fmt.Sprintf("Tessellation: %d", s.Level),
		fmt.Sprintf("Vertices: %d  Triangles: %d", s.Vertices, s.Triangles),
		fmt.Sprintf("Shader: %s", s.Shader),
		fmt.Sprintf("Color: %.2f %.2f %.2f", s.Color.X(), s.Color.Y(), s.Color.Z()),
	}
}

// ProfilingLine formats the time spent in scene.* buckets and the slowest buckets
func ProfilingLine(scene time.Duration, top string) string {
	line := fmt.Sprintf("Scene: %.1fms", float64(scene.Microseconds())/1000)
	if top != "" {
		line += "  " + top
	}
	return line
}

func (h *HUD) setUniforms() error {
	if err := h.program.Use(); err != nil {
		return err
	}
	if err := h.program.SetMatrix4("u_Proj", h.projection); err != nil {
		return err
	}
	return h.program.SetVector3("u_TextColor", textColor)
}

// Render draws the readout on top of the scene
func (h *HUD) Render(ctx renderer.RenderContext) {
	if !h.visible || h.atlas == nil || h.stats == nil {
		return
	}
	defer profiling.Track("hud.Render")()

	lines := Lines(h.stats())
	if h.showProfiling {
		lines = append(lines, ProfilingLine(profiling.SumWithPrefix("scene."), profiling.TopN(3)))
	}

	h.verts = h.verts[:0]
	step := float32(h.atlas.LineHeight)
	y := float32(margin) + step
	for _, line := range lines {
		h.verts = h.atlas.AppendVertices(h.verts, line, margin, y, 1)
		y += step
	}
	if limit := maxChars * text.FloatsPerGlyph; len(h.verts) > limit {
		h.verts = h.verts[:limit]
	}
	if len(h.verts) == 0 {
		return
	}

	if err := h.setUniforms(); err != nil {
		if !h.warned {
			slog.Error("hud disabled", "err", err)
			h.warned = true
		}
		return
	}

	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	// u_Atlas samples unit 0
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, h.texture)
	gl.BindVertexArray(h.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, h.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(h.verts)*4, gl.Ptr(h.verts))
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(h.verts)/4))
	gl.BindVertexArray(0)

	gl.Disable(gl.BLEND)
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
}

// Dispose releases the texture, buffers and program
func (h *HUD) Dispose() {
	if h.vbo != 0 {
		gl.DeleteBuffers(1, &h.vbo)
		h.vbo = 0
	}
	if h.vao != 0 {
		gl.DeleteVertexArrays(1, &h.vao)
		h.vao = 0
	}
	if h.texture != 0 {
		gl.DeleteTextures(1, &h.texture)
		h.texture = 0
	}
	if h.program != nil {
		h.program.Delete()
		h.program = nil
	}
}
