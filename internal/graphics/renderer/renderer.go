package renderer

import (
	"fmt"

	"icoview/internal/graphics"
	"icoview/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
)

// Renderer owns per-frame device state and draws meshes with a chosen program
type Renderer struct {
	dev        graphics.Device
	overlays   []Renderable
	clearColor mgl32.Vec4
	width      int
	height     int
}

// NewRenderer configures depth testing and initializes the given overlays.
// If one fails to initialize, the overlays before it are disposed in reverse
// order; the failing overlay must not hold resources.
func NewRenderer(dev graphics.Device, overlays ...Renderable) (*Renderer, error) {
	dev.EnableDepthTest()

	r := &Renderer{
		dev:        dev,
		overlays:   overlays,
		clearColor: mgl32.Vec4{0, 0, 0, 1},
	}
	for i, o := range overlays {
		if err := o.Init(); err != nil {
			for j := i - 1; j >= 0; j-- {
				overlays[j].Dispose()
			}
			return nil, fmt.Errorf("init overlay %d: %w", i, err)
		}
	}
	return r, nil
}

// SetClearColor sets the color Clear resets the framebuffer to
func (r *Renderer) SetClearColor(c mgl32.Vec4) {
	r.clearColor = c
}

func (r *Renderer) ClearColor() mgl32.Vec4 {
	return r.clearColor
}

// Clear resets the color and depth buffers
func (r *Renderer) Clear() {
	r.dev.ClearColor(r.clearColor)
	r.dev.Clear()
}

// SetViewport maps rendering onto a width x height area at the origin
func (r *Renderer) SetViewport(width, height int) {
	r.dev.Viewport(0, 0, int32(width), int32(height))
}

// SetSize records the backing surface size and resizes the viewport and overlays with it
func (r *Renderer) SetSize(width, height int) {
	r.width, r.height = width, height
	r.SetViewport(width, height)
	for _, o := range r.overlays {
		o.SetViewport(width, height)
	}
}

func (r *Renderer) Size() (int, int) {
	return r.width, r.height
}

// Render draws meshes in the given order with program. Before each draw the
// camera matrices and baseColor are uploaded to whichever of u_View, u_Proj
// and u_Color the program declares. No reference to meshes is kept.
func (r *Renderer) Render(camera graphics.Camera, program *graphics.ShaderProgram, meshes []*graphics.GPUMesh, baseColor mgl32.Vec4) error {
	defer profiling.Track("renderer.Render")()

	view := camera.ViewMatrix()
	proj := camera.ProjectionMatrix()
	for i, m := range meshes {
		if err := program.Use(); err != nil {
			return err
		}
		if program.HasUniform(graphics.UniformView) {
			if err := program.SetMatrix4(graphics.UniformView, view); err != nil {
				return err
			}
		}
		if program.HasUniform(graphics.UniformProj) {
			if err := program.SetMatrix4(graphics.UniformProj, proj); err != nil {
				return err
			}
		}
		if program.HasUniform(graphics.UniformColor) {
			if err := program.SetVector4(graphics.UniformColor, baseColor); err != nil {
				return err
			}
		}
		if err := program.Draw(m.Handle(), graphics.Triangles); err != nil {
			return fmt.Errorf("draw mesh %d: %w", i, err)
		}
	}
	return nil
}

// RenderOverlays draws every overlay on top of the scene
func (r *Renderer) RenderOverlays(ctx RenderContext) {
	ctx.Width, ctx.Height = r.width, r.height
	for _, o := range r.overlays {
		o.Render(ctx)
	}
}

// Dispose cleans up all overlays in reverse order
func (r *Renderer) Dispose() {
	for i := len(r.overlays) - 1; i >= 0; i-- {
		r.overlays[i].Dispose()
	}
}
