package renderer

import (
	"icoview/internal/graphics"

	"github.com/go-gl/mathgl/mgl32"
)

// RenderContext provides shared context for all overlays
type RenderContext struct {
	Camera graphics.Camera
	Width  int
	Height int
	DT     float64
	View   mgl32.Mat4
	Proj   mgl32.Mat4
}

// Renderable defines the lifecycle for overlays drawn after the scene
type Renderable interface {
	Init() error
	Render(ctx RenderContext)
	Dispose()
	SetViewport(width, height int)
}
