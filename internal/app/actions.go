package app

import (
	"log/slog"

	"icoview/internal/graphics"
	"icoview/internal/input"
	"icoview/internal/scene"
)

const (
	orbitSpeed = 0.005 // radians per dragged pixel
	zoomSpeed  = 0.5   // distance per scroll step
)

// actionHandler turns the actions of one frame into control and camera changes
type actionHandler struct {
	input           *input.InputManager
	controls        *scene.Controls
	camera          *graphics.OrbitCamera
	reload          func() error
	toggleHUD       func()
	toggleProfiling func()
	quit            func()
}

func (h *actionHandler) handle() {
	im := h.input
	c := h.controls

	if im.JustPressed(input.ActionTessellationUp) {
		c.StepTessellation(1)
	}
	if im.JustPressed(input.ActionTessellationDown) {
		c.StepTessellation(-1)
	}
	if im.JustPressed(input.ActionChangeShader) {
		c.ToggleShader()
		slog.Debug("shader changed", "shader", c.Shader())
	}
	if im.JustPressed(input.ActionMakeRed) {
		c.MakeRed()
	}
	if im.JustPressed(input.ActionMakeGreen) {
		c.MakeGreen()
	}
	if im.JustPressed(input.ActionMakeBlue) {
		c.MakeBlue()
	}
	if im.JustPressed(input.ActionToggleHUD) && h.toggleHUD != nil {
		h.toggleHUD()
	}
	if im.JustPressed(input.ActionToggleProfiling) && h.toggleProfiling != nil {
		h.toggleProfiling()
	}
	if im.JustPressed(input.ActionReloadScene) && h.reload != nil {
		if err := h.reload(); err != nil {
			slog.Error("reload scene", "err", err)
		}
	}
	if im.JustPressed(input.ActionQuit) && h.quit != nil {
		h.quit()
	}

	if dx, dy := im.Drag(); dx != 0 || dy != 0 {
		h.camera.Orbit(float32(-dx)*orbitSpeed, float32(dy)*orbitSpeed)
	}
	if s := im.Scroll(); s != 0 {
		h.camera.Zoom(float32(s) * zoomSpeed)
	}
}
