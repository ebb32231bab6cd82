package app

import (
	"fmt"
	"log/slog"
	"time"

	"icoview/internal/config"
	"icoview/internal/graphics"
	"icoview/internal/graphics/gldevice"
	"icoview/internal/graphics/renderables/hud"
	"icoview/internal/graphics/renderer"
	"icoview/internal/input"
	"icoview/internal/profiling"
	"icoview/internal/scene"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

const slowFrame = 16 * time.Millisecond

// App owns the window and everything drawn into it
type App struct {
	window   *glfw.Window
	input    *input.InputManager
	controls *scene.Controls
	camera   *graphics.OrbitCamera
	scene    *scene.Scene
	renderer *renderer.Renderer
	hud      *hud.HUD
	actions  *actionHandler

	fps        profiling.FPSCounter
	fpsLimiter *FPSLimiter
	lastTime   time.Time
	lastErr    string
}

// New opens the window, compiles the programs and loads the scene
func New(cfg config.Settings) (*App, error) {
	window, err := SetupWindow(cfg.Window)
	if err != nil {
		return nil, fmt.Errorf("window: %w", err)
	}
	slog.Info("opengl context",
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)))

	a, err := build(window, cfg)
	if err != nil {
		window.Destroy()
		return nil, err
	}
	return a, nil
}

func build(window *glfw.Window, cfg config.Settings) (*App, error) {
	dev := gldevice.New()

	shaders := ShaderFS(cfg.ShaderDir)
	programs, err := NewPrograms(dev, shaders, mgl32.Vec3(cfg.Scene.LightDir))
	if err != nil {
		return nil, err
	}
	ok := false
	defer func() {
		if !ok {
			for _, p := range programs {
				p.Delete()
			}
		}
	}()
	controls, err := NewControls(cfg.Scene)
	if err != nil {
		return nil, err
	}
	opts, err := SceneOptions(cfg.Scene)
	if err != nil {
		return nil, err
	}
	sc, err := scene.New(dev, controls, programs, opts)
	if err != nil {
		return nil, err
	}

	a := &App{
		window:     window,
		input:      input.NewInputManager(),
		controls:   controls,
		scene:      sc,
		fpsLimiter: NewFPSLimiter(),
		lastTime:   time.Now(),
	}

	a.hud = hud.NewHUD(dev, shaders, a.stats)
	if !cfg.HUD {
		a.hud.Toggle()
	}
	a.renderer, err = renderer.NewRenderer(dev, a.hud)
	if err != nil {
		return nil, err
	}
	a.renderer.SetClearColor(mgl32.Vec4(cfg.ClearColor))

	width, height := window.GetFramebufferSize()
	a.camera = NewCamera(cfg.Camera, aspect(width, height))
	a.resize(width, height)

	if err := sc.Load(); err != nil {
		a.renderer.Dispose()
		return nil, err
	}

	a.actions = &actionHandler{
		input:           a.input,
		controls:        controls,
		camera:          a.camera,
		reload:          sc.Load,
		toggleHUD:       a.hud.Toggle,
		toggleProfiling: a.hud.ToggleProfiling,
		quit:            func() { window.SetShouldClose(true) },
	}

	a.input.Attach(window)
	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		a.resize(width, height)
	})
	window.SetRefreshCallback(func(w *glfw.Window) {
		a.render(0)
		w.SwapBuffers()
	})

	config.SetFPSLimit(cfg.FPSLimit)
	ok = true
	return a, nil
}

func aspect(width, height int) float32 {
	if height <= 0 {
		return 1
	}
	return float32(width) / float32(height)
}

// resize ignores the zero size reported while the window is iconified
func (a *App) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	a.renderer.SetSize(width, height)
	a.camera.SetAspectRatio(aspect(width, height))
}

func (a *App) stats() hud.Stats {
	s := hud.Stats{
		FPS:    a.fps.FPS(),
		Level:  a.controls.Tessellation(),
		Shader: a.controls.Shader().String(),
		Color:  a.controls.Color(),
	}
	for _, m := range a.scene.Visible() {
		if m == nil || m.Mesh == nil {
			continue
		}
		s.Vertices += m.Mesh.VertexCount()
		s.Triangles += m.Mesh.TriangleCount()
	}
	return s
}

// Run drives the frame loop until the window is asked to close
func (a *App) Run() {
	for !a.window.ShouldClose() {
		a.tick()
	}
}

func (a *App) tick() {
	profiling.ResetFrame()
	now := time.Now()
	dt := now.Sub(a.lastTime).Seconds()
	a.lastTime = now

	func() { defer profiling.Track("glfw.PollEvents")(); glfw.PollEvents() }()
	a.actions.handle()

	a.render(dt)
	func() { defer profiling.Track("glfw.SwapBuffers")(); a.window.SwapBuffers() }()

	if a.fps.Frame(time.Now()) {
		slog.Debug("fps", "fps", a.fps.FPS())
	}
	if d := time.Since(now); d > slowFrame {
		slog.Debug("slow frame", "elapsed", d, "top", profiling.TopN(5))
	}

	a.input.PostUpdate() // Clear "JustPressed" flags

	a.fpsLimiter.Wait(a.window.GetAttrib(glfw.Iconified) == glfw.True)
}

func (a *App) render(dt float64) {
	if err := a.scene.Frame(a.camera, a.renderer); err != nil {
		a.report(err)
	} else {
		a.lastErr = ""
	}
	a.renderer.RenderOverlays(renderer.RenderContext{
		Camera: a.camera,
		DT:     dt,
		View:   a.camera.ViewMatrix(),
		Proj:   a.camera.ProjectionMatrix(),
	})
}

// report logs a frame error once until a frame succeeds or the error changes
func (a *App) report(err error) {
	if msg := err.Error(); msg != a.lastErr {
		slog.Error("frame", "err", err)
		a.lastErr = msg
	}
}

// Dispose releases every device resource and closes the window
func (a *App) Dispose() {
	if a.renderer != nil {
		a.renderer.Dispose()
	}
	if a.scene != nil {
		a.scene.Dispose()
	}
	if a.window != nil {
		a.window.Destroy()
		a.window = nil
	}
}
