package renderer

import (
	"errors"
	"testing"

	"icoview/assets"
	"icoview/internal/geometry"
	"icoview/internal/graphics"
	"icoview/internal/graphics/devicetest"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOverlay struct {
	inits, renders, disposes int
	w, h                     int
	order                    *[]string
	name                     string
	initErr                  error
}

func (f *fakeOverlay) Init() error { f.inits++; return f.initErr }
func (f *fakeOverlay) Render(ctx RenderContext) {
	f.renders++
	f.w, f.h = ctx.Width, ctx.Height
}
func (f *fakeOverlay) Dispose() {
	f.disposes++
	if f.order != nil {
		*f.order = append(*f.order, f.name)
	}
}
func (f *fakeOverlay) SetViewport(w, h int) { f.w, f.h = w, h }

func realized(t *testing.T, dev graphics.Device, m *geometry.Mesh) *graphics.GPUMesh {
	t.Helper()
	g := graphics.NewGPUMesh(m)
	require.NoError(t, g.Realize(dev))
	return g
}

func TestRenderTwoMeshesRed(t *testing.T) {
	dev := devicetest.NewRecorder()
	r, err := NewRenderer(dev)
	require.NoError(t, err)
	assert.True(t, dev.DepthTest)

	program, err := graphics.NewProgram(dev, graphics.Lambert, assets.Shaders, graphics.DefaultLightDir)
	require.NoError(t, err)
	sphere, err := geometry.Icosphere(mgl32.Vec3{}, 1, 2)
	require.NoError(t, err)
	meshA := realized(t, dev, sphere)
	meshB := realized(t, dev, geometry.Cube(mgl32.Vec3{2, 0, 0}))
	cam := graphics.NewOrbitCamera(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, 1)
	dev.Reset()

	red := mgl32.Vec4{1, 0, 0, 1}
	require.NoError(t, r.Render(cam, program, []*graphics.GPUMesh{meshA, meshB}, red))

	require.Len(t, dev.Draws, 2)
	assert.Equal(t, meshA.Handle().VertexArray, dev.Draws[0].VertexArray)
	assert.Equal(t, meshB.Handle().VertexArray, dev.Draws[1].VertexArray)
	assert.Equal(t, int32(sphere.TriangleCount()*3), dev.Draws[0].Count)
	assert.Equal(t, int32(36), dev.Draws[1].Count)
	for _, d := range dev.Draws {
		assert.Equal(t, program.ID, d.Program)
	}

	colors := dev.UniformsNamed(graphics.UniformColor)
	require.Len(t, colors, 2)
	for _, c := range colors {
		assert.Equal(t, red, c.Value)
	}
	views := dev.UniformsNamed(graphics.UniformView)
	require.Len(t, views, 2)
	assert.Equal(t, cam.ViewMatrix(), views[0].Value)
	projs := dev.UniformsNamed(graphics.UniformProj)
	require.Len(t, projs, 2)
	assert.Equal(t, cam.ProjectionMatrix(), projs[1].Value)
}

func TestRenderKeepsCallerOrder(t *testing.T) {
	dev := devicetest.NewRecorder()
	r, err := NewRenderer(dev)
	require.NoError(t, err)
	program, err := graphics.NewProgram(dev, graphics.Gradient, assets.Shaders, graphics.DefaultLightDir)
	require.NoError(t, err)
	near := realized(t, dev, geometry.Square(mgl32.Vec3{0, 0, 2}))
	far := realized(t, dev, geometry.Square(mgl32.Vec3{0, 0, -2}))
	cam := graphics.NewOrbitCamera(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, 1)
	dev.Reset()

	require.NoError(t, r.Render(cam, program, []*graphics.GPUMesh{far, near, far}, mgl32.Vec4{0, 0, 1, 1}))
	require.Len(t, dev.Draws, 3)
	assert.Equal(t, far.Handle().VertexArray, dev.Draws[0].VertexArray)
	assert.Equal(t, near.Handle().VertexArray, dev.Draws[1].VertexArray)
	assert.Equal(t, far.Handle().VertexArray, dev.Draws[2].VertexArray)
	// gradient binds positions only
	assert.Len(t, dev.Draws[0].Attribs, 1)
}

func TestRenderSurfacesErrors(t *testing.T) {
	dev := devicetest.NewRecorder()
	r, err := NewRenderer(dev)
	require.NoError(t, err)
	program, err := graphics.NewProgram(dev, graphics.Lambert, assets.Shaders, graphics.DefaultLightDir)
	require.NoError(t, err)
	cam := graphics.NewOrbitCamera(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, 1)

	unrealized := graphics.NewGPUMesh(geometry.Cube(mgl32.Vec3{}))
	err = r.Render(cam, program, []*graphics.GPUMesh{unrealized}, mgl32.Vec4{1, 1, 1, 1})
	assert.ErrorIs(t, err, graphics.ErrNotRealized)

	failed := graphics.NewShaderProgram(dev, graphics.ShaderSource{Stage: graphics.StageVertex, Source: "nope"})
	require.Error(t, failed.Compile())
	ok := realized(t, dev, geometry.Cube(mgl32.Vec3{}))
	dev.Reset()
	err = r.Render(cam, failed, []*graphics.GPUMesh{ok}, mgl32.Vec4{1, 1, 1, 1})
	assert.ErrorIs(t, err, graphics.ErrProgramNotLinked)
	assert.Empty(t, dev.Draws)
}

func TestClearAndResize(t *testing.T) {
	dev := devicetest.NewRecorder()
	o := &fakeOverlay{}
	r, err := NewRenderer(dev, o)
	require.NoError(t, err)
	assert.Equal(t, 1, o.inits)

	r.SetClearColor(mgl32.Vec4{0.2, 0.2, 0.2, 1})
	r.Clear()
	assert.Equal(t, 1, dev.Clears)
	assert.Equal(t, mgl32.Vec4{0.2, 0.2, 0.2, 1}, dev.ClearColors[len(dev.ClearColors)-1])

	r.SetSize(800, 600)
	w, h := r.Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
	assert.Equal(t, [4]int32{0, 0, 800, 600}, dev.Viewports[len(dev.Viewports)-1])
	assert.Equal(t, 800, o.w)

	r.SetViewport(400, 300)
	assert.Equal(t, [4]int32{0, 0, 400, 300}, dev.Viewports[len(dev.Viewports)-1])
	w, _ = r.Size()
	assert.Equal(t, 800, w)

	r.RenderOverlays(RenderContext{})
	assert.Equal(t, 1, o.renders)
	assert.Equal(t, 600, o.h)
}

func TestDisposeReverseOrder(t *testing.T) {
	var order []string
	a := &fakeOverlay{name: "a", order: &order}
	b := &fakeOverlay{name: "b", order: &order}
	r, err := NewRenderer(devicetest.NewRecorder(), a, b)
	require.NoError(t, err)
	r.Dispose()
	assert.Equal(t, []string{"b", "a"}, order)
}

func TestNewRendererUnwindsFailedInit(t *testing.T) {
	var order []string
	a := &fakeOverlay{name: "a", order: &order}
	b := &fakeOverlay{name: "b", order: &order}
	bad := &fakeOverlay{name: "bad", order: &order, initErr: errors.New("no font")}
	never := &fakeOverlay{name: "never", order: &order}

	r, err := NewRenderer(devicetest.NewRecorder(), a, b, bad, never)
	assert.Nil(t, r)
	assert.ErrorContains(t, err, "no font")
	assert.Equal(t, []string{"b", "a"}, order)
	assert.Zero(t, bad.disposes)
	assert.Zero(t, never.inits)
}
