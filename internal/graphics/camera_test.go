package graphics_test

import (
	"testing"

	"icoview/internal/graphics"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestOrbitCameraInitialPose(t *testing.T) {
	c := graphics.NewOrbitCamera(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, 1.5)
	assertVec3Near(t, mgl32.Vec3{0, 0, 5}, c.Position())

	want := mgl32.LookAtV(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	assertMat4Near(t, want, c.ViewMatrix())
	assert.Equal(t, mgl32.Perspective(mgl32.DegToRad(45), 1.5, 0.1, 1000), c.ProjectionMatrix())
}

func TestOrbitCameraProjectionFollowsAspect(t *testing.T) {
	c := graphics.NewOrbitCamera(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, 1)
	before := c.ProjectionMatrix()
	c.SetAspectRatio(2)
	assert.NotEqual(t, before, c.ProjectionMatrix())
	assert.Equal(t, mgl32.Perspective(mgl32.DegToRad(45), 2, 0.1, 1000), c.ProjectionMatrix())

	c.SetPerspective(60, 0.5, 50)
	assert.Equal(t, mgl32.Perspective(mgl32.DegToRad(60), 2, 0.5, 50), c.ProjectionMatrix())

	c.SetAspectRatio(0)
	assert.Equal(t, float32(2), c.AspectRatio())
}

func TestOrbitCameraQueuedInput(t *testing.T) {
	c := graphics.NewOrbitCamera(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, 1)
	view := c.ViewMatrix()

	c.Orbit(mgl32.DegToRad(90), 0)
	// nothing moves until Update
	assert.Equal(t, view, c.ViewMatrix())
	c.Update()
	assertVec3Near(t, mgl32.Vec3{5, 0, 0}, c.Position())

	c.Zoom(2)
	c.Update()
	assert.InDelta(t, 3, c.Position().Len(), 1e-4)

	c.Zoom(1000)
	c.Update()
	assert.InDelta(t, graphics.MinDistance, c.Position().Len(), 1e-4)

	c.Orbit(0, 10)
	c.Update()
	p := c.Position().Normalize()
	assert.Less(t, p.Y(), float32(1))
	assert.Greater(t, p.Y(), float32(0.99))
}

func TestOrbitCameraSetPosition(t *testing.T) {
	c := graphics.NewOrbitCamera(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 3, 0}, 1)
	c.SetPosition(mgl32.Vec3{0, 3, 4})
	assertVec3Near(t, mgl32.Vec3{0, 3, 4}, c.Position())
	assert.Equal(t, mgl32.Vec3{0, 3, 0}, c.Target())

	want := mgl32.LookAtV(mgl32.Vec3{0, 3, 4}, mgl32.Vec3{0, 3, 0}, mgl32.Vec3{0, 1, 0})
	assertMat4Near(t, want, c.ViewMatrix())
}

// near-zero components rule out relative comparisons
func assertVec3Near(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-4, "component %d of %v", i, got)
	}
}

func assertMat4Near(t *testing.T, want, got mgl32.Mat4) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-4, "element %d", i)
	}
}
