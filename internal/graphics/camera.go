package graphics

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Camera supplies view and projection matrices to the renderer
type Camera interface {
	Update()
	ViewMatrix() mgl32.Mat4
	ProjectionMatrix() mgl32.Mat4
	SetAspectRatio(ratio float32)
}

const (
	MinDistance = 0.5
	MaxDistance = 100.0

	maxPitch = 89 * math32.Pi / 180
)

// OrbitCamera circles a target point. Orbit and Zoom queue input that
// Update applies; matrices are cached and rebuilt only when their inputs change.
type OrbitCamera struct {
	target   mgl32.Vec3
	yaw      float32
	pitch    float32
	distance float32

	aspectRatio float32
	fov         float32 // degrees
	near        float32
	far         float32

	pendingYaw   float32
	pendingPitch float32
	pendingZoom  float32

	view       mgl32.Mat4
	projection mgl32.Mat4
	viewDirty  bool
	projDirty  bool
}

// NewOrbitCamera places the camera at position looking at target
func NewOrbitCamera(position, target mgl32.Vec3, aspectRatio float32) *OrbitCamera {
	c := &OrbitCamera{
		target:      target,
		aspectRatio: aspectRatio,
		fov:         45,
		near:        0.1,
		far:         1000,
		viewDirty:   true,
		projDirty:   true,
	}
	c.lookFrom(position)
	return c
}

func (c *OrbitCamera) lookFrom(position mgl32.Vec3) {
	d := position.Sub(c.target)
	c.distance = clamp(d.Len(), MinDistance, MaxDistance)
	if l := d.Len(); l > 0 {
		c.yaw = math32.Atan2(d.X(), d.Z())
		c.pitch = clamp(math32.Asin(clamp(d.Y()/l, -1, 1)), -maxPitch, maxPitch)
	}
	c.viewDirty = true
}

// Orbit queues a rotation in radians around the target
func (c *OrbitCamera) Orbit(dYaw, dPitch float32) {
	c.pendingYaw += dYaw
	c.pendingPitch += dPitch
}

// Zoom queues a change of distance to the target; positive moves closer
func (c *OrbitCamera) Zoom(delta float32) {
	c.pendingZoom += delta
}

// Update applies queued input and refreshes the cached matrices
func (c *OrbitCamera) Update() {
	if c.pendingYaw != 0 || c.pendingPitch != 0 || c.pendingZoom != 0 {
		c.yaw += c.pendingYaw
		c.pitch = clamp(c.pitch+c.pendingPitch, -maxPitch, maxPitch)
		c.distance = clamp(c.distance-c.pendingZoom, MinDistance, MaxDistance)
		c.pendingYaw, c.pendingPitch, c.pendingZoom = 0, 0, 0
		c.viewDirty = true
	}
	c.refresh()
}

func (c *OrbitCamera) refresh() {
	if c.viewDirty {
		c.view = mgl32.LookAtV(c.Position(), c.target, mgl32.Vec3{0, 1, 0})
		c.viewDirty = false
	}
	if c.projDirty {
		c.projection = mgl32.Perspective(mgl32.DegToRad(c.fov), c.aspectRatio, c.near, c.far)
		c.projDirty = false
	}
}

// Position returns the eye point
func (c *OrbitCamera) Position() mgl32.Vec3 {
	cp := math32.Cos(c.pitch)
	offset := mgl32.Vec3{
		cp * math32.Sin(c.yaw),
		math32.Sin(c.pitch),
		cp * math32.Cos(c.yaw),
	}
	return c.target.Add(offset.Mul(c.distance))
}

func (c *OrbitCamera) Target() mgl32.Vec3 {
	return c.target
}

// SetPosition moves the eye, keeping the target
func (c *OrbitCamera) SetPosition(position mgl32.Vec3) {
	c.lookFrom(position)
}

func (c *OrbitCamera) AspectRatio() float32 {
	return c.aspectRatio
}

func (c *OrbitCamera) SetAspectRatio(ratio float32) {
	if ratio <= 0 || ratio == c.aspectRatio {
		return
	}
	c.aspectRatio = ratio
	c.projDirty = true
}

// SetPerspective changes the vertical field of view (degrees) and clip planes
func (c *OrbitCamera) SetPerspective(fov, near, far float32) {
	c.fov, c.near, c.far = fov, near, far
	c.projDirty = true
}

func (c *OrbitCamera) ViewMatrix() mgl32.Mat4 {
	c.refresh()
	return c.view
}

func (c *OrbitCamera) ProjectionMatrix() mgl32.Mat4 {
	c.refresh()
	return c.projection
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
