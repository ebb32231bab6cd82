package graphics

import (
	"fmt"

	"icoview/internal/geometry"
)

// MeshHandle is the set of device objects backing a realized mesh
type MeshHandle struct {
	VertexArray uint32
	Positions   uint32
	Normals     uint32
	Indices     uint32
	Count       int32
}

// GPUMesh pairs CPU mesh data with the device buffers it was uploaded to.
// It owns the handle exclusively until Release.
type GPUMesh struct {
	Mesh *geometry.Mesh

	dev    Device
	handle *MeshHandle
}

// NewGPUMesh wraps mesh data; nothing touches the device until Realize
func NewGPUMesh(m *geometry.Mesh) *GPUMesh {
	return &GPUMesh{Mesh: m}
}

// Handle returns the device handle, or nil if the mesh is not realized
func (g *GPUMesh) Handle() *MeshHandle {
	if g == nil {
		return nil
	}
	return g.handle
}

// Realized reports whether device buffers are currently held
func (g *GPUMesh) Realized() bool {
	return g.handle != nil
}

// Realize uploads the mesh into new device buffers. On failure the GPUMesh
// keeps whatever it held before; on success the previous buffers are released.
func (g *GPUMesh) Realize(dev Device) error {
	if g.Mesh == nil {
		return fmt.Errorf("realize: %w", ErrNotRealized)
	}
	if err := g.Mesh.Validate(); err != nil {
		return fmt.Errorf("realize: %w", err)
	}
	h, err := upload(dev, g.Mesh)
	if err != nil {
		return err
	}
	g.Release()
	g.dev = dev
	g.handle = h
	return nil
}

// Release frees the device buffers. Safe to call on an unrealized mesh.
func (g *GPUMesh) Release() {
	if g.handle == nil {
		return
	}
	freeHandle(g.dev, g.handle)
	g.handle = nil
	g.dev = nil
}

func upload(dev Device, m *geometry.Mesh) (*MeshHandle, error) {
	h := &MeshHandle{Count: int32(len(m.Indices))}
	fail := func(op string, err error) (*MeshHandle, error) {
		freeHandle(dev, h)
		return nil, &DeviceResourceError{Op: op, Err: err}
	}

	var err error
	if h.VertexArray, err = dev.CreateVertexArray(); err != nil {
		return fail("vertex array", err)
	}
	if h.Positions, err = dev.CreateVertexBuffer(m.FlatPositions()); err != nil {
		return fail("position buffer", err)
	}
	if h.Normals, err = dev.CreateVertexBuffer(m.FlatNormals()); err != nil {
		return fail("normal buffer", err)
	}
	if h.Indices, err = dev.CreateIndexBuffer(m.Indices); err != nil {
		return fail("index buffer", err)
	}
	return h, nil
}

func freeHandle(dev Device, h *MeshHandle) {
	if h.Indices != 0 {
		dev.DeleteBuffer(h.Indices)
	}
	if h.Normals != 0 {
		dev.DeleteBuffer(h.Normals)
	}
	if h.Positions != 0 {
		dev.DeleteBuffer(h.Positions)
	}
	if h.VertexArray != 0 {
		dev.DeleteVertexArray(h.VertexArray)
	}
}
