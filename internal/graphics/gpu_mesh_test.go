package graphics_test

import (
	"testing"

	"icoview/internal/geometry"
	"icoview/internal/graphics"
	"icoview/internal/graphics/devicetest"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func icosphere(t *testing.T, level int) *geometry.Mesh {
	t.Helper()
	m, err := geometry.Icosphere(mgl32.Vec3{}, 1, level)
	require.NoError(t, err)
	return m
}

func TestRealizeUploadsAllAttributes(t *testing.T) {
	dev := devicetest.NewRecorder()
	g := graphics.NewGPUMesh(icosphere(t, 1))
	assert.False(t, g.Realized())
	assert.Nil(t, g.Handle())

	require.NoError(t, g.Realize(dev))
	require.True(t, g.Realized())
	h := g.Handle()
	assert.Equal(t, int32(80*3), h.Count)

	n, ok := dev.BufferLen(h.Positions)
	require.True(t, ok)
	assert.Equal(t, 42*3, n)
	n, ok = dev.BufferLen(h.Normals)
	require.True(t, ok)
	assert.Equal(t, 42*3, n)
	n, ok = dev.BufferLen(h.Indices)
	require.True(t, ok)
	assert.Equal(t, 240, n)
	assert.Equal(t, 3, dev.LiveBuffers())
	assert.Equal(t, 1, dev.LiveVertexArrays())
}

func TestRealizeAgainReleasesPrevious(t *testing.T) {
	dev := devicetest.NewRecorder()
	g := graphics.NewGPUMesh(icosphere(t, 0))
	require.NoError(t, g.Realize(dev))
	first := *g.Handle()

	g.Mesh = icosphere(t, 2)
	require.NoError(t, g.Realize(dev))
	assert.NotEqual(t, first, *g.Handle())
	assert.Equal(t, 3, dev.LiveBuffers())
	assert.Equal(t, 1, dev.LiveVertexArrays())
	_, ok := dev.BufferLen(first.Positions)
	assert.False(t, ok, "old position buffer still live")

	g.Release()
	g.Release()
	assert.False(t, g.Realized())
	assert.Equal(t, 0, dev.LiveBuffers())
	assert.Equal(t, 0, dev.LiveVertexArrays())
}

func TestRealizeFailureKeepsPriorState(t *testing.T) {
	for failAt := 1; failAt <= 4; failAt++ {
		dev := devicetest.NewRecorder()

		fresh := graphics.NewGPUMesh(icosphere(t, 1))
		dev.FailNextAlloc = failAt
		err := fresh.Realize(dev)
		var resErr *graphics.DeviceResourceError
		require.ErrorAs(t, err, &resErr, "fail at %d", failAt)
		assert.ErrorIs(t, err, devicetest.ErrOutOfMemory)
		assert.False(t, fresh.Realized())
		assert.Equal(t, 0, dev.LiveBuffers(), "fail at %d leaked buffers", failAt)
		assert.Equal(t, 0, dev.LiveVertexArrays(), "fail at %d leaked arrays", failAt)

		realized := graphics.NewGPUMesh(icosphere(t, 0))
		require.NoError(t, realized.Realize(dev))
		before := *realized.Handle()
		realized.Mesh = icosphere(t, 3)
		dev.FailNextAlloc = failAt
		require.Error(t, realized.Realize(dev))
		assert.Equal(t, before, *realized.Handle())
		assert.Equal(t, 3, dev.LiveBuffers())
		assert.Equal(t, 1, dev.LiveVertexArrays())
	}
}

func TestRealizeRejectsInvalidMesh(t *testing.T) {
	dev := devicetest.NewRecorder()
	g := graphics.NewGPUMesh(&geometry.Mesh{
		Positions: []mgl32.Vec3{{0, 0, 0}},
		Normals:   []mgl32.Vec3{{0, 0, 1}},
		Indices:   []uint32{0, 0, 1},
	})
	require.Error(t, g.Realize(dev))
	assert.False(t, g.Realized())
	assert.Equal(t, 0, dev.LiveBuffers())
}
