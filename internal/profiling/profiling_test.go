package profiling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func record(name string, d time.Duration) {
	mu.Lock()
	frameTotals[name] += d
	mu.Unlock()
}

func TestTrackAndSums(t *testing.T) {
	ResetFrame()
	record("scene.Rebuild", 4*time.Millisecond)
	record("scene.Load", 2*time.Millisecond)
	record("renderer.Render", 300*time.Microsecond)
	func() { defer Track("renderer.Render")() }()

	snap := Snapshot()
	assert.Len(t, snap, 3)
	assert.GreaterOrEqual(t, snap["renderer.Render"], 300*time.Microsecond)
	assert.Equal(t, 6*time.Millisecond, SumWithPrefix("scene."))
	assert.Equal(t, "scene.Rebuild:4.0ms, scene.Load:2.0ms", TopN(2))

	ResetFrame()
	assert.Empty(t, Snapshot())
	assert.Equal(t, "", TopN(3))
}

func TestFPSCounter(t *testing.T) {
	var c FPSCounter
	start := time.Unix(100, 0)
	for i := 0; i < 60; i++ {
		assert.False(t, c.Frame(start.Add(time.Duration(i)*time.Second/60)))
	}
	assert.True(t, c.Frame(start.Add(time.Second)))
	assert.Equal(t, 61, c.FPS())
	assert.False(t, c.Frame(start.Add(time.Second+time.Millisecond)))
}
