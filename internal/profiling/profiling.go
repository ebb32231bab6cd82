package profiling

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Lightweight per-frame CPU profiler for tick-level insights.

var (
	mu          sync.Mutex
	frameTotals = make(map[string]time.Duration)
)

// Track returns a stop function that records the elapsed time under the given name.
// Usage: defer profiling.Track("scene.Rebuild")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		frameTotals[name] += d
		mu.Unlock()
	}
}

// ResetFrame clears current per-frame totals. Call at the start of each frame.
func ResetFrame() {
	mu.Lock()
	clear(frameTotals)
	mu.Unlock()
}

// Snapshot returns a copy of current per-frame totals.
func Snapshot() map[string]time.Duration {
	mu.Lock()
	defer mu.Unlock()
	out := make(map[string]time.Duration, len(frameTotals))
	for k, v := range frameTotals {
		out[k] = v
	}
	return out
}

// SumWithPrefix totals every bucket whose name starts with prefix
func SumWithPrefix(prefix string) time.Duration {
	mu.Lock()
	defer mu.Unlock()
	var total time.Duration
	for k, v := range frameTotals {
		if strings.HasPrefix(k, prefix) {
			total += v
		}
	}
	return total
}

// TopN formats the n slowest buckets of the current frame.
// Example: "scene.Rebuild:4.2ms, renderer.Render:0.3ms"
func TopN(n int) string {
	ss := Snapshot()
	type pair struct {
		name string
		dur  time.Duration
	}
	list := make([]pair, 0, len(ss))
	for k, v := range ss {
		list = append(list, pair{name: k, dur: v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].dur == list[j].dur {
			return list[i].name < list[j].name
		}
		return list[i].dur > list[j].dur
	})
	if n > len(list) {
		n = len(list)
	}
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		parts = append(parts, fmt.Sprintf("%s:%.1fms", list[i].name, float64(list[i].dur.Microseconds())/1000.0))
	}
	return strings.Join(parts, ", ")
}

// FPSCounter counts frames over one-second windows
type FPSCounter struct {
	frames int
	since  time.Time
	fps    int
}

// Frame records a presented frame at now and reports whether a new FPS value is ready
func (c *FPSCounter) Frame(now time.Time) bool {
	if c.since.IsZero() {
		c.since = now
	}
	c.frames++
	elapsed := now.Sub(c.since)
	if elapsed < time.Second {
		return false
	}
	c.fps = int(float64(c.frames)/elapsed.Seconds() + 0.5)
	c.frames = 0
	c.since = now
	return true
}

// FPS returns the rate measured over the last completed window
func (c *FPSCounter) FPS() int {
	return c.fps
}
