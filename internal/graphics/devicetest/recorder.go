// Package devicetest provides an in-memory graphics.Device that records the
// calls made against it, for tests that cannot open a GL context.
package devicetest

import (
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"icoview/internal/graphics"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrOutOfMemory is returned by allocations failed through FailNextAlloc
var ErrOutOfMemory = errors.New("out of device memory")

// DrawCall is one recorded DrawElements
type DrawCall struct {
	Program     uint32
	VertexArray uint32
	IndexBuffer uint32
	Mode        graphics.DrawMode
	Count       int32
	// Attribs maps attribute location to the buffer bound there
	Attribs map[uint32]uint32
}

// UniformWrite is one recorded uniform upload
type UniformWrite struct {
	Program uint32
	Name    string
	Value   any
}

type shaderObj struct {
	stage  graphics.ShaderStage
	source string
}

type programObj struct {
	uniforms   []string
	attributes map[string]int32
	locations  map[string]int32
	names      map[int32]string
}

// Recorder implements graphics.Device without a GPU.
// A shader source is accepted when it declares a main function.
type Recorder struct {
	// LinkLog makes every LinkProgram fail with this log when non-empty
	LinkLog string
	// FailNextAlloc makes the n-th following allocation fail; 0 disables
	FailNextAlloc int

	Draws       []DrawCall
	Uniforms    []UniformWrite
	Clears      int
	ClearColors []mgl32.Vec4
	Viewports   [][4]int32
	DepthTest   bool

	next     uint32
	shaders  map[uint32]shaderObj
	programs map[uint32]*programObj
	buffers  map[uint32]int
	arrays   map[uint32]map[uint32]uint32
	current  uint32
	boundVAO uint32
}

var _ graphics.Device = (*Recorder)(nil)

// NewRecorder returns an empty recording device
func NewRecorder() *Recorder {
	return &Recorder{
		shaders:  make(map[uint32]shaderObj),
		programs: make(map[uint32]*programObj),
		buffers:  make(map[uint32]int),
		arrays:   make(map[uint32]map[uint32]uint32),
	}
}

var (
	mainRe      = regexp.MustCompile(`void\s+main\s*\(\s*\)`)
	uniformRe   = regexp.MustCompile(`(?m)^\s*uniform\s+\w+\s+(\w+)\s*;`)
	attributeRe = regexp.MustCompile(`(?m)^\s*(?:layout\s*\(\s*location\s*=\s*(\d+)\s*\)\s*)?in\s+\w+\s+(\w+)\s*;`)
)

func (r *Recorder) id() uint32 {
	r.next++
	return r.next
}

func (r *Recorder) CompileShader(stage graphics.ShaderStage, source string) (uint32, string, bool) {
	id := r.id()
	r.shaders[id] = shaderObj{stage: stage, source: source}
	if !mainRe.MatchString(source) || strings.Count(source, "{") != strings.Count(source, "}") {
		return id, "ERROR: 0:1: 'main' : function is not defined\x00", false
	}
	return id, "", true
}

func (r *Recorder) LinkProgram(shaders ...uint32) (uint32, string, bool) {
	id := r.id()
	p := &programObj{
		attributes: make(map[string]int32),
		locations:  make(map[string]int32),
		names:      make(map[int32]string),
	}
	r.programs[id] = p
	if r.LinkLog != "" {
		return id, r.LinkLog, false
	}

	seen := make(map[string]bool)
	for _, sid := range shaders {
		s := r.shaders[sid]
		for _, m := range uniformRe.FindAllStringSubmatch(s.source, -1) {
			if !seen[m[1]] {
				seen[m[1]] = true
				p.uniforms = append(p.uniforms, m[1])
			}
		}
		if s.stage != graphics.StageVertex {
			continue
		}
		for i, m := range attributeRe.FindAllStringSubmatch(s.source, -1) {
			loc := int32(i)
			if m[1] != "" {
				n, _ := strconv.Atoi(m[1])
				loc = int32(n)
			}
			p.attributes[m[2]] = loc
		}
	}
	sort.Strings(p.uniforms)
	for i, name := range p.uniforms {
		p.locations[name] = int32(i)
		p.names[int32(i)] = name
	}
	return id, "", true
}

func (r *Recorder) DeleteShader(id uint32)  { delete(r.shaders, id) }
func (r *Recorder) DeleteProgram(id uint32) { delete(r.programs, id) }

func (r *Recorder) ActiveUniforms(program uint32) []string {
	if p, ok := r.programs[program]; ok {
		return append([]string(nil), p.uniforms...)
	}
	return nil
}

func (r *Recorder) ActiveAttributes(program uint32) []string {
	p, ok := r.programs[program]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(p.attributes))
	for name := range p.attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Recorder) UniformLocation(program uint32, name string) int32 {
	if p, ok := r.programs[program]; ok {
		if loc, ok := p.locations[name]; ok {
			return loc
		}
	}
	return -1
}

func (r *Recorder) AttribLocation(program uint32, name string) int32 {
	if p, ok := r.programs[program]; ok {
		if loc, ok := p.attributes[name]; ok {
			return loc
		}
	}
	return -1
}

func (r *Recorder) UseProgram(program uint32) { r.current = program }

func (r *Recorder) uniform(loc int32, v any) {
	name := ""
	if p, ok := r.programs[r.current]; ok {
		name = p.names[loc]
	}
	r.Uniforms = append(r.Uniforms, UniformWrite{Program: r.current, Name: name, Value: v})
}

func (r *Recorder) UniformMatrix4(loc int32, m mgl32.Mat4) { r.uniform(loc, m) }
func (r *Recorder) Uniform4(loc int32, v mgl32.Vec4)       { r.uniform(loc, v) }
func (r *Recorder) Uniform3(loc int32, v mgl32.Vec3)       { r.uniform(loc, v) }
func (r *Recorder) Uniform1(loc int32, f float32)          { r.uniform(loc, f) }

func (r *Recorder) alloc() error {
	if r.FailNextAlloc > 0 {
		r.FailNextAlloc--
		if r.FailNextAlloc == 0 {
			return ErrOutOfMemory
		}
	}
	return nil
}

func (r *Recorder) CreateVertexArray() (uint32, error) {
	if err := r.alloc(); err != nil {
		return 0, err
	}
	id := r.id()
	r.arrays[id] = make(map[uint32]uint32)
	return id, nil
}

func (r *Recorder) DeleteVertexArray(id uint32) { delete(r.arrays, id) }

func (r *Recorder) CreateVertexBuffer(data []float32) (uint32, error) {
	if err := r.alloc(); err != nil {
		return 0, err
	}
	id := r.id()
	r.buffers[id] = len(data)
	return id, nil
}

func (r *Recorder) CreateIndexBuffer(data []uint32) (uint32, error) {
	if err := r.alloc(); err != nil {
		return 0, err
	}
	id := r.id()
	r.buffers[id] = len(data)
	return id, nil
}

func (r *Recorder) DeleteBuffer(id uint32) { delete(r.buffers, id) }

func (r *Recorder) BindVertexArray(id uint32) { r.boundVAO = id }

func (r *Recorder) VertexAttrib(location uint32, buffer uint32, size int32) {
	if attribs, ok := r.arrays[r.boundVAO]; ok {
		attribs[location] = buffer
	}
}

func (r *Recorder) DrawElements(mode graphics.DrawMode, indexBuffer uint32, count int32) {
	attribs := make(map[uint32]uint32)
	for loc, buf := range r.arrays[r.boundVAO] {
		attribs[loc] = buf
	}
	r.Draws = append(r.Draws, DrawCall{
		Program:     r.current,
		VertexArray: r.boundVAO,
		IndexBuffer: indexBuffer,
		Mode:        mode,
		Count:       count,
		Attribs:     attribs,
	})
}

func (r *Recorder) Viewport(x, y, width, height int32) {
	r.Viewports = append(r.Viewports, [4]int32{x, y, width, height})
}

func (r *Recorder) ClearColor(c mgl32.Vec4) { r.ClearColors = append(r.ClearColors, c) }
func (r *Recorder) Clear()                  { r.Clears++ }
func (r *Recorder) EnableDepthTest()        { r.DepthTest = true }

// UniformsNamed returns the recorded writes to one uniform, in order
func (r *Recorder) UniformsNamed(name string) []UniformWrite {
	var out []UniformWrite
	for _, u := range r.Uniforms {
		if u.Name == name {
			out = append(out, u)
		}
	}
	return out
}

// Reset forgets recorded draws and uniform writes but keeps device objects
func (r *Recorder) Reset() {
	r.Draws = nil
	r.Uniforms = nil
	r.Clears = 0
}

func (r *Recorder) LiveBuffers() int      { return len(r.buffers) }
func (r *Recorder) LiveVertexArrays() int { return len(r.arrays) }
func (r *Recorder) LiveShaders() int      { return len(r.shaders) }
func (r *Recorder) LivePrograms() int     { return len(r.programs) }

// BufferLen returns the element count uploaded to a live buffer
func (r *Recorder) BufferLen(id uint32) (int, bool) {
	n, ok := r.buffers[id]
	return n, ok
}
