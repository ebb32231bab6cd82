package graphics

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Attribute names every program binds mesh buffers to
const (
	AttribPosition = "position"
	AttribNormal   = "normal"
)

// ProgramState tracks a ShaderProgram through compilation
type ProgramState int

const (
	ProgramUncompiled ProgramState = iota
	ProgramCompiling
	ProgramLinked
	ProgramFailed
)

func (s ProgramState) String() string {
	switch s {
	case ProgramUncompiled:
		return "uncompiled"
	case ProgramCompiling:
		return "compiling"
	case ProgramLinked:
		return "linked"
	case ProgramFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ShaderSource is the text of one pipeline stage
type ShaderSource struct {
	Stage  ShaderStage
	Source string
}

// ShaderProgram is a linked vertex+fragment program with cached uniform and attribute locations.
type ShaderProgram struct {
	dev    Device
	stages []ShaderSource

	ID         uint32
	state      ProgramState
	err        error
	uniforms   map[string]int32
	attributes map[string]uint32
}

// NewShaderProgram creates an uncompiled program; call Compile before use
func NewShaderProgram(dev Device, stages ...ShaderSource) *ShaderProgram {
	return &ShaderProgram{dev: dev, stages: stages}
}

// CompileProgram creates and compiles a program in one step
func CompileProgram(dev Device, stages ...ShaderSource) (*ShaderProgram, error) {
	p := NewShaderProgram(dev, stages...)
	if err := p.Compile(); err != nil {
		return p, err
	}
	return p, nil
}

// State returns the compilation state
func (p *ShaderProgram) State() ProgramState {
	return p.state
}

// Err returns the error that moved the program to ProgramFailed, if any
func (p *ShaderProgram) Err() error {
	return p.err
}

// Compile compiles and links the stages and resolves locations.
// A failed program stays failed; compiling it again reports the original error.
func (p *ShaderProgram) Compile() error {
	switch p.state {
	case ProgramLinked:
		return nil
	case ProgramFailed:
		return fmt.Errorf("%w: %w", ErrProgramNotLinked, p.err)
	case ProgramCompiling:
		return errors.New("shader program is already compiling")
	}

	p.state = ProgramCompiling
	if err := p.build(); err != nil {
		p.state = ProgramFailed
		p.err = err
		return err
	}
	p.state = ProgramLinked
	return nil
}

func (p *ShaderProgram) build() error {
	seen := make(map[ShaderStage]bool, len(p.stages))
	for _, s := range p.stages {
		if seen[s.Stage] {
			return fmt.Errorf("duplicate %s stage", s.Stage)
		}
		seen[s.Stage] = true
	}
	for _, st := range []ShaderStage{StageVertex, StageFragment} {
		if !seen[st] {
			return fmt.Errorf("missing %s stage", st)
		}
	}

	shaders := make([]uint32, 0, len(p.stages))
	defer func() {
		// shaders can be deleted once linked or on failure
		for _, id := range shaders {
			p.dev.DeleteShader(id)
		}
	}()
	for _, s := range p.stages {
		id, log, ok := p.dev.CompileShader(s.Stage, s.Source)
		if !ok {
			if id != 0 {
				p.dev.DeleteShader(id)
			}
			return &ShaderCompileError{Stage: s.Stage, Log: trimLog(log)}
		}
		shaders = append(shaders, id)
	}

	program, log, ok := p.dev.LinkProgram(shaders...)
	if !ok {
		if program != 0 {
			p.dev.DeleteProgram(program)
		}
		return &ShaderLinkError{Log: trimLog(log)}
	}
	p.ID = program

	p.uniforms = make(map[string]int32)
	for _, name := range p.dev.ActiveUniforms(program) {
		name = strings.TrimSuffix(name, "[0]")
		p.uniforms[name] = p.dev.UniformLocation(program, name)
	}
	p.attributes = make(map[string]uint32)
	for _, name := range p.dev.ActiveAttributes(program) {
		if loc := p.dev.AttribLocation(program, name); loc >= 0 {
			p.attributes[name] = uint32(loc)
		}
	}
	return nil
}

func trimLog(log string) string {
	return strings.TrimRight(log, "\x00 \n")
}

// Use activates the shader program
func (p *ShaderProgram) Use() error {
	if p.state != ProgramLinked {
		return ErrProgramNotLinked
	}
	p.dev.UseProgram(p.ID)
	return nil
}

// HasUniform reports whether the linked program declares an active uniform
func (p *ShaderProgram) HasUniform(name string) bool {
	_, ok := p.uniforms[name]
	return ok
}

func (p *ShaderProgram) location(name string) (int32, error) {
	if p.state != ProgramLinked {
		return 0, ErrProgramNotLinked
	}
	loc, ok := p.uniforms[name]
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrUnknownUniform, name)
	}
	return loc, nil
}

// SetFloat sets a float uniform
func (p *ShaderProgram) SetFloat(name string, value float32) error {
	loc, err := p.location(name)
	if err != nil {
		return err
	}
	p.dev.Uniform1(loc, value)
	return nil
}

// SetVector3 sets a vec3 uniform
func (p *ShaderProgram) SetVector3(name string, value mgl32.Vec3) error {
	loc, err := p.location(name)
	if err != nil {
		return err
	}
	p.dev.Uniform3(loc, value)
	return nil
}

// SetVector4 sets a vec4 uniform
func (p *ShaderProgram) SetVector4(name string, value mgl32.Vec4) error {
	loc, err := p.location(name)
	if err != nil {
		return err
	}
	p.dev.Uniform4(loc, value)
	return nil
}

// SetMatrix4 sets a 4x4 matrix uniform
func (p *ShaderProgram) SetMatrix4(name string, value mgl32.Mat4) error {
	loc, err := p.location(name)
	if err != nil {
		return err
	}
	p.dev.UniformMatrix4(loc, value)
	return nil
}

// Draw binds the mesh buffers to this program's attribute locations and
// issues one indexed draw covering every triangle. The program must be in use.
func (p *ShaderProgram) Draw(h *MeshHandle, mode DrawMode) error {
	if p.state != ProgramLinked {
		return ErrProgramNotLinked
	}
	if h == nil {
		return ErrNotRealized
	}
	p.dev.BindVertexArray(h.VertexArray)
	if loc, ok := p.attributes[AttribPosition]; ok {
		p.dev.VertexAttrib(loc, h.Positions, 3)
	}
	if loc, ok := p.attributes[AttribNormal]; ok {
		p.dev.VertexAttrib(loc, h.Normals, 3)
	}
	p.dev.DrawElements(mode, h.Indices, h.Count)
	return nil
}

// Delete releases the device program
func (p *ShaderProgram) Delete() {
	if p.ID != 0 {
		p.dev.DeleteProgram(p.ID)
		p.ID = 0
	}
	if p.state == ProgramLinked {
		p.state = ProgramUncompiled
		p.uniforms = nil
		p.attributes = nil
	}
}
