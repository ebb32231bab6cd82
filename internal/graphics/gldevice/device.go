// Package gldevice implements graphics.Device on an OpenGL 4.1 core context.
package gldevice

import (
	"fmt"
	"log/slog"
	"strings"

	"icoview/internal/graphics"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Device issues GL calls on the current context. gl.Init must have run
// on the thread that owns the context before any method is called.
type Device struct{}

var _ graphics.Device = (*Device)(nil)

// New returns a device bound to the current GL context
func New() *Device {
	return &Device{}
}

func stageType(stage graphics.ShaderStage) uint32 {
	if stage == graphics.StageFragment {
		return gl.FRAGMENT_SHADER
	}
	return gl.VERTEX_SHADER
}

func (d *Device) CompileShader(stage graphics.ShaderStage, source string) (uint32, string, bool) {
	shader := gl.CreateShader(stageType(stage))
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		return shader, log, false
	}
	return shader, "", true
}

func (d *Device) LinkProgram(shaders ...uint32) (uint32, string, bool) {
	program := gl.CreateProgram()
	for _, s := range shaders {
		gl.AttachShader(program, s)
	}
	gl.LinkProgram(program)
	for _, s := range shaders {
		gl.DetachShader(program, s)
	}

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		return program, log, false
	}
	return program, "", true
}

func (d *Device) DeleteShader(id uint32)  { gl.DeleteShader(id) }
func (d *Device) DeleteProgram(id uint32) { gl.DeleteProgram(id) }

func (d *Device) ActiveUniforms(program uint32) []string {
	return activeNames(program, gl.ACTIVE_UNIFORMS, gl.ACTIVE_UNIFORM_MAX_LENGTH, gl.GetActiveUniform)
}

func (d *Device) ActiveAttributes(program uint32) []string {
	return activeNames(program, gl.ACTIVE_ATTRIBUTES, gl.ACTIVE_ATTRIBUTE_MAX_LENGTH, gl.GetActiveAttrib)
}

type activeFunc func(program, index uint32, bufSize int32, length, size *int32, xtype *uint32, name *uint8)

func activeNames(program, countParam, maxLenParam uint32, get activeFunc) []string {
	var count, maxLen int32
	gl.GetProgramiv(program, countParam, &count)
	gl.GetProgramiv(program, maxLenParam, &maxLen)
	if count == 0 || maxLen == 0 {
		return nil
	}
	names := make([]string, 0, count)
	buf := make([]uint8, maxLen)
	for i := int32(0); i < count; i++ {
		var length, size int32
		var xtype uint32
		get(program, uint32(i), maxLen, &length, &size, &xtype, &buf[0])
		names = append(names, string(buf[:length]))
	}
	return names
}

func (d *Device) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (d *Device) AttribLocation(program uint32, name string) int32 {
	return gl.GetAttribLocation(program, gl.Str(name+"\x00"))
}

func (d *Device) UseProgram(program uint32) { gl.UseProgram(program) }

func (d *Device) UniformMatrix4(location int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (d *Device) Uniform4(location int32, v mgl32.Vec4) {
	gl.Uniform4f(location, v[0], v[1], v[2], v[3])
}

func (d *Device) Uniform3(location int32, v mgl32.Vec3) {
	gl.Uniform3f(location, v[0], v[1], v[2])
}

func (d *Device) Uniform1(location int32, f float32) {
	gl.Uniform1f(location, f)
}

// a lost context can keep reporting errors, so draining stops after this many
const maxQueuedErrors = 32

// drainErrors empties the error queue and returns the oldest error, or 0
func drainErrors(getError func() uint32) uint32 {
	var first uint32
	for range maxQueuedErrors {
		e := getError()
		if e == gl.NO_ERROR {
			break
		}
		if first == 0 {
			first = e
		}
	}
	return first
}

// checkError reports the first error raised since the queue was last drained
func checkError(op string, getError func() uint32) error {
	if e := drainErrors(getError); e != 0 {
		return fmt.Errorf("%s: gl error 0x%04x", op, e)
	}
	return nil
}

func (d *Device) CreateVertexArray() (uint32, error) {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	if vao == 0 {
		return 0, fmt.Errorf("glGenVertexArrays returned no name")
	}
	return vao, nil
}

func (d *Device) DeleteVertexArray(id uint32) { gl.DeleteVertexArrays(1, &id) }

// createBuffer uploads through ARRAY_BUFFER whatever the buffer will hold.
// Buffer objects are untyped; the ELEMENT_ARRAY_BUFFER binding belongs to
// the bound VAO and is only set at draw time.
func (d *Device) createBuffer(size int, data any) (uint32, error) {
	if e := drainErrors(gl.GetError); e != 0 {
		slog.Debug("discarded stale gl error", "err", fmt.Sprintf("0x%04x", e))
	}
	var buf uint32
	gl.GenBuffers(1, &buf)
	if buf == 0 {
		return 0, fmt.Errorf("glGenBuffers returned no name")
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, buf)
	if size > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, size, gl.Ptr(data), gl.STATIC_DRAW)
	} else {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.STATIC_DRAW)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	if err := checkError("glBufferData", gl.GetError); err != nil {
		gl.DeleteBuffers(1, &buf)
		return 0, err
	}
	return buf, nil
}

func (d *Device) CreateVertexBuffer(data []float32) (uint32, error) {
	return d.createBuffer(len(data)*4, data)
}

func (d *Device) CreateIndexBuffer(data []uint32) (uint32, error) {
	return d.createBuffer(len(data)*4, data)
}

func (d *Device) DeleteBuffer(id uint32) { gl.DeleteBuffers(1, &id) }

func (d *Device) BindVertexArray(id uint32) { gl.BindVertexArray(id) }

func (d *Device) VertexAttrib(location uint32, buffer uint32, size int32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, buffer)
	gl.EnableVertexAttribArray(location)
	gl.VertexAttribPointerWithOffset(location, size, gl.FLOAT, false, size*4, 0)
}

// DrawElements draws triangles, the only mode the meshes use
func (d *Device) DrawElements(_ graphics.DrawMode, indexBuffer uint32, count int32) {
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, indexBuffer)
	gl.DrawElementsWithOffset(gl.TRIANGLES, count, gl.UNSIGNED_INT, 0)
}

func (d *Device) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }

func (d *Device) ClearColor(c mgl32.Vec4) { gl.ClearColor(c[0], c[1], c[2], c[3]) }

func (d *Device) Clear() { gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT) }

func (d *Device) EnableDepthTest() {
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)
}
