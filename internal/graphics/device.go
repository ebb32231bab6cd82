package graphics

import "github.com/go-gl/mathgl/mgl32"

// ShaderStage identifies a programmable pipeline stage
type ShaderStage int

const (
	StageVertex ShaderStage = iota
	StageFragment
)

func (s ShaderStage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// DrawMode selects the primitive assembly for indexed draws
type DrawMode int

const Triangles DrawMode = 0

// Device is the slice of the graphics API the viewer needs.
// All methods must be called from the thread that owns the context.
type Device interface {
	// CompileShader compiles one stage. ok is false on failure and log holds the info log.
	CompileShader(stage ShaderStage, source string) (id uint32, log string, ok bool)
	LinkProgram(shaders ...uint32) (id uint32, log string, ok bool)
	DeleteShader(id uint32)
	DeleteProgram(id uint32)

	// ActiveUniforms and ActiveAttributes list the names the linker kept
	ActiveUniforms(program uint32) []string
	ActiveAttributes(program uint32) []string
	UniformLocation(program uint32, name string) int32
	AttribLocation(program uint32, name string) int32

	UseProgram(program uint32)
	UniformMatrix4(location int32, m mgl32.Mat4)
	Uniform4(location int32, v mgl32.Vec4)
	Uniform3(location int32, v mgl32.Vec3)
	Uniform1(location int32, f float32)

	CreateVertexArray() (uint32, error)
	DeleteVertexArray(id uint32)
	CreateVertexBuffer(data []float32) (uint32, error)
	CreateIndexBuffer(data []uint32) (uint32, error)
	DeleteBuffer(id uint32)

	BindVertexArray(id uint32)
	// VertexAttrib points attribute location at a tightly packed buffer of size-component floats
	VertexAttrib(location uint32, buffer uint32, size int32)
	DrawElements(mode DrawMode, indexBuffer uint32, count int32)

	Viewport(x, y, width, height int32)
	ClearColor(c mgl32.Vec4)
	Clear()
	EnableDepthTest()
}
