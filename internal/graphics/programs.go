package graphics

import (
	"fmt"
	"io/fs"

	"github.com/go-gl/mathgl/mgl32"
)

// ShaderKind selects one of the built-in scene programs
type ShaderKind int

const (
	Lambert ShaderKind = iota
	Gradient

	shaderKindCount
)

// ShaderKinds lists every built-in program in selection order
var ShaderKinds = []ShaderKind{Lambert, Gradient}

func (k ShaderKind) String() string {
	switch k {
	case Lambert:
		return "lambert"
	case Gradient:
		return "gradient"
	default:
		return fmt.Sprintf("ShaderKind(%d)", int(k))
	}
}

// Next returns the kind that follows k, wrapping around
func (k ShaderKind) Next() ShaderKind {
	return (k + 1) % shaderKindCount
}

// Valid reports whether k names a built-in program
func (k ShaderKind) Valid() bool {
	return k >= 0 && k < shaderKindCount
}

// ParseShaderKind maps a name such as "lambert" back to its kind
func ParseShaderKind(name string) (ShaderKind, error) {
	for _, k := range ShaderKinds {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown shader %q", name)
}

// Uniform names shared by the scene programs
const (
	UniformView     = "u_View"
	UniformProj     = "u_Proj"
	UniformColor    = "u_Color"
	UniformLightDir = "u_LightDir"
)

// DefaultLightDir points from the surface towards the light
var DefaultLightDir = mgl32.Vec3{1, 1, 1}.Normalize()

// LoadSources reads <kind>.vert and <kind>.frag from fsys
func LoadSources(fsys fs.FS, kind ShaderKind) ([]ShaderSource, error) {
	return ReadSources(fsys, kind.String())
}

// ReadSources reads <name>.vert and <name>.frag from fsys
func ReadSources(fsys fs.FS, name string) ([]ShaderSource, error) {
	vert, err := fs.ReadFile(fsys, name+".vert")
	if err != nil {
		return nil, fmt.Errorf("could not read vertex shader file: %w", err)
	}
	frag, err := fs.ReadFile(fsys, name+".frag")
	if err != nil {
		return nil, fmt.Errorf("could not read fragment shader file: %w", err)
	}
	return []ShaderSource{
		{Stage: StageVertex, Source: string(vert)},
		{Stage: StageFragment, Source: string(frag)},
	}, nil
}

// NewProgram compiles the built-in program for kind from fsys.
// The lambert program starts lit from lightDir; other kinds ignore it.
func NewProgram(dev Device, kind ShaderKind, fsys fs.FS, lightDir mgl32.Vec3) (*ShaderProgram, error) {
	sources, err := LoadSources(fsys, kind)
	if err != nil {
		return nil, err
	}
	p, err := CompileProgram(dev, sources...)
	if err != nil {
		return nil, fmt.Errorf("%s program: %w", kind, err)
	}
	if kind == Lambert {
		if err := SetLightDir(p, lightDir); err != nil {
			p.Delete()
			return nil, fmt.Errorf("%s program: %w", kind, err)
		}
	}
	return p, nil
}

// SetLightDir uploads a light direction to a lambert program
func SetLightDir(p *ShaderProgram, dir mgl32.Vec3) error {
	if err := p.Use(); err != nil {
		return err
	}
	return p.SetVector3(UniformLightDir, dir.Normalize())
}
