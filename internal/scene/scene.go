package scene

import (
	"fmt"
	"log/slog"
	"time"

	"icoview/internal/geometry"
	"icoview/internal/graphics"
	"icoview/internal/graphics/renderer"
	"icoview/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
)

// MeshKind names one of the procedural meshes in the scene
type MeshKind int

const (
	Icosphere MeshKind = iota
	Cube
	Square

	meshKindCount
)

func (k MeshKind) String() string {
	switch k {
	case Icosphere:
		return "icosphere"
	case Cube:
		return "cube"
	case Square:
		return "square"
	default:
		return fmt.Sprintf("MeshKind(%d)", int(k))
	}
}

// ParseMeshKind maps a name such as "cube" back to its kind
func ParseMeshKind(name string) (MeshKind, error) {
	for k := MeshKind(0); k < meshKindCount; k++ {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown mesh %q", name)
}

// Options places the meshes and picks which of them are drawn, in draw order
type Options struct {
	IcosphereCenter mgl32.Vec3
	IcosphereRadius float32
	CubeCenter      mgl32.Vec3
	SquareCenter    mgl32.Vec3
	Visible         []MeshKind
}

// DefaultOptions draws a unit icosphere at the origin
func DefaultOptions() Options {
	return Options{
		IcosphereRadius: 1,
		Visible:         []MeshKind{Icosphere},
	}
}

// Scene owns the realized meshes and the compiled programs, and runs the
// per-frame sequence against a renderer.
type Scene struct {
	dev      graphics.Device
	opts     Options
	controls *Controls
	programs map[graphics.ShaderKind]*graphics.ShaderProgram
	meshes   [meshKindCount]*graphics.GPUMesh
	visible  []*graphics.GPUMesh
	// level the realized icosphere was built at
	level int
}

// New checks that a program exists for every shader kind. Call Load before the first Frame.
func New(dev graphics.Device, controls *Controls, programs map[graphics.ShaderKind]*graphics.ShaderProgram, opts Options) (*Scene, error) {
	for _, k := range graphics.ShaderKinds {
		p, ok := programs[k]
		if !ok || p == nil {
			return nil, fmt.Errorf("scene: missing %s program", k)
		}
	}
	for _, k := range opts.Visible {
		if k < 0 || k >= meshKindCount {
			return nil, fmt.Errorf("scene: %v: %w", k, geometry.ErrInvalidParameter)
		}
	}
	return &Scene{
		dev:      dev,
		opts:     opts,
		controls: controls,
		programs: programs,
	}, nil
}

func (s *Scene) Controls() *Controls {
	return s.controls
}

// Mesh returns the realized mesh of a kind, or nil before Load
func (s *Scene) Mesh(kind MeshKind) *graphics.GPUMesh {
	if kind < 0 || kind >= meshKindCount {
		return nil
	}
	return s.meshes[kind]
}

func (s *Scene) build(kind MeshKind) (*geometry.Mesh, error) {
	switch kind {
	case Icosphere:
		return geometry.Icosphere(s.opts.IcosphereCenter, s.opts.IcosphereRadius, s.controls.Tessellation())
	case Cube:
		return geometry.Cube(s.opts.CubeCenter), nil
	case Square:
		return geometry.Square(s.opts.SquareCenter), nil
	}
	return nil, fmt.Errorf("build %v: %w", kind, geometry.ErrInvalidParameter)
}

// Load builds and realizes every mesh from scratch. Either all meshes are
// replaced or, on error, the previous set is kept.
func (s *Scene) Load() error {
	defer profiling.Track("scene.Load")()

	level := s.controls.Tessellation()
	var next [meshKindCount]*graphics.GPUMesh
	for k := MeshKind(0); k < meshKindCount; k++ {
		m, err := s.build(k)
		if err == nil {
			next[k] = graphics.NewGPUMesh(m)
			err = next[k].Realize(s.dev)
		}
		if err != nil {
			for _, g := range next {
				if g != nil {
					g.Release()
				}
			}
			return fmt.Errorf("load %s: %w", k, err)
		}
	}
	for k, old := range s.meshes {
		if old != nil {
			old.Release()
		}
		s.meshes[k] = next[k]
	}
	s.level = level
	s.controls.ClearDirty()
	s.refreshVisible()
	slog.Info("scene loaded", "tessellation", s.controls.Tessellation(), "visible", len(s.visible))
	return nil
}

// Rebuild regenerates the icosphere at the current tessellation level and
// swaps it in. On error the previous icosphere stays in place and the
// controls go back to the level it was built at.
func (s *Scene) Rebuild() error {
	defer profiling.Track("scene.Rebuild")()
	start := time.Now()

	level := s.controls.Tessellation()
	fail := func(err error) error {
		if s.meshes[Icosphere] != nil {
			s.controls.revertTessellation(s.level)
		}
		return fmt.Errorf("rebuild icosphere at level %d: %w", level, err)
	}
	m, err := s.build(Icosphere)
	if err != nil {
		return fail(err)
	}
	g := graphics.NewGPUMesh(m)
	if err := g.Realize(s.dev); err != nil {
		return fail(err)
	}
	if old := s.meshes[Icosphere]; old != nil {
		old.Release()
	}
	s.meshes[Icosphere] = g
	s.level = level
	s.refreshVisible()

	slog.Info("icosphere rebuilt",
		"level", level,
		"vertices", m.VertexCount(),
		"triangles", m.TriangleCount(),
		"elapsed", time.Since(start))
	return nil
}

func (s *Scene) refreshVisible() {
	s.visible = s.visible[:0]
	for _, k := range s.opts.Visible {
		s.visible = append(s.visible, s.meshes[k])
	}
}

// Visible returns the meshes drawn each frame, in draw order
func (s *Scene) Visible() []*graphics.GPUMesh {
	return s.visible
}

// Frame runs one tick: advance the camera, clear, rebuild the icosphere if
// the controls are dirty, then draw the visible meshes with the active program.
// The dirty flag is cleared even when the rebuild fails; the old mesh is
// drawn and the controls report its level.
func (s *Scene) Frame(cam graphics.Camera, r *renderer.Renderer) error {
	cam.Update()
	r.Clear()

	var rebuildErr error
	if s.controls.Dirty() {
		rebuildErr = s.Rebuild()
		s.controls.ClearDirty()
	}

	kind := s.controls.Shader()
	program, ok := s.programs[kind]
	if !ok {
		return fmt.Errorf("scene: no %s program", kind)
	}
	if err := r.Render(cam, program, s.visible, s.controls.Color()); err != nil {
		return err
	}
	return rebuildErr
}

// Dispose releases every mesh and program
func (s *Scene) Dispose() {
	for k, m := range s.meshes {
		if m != nil {
			m.Release()
			s.meshes[k] = nil
		}
	}
	s.visible = nil
	for _, p := range s.programs {
		p.Delete()
	}
}
