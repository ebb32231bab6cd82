package app

import (
	"fmt"
	"io/fs"
	"os"

	"icoview/assets"
	"icoview/internal/config"
	"icoview/internal/graphics"
	"icoview/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

// ShaderFS returns the embedded shaders, or dir when it is set
func ShaderFS(dir string) fs.FS {
	if dir == "" {
		return assets.Shaders
	}
	return os.DirFS(dir)
}

// SceneOptions converts the scene settings into mesh placement and draw order
func SceneOptions(s config.SceneSettings) (scene.Options, error) {
	opts := scene.Options{
		IcosphereCenter: mgl32.Vec3(s.Icosphere.Center),
		IcosphereRadius: s.Icosphere.Radius,
		CubeCenter:      mgl32.Vec3(s.CubeCenter),
		SquareCenter:    mgl32.Vec3(s.SquareCenter),
	}
	for _, name := range s.Visible {
		k, err := scene.ParseMeshKind(name)
		if err != nil {
			return opts, fmt.Errorf("scene.visible: %w", err)
		}
		opts.Visible = append(opts.Visible, k)
	}
	return opts, nil
}

// NewControls seeds the runtime controls from the scene settings
func NewControls(s config.SceneSettings) (*scene.Controls, error) {
	c, err := scene.NewControls(s.Tessellation)
	if err != nil {
		return nil, err
	}
	if s.Shader != "" {
		kind, err := graphics.ParseShaderKind(s.Shader)
		if err != nil {
			return nil, fmt.Errorf("scene.shader: %w", err)
		}
		if err := c.SetShader(kind); err != nil {
			return nil, err
		}
	}
	if s.Color != [4]float32{} {
		c.SetColor(mgl32.Vec4(s.Color))
	}
	return c, nil
}

// NewCamera places an orbit camera from the camera settings
func NewCamera(s config.CameraSettings, aspect float32) *graphics.OrbitCamera {
	cam := graphics.NewOrbitCamera(mgl32.Vec3(s.Position), mgl32.Vec3(s.Target), aspect)
	cam.SetPerspective(s.FOV, s.Near, s.Far)
	return cam
}

// NewPrograms compiles every built-in scene program from fsys
func NewPrograms(dev graphics.Device, fsys fs.FS, lightDir mgl32.Vec3) (map[graphics.ShaderKind]*graphics.ShaderProgram, error) {
	programs := make(map[graphics.ShaderKind]*graphics.ShaderProgram, len(graphics.ShaderKinds))
	for _, k := range graphics.ShaderKinds {
		p, err := graphics.NewProgram(dev, k, fsys, lightDir)
		if err != nil {
			for _, done := range programs {
				done.Delete()
			}
			return nil, err
		}
		programs[k] = p
	}
	return programs, nil
}
