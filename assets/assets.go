// Package assets embeds the GLSL sources the viewer ships with.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed shaders/*.vert shaders/*.frag
var files embed.FS

// Shaders is rooted at the shader directory, so names look like "lambert.vert"
var Shaders fs.FS

func init() {
	sub, err := fs.Sub(files, "shaders")
	if err != nil {
		panic(err)
	}
	Shaders = sub
}
