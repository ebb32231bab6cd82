package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultAtlasCoversPrintableASCII(t *testing.T) {
	a, err := Default(16)
	require.NoError(t, err)

	for r := rune(33); r <= 126; r++ {
		g, ok := a.Glyphs[r]
		require.True(t, ok, "missing %q", r)
		assert.Positive(t, g.Advance, "%q", r)
	}
	space := a.Glyphs[' ']
	assert.Zero(t, space.Width)
	assert.Positive(t, space.Advance)
	assert.Positive(t, a.LineHeight)

	b := a.Image.Rect
	assert.Equal(t, atlasWidth, b.Dx())
	assert.Equal(t, 0, b.Dy()&(b.Dy()-1), "height must be a power of two")
	for r, g := range a.Glyphs {
		assert.LessOrEqual(t, int(g.AtlasX+g.Width), b.Dx(), "%q", r)
		assert.LessOrEqual(t, int(g.AtlasY+g.Height), b.Dy(), "%q", r)
	}
}

func TestAtlasHasInk(t *testing.T) {
	a, err := Default(16)
	require.NoError(t, err)
	g := a.Glyphs['M']
	ink := 0
	for y := int(g.AtlasY); y < int(g.AtlasY+g.Height); y++ {
		for x := int(g.AtlasX); x < int(g.AtlasX+g.Width); x++ {
			ink += int(a.Image.AlphaAt(x, y).A)
		}
	}
	assert.Positive(t, ink)
}

func TestBuildRejectsBadInput(t *testing.T) {
	_, err := Build([]byte("not a font"), 16)
	assert.Error(t, err)
	_, err = Default(0)
	assert.Error(t, err)
}

func TestMeasureAndVertices(t *testing.T) {
	a, err := Default(20)
	require.NoError(t, err)

	w1, h1 := a.Measure("ab", 1)
	w2, _ := a.Measure("ab", 2)
	assert.Positive(t, w1)
	assert.Positive(t, h1)
	assert.InDelta(t, 2*w1, w2, 1e-3)

	verts := a.AppendVertices(nil, "a b", 10, 30, 1)
	assert.Len(t, verts, 2*FloatsPerGlyph, "space draws nothing")
	for i := 0; i < len(verts); i += 4 {
		u, v := verts[i+2], verts[i+3]
		assert.True(t, u >= 0 && u <= 1 && v >= 0 && v <= 1)
	}

	// the second glyph starts past the first glyph and the space
	wantX := 10 + float32(a.Glyphs['a'].Advance+a.Glyphs[' '].Advance) + a.Glyphs['b'].BearingX
	assert.InDelta(t, wantX, verts[FloatsPerGlyph+2*4], 1e-3)
}
