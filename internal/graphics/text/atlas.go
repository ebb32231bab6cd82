package text

import (
	"fmt"
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Glyph describes a single character's placement and metrics within the atlas
type Glyph struct {
	// Pixel coordinates of the glyph in the atlas image (top-left origin)
	AtlasX float32
	AtlasY float32
	// Glyph bitmap size in pixels
	Width  float32
	Height float32
	// Bearing (offset from baseline) in pixels
	BearingX float32
	BearingY float32
	// Advance in pixels, rounded from 26.6
	Advance int
}

// Atlas is a single-channel glyph sheet plus per-rune metrics. Uploading it
// is left to the caller.
type Atlas struct {
	Image  *image.Alpha
	Glyphs map[rune]Glyph
	// LineHeight is the ascent plus descent in pixels
	LineHeight int
}

const atlasWidth = 512

// FloatsPerGlyph is the vertex data written per drawn glyph: two triangles of (x, y, u, v)
const FloatsPerGlyph = 6 * 4

// Default bakes the Go Regular font at the given pixel size
func Default(pixels int) (*Atlas, error) {
	return Build(goregular.TTF, pixels)
}

// Build parses a TrueType/OpenType font and bakes printable ASCII into an atlas
func Build(fontBytes []byte, pixels int) (*Atlas, error) {
	if pixels <= 0 {
		return nil, fmt.Errorf("font size %d must be positive", pixels)
	}
	f, err := opentype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: float64(pixels), DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	defer func() { _ = face.Close() }()

	const padding = 1
	type placed struct {
		r      rune
		dr     image.Rectangle
		mask   image.Image
		maskp  image.Point
		adv    fixed.Int26_6
		x, y   int
		hidden bool
	}

	// First pass: row-pack the glyph boxes to find the atlas height
	var glyphs []placed
	offsetX, offsetY, rowHeight := 0, 0, 0
	for r := rune(32); r <= 126; r++ {
		dr, mask, maskp, advance, ok := face.Glyph(fixed.P(0, 0), r)
		if !ok {
			continue
		}
		p := placed{r: r, dr: dr, mask: mask, maskp: maskp, adv: advance}
		gw, gh := dr.Dx(), dr.Dy()
		if mask == nil || gw == 0 || gh == 0 {
			// Space or non-drawable glyph; still record advance
			p.hidden = true
			glyphs = append(glyphs, p)
			continue
		}
		if offsetX+gw > atlasWidth {
			offsetX = 0
			offsetY += rowHeight + padding
			rowHeight = 0
		}
		p.x, p.y = offsetX, offsetY
		glyphs = append(glyphs, p)
		offsetX += gw + padding
		if gh > rowHeight {
			rowHeight = gh
		}
	}
	atlasHeight := nextPow2(offsetY + rowHeight)

	img := image.NewAlpha(image.Rect(0, 0, atlasWidth, atlasHeight))
	out := make(map[rune]Glyph, len(glyphs))

	// Second pass: copy each mask into place
	for _, p := range glyphs {
		g := Glyph{
			AtlasX:   float32(p.x),
			AtlasY:   float32(p.y),
			BearingX: float32(p.dr.Min.X),
			BearingY: float32(-p.dr.Min.Y),
			Advance:  int(math.Round(float64(p.adv) / 64.0)),
		}
		if !p.hidden {
			g.Width = float32(p.dr.Dx())
			g.Height = float32(p.dr.Dy())
			dst := image.Rect(p.x, p.y, p.x+p.dr.Dx(), p.y+p.dr.Dy())
			draw.Draw(img, dst, p.mask, p.maskp, draw.Src)
		}
		out[p.r] = g
	}

	m := face.Metrics()
	return &Atlas{
		Image:      img,
		Glyphs:     out,
		LineHeight: (m.Ascent + m.Descent).Ceil(),
	}, nil
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Measure returns the width and tallest glyph height in pixels of s at scale
func (a *Atlas) Measure(s string, scale float32) (float32, float32) {
	var width, maxH float32
	for _, r := range s {
		g, ok := a.Glyphs[r]
		if !ok {
			g = a.Glyphs[' ']
		}
		width += float32(g.Advance) * scale
		if g.Height*scale > maxH {
			maxH = g.Height * scale
		}
	}
	return width, maxH
}

// AppendVertices appends two textured triangles per drawable glyph of s
// with its baseline starting at (x, y) in a y-down pixel space.
func (a *Atlas) AppendVertices(dst []float32, s string, x, y, scale float32) []float32 {
	w := float32(a.Image.Rect.Dx())
	h := float32(a.Image.Rect.Dy())
	for _, r := range s {
		g, ok := a.Glyphs[r]
		if !ok {
			// Skip missing glyphs
			x += float32(a.Glyphs[' '].Advance) * scale
			continue
		}
		if g.Width > 0 && g.Height > 0 {
			xPos := x + g.BearingX*scale
			yPos := y - g.BearingY*scale
			gw := g.Width * scale
			gh := g.Height * scale

			u0, v0 := g.AtlasX/w, g.AtlasY/h
			u1, v1 := (g.AtlasX+g.Width)/w, (g.AtlasY+g.Height)/h

			dst = append(dst,
				// triangle 1
				xPos, yPos+gh, u0, v1,
				xPos+gw, yPos, u1, v0,
				xPos, yPos, u0, v0,
				// triangle 2
				xPos, yPos+gh, u0, v1,
				xPos+gw, yPos+gh, u1, v1,
				xPos+gw, yPos, u1, v0,
			)
		}
		x += float32(g.Advance) * scale
	}
	return dst
}
