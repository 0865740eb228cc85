package autocrop

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ironsheep/page-autocrop/internal/imaging"
)

// grid is an in-memory Pixels used to drive the stages directly.
type grid struct {
	w, h int
	px   []Color
}

func newGrid(w, h int, fill Color) *grid {
	g := &grid{w: w, h: h, px: make([]Color, w*h)}
	for i := range g.px {
		g.px[i] = fill
	}
	return g
}

func (g *grid) Width() int             { return g.w }
func (g *grid) Height() int            { return g.h }
func (g *grid) ColorAt(x, y int) Color { return g.px[y*g.w+x] }
func (g *grid) set(x, y int, c Color)  { g.px[y*g.w+x] = c }
func (g *grid) fill(r image.Rectangle, c Color) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			g.set(x, y, c)
		}
	}
}

// framedImage returns a w×h image of border colour with an inner rectangle
// of content colour.
func framedImage(w, h int, inner image.Rectangle, border, content color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if image.Pt(x, y).In(inner) {
				img.Set(x, y, content)
			} else {
				img.Set(x, y, border)
			}
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	data, err := imaging.EncodePNG(img)
	require.NoError(t, err)
	return data
}

func decodePNG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := imaging.DecodeBytes(data)
	require.NoError(t, err)
	return img
}

var (
	white = color.NRGBA{255, 255, 255, 255}
	black = color.NRGBA{0, 0, 0, 255}
)
