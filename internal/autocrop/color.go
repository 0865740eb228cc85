package autocrop

import (
	"fmt"
	"image/color"
	"math"
)

// Color is an RGB colour packed as 0xRRGGBB.
type Color uint32

// White is the fallback background colour.
const White Color = 0xFFFFFF

// RGB packs three 8-bit channels into a Color.
func RGB(r, g, b uint8) Color {
	return Color(uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// FromColor converts any color.Color, dropping alpha. The conversion goes
// through non-premultiplied RGBA so translucent pixels keep their channel
// values.
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB(n.R, n.G, n.B)
}

// R returns the red channel.
func (c Color) R() uint8 { return uint8(c >> 16) }

// G returns the green channel.
func (c Color) G() uint8 { return uint8(c >> 8) }

// B returns the blue channel.
func (c Color) B() uint8 { return uint8(c) }

// String formats the colour as "#RRGGBB".
func (c Color) String() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R(), c.G(), c.B())
}

// NRGBA returns the colour as an opaque color.NRGBA.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R(), G: c.G(), B: c.B(), A: 0xFF}
}

// Distance is the sum of absolute per-channel differences, 0-765.
func Distance(a, b Color) int {
	return absDiff(a.R(), b.R()) + absDiff(a.G(), b.G()) + absDiff(a.B(), b.B())
}

// SimilarityLimit returns the exclusive distance bound for a threshold:
// round(255 × threshold).
func SimilarityLimit(threshold float64) int {
	return int(math.Round(255 * threshold))
}

// Similar reports whether a and b are within the similarity threshold.
// The comparison is strict: a distance equal to the limit is not similar.
func Similar(a, b Color, threshold float64) bool {
	return Distance(a, b) < SimilarityLimit(threshold)
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
