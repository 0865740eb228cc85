package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Default overlay colors.
const (
	DefaultContentColor = "#00C000"
	DefaultCropColor    = "#FF0000"
)

// OverlayResult is a preview image with the detected border marked.
type OverlayResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// DrawBoundaries renders a preview of an automatic crop.
//
// The content rectangle is outlined in contentHex, the final crop rectangle
// in cropHex, and pixels that the crop would discard are darkened. The crop
// size is printed just inside the crop rectangle's top-left corner. Both
// rectangles are in image coordinates with a (0, 0) origin. Empty hex
// strings select the defaults.
func DrawBoundaries(img image.Image, content, crop image.Rectangle, contentHex, cropHex string) (*OverlayResult, error) {
	if contentHex == "" {
		contentHex = DefaultContentColor
	}
	if cropHex == "" {
		cropHex = DefaultCropColor
	}
	contentColor, err := ParseHexColor(contentHex)
	if err != nil {
		return nil, err
	}
	cropColor, err := ParseHexColor(cropHex)
	if err != nil {
		return nil, err
	}

	canvas := imaging.Clone(img)
	bounds := canvas.Bounds()

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if !image.Pt(x, y).In(crop) {
				c := canvas.NRGBAAt(x, y)
				canvas.SetNRGBA(x, y, color.NRGBA{R: c.R / 2, G: c.G / 2, B: c.B / 2, A: c.A})
			}
		}
	}

	drawOutline(canvas, content, contentColor)
	drawOutline(canvas, crop, cropColor)

	label := fmt.Sprintf("%dx%d", crop.Dx(), crop.Dy())
	drawLabel(canvas, crop.Min.X+2, crop.Min.Y+2, label,
		color.NRGBA{255, 255, 255, 255}, color.NRGBA{0, 0, 0, 255})

	encoded, err := EncodeBase64PNG(canvas)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &OverlayResult{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		ImageBase64: encoded,
		MimeType:    PNGMimeType,
	}, nil
}

// drawOutline draws the one-pixel border of r, clipped to img.
func drawOutline(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		img.SetNRGBA(x, r.Min.Y, c)
		img.SetNRGBA(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.SetNRGBA(r.Min.X, y, c)
		img.SetNRGBA(r.Max.X-1, y, c)
	}
}

// glyphs is a 3x5 pixel font covering crop size labels.
var glyphs = map[rune][]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
	'x': {"000", "101", "010", "101", "000"},
}

// drawLabel prints text at (x, y) on a filled background box.
func drawLabel(img *image.NRGBA, x, y int, text string, fg, bg color.NRGBA) {
	const charWidth, labelHeight = 4, 7
	bounds := img.Bounds()

	box := image.Rect(x-1, y-1, x+len(text)*charWidth, y+labelHeight).Intersect(bounds)
	for py := box.Min.Y; py < box.Max.Y; py++ {
		for px := box.Min.X; px < box.Max.X; px++ {
			img.SetNRGBA(px, py, bg)
		}
	}

	cx := x
	for _, ch := range text {
		for row, line := range glyphs[ch] {
			for col, bit := range line {
				if bit != '1' {
					continue
				}
				if p := image.Pt(cx+col, y+row); p.In(bounds) {
					img.SetNRGBA(p.X, p.Y, fg)
				}
			}
		}
		cx += charWidth
	}
}
