package autocrop

import (
	"image"

	"github.com/disintegration/imaging"
)

// CropRect expands b by margin on every side and clamps the result to a
// width × height image. b must be Valid and lie within the image. The
// expansion is capped per side before adding, so any margin is safe.
func CropRect(b Boundaries, width, height, margin int) image.Rectangle {
	return image.Rect(
		b.Left-min(margin, max(b.Left, 0)),
		b.Top-min(margin, max(b.Top, 0)),
		b.Right+min(margin, max(width-b.Right, 0)),
		b.Bottom+min(margin, max(height-b.Bottom, 0)),
	)
}

// Crop extracts the margin-expanded content rectangle from img.
//
// Degenerate boundaries (Left >= Right or Top >= Bottom) mean there is no
// content distinct from the background. In that case, and when the expanded
// rectangle already covers the whole image, img is returned unchanged with ok
// set to false. Otherwise the returned image is a new buffer whose origin is
// (0, 0).
func Crop(img image.Image, b Boundaries, cfg Config) (out image.Image, ok bool) {
	if !b.Valid() {
		return img, false
	}
	bounds := img.Bounds()
	rect := CropRect(b, bounds.Dx(), bounds.Dy(), cfg.Margin)
	if rect.Size() == bounds.Size() {
		return img, false
	}
	return imaging.Crop(img, rect.Add(bounds.Min)), true
}
