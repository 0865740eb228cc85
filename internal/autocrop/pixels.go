package autocrop

import (
	"image"

	"github.com/disintegration/imaging"
)

// Pixels is a read-only view over a decoded image.
type Pixels interface {
	Width() int
	Height() int
	// ColorAt returns the colour at (x, y) with 0 <= x < Width() and
	// 0 <= y < Height().
	ColorAt(x, y int) Color
}

// Snapshot is an immutable Pixels backed by a private NRGBA copy of the
// source image, rebased so its origin is (0, 0).
type Snapshot struct {
	buf *image.NRGBA
}

// NewSnapshot copies img into a fresh buffer. Later changes to img are not
// visible through the snapshot.
func NewSnapshot(img image.Image) *Snapshot {
	return &Snapshot{buf: imaging.Clone(img)}
}

// Width returns the image width in pixels.
func (s *Snapshot) Width() int { return s.buf.Rect.Dx() }

// Height returns the image height in pixels.
func (s *Snapshot) Height() int { return s.buf.Rect.Dy() }

// ColorAt returns the colour at (x, y).
func (s *Snapshot) ColorAt(x, y int) Color {
	i := s.buf.PixOffset(x, y)
	p := s.buf.Pix[i : i+3 : i+3]
	return RGB(p[0], p[1], p[2])
}

// Image exposes the snapshot as an image.Image for extraction. Callers must
// not modify it.
func (s *Snapshot) Image() image.Image { return s.buf }
