package autocrop

import (
	"image"
	"math"
)

// Boundaries is the detected content rectangle. Left and Top are inclusive,
// Right and Bottom exclusive.
type Boundaries struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// Valid reports whether the boundaries enclose a non-empty rectangle.
func (b Boundaries) Valid() bool {
	return b.Left < b.Right && b.Top < b.Bottom
}

// Rect returns the boundaries as an image.Rectangle without normalising.
func (b Boundaries) Rect() image.Rectangle {
	return image.Rectangle{Min: image.Pt(b.Left, b.Top), Max: image.Pt(b.Right, b.Bottom)}
}

// FindBoundaries locates where content begins on each side.
//
// Top and Bottom are scanned first across the full width. Left and Right are
// then scanned only over the rows [Top, Bottom), so noise in the horizontal
// margins does not pull the side boundaries outward.
func FindBoundaries(p Pixels, bg Backgrounds, cfg Config) Boundaries {
	w := p.Width()

	top := findBorder(p, Top, 0, w, bg[Top], cfg)
	bottom := findBorder(p, Bottom, 0, w, bg[Bottom], cfg)
	left := findBorder(p, Left, top, bottom, bg[Left], cfg)
	right := findBorder(p, Right, top, bottom, bg[Right], cfg)

	return Boundaries{Left: left, Top: top, Right: right, Bottom: bottom}
}

// findBorder walks lines inward from the edge named by dir. start and end
// bound the span examined on each line.
func findBorder(p Pixels, dir Direction, start, end int, bg Color, cfg Config) int {
	w, h := p.Width(), p.Height()
	switch dir {
	case Left:
		for x := 0; x < w; x++ {
			if HasSignificantContent(p, x, start, end, bg, false, cfg) {
				return x
			}
		}
		return 0
	case Right:
		for x := w - 1; x >= 0; x-- {
			if HasSignificantContent(p, x, start, end, bg, false, cfg) {
				return x + 1
			}
		}
		return w
	case Top:
		for y := 0; y < h; y++ {
			if HasSignificantContent(p, y, start, end, bg, true, cfg) {
				return y
			}
		}
		return 0
	case Bottom:
		for y := h - 1; y >= 0; y-- {
			if HasSignificantContent(p, y, start, end, bg, true, cfg) {
				return y + 1
			}
		}
		return h
	}
	return 0
}

// FilledLimit is the number of differing samples a line of the given
// length may hold before it counts as content.
func FilledLimit(length int, ratio float64) int {
	return int(math.Round(float64(length) * ratio))
}

// HasSignificantContent reports whether the line at pos holds content.
//
// For a horizontal line pos is a row and [start, end) a column span; for a
// vertical line pos is a column and [start, end) a row span. Every second
// pixel is sampled. The test stops as soon as the number of pixels not
// similar to bg exceeds FilledLimit(end-start).
func HasSignificantContent(p Pixels, pos, start, end int, bg Color, horizontal bool, cfg Config) bool {
	limit := FilledLimit(end-start, cfg.FilledRatioLimit)
	count := 0
	for i := start; i < end; i += 2 {
		var c Color
		if horizontal {
			c = p.ColorAt(i, pos)
		} else {
			c = p.ColorAt(pos, i)
		}
		if !Similar(c, bg, cfg.SimilarityThreshold) {
			count++
		}
		if count > limit {
			return true
		}
	}
	return false
}
