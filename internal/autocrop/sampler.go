package autocrop

// Direction names an image edge.
type Direction int

// Edges in scan order.
const (
	Left Direction = iota
	Right
	Top
	Bottom
)

// Directions lists every edge in a fixed order.
var Directions = [...]Direction{Left, Right, Top, Bottom}

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	}
	return "unknown"
}

// Backgrounds maps each Direction to its estimated background colour.
type Backgrounds [4]Color

// Get returns the background colour for d.
func (b Backgrounds) Get(d Direction) Color { return b[d] }

// EstimateBackgroundColors estimates the background colour of each edge.
//
// For every edge, cfg.ScanSteps positions are spaced evenly along the edge
// (height/ScanSteps apart for Left/Right, width/ScanSteps for Top/Bottom).
// At each position cfg.PixelCount pixels are read moving inward, clamped to
// the image. The most frequent colour wins; ties go to the colour seen first
// in sampling order. A zero-size image yields White on every edge.
func EstimateBackgroundColors(p Pixels, cfg Config) Backgrounds {
	w, h := p.Width(), p.Height()
	if w <= 0 || h <= 0 {
		return Backgrounds{White, White, White, White}
	}

	stepY := h / cfg.ScanSteps
	stepX := w / cfg.ScanSteps

	var tallies [4]tally
	for i := 0; i < cfg.ScanSteps; i++ {
		y := i * stepY
		x := i * stepX
		for offset := 0; offset < cfg.PixelCount; offset++ {
			tallies[Left].add(p.ColorAt(min(offset, w-1), y))
			tallies[Right].add(p.ColorAt(max(w-1-offset, 0), y))
			tallies[Top].add(p.ColorAt(x, min(offset, h-1)))
			tallies[Bottom].add(p.ColorAt(x, max(h-1-offset, 0)))
		}
	}

	var bg Backgrounds
	for _, d := range Directions {
		bg[d] = tallies[d].mode()
	}
	return bg
}

// tally counts colours while remembering first-seen order so the mode is
// reproducible.
type tally struct {
	counts map[Color]int
	order  []Color
}

func (t *tally) add(c Color) {
	if t.counts == nil {
		t.counts = make(map[Color]int)
	}
	if t.counts[c] == 0 {
		t.order = append(t.order, c)
	}
	t.counts[c]++
}

func (t *tally) mode() Color {
	best, bestCount := White, 0
	for _, c := range t.order {
		if n := t.counts[c]; n > bestCount {
			best, bestCount = c, n
		}
	}
	return best
}
