package autocrop

import (
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/page-autocrop/internal/imaging"
	"github.com/ironsheep/page-autocrop/internal/log"
)

// ErrInvalidImage is returned when input bytes cannot be decoded.
var ErrInvalidImage = errors.New("invalid image input")

// Rect is a JSON-friendly rectangle; (X1,Y1) inclusive, (X2,Y2) exclusive.
type Rect struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

func rectOf(r image.Rectangle) Rect {
	return Rect{X1: r.Min.X, Y1: r.Min.Y, X2: r.Max.X, Y2: r.Max.Y}
}

// Image returns r as an image.Rectangle.
func (r Rect) Image() image.Rectangle { return image.Rect(r.X1, r.Y1, r.X2, r.Y2) }

// Analysis is the outcome of sampling and scanning an image.
type Analysis struct {
	Width       int         `json:"width"`
	Height      int         `json:"height"`
	Backgrounds Backgrounds `json:"-"`
	Boundaries  Boundaries  `json:"boundaries"`

	// Cropped is false when the boundaries are degenerate or the crop would
	// keep every pixel; the image is then left as is.
	Cropped bool `json:"cropped"`

	// CropRect is the final rectangle after margin expansion and clamping.
	// It equals the full image when Cropped is false.
	CropRect Rect `json:"crop_rect"`
}

// BackgroundHex returns the per-edge background colours keyed by edge name.
func (a *Analysis) BackgroundHex() map[string]string {
	m := make(map[string]string, len(Directions))
	for _, d := range Directions {
		m[d.String()] = a.Backgrounds[d].String()
	}
	return m
}

// OutputSize returns the dimensions of the image AutoCrop would emit.
func (a *Analysis) OutputSize() (int, int) {
	return a.CropRect.X2 - a.CropRect.X1, a.CropRect.Y2 - a.CropRect.Y1
}

// Analyze runs the sampler and scanner over p without extracting pixels.
func Analyze(p Pixels, cfg Config) *Analysis {
	w, h := p.Width(), p.Height()
	bg := EstimateBackgroundColors(p, cfg)
	b := FindBoundaries(p, bg, cfg)

	a := &Analysis{
		Width:       w,
		Height:      h,
		Backgrounds: bg,
		Boundaries:  b,
		CropRect:    Rect{X2: w, Y2: h},
	}
	if !b.Valid() {
		return a
	}
	if r := CropRect(b, w, h, cfg.Margin); r.Size() != image.Pt(w, h) {
		a.Cropped = true
		a.CropRect = rectOf(r)
	}
	return a
}

// AnalyzeImage snapshots img and analyzes it.
func AnalyzeImage(img image.Image, cfg Config) (*Analysis, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return Analyze(NewSnapshot(img), cfg), nil
}

// CropImage runs the full transform on a decoded image. When no crop applies
// the original img is returned.
func CropImage(img image.Image, cfg Config) (image.Image, *Analysis, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	snap := NewSnapshot(img)
	a := Analyze(snap, cfg)
	if !a.Cropped {
		return img, a, nil
	}
	out, _ := Crop(snap.Image(), a.Boundaries, cfg)
	return out, a, nil
}

// AutoCrop decodes data, removes its padding border and returns the result
// re-encoded as PNG. If no crop applies, data is returned verbatim.
func AutoCrop(data []byte, cfg Config) ([]byte, *Analysis, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	img, err := imaging.DecodeBytes(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	out, a, err := CropImage(img, cfg)
	if err != nil {
		return nil, nil, err
	}
	if !a.Cropped {
		log.Debugf("autocrop: no border found in %dx%d image", a.Width, a.Height)
		return data, a, nil
	}

	encoded, err := imaging.EncodePNG(out)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode cropped image: %w", err)
	}
	w, h := a.OutputSize()
	log.Debugf("autocrop: %dx%d -> %dx%d (boundaries %+v)", a.Width, a.Height, w, h, a.Boundaries)
	return encoded, a, nil
}
