package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrawBoundaries(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 255, 255, 255})
	content := image.Rect(10, 10, 90, 90)
	crop := image.Rect(6, 6, 94, 94)

	result, err := DrawBoundaries(img, content, crop, "", "")
	require.NoError(t, err)
	assert.Equal(t, 100, result.Width)
	assert.Equal(t, 100, result.Height)
	assert.Equal(t, PNGMimeType, result.MimeType)

	out := decodeResult(t, result.ImageBase64)
	nrgba := func(x, y int) color.NRGBA {
		return color.NRGBAModel.Convert(out.At(x, y)).(color.NRGBA)
	}

	// Discarded pixels are darkened.
	assert.Equal(t, color.NRGBA{127, 127, 127, 255}, nrgba(0, 0))
	// Crop outline (away from the label box).
	assert.Equal(t, color.NRGBA{255, 0, 0, 255}, nrgba(93, 50))
	// Content outline.
	assert.Equal(t, color.NRGBA{0, 0xC0, 0, 255}, nrgba(10, 50))
	// Untouched interior.
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, nrgba(50, 50))
}

func TestDrawBoundaries_InvalidColor(t *testing.T) {
	img := createInMemoryImage(10, 10, color.White)
	_, err := DrawBoundaries(img, image.Rect(0, 0, 10, 10), image.Rect(0, 0, 10, 10), "green", "")
	assert.Error(t, err)
}

func TestDrawBoundaries_RectOutsideImage(t *testing.T) {
	img := createInMemoryImage(20, 20, color.White)
	_, err := DrawBoundaries(img, image.Rect(-5, -5, 50, 50), image.Rect(0, 0, 20, 20), "", "")
	assert.NoError(t, err)
}
