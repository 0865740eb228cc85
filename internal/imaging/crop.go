package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// CropResult contains an extracted region encoded as base64 PNG.
type CropResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// NewCropResult encodes img into a CropResult.
func NewCropResult(img image.Image) (*CropResult, error) {
	encoded, err := EncodeBase64PNG(img)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cropped image: %w", err)
	}
	return &CropResult{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: encoded,
		MimeType:    PNGMimeType,
	}, nil
}

// Crop extracts the region (x1,y1)-(x2,y2) from img, with (x1,y1) inclusive
// and (x2,y2) exclusive, optionally scaling the result. Unlike the automatic
// border crop, an explicit region must lie inside the image.
func Crop(img image.Image, x1, y1, x2, y2 int, scale float64) (*CropResult, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if x1 < 0 || y1 < 0 || x2 > w || y2 > h {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds %dx%d", x1, y1, x2, y2, w, h)
	}
	if x1 >= x2 || y1 >= y2 {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}

	resize := scale != 1.0 && scale > 0
	newWidth := int(float64(x2-x1) * scale)
	newHeight := int(float64(y2-y1) * scale)
	if resize && (newWidth < 1 || newHeight < 1) {
		return nil, fmt.Errorf("scale %g shrinks %dx%d region below one pixel", scale, x2-x1, y2-y1)
	}

	cropped := imaging.Crop(img, image.Rect(x1, y1, x2, y2).Add(bounds.Min))
	if resize {
		cropped = imaging.Resize(cropped, newWidth, newHeight, imaging.Lanczos)
	}

	return NewCropResult(cropped)
}
