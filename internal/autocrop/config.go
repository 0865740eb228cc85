package autocrop

import (
	"errors"
	"fmt"
)

// Default tuning values.
const (
	DefaultScanSteps           = 10
	DefaultPixelCount          = 5
	DefaultFilledRatioLimit    = 0.0025
	DefaultSimilarityThreshold = 0.5
	DefaultMargin              = 4
)

// ErrInvalidConfig is returned when a Config fails validation.
var ErrInvalidConfig = errors.New("invalid autocrop config")

// Config holds the tunables shared by every stage of the transform.
//
// A total of ScanSteps × PixelCount pixels is sampled per edge when
// estimating the background colour.
type Config struct {
	// ScanSteps is the number of evenly spaced scan positions per edge.
	ScanSteps int `json:"scan_steps"`

	// PixelCount is the number of adjacent pixels sampled inward from the
	// edge at each scan position.
	PixelCount int `json:"pixel_count"`

	// FilledRatioLimit is the fraction of a line that must differ from the
	// background before the line counts as content.
	FilledRatioLimit float64 `json:"filled_ratio_limit"`

	// SimilarityThreshold scales the channel-sum distance (0-255) below
	// which two colours are considered the same.
	SimilarityThreshold float64 `json:"similarity_threshold"`

	// Margin is the number of pixels kept outside the detected content.
	Margin int `json:"margin"`
}

// DefaultConfig returns the standard tuning.
func DefaultConfig() Config {
	return Config{
		ScanSteps:           DefaultScanSteps,
		PixelCount:          DefaultPixelCount,
		FilledRatioLimit:    DefaultFilledRatioLimit,
		SimilarityThreshold: DefaultSimilarityThreshold,
		Margin:              DefaultMargin,
	}
}

// Validate reports whether every field is within its legal range.
func (c Config) Validate() error {
	switch {
	case c.ScanSteps < 1:
		return fmt.Errorf("%w: scan_steps must be >= 1, got %d", ErrInvalidConfig, c.ScanSteps)
	case c.PixelCount < 1:
		return fmt.Errorf("%w: pixel_count must be >= 1, got %d", ErrInvalidConfig, c.PixelCount)
	case c.FilledRatioLimit < 0 || c.FilledRatioLimit > 1:
		return fmt.Errorf("%w: filled_ratio_limit must be in [0,1], got %g", ErrInvalidConfig, c.FilledRatioLimit)
	case c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1:
		return fmt.Errorf("%w: similarity_threshold must be in [0,1], got %g", ErrInvalidConfig, c.SimilarityThreshold)
	case c.Margin < 0:
		return fmt.Errorf("%w: margin must be >= 0, got %d", ErrInvalidConfig, c.Margin)
	}
	return nil
}
