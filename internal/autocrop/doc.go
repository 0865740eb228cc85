// Package autocrop removes uniform padding borders from raster page images.
//
// Scanned, rendered or letterboxed pages often carry a solid-coloured border
// around the real content. This package detects that border independently on
// each edge and returns a tightly cropped copy that keeps a small margin.
//
// # Pipeline
//
// The transform runs three stages over an immutable pixel snapshot:
//
//  1. EstimateBackgroundColors samples pixels near each edge and picks the
//     most frequent colour per Direction.
//  2. FindBoundaries scans inward from each edge for the first row or column
//     with significant content. Top and bottom are found first; left and right
//     are then restricted to the detected row band.
//  3. Crop expands the content rectangle by Config.Margin, clamps it to the
//     image and extracts the sub-image.
//
// AutoCrop wraps the pipeline at the byte level: it decodes the input, crops,
// and re-encodes the result as PNG. When no content rectangle can be found the
// input bytes are returned unchanged.
//
// # Coordinate System
//
// Coordinates are 0-based from the top-left corner. Boundaries use an
// inclusive Left/Top and an exclusive Right/Bottom, matching image.Rectangle.
//
// # Thread Safety
//
// Every function in this package is a pure function of its arguments. Inputs
// are never mutated, so any number of images may be processed concurrently
// without coordination.
package autocrop
