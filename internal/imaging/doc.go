// Package imaging provides the image I/O and inspection helpers used around
// the automatic border crop.
//
// It decodes page images (PNG, JPEG, GIF, BMP, TIFF and WebP), caches decoded
// pages by path, re-encodes results as PNG, samples pixel colors, extracts
// explicit regions and renders crop previews.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based from the top-left pixel,
// independent of the bounds origin of the underlying image.Image:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. The remaining functions are
// stateless and never modify their input images.
//
// # Error Handling
//
// Functions return wrapped errors for out-of-range coordinates, invalid
// regions, unreadable files, undecodable data and encoding failures.
package imaging
