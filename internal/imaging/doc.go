// Package imaging normalizes arbitrary logo bytes into canonical opaque
// square JPEGs plus thumbnail variants.
//
// Raster inputs (PNG, JPEG, GIF, WEBP, BMP) are decoded directly. Vector
// inputs are rasterized through an optional backend resolved once at
// startup; when the backend is absent the logo is skipped, not failed.
// Transparency is alpha-composited onto a white background and every
// output is letterboxed to the exact target size. No path raises past the
// Normalize boundary; every outcome is typed.
package imaging
