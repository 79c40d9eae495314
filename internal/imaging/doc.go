// Package imaging decodes image payloads and renders them for display.
//
// Decoders are registered for PNG, JPEG and GIF from the standard library and
// for BMP, TIFF and WebP from golang.org/x/image. Any payload in another
// format, or one that fails to decode completely, is reported as an error.
//
// # Caching
//
// DecodeCache keys decoded images by the SHA-256 of their encoded bytes.
// Submitting the same bytes twice decodes once. The cache is bounded and
// safe for concurrent use.
//
// # Display
//
// RenderDisplay produces a PNG rendition whose width and height are each
// clamped to a maximum. It only ever shrinks an axis; it never crops and
// never enlarges.
package imaging
