package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// DisplayResult contains a selected image rendered for display.
type DisplayResult struct {
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	SourceWidth  int    `json:"source_width"`
	SourceHeight int    `json:"source_height"`
	ImageBase64  string `json:"image_base64"`
	MimeType     string `json:"mime_type"`
}

// DisplaySize clamps each axis of an intrinsic size to its display bound.
//
// Axes are clamped independently: a 640x480 image with 400x500 bounds is
// shown at 400x480. Images are never enlarged.
func DisplaySize(width, height, maxWidth, maxHeight int) (int, int) {
	return min(width, maxWidth), min(height, maxHeight)
}

// RenderDisplay downscales img to fit the display bounds and encodes it as PNG.
func RenderDisplay(img image.Image, maxWidth, maxHeight int) (*DisplayResult, error) {
	if maxWidth <= 0 || maxHeight <= 0 {
		return nil, fmt.Errorf("invalid display bounds %dx%d", maxWidth, maxHeight)
	}

	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if srcW <= 0 || srcH <= 0 {
		return nil, ErrEmptyImage
	}

	w, h := DisplaySize(srcW, srcH, maxWidth, maxHeight)

	var out image.Image = img
	if w != srcW || h != srcH {
		out = imaging.Resize(img, w, h, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("failed to encode display image: %w", err)
	}

	return &DisplayResult{
		Width:        out.Bounds().Dx(),
		Height:       out.Bounds().Dy(),
		SourceWidth:  srcW,
		SourceHeight: srcH,
		ImageBase64:  base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:     "image/png",
	}, nil
}
