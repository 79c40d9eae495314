package intake

import (
	"context"
	"errors"

	"github.com/ironsheep/image-intake/internal/imaging"
)

// Decoder interprets RawContent as an image and reports its intrinsic size.
type Decoder interface {
	Decode(ctx context.Context, c RawContent) (ImageSize, error)
}

// ImageDecoder decodes through a shared imaging.DecodeCache, so the decoded
// raster stays available for display after classification.
type ImageDecoder struct {
	cache *imaging.DecodeCache
}

// NewImageDecoder returns a decoder backed by cache. A nil cache gets a
// private one with the default limit.
func NewImageDecoder(cache *imaging.DecodeCache) *ImageDecoder {
	if cache == nil {
		cache = imaging.NewDecodeCache(0)
	}
	return &ImageDecoder{cache: cache}
}

// Cache returns the decode cache.
func (d *ImageDecoder) Cache() *imaging.DecodeCache { return d.cache }

// Decode fully decodes c. Every failure is returned as a *DecodeFailure.
func (d *ImageDecoder) Decode(ctx context.Context, c RawContent) (ImageSize, error) {
	if err := ctx.Err(); err != nil {
		return ImageSize{}, &DecodeFailure{MediaType: c.MediaType(), Err: err}
	}
	if c.IsZero() || c.Len() == 0 {
		return ImageSize{}, &DecodeFailure{MediaType: c.MediaType(), Err: errors.New("empty content")}
	}

	dec, err := d.cache.Decode(c.Bytes())
	if err != nil {
		return ImageSize{}, &DecodeFailure{MediaType: c.MediaType(), Err: err}
	}
	return ImageSize{Width: dec.Width(), Height: dec.Height()}, nil
}
