package imaging

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"sync"

	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// DefaultCacheLimit is the number of decoded images a DecodeCache keeps
// when constructed with a non-positive limit.
const DefaultCacheLimit = 8

// ErrEmptyImage is returned when a payload decodes to an image with no pixels.
var ErrEmptyImage = errors.New("image has zero width or height")

// Decoded is a successfully decoded image together with its metadata.
type Decoded struct {
	// Image is the decoded raster. The concrete type depends on the format
	// and color model (e.g., *image.NRGBA, *image.YCbCr, *image.Paletted).
	Image image.Image

	// Format is the registered format name reported by the decoder:
	// "png", "jpeg", "gif", "bmp", "tiff" or "webp".
	Format string

	// Digest is the hex SHA-256 of the encoded bytes; it is the cache key.
	Digest string
}

// Width returns the intrinsic pixel width.
func (d *Decoded) Width() int { return d.Image.Bounds().Dx() }

// Height returns the intrinsic pixel height.
func (d *Decoded) Height() int { return d.Image.Bounds().Dy() }

// DecodeCache provides thread-safe caching of decoded images keyed by the
// digest of their encoded bytes.
//
// Re-submitting identical bytes returns the cached image without decoding
// again, so re-selecting the same file yields the same result. The cache
// holds at most limit entries and drops the oldest insert first.
//
// DecodeCache is safe for concurrent use by multiple goroutines.
type DecodeCache struct {
	mu      sync.RWMutex
	limit   int
	entries map[string]*Decoded
	order   []string
}

// NewDecodeCache creates an empty cache holding at most limit images.
// A non-positive limit selects DefaultCacheLimit.
func NewDecodeCache(limit int) *DecodeCache {
	if limit <= 0 {
		limit = DefaultCacheLimit
	}
	return &DecodeCache{
		limit:   limit,
		entries: make(map[string]*Decoded),
	}
}

// Digest returns the cache key for an encoded payload.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Decode returns the decoded image for data, from cache when possible.
//
// Unlike a header-only probe, the whole image is decoded, so truncated or
// corrupt bodies are rejected. Decoder panics on hostile input are reported
// as errors.
//
// # Errors
//
//   - Returns error if data is not in a registered image format
//   - Returns error if the image data is corrupt
//   - Returns ErrEmptyImage if the image has no pixels
func (c *DecodeCache) Decode(data []byte) (*Decoded, error) {
	key := Digest(data)

	c.mu.RLock()
	if d, ok := c.entries[key]; ok {
		c.mu.RUnlock()
		return d, nil
	}
	c.mu.RUnlock()

	img, format, err := decode(data)
	if err != nil {
		return nil, err
	}
	d := &Decoded{Image: img, Format: format, Digest: key}

	c.mu.Lock()
	if _, ok := c.entries[key]; !ok {
		c.entries[key] = d
		c.order = append(c.order, key)
		for len(c.order) > c.limit {
			delete(c.entries, c.order[0])
			c.order = c.order[1:]
		}
	}
	c.mu.Unlock()

	return d, nil
}

// Lookup returns the cached image for a digest, if present.
func (c *DecodeCache) Lookup(digest string) (*Decoded, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.entries[digest]
	return d, ok
}

// Len reports the number of cached images.
func (c *DecodeCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear removes all images from the cache.
func (c *DecodeCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*Decoded)
	c.order = nil
	c.mu.Unlock()
}

// Evict removes the image with the given digest. Unknown digests are ignored.
func (c *DecodeCache) Evict(digest string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[digest]; !ok {
		return
	}
	delete(c.entries, digest)
	for i, k := range c.order {
		if k == digest {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func decode(data []byte) (img image.Image, format string, err error) {
	defer func() {
		if r := recover(); r != nil {
			img, format = nil, ""
			err = fmt.Errorf("failed to decode image: decoder panic: %v", r)
		}
	}()

	img, format, err = image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, "", fmt.Errorf("failed to decode image: %w", ErrEmptyImage)
	}
	return img, format, nil
}
