package intake

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/ironsheep/image-intake/internal/imaging"
)

// pngBytes encodes a width x height PNG.
func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 200, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

// writeFile writes data under a fresh temp dir and returns its path.
func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func newTestPipeline(t *testing.T, opts ...Option) *Pipeline {
	t.Helper()
	opts = append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)
	return NewPipeline(&DataURLLoader{}, NewImageDecoder(imaging.NewDecodeCache(0)), opts...)
}

// gatedLoader blocks every Load until release is closed, ignoring ctx.
type gatedLoader struct {
	release chan struct{}
	started chan struct{}
	next    Loader
}

func newGatedLoader() *gatedLoader {
	return &gatedLoader{
		release: make(chan struct{}),
		started: make(chan struct{}, 16),
		next:    &DataURLLoader{},
	}
}

func (l *gatedLoader) Load(ctx context.Context, h FileHandle) (RawContent, error) {
	l.started <- struct{}{}
	<-l.release
	return l.next.Load(context.Background(), h)
}

// routedLoader blocks only handles whose name is in gated.
type routedLoader struct {
	gated map[string]*gatedLoader
	next  Loader
}

func (l *routedLoader) Load(ctx context.Context, h FileHandle) (RawContent, error) {
	if g, ok := l.gated[h.Name()]; ok {
		return g.Load(ctx, h)
	}
	return l.next.Load(ctx, h)
}

type panicDecoder struct{}

func (panicDecoder) Decode(context.Context, RawContent) (ImageSize, error) {
	panic("decoder exploded")
}

// stalledDecoder blocks every Decode until release is closed, ignoring ctx.
type stalledDecoder struct{ release chan struct{} }

func (d stalledDecoder) Decode(context.Context, RawContent) (ImageSize, error) {
	<-d.release
	return ImageSize{Width: 1, Height: 1}, nil
}

type fixedDecoder struct{ size ImageSize }

func (d fixedDecoder) Decode(context.Context, RawContent) (ImageSize, error) {
	return d.size, nil
}

type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }
func (r errReader) Close() error             { return nil }

// failingHandle opens successfully but fails on the first read.
type failingHandle struct {
	name string
	err  error
}

func (h failingHandle) Name() string { return h.name }

func (h failingHandle) Open(context.Context) (io.ReadCloser, error) {
	return errReader{err: h.err}, nil
}
