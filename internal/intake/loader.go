package intake

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Loader reads a file's bytes into a RawContent.
type Loader interface {
	Load(ctx context.Context, h FileHandle) (RawContent, error)
}

const readChunkSize = 32 * 1024

// DataURLLoader reads a whole file and encodes it as a data URL.
type DataURLLoader struct {
	// MaxSize caps the number of bytes read. Zero means no cap.
	MaxSize int64
}

// Load reads h. Every failure is returned as a *ReadFailure.
func (l *DataURLLoader) Load(ctx context.Context, h FileHandle) (RawContent, error) {
	if h == nil {
		return RawContent{}, &ReadFailure{Err: errors.New("no file handle")}
	}

	rc, err := h.Open(ctx)
	if err != nil {
		return RawContent{}, &ReadFailure{Name: h.Name(), Err: fmt.Errorf("failed to open: %w", err)}
	}
	defer rc.Close()

	data, err := readAll(ctx, rc, l.MaxSize)
	if err != nil {
		return RawContent{}, &ReadFailure{Name: h.Name(), Err: err}
	}

	return NewRawContent(data, DetectMediaType(h.Name(), data)), nil
}

// readAll reads r to EOF in chunks, checking ctx between chunks.
func readAll(ctx context.Context, r io.Reader, maxSize int64) ([]byte, error) {
	if maxSize > 0 {
		r = io.LimitReader(r, maxSize+1)
	}

	var data []byte
	buf := make([]byte, readChunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := r.Read(buf)
		data = append(data, buf[:n]...)
		if maxSize > 0 && int64(len(data)) > maxSize {
			return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, maxSize)
		}
		if errors.Is(err, io.EOF) {
			return data, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read: %w", err)
		}
	}
}
