package intake

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
)

var errIsDir = errors.New("is a directory")

// FileHandle is an opaque reference to a user-selected file.
// A nil FileHandle means nothing was selected.
type FileHandle interface {
	// Name is the file's base name, used as a media-type hint and in logs.
	Name() string

	// Open returns a reader over the file's bytes.
	Open(ctx context.Context) (io.ReadCloser, error)
}

// PathHandle refers to a file on the local filesystem.
type PathHandle struct {
	Path string
}

func (h PathHandle) Name() string { return filepath.Base(h.Path) }

func (h PathHandle) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info, err := os.Stat(h.Path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, &os.PathError{Op: "open", Path: h.Path, Err: errIsDir}
	}
	return os.Open(h.Path)
}

// BytesHandle is an in-memory file.
type BytesHandle struct {
	FileName string
	Data     []byte
}

func (h BytesHandle) Name() string { return h.FileName }

func (h BytesHandle) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(h.Data)), nil
}
