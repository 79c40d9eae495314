package intake

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/vincent-petithory/dataurl"
	filetype "gopkg.in/h2non/filetype.v1"
	"gopkg.in/h2non/filetype.v1/types"
)

// DefaultMediaType is used when neither the bytes nor the name identify the file.
const DefaultMediaType = "application/octet-stream"

// RawContent is a file's bytes carried as a base64 data URL.
// The zero value is empty content with no media type.
type RawContent struct {
	url *dataurl.DataURL
}

// NewRawContent wraps data in a data URL tagged with mediaType.
// An unparseable mediaType is replaced by DefaultMediaType.
func NewRawContent(data []byte, mediaType string) RawContent {
	base, params, err := mime.ParseMediaType(mediaType)
	if err != nil || strings.Count(base, "/") != 1 {
		base, params = DefaultMediaType, nil
	}

	pairs := make([]string, 0, 2*len(params))
	for k, v := range params {
		pairs = append(pairs, k, v)
	}
	return RawContent{url: dataurl.New(data, base, pairs...)}
}

// ParseRawContent parses a data URL string.
func ParseRawContent(s string) (RawContent, error) {
	u, err := dataurl.DecodeString(s)
	if err != nil {
		return RawContent{}, fmt.Errorf("failed to parse data URL: %w", err)
	}
	return RawContent{url: u}, nil
}

// String returns the data URL, or "" for empty content.
func (c RawContent) String() string {
	if c.url == nil {
		return ""
	}
	return c.url.String()
}

// MediaType returns the media type hint without parameters.
func (c RawContent) MediaType() string {
	if c.url == nil {
		return ""
	}
	return c.url.MediaType.ContentType()
}

// Bytes returns the decoded payload. Callers must not modify it.
func (c RawContent) Bytes() []byte {
	if c.url == nil {
		return nil
	}
	return c.url.Data
}

// Len returns the payload size in bytes.
func (c RawContent) Len() int { return len(c.Bytes()) }

// IsZero reports whether no content has been loaded.
func (c RawContent) IsZero() bool { return c.url == nil }

// DetectMediaType picks a media type for a file, preferring its magic bytes
// over its name.
func DetectMediaType(name string, data []byte) string {
	if t, err := filetype.Match(data); err == nil && t != types.Unknown && t.MIME.Value != "" {
		return t.MIME.Value
	}
	if ext := filepath.Ext(name); ext != "" {
		if mt := mime.TypeByExtension(strings.ToLower(ext)); mt != "" {
			return mt
		}
	}
	return DefaultMediaType
}
