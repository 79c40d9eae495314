package intake

import (
	"fmt"
)

// Kind names one of the four Status cases.
type Kind int

const (
	KindNotSelected Kind = iota
	KindNotImage
	KindFileError
	KindSelected
)

var kindNames = [...]string{
	KindNotSelected: "not_selected",
	KindNotImage:    "not_image",
	KindFileError:   "file_error",
	KindSelected:    "selected",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// MarshalText encodes the kind as its snake_case name.
func (k Kind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(kindNames) {
		return nil, fmt.Errorf("unknown status kind %d", int(k))
	}
	return []byte(kindNames[k]), nil
}

// ImageSize is an image's intrinsic size in pixels. Both values are positive.
type ImageSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s ImageSize) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Valid reports whether both dimensions are positive.
func (s ImageSize) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

// Status is the terminal outcome of one selection. It is a closed set:
// NotSelected, NotImage, FileError and Selected are the only implementations.
type Status interface {
	Kind() Kind
	// Message is the fixed user-facing status line.
	Message() string

	status()
}

// NotSelected means no file was chosen.
type NotSelected struct{}

// NotImage means the file was read but is not a displayable image.
type NotImage struct {
	Err error
}

// FileError means the file could not be read.
type FileError struct {
	Err error
}

// Selected means the file decoded as an image.
type Selected struct {
	Size    ImageSize
	Content RawContent
}

func (NotSelected) Kind() Kind { return KindNotSelected }
func (NotImage) Kind() Kind    { return KindNotImage }
func (FileError) Kind() Kind   { return KindFileError }
func (Selected) Kind() Kind    { return KindSelected }

func (NotSelected) Message() string { return "Please select a file." }
func (NotImage) Message() string    { return "Please select an image." }
func (FileError) Message() string   { return "File loading error." }

func (s Selected) Message() string {
	return fmt.Sprintf("Image size: %dx%d px", s.Size.Width, s.Size.Height)
}

func (NotSelected) status() {}
func (NotImage) status()    {}
func (FileError) status()   {}
func (Selected) status()    {}

// Cause returns the failure behind a NotImage or FileError status, or nil.
func Cause(s Status) error {
	switch s := s.(type) {
	case NotImage:
		return s.Err
	case FileError:
		return s.Err
	default:
		return nil
	}
}
