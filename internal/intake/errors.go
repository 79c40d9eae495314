package intake

import (
	"errors"
	"fmt"
)

var (
	// ErrRead matches every ReadFailure.
	ErrRead = errors.New("file could not be read")

	// ErrDecode matches every DecodeFailure.
	ErrDecode = errors.New("content is not a displayable image")

	// ErrTooLarge is wrapped by a ReadFailure when a file exceeds the size cap.
	ErrTooLarge = errors.New("file exceeds size limit")
)

// ReadFailure reports that a file's content could not be loaded.
type ReadFailure struct {
	Name string
	Err  error
}

func (e *ReadFailure) Error() string {
	return fmt.Sprintf("failed to read %q: %v", e.Name, e.Err)
}

func (e *ReadFailure) Unwrap() error { return e.Err }

func (e *ReadFailure) Is(target error) bool { return target == ErrRead }

// DecodeFailure reports that loaded content is not a valid image.
type DecodeFailure struct {
	MediaType string
	Err       error
}

func (e *DecodeFailure) Error() string {
	if e.MediaType == "" {
		return fmt.Sprintf("failed to decode image: %v", e.Err)
	}
	return fmt.Sprintf("failed to decode %s content as image: %v", e.MediaType, e.Err)
}

func (e *DecodeFailure) Unwrap() error { return e.Err }

func (e *DecodeFailure) Is(target error) bool { return target == ErrDecode }
