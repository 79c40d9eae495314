package intake

import (
	"errors"
	"testing"
)

func TestStatus_Messages(t *testing.T) {
	tests := []struct {
		name     string
		status   Status
		wantKind Kind
		wantMsg  string
	}{
		{"not selected", NotSelected{}, KindNotSelected, "Please select a file."},
		{"not image", NotImage{}, KindNotImage, "Please select an image."},
		{"file error", FileError{}, KindFileError, "File loading error."},
		{"selected", Selected{Size: ImageSize{Width: 640, Height: 480}}, KindSelected, "Image size: 640x480 px"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.Kind(); got != tt.wantKind {
				t.Errorf("Kind: got %s, want %s", got, tt.wantKind)
			}
			if got := tt.status.Message(); got != tt.wantMsg {
				t.Errorf("Message: got %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindNotSelected, "not_selected"},
		{KindNotImage, "not_image"},
		{KindFileError, "file_error"},
		{KindSelected, "selected"},
		{Kind(42), "Kind(42)"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String(): got %q, want %q", int(tt.kind), got, tt.want)
		}
	}

	if _, err := Kind(-1).MarshalText(); err == nil {
		t.Error("MarshalText should fail for an unknown kind")
	}
}

func TestCause(t *testing.T) {
	readErr := &ReadFailure{Name: "a.png", Err: errors.New("denied")}
	decodeErr := &DecodeFailure{MediaType: "text/plain", Err: errors.New("unknown format")}

	if got := Cause(FileError{Err: readErr}); !errors.Is(got, ErrRead) {
		t.Errorf("Cause(FileError) = %v, want ReadFailure", got)
	}
	if got := Cause(NotImage{Err: decodeErr}); !errors.Is(got, ErrDecode) {
		t.Errorf("Cause(NotImage) = %v, want DecodeFailure", got)
	}
	if got := Cause(NotSelected{}); got != nil {
		t.Errorf("Cause(NotSelected) = %v, want nil", got)
	}
	if got := Cause(Selected{}); got != nil {
		t.Errorf("Cause(Selected) = %v, want nil", got)
	}
}

func TestFailures_Unwrap(t *testing.T) {
	cause := errors.New("permission denied")

	rf := &ReadFailure{Name: "secret.png", Err: cause}
	if !errors.Is(rf, ErrRead) || !errors.Is(rf, cause) {
		t.Error("ReadFailure should match ErrRead and its cause")
	}
	if errors.Is(rf, ErrDecode) {
		t.Error("ReadFailure should not match ErrDecode")
	}

	df := &DecodeFailure{Err: cause}
	if !errors.Is(df, ErrDecode) || !errors.Is(df, cause) {
		t.Error("DecodeFailure should match ErrDecode and its cause")
	}
	if errors.Is(df, ErrRead) {
		t.Error("DecodeFailure should not match ErrRead")
	}
}
