package camera

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrNotReady is returned when the stream has no frame yet (zero resolution).
	ErrNotReady = errors.New("camera: stream not ready")

	// ErrNotOpen is returned when sampling a source that was never opened.
	ErrNotOpen = errors.New("camera: source not open")

	// ErrClosed is returned when using a source after Close.
	ErrClosed = errors.New("camera: source closed")

	// ErrNoImages is returned when a frames directory holds no usable images.
	ErrNoImages = errors.New("camera: no images found")
)

// MediaAccessError is returned when the platform denies or lacks camera access.
type MediaAccessError struct {
	// Device identifies the camera (index, URL, or directory).
	Device string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *MediaAccessError) Error() string {
	return fmt.Sprintf("camera: cannot access %q: %v", e.Device, e.Err)
}

// Unwrap returns the underlying error.
func (e *MediaAccessError) Unwrap() error {
	return e.Err
}

// IsMediaAccess reports whether err is (or wraps) a MediaAccessError.
func IsMediaAccess(err error) bool {
	var mae *MediaAccessError
	return errors.As(err, &mae)
}
