package camera

import (
	"context"

	"github.com/teslashibe/go-moodcam/pkg/frame"
)

// Source is a live video source that can be sampled for still frames.
type Source interface {
	// Open acquires the camera. Failures are reported as *MediaAccessError.
	Open(ctx context.Context) error

	// Sample reads the current picture at the source's native resolution.
	// It returns ErrNotReady while the stream has no picture yet.
	Sample(ctx context.Context) (frame.Frame, error)

	// Close releases the camera.
	Close() error
}
