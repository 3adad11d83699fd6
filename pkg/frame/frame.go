// Package frame defines the still images sampled from a camera and how they
// are encoded before being sent to the emotion backend.
package frame

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"time"
)

// DefaultQuality is the JPEG quality used for every submitted frame.
// It matches the browser canvas default (0.92).
const DefaultQuality = 92

// ErrEmptyFrame is returned when encoding a frame with no pixels.
var ErrEmptyFrame = errors.New("frame: empty image")

// Frame is a single still image sampled from a video source.
type Frame struct {
	Image      image.Image
	Seq        uint64
	CapturedAt time.Time
}

// Size returns the frame width and height in pixels.
func (f Frame) Size() (width, height int) {
	if f.Image == nil {
		return 0, 0
	}
	b := f.Image.Bounds()
	return b.Dx(), b.Dy()
}

// Empty reports whether the frame has zero area.
func (f Frame) Empty() bool {
	w, h := f.Size()
	return w == 0 || h == 0
}

// Encoder serializes a frame into compressed image bytes.
type Encoder interface {
	Encode(f Frame) ([]byte, error)
}

// JPEGEncoder encodes frames as JPEG using the standard library.
type JPEGEncoder struct{}

// NewJPEGEncoder creates a JPEG encoder at DefaultQuality.
func NewJPEGEncoder() *JPEGEncoder {
	return &JPEGEncoder{}
}

// Encode implements Encoder.
func (e *JPEGEncoder) Encode(f Frame) ([]byte, error) {
	if f.Empty() {
		return nil, ErrEmptyFrame
	}
	var buf bytes.Buffer
	w, h := f.Size()
	buf.Grow(w * h / 4)
	if err := jpeg.Encode(&buf, f.Image, &jpeg.Options{Quality: DefaultQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var _ Encoder = (*JPEGEncoder)(nil)
