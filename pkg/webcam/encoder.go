package webcam

import (
	"fmt"

	"github.com/teslashibe/go-moodcam/pkg/frame"
	"gocv.io/x/gocv"
)

// Encoder encodes frames to JPEG with OpenCV's imgcodecs.
type Encoder struct{}

// NewEncoder creates a gocv JPEG encoder at frame.DefaultQuality.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Encode implements frame.Encoder.
func (e *Encoder) Encode(f frame.Frame) ([]byte, error) {
	if f.Empty() {
		return nil, frame.ErrEmptyFrame
	}

	mat, err := gocv.ImageToMatRGB(f.Image)
	if err != nil {
		return nil, fmt.Errorf("image to mat: %w", err)
	}
	defer mat.Close()

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, mat, []int{int(gocv.IMWriteJpegQuality), frame.DefaultQuality})
	if err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	defer buf.Close()

	// The native buffer is freed on Close.
	data := make([]byte, buf.Len())
	copy(data, buf.GetBytes())
	return data, nil
}

var _ frame.Encoder = (*Encoder)(nil)
