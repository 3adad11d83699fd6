package webcam

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/teslashibe/go-moodcam/pkg/camera"
	"github.com/teslashibe/go-moodcam/pkg/frame"
)

func TestDeviceArg(t *testing.T) {
	if v, ok := deviceArg("0").(int); !ok || v != 0 {
		t.Errorf("deviceArg(\"0\") = %v, want int 0", deviceArg("0"))
	}
	if v, ok := deviceArg("2").(int); !ok || v != 2 {
		t.Errorf("deviceArg(\"2\") = %v, want int 2", deviceArg("2"))
	}
	url := "rtsp://10.0.0.5/stream"
	if v, ok := deviceArg(url).(string); !ok || v != url {
		t.Errorf("deviceArg(url) = %v, want the url unchanged", deviceArg(url))
	}
}

func TestSampleBeforeOpen(t *testing.T) {
	s := NewSource(camera.DefaultConfig(), nil)
	if _, err := s.Sample(context.Background()); !errors.Is(err, camera.ErrNotOpen) {
		t.Errorf("Sample before Open = %v, want ErrNotOpen", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close on unopened source: %v", err)
	}
	if _, err := s.Sample(context.Background()); !errors.Is(err, camera.ErrClosed) {
		t.Errorf("Sample after Close = %v, want ErrClosed", err)
	}
}

func TestOpenMissingDevice(t *testing.T) {
	s := NewSource(camera.Config{Device: "/nonexistent/video.mp4"}, nil)
	defer s.Close()

	err := s.Open(context.Background())
	if !camera.IsMediaAccess(err) {
		t.Errorf("expected MediaAccessError for missing device, got %v", err)
	}
}

func TestEncoder(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 4), uint8(y * 5), 90, 255})
		}
	}

	data, err := NewEncoder().Encode(frame.Frame{Image: img})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	decoded, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a JPEG: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
		t.Errorf("decoded size = %dx%d, want 64x48", b.Dx(), b.Dy())
	}

	if _, err := NewEncoder().Encode(frame.Frame{}); !errors.Is(err, frame.ErrEmptyFrame) {
		t.Errorf("empty frame: got %v, want ErrEmptyFrame", err)
	}
}
