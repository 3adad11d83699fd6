// Package webcam captures frames from a local camera or capture URL using OpenCV (gocv).
package webcam

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/teslashibe/go-moodcam/pkg/camera"
	"github.com/teslashibe/go-moodcam/pkg/frame"
	"gocv.io/x/gocv"
)

// Source is a camera.Source backed by gocv.VideoCapture.
type Source struct {
	config camera.Config
	logger *slog.Logger

	mu     sync.Mutex // Protects capture and mat
	cap    *gocv.VideoCapture
	mat    gocv.Mat
	seq    uint64
	closed bool
}

// NewSource creates a webcam source. Nothing is opened until Open.
func NewSource(cfg camera.Config, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{
		config: cfg,
		logger: logger.With("component", "webcam"),
	}
}

// Open acquires the camera (video only) and applies the configured resolution.
func (s *Source) Open(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cap != nil {
		return nil
	}

	vc, err := gocv.OpenVideoCapture(deviceArg(s.config.Device))
	if err != nil {
		return &camera.MediaAccessError{Device: s.config.Device, Err: err}
	}
	if !vc.IsOpened() {
		vc.Close()
		return &camera.MediaAccessError{Device: s.config.Device, Err: fmt.Errorf("device did not open")}
	}

	s.cap = vc
	s.mat = gocv.NewMat()
	s.closed = false
	s.applyLocked(s.config)

	s.logger.Info("camera opened",
		"device", s.config.Device,
		"width", vc.Get(gocv.VideoCaptureFrameWidth),
		"height", vc.Get(gocv.VideoCaptureFrameHeight),
	)
	return nil
}

// Sample reads the current picture. A failed read or empty Mat means the
// stream is not ready yet and yields camera.ErrNotReady.
func (s *Source) Sample(ctx context.Context) (frame.Frame, error) {
	if err := ctx.Err(); err != nil {
		return frame.Frame{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return frame.Frame{}, camera.ErrClosed
	}
	if s.cap == nil {
		return frame.Frame{}, camera.ErrNotOpen
	}

	if ok := s.cap.Read(&s.mat); !ok || s.mat.Empty() || s.mat.Cols() == 0 || s.mat.Rows() == 0 {
		return frame.Frame{}, camera.ErrNotReady
	}

	img, err := s.mat.ToImage()
	if err != nil {
		return frame.Frame{}, fmt.Errorf("convert frame: %w", err)
	}

	s.seq++
	return frame.Frame{Image: img, Seq: s.seq, CapturedAt: time.Now()}, nil
}

// Apply changes capture properties on the open device.
// It is suitable as a camera.Manager OnConfigChange callback.
func (s *Source) Apply(cfg camera.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cfg.Device != s.config.Device && s.cap != nil {
		return fmt.Errorf("changing device requires a restart (open: %s)", s.config.Device)
	}
	s.config = cfg
	if s.cap != nil {
		s.applyLocked(cfg)
	}
	return nil
}

func (s *Source) applyLocked(cfg camera.Config) {
	if cfg.Width > 0 {
		s.cap.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	}
	if cfg.Height > 0 {
		s.cap.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	}
	if cfg.FPS > 0 {
		s.cap.Set(gocv.VideoCaptureFPS, float64(cfg.FPS))
	}
}

// Close releases the device.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.cap == nil {
		return nil
	}
	err := s.cap.Close()
	s.mat.Close()
	s.cap = nil
	return err
}

// deviceArg turns "0" into the integer index gocv expects and leaves URLs and paths alone.
func deviceArg(device string) interface{} {
	if id, err := strconv.Atoi(device); err == nil {
		return id
	}
	return device
}

var _ camera.Source = (*Source)(nil)
