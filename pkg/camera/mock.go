package camera

import (
	"context"
	"image"
	"image/color"
	"sync"
	"time"

	"github.com/teslashibe/go-moodcam/pkg/frame"
)

// Mock implements Source for testing.
type Mock struct {
	// OpenFunc is called when Open is invoked.
	OpenFunc func(ctx context.Context) error

	// SampleFunc is called when Sample is invoked.
	SampleFunc func(ctx context.Context) (frame.Frame, error)

	mu    sync.Mutex
	calls []MockCall
	seq   uint64
}

// MockCall records a method invocation.
type MockCall struct {
	Method string
	Time   time.Time
}

// NewMock creates a mock camera that opens successfully and returns 64x48 gray frames.
func NewMock() *Mock {
	m := &Mock{}
	m.OpenFunc = func(ctx context.Context) error { return nil }
	m.SampleFunc = func(ctx context.Context) (frame.Frame, error) {
		return frame.Frame{Image: SolidImage(64, 48, color.Gray{Y: 128}), CapturedAt: time.Now()}, nil
	}
	return m
}

// Open calls OpenFunc and records the call.
func (m *Mock) Open(ctx context.Context) error {
	m.record("Open")
	if m.OpenFunc != nil {
		return m.OpenFunc(ctx)
	}
	return nil
}

// Sample calls SampleFunc, stamps a sequence number and records the call.
func (m *Mock) Sample(ctx context.Context) (frame.Frame, error) {
	m.record("Sample")
	if m.SampleFunc == nil {
		return frame.Frame{}, ErrNotOpen
	}
	f, err := m.SampleFunc(ctx)
	if err != nil {
		return f, err
	}
	m.mu.Lock()
	m.seq++
	f.Seq = m.seq
	m.mu.Unlock()
	return f, nil
}

// Close records the call.
func (m *Mock) Close() error {
	m.record("Close")
	return nil
}

// Calls returns all recorded calls.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]MockCall, len(m.calls))
	copy(result, m.calls)
	return result
}

// CallCount returns the number of calls to a specific method.
func (m *Mock) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, c := range m.calls {
		if c.Method == method {
			count++
		}
	}
	return count
}

func (m *Mock) record(method string) {
	m.mu.Lock()
	m.calls = append(m.calls, MockCall{Method: method, Time: time.Now()})
	m.mu.Unlock()
}

// SolidImage returns a w x h image filled with c.
func SolidImage(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

var _ Source = (*Mock)(nil)
