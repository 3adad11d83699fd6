package backend

import (
	"context"
	"sync"
	"time"
)

// Mock implements Provider for testing.
type Mock struct {
	// DetectFunc is called when DetectEmotion is invoked.
	DetectFunc func(ctx context.Context, jpeg []byte) (string, error)

	// PlaylistFunc is called when Playlist is invoked.
	PlaylistFunc func(ctx context.Context, emotion string) ([]string, error)

	mu    sync.Mutex
	calls []MockCall
}

// MockCall records a method invocation.
type MockCall struct {
	Method string
	Arg    string // emotion for Playlist, empty for DetectEmotion
	Bytes  int    // frame size for DetectEmotion
	Time   time.Time
}

// NewMock creates a mock backend that detects "happy" and returns two URLs.
func NewMock() *Mock {
	return &Mock{
		DetectFunc: func(ctx context.Context, jpeg []byte) (string, error) {
			return "happy", nil
		},
		PlaylistFunc: func(ctx context.Context, emotion string) ([]string, error) {
			return []string{"https://a", "https://b"}, nil
		},
	}
}

// DetectEmotion calls DetectFunc and records the call.
func (m *Mock) DetectEmotion(ctx context.Context, jpeg []byte) (string, error) {
	m.record(MockCall{Method: "DetectEmotion", Bytes: len(jpeg)})
	if m.DetectFunc != nil {
		return m.DetectFunc(ctx, jpeg)
	}
	return "", &BackendError{Op: OpDetect, Err: ErrNoEmotion}
}

// Playlist calls PlaylistFunc and records the call.
func (m *Mock) Playlist(ctx context.Context, emotion string) ([]string, error) {
	m.record(MockCall{Method: "Playlist", Arg: emotion})
	if m.PlaylistFunc != nil {
		return m.PlaylistFunc(ctx, emotion)
	}
	return []string{}, nil
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

// Reset clears recorded calls.
func (m *Mock) Reset() {
	m.mu.Lock()
	m.calls = nil
	m.mu.Unlock()
}

func (m *Mock) record(c MockCall) {
	c.Time = time.Now()
	m.mu.Lock()
	m.calls = append(m.calls, c)
	m.mu.Unlock()
}

var _ Provider = (*Mock)(nil)
