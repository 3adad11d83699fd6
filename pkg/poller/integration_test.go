package poller

import (
	"context"
	"errors"
	"image/color"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/teslashibe/go-moodcam/internal/fakebackend"
	"github.com/teslashibe/go-moodcam/internal/httpc"
	"github.com/teslashibe/go-moodcam/pkg/backend"
	"github.com/teslashibe/go-moodcam/pkg/camera"
	"github.com/teslashibe/go-moodcam/pkg/display"
	"github.com/teslashibe/go-moodcam/pkg/frame"
)

func TestRunAgainstFakeBackend(t *testing.T) {
	fake := fakebackend.New(fakebackend.WithPlaylists(map[string][]string{
		"happy": {"https://a", "https://b"},
	}), fakebackend.WithFixedEmotion("happy"))
	ts := httptest.NewServer(adaptor.FiberApp(fake.App()))
	defer ts.Close()

	provider, err := backend.NewClient(ts.URL, backend.WithHTTPClient(httpc.NewClient(5*time.Second)))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	cam := camera.NewMock()
	cam.SampleFunc = func(ctx context.Context) (frame.Frame, error) {
		return frame.Frame{Image: camera.SolidImage(160, 120, color.RGBA{30, 120, 200, 255}), CapturedAt: time.Now()}, nil
	}
	screen := display.NewRecorder()

	client, err := New(cam, frame.NewJPEGEncoder(), provider, screen, WithInterval(25*time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 400*time.Millisecond)
	defer cancel()
	if err := client.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	s := screen.State()
	if s.Label != "Detected Emotion: happy" {
		t.Errorf("Label = %q", s.Label)
	}
	if len(s.Playlist) != 2 || s.Playlist[0] != "https://a" || s.Playlist[1] != "https://b" {
		t.Errorf("Playlist = %v", s.Playlist)
	}

	detections, _ := fake.Counts()
	if st := client.Stats(); detections == 0 || st.Renders == 0 {
		t.Errorf("detections = %d, stats = %+v", detections, st)
	}
}

func TestRunCycleBackendDown(t *testing.T) {
	fake := fakebackend.New()
	ts := httptest.NewServer(adaptor.FiberApp(fake.App()))
	url := ts.URL
	ts.Close()

	provider, err := backend.NewClient(url)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	screen := display.NewRecorder()
	client, err := New(camera.NewMock(), frame.NewJPEGEncoder(), provider, screen)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res := client.RunCycle(context.Background())
	if res.Outcome != OutcomeDetectFailed {
		t.Errorf("Outcome = %s, want detect_failed", res.Outcome)
	}
	if !backend.IsBackendError(res.Err) {
		t.Errorf("Err = %v, want BackendError", res.Err)
	}
	if s := screen.State(); s.Label != "" || len(s.Playlist) != 0 {
		t.Errorf("display should be untouched, got %+v", s)
	}
}

func TestRunCycleEmptyEmotionStillFetchesPlaylist(t *testing.T) {
	var gets atomic.Int32
	var query atomic.Value
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case backend.DefaultDetectPath:
			io.WriteString(w, `{"emotion":""}`)
		case backend.DefaultPlaylistPath:
			gets.Add(1)
			query.Store(r.URL.RawQuery)
			if r.URL.Query().Get("emotion") == "" {
				w.WriteHeader(http.StatusBadRequest)
				io.WriteString(w, `{"error":"No emotion provided"}`)
				return
			}
			io.WriteString(w, `{"playlist":[]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	provider, err := backend.NewClient(ts.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	screen := display.NewRecorder()
	screen.RenderPlaylist([]string{"https://kept"})

	client, err := New(camera.NewMock(), frame.NewJPEGEncoder(), provider, screen)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res := client.RunCycle(context.Background())

	if gets.Load() != 1 {
		t.Fatalf("playlist GETs = %d, want 1 for a non-null emotion", gets.Load())
	}
	if q, _ := query.Load().(string); q != "emotion=" {
		t.Errorf("query = %q, want emotion=", q)
	}
	if res.Outcome != OutcomePlaylistFailed {
		t.Errorf("Outcome = %s, want playlist_failed", res.Outcome)
	}
	var be *backend.BackendError
	if !errors.As(res.Err, &be) || be.StatusCode != http.StatusBadRequest {
		t.Errorf("Err = %v, want 400 BackendError", res.Err)
	}

	s := screen.State()
	if s.Label != "Detected Emotion: " {
		t.Errorf("Label = %q", s.Label)
	}
	if len(s.Playlist) != 1 || s.Playlist[0] != "https://kept" {
		t.Errorf("Playlist = %v, previous list should remain", s.Playlist)
	}
}
