package web

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/teslashibe/go-moodcam/pkg/camera"
	"github.com/teslashibe/go-moodcam/pkg/display"
	"github.com/teslashibe/go-moodcam/pkg/poller"
)

func TestNormalizeAddr(t *testing.T) {
	tests := map[string]string{
		"8080":           ":8080",
		":9090":          ":9090",
		"127.0.0.1:8080": "127.0.0.1:8080",
		"":               "",
	}
	for in, want := range tests {
		if got := normalizeAddr(in); got != want {
			t.Errorf("normalizeAddr(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRenderUpdatesState(t *testing.T) {
	s := NewServer("0")

	s.RenderError("no camera")
	s.RenderEmotion("happy")
	s.RenderPlaylist([]string{"https://a", "https://b"})

	st := s.State()
	if st.Label != "Detected Emotion: happy" {
		t.Errorf("Label = %q", st.Label)
	}
	if st.Error != "" {
		t.Errorf("Error = %q, a detection should clear it", st.Error)
	}
	if len(st.Playlist) != 2 {
		t.Errorf("Playlist = %v", st.Playlist)
	}

	s.RenderPlaylist([]string{"https://c"})
	if st := s.State(); len(st.Playlist) != 1 || st.Playlist[0] != "https://c" {
		t.Errorf("Playlist should be replaced, got %v", st.Playlist)
	}
}

func TestAPIState(t *testing.T) {
	s := NewServer("0")
	s.RenderEmotion("sad")
	s.RenderPlaylist([]string{"https://x"})

	resp, err := s.App().Test(httptest.NewRequest("GET", "/api/state", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var st display.State
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.Emotion != "sad" || st.Label != "Detected Emotion: sad" {
		t.Errorf("state = %+v", st)
	}
	if len(st.Playlist) != 1 || st.Playlist[0] != "https://x" {
		t.Errorf("Playlist = %v", st.Playlist)
	}
}

func TestAPIStats(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		s := NewServer("0")
		resp, _ := s.App().Test(httptest.NewRequest("GET", "/api/stats", nil))
		if resp.StatusCode != 503 {
			t.Errorf("status = %d, want 503", resp.StatusCode)
		}
	})

	t.Run("configured", func(t *testing.T) {
		s := NewServer("0", WithStats(func() poller.Stats {
			return poller.Stats{CyclesStarted: 4, Renders: 3, LastEmotion: "neutral"}
		}))
		resp, err := s.App().Test(httptest.NewRequest("GET", "/api/stats", nil))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}

		var st poller.Stats
		json.NewDecoder(resp.Body).Decode(&st)
		if st.CyclesStarted != 4 || st.Renders != 3 || st.LastEmotion != "neutral" {
			t.Errorf("stats = %+v", st)
		}
	})
}

func TestAPICamera(t *testing.T) {
	mgr := camera.NewManager(camera.DefaultConfig())
	var applied camera.Config
	mgr.OnConfigChange = func(cfg camera.Config) error {
		applied = cfg
		return nil
	}
	s := NewServer("0", WithCameraManager(mgr))

	resp, _ := s.App().Test(httptest.NewRequest("GET", "/api/camera", nil))
	var cfg camera.Config
	json.NewDecoder(resp.Body).Decode(&cfg)
	if cfg.Width != 640 || cfg.Height != 480 {
		t.Errorf("GET config = %+v", cfg)
	}

	req := httptest.NewRequest("PUT", "/api/camera", strings.NewReader(`{"preset":"720p","fps":15}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.App().Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if applied.Width != 1280 || applied.Height != 720 || applied.FPS != 15 {
		t.Errorf("applied = %+v", applied)
	}

	req = httptest.NewRequest("PUT", "/api/camera", strings.NewReader(`{"width":99999}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ = s.App().Test(req)
	if resp.StatusCode != 400 {
		t.Errorf("invalid width: status = %d, want 400", resp.StatusCode)
	}

	req = httptest.NewRequest("PUT", "/api/camera", strings.NewReader(`{"preset":"8k"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ = s.App().Test(req)
	if resp.StatusCode != 400 {
		t.Errorf("unknown preset: status = %d, want 400", resp.StatusCode)
	}

	resp, _ = s.App().Test(httptest.NewRequest("GET", "/api/camera/presets", nil))
	var presets struct {
		Names   []string                 `json:"names"`
		Presets map[string]camera.Config `json:"presets"`
	}
	json.NewDecoder(resp.Body).Decode(&presets)
	if len(presets.Names) != len(camera.PresetNames()) || presets.Presets["1080p"].Width != 1920 {
		t.Errorf("presets = %+v", presets)
	}
}

func TestAPICameraNotConfigured(t *testing.T) {
	s := NewServer("0")
	resp, _ := s.App().Test(httptest.NewRequest("GET", "/api/camera", nil))
	if resp.StatusCode != 503 {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
}

func TestIndexPage(t *testing.T) {
	s := NewServer("0")
	resp, err := s.App().Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	for _, want := range []string{`id="emotion"`, `id="playlist"`, `'_blank'`, "/ws/state"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("index page missing %s", want)
		}
	}
}

func TestWebSocketRequiresUpgrade(t *testing.T) {
	s := NewServer("0")
	resp, _ := s.App().Test(httptest.NewRequest("GET", "/ws/state", nil))
	if resp.StatusCode != 426 {
		t.Errorf("status = %d, want 426", resp.StatusCode)
	}
}

func startServer(t *testing.T, s *Server) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go s.Serve(ln)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		s.Shutdown(ctx)
	})
	return ln.Addr().String()
}

func TestStateWebSocket(t *testing.T) {
	s := NewServer("0")
	addr := startServer(t, s)

	ws, _, err := websocket.DefaultDialer.Dial("ws://"+addr+"/ws/state", nil)
	if err != nil {
		t.Fatalf("WebSocket dial error: %v", err)
	}
	defer ws.Close()
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))

	// Snapshot on connect.
	var st display.State
	if err := ws.ReadJSON(&st); err != nil {
		t.Fatalf("read snapshot: %v", err)
	}

	s.RenderEmotion("surprised")
	for st.Emotion != "surprised" {
		if err := ws.ReadJSON(&st); err != nil {
			t.Fatalf("read update: %v", err)
		}
	}
	if st.Label != "Detected Emotion: surprised" {
		t.Errorf("Label = %q", st.Label)
	}
}

func TestCameraWebSocket(t *testing.T) {
	s := NewServer("0")
	addr := startServer(t, s)

	ws, _, err := websocket.DefaultDialer.Dial("ws://"+addr+"/ws/camera", nil)
	if err != nil {
		t.Fatalf("WebSocket dial error: %v", err)
	}
	defer ws.Close()

	deadline := time.Now().Add(2 * time.Second)
	for s.cameraHub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("camera client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	s.PreviewFrame([]byte{0xff, 0xd8, 0xff, 0xd9})

	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	kind, data, err := ws.ReadMessage()
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if kind != websocket.BinaryMessage || len(data) != 4 {
		t.Errorf("got type %d len %d, want binary frame", kind, len(data))
	}
}
