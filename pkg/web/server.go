// Package web provides the live moodcam dashboard: the emotion label, the
// playlist links and an optional camera preview, kept current over websockets.
package web

import (
	"context"
	"embed"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/teslashibe/go-moodcam/pkg/camera"
	"github.com/teslashibe/go-moodcam/pkg/display"
	"github.com/teslashibe/go-moodcam/pkg/hub"
	"github.com/teslashibe/go-moodcam/pkg/poller"
)

//go:embed static
var staticFS embed.FS

// Server is the web dashboard server. It implements display.Renderer and
// display.PreviewSink so it can sit next to the terminal in a display.Multi.
type Server struct {
	app    *fiber.App
	addr   string
	logger *slog.Logger

	state   display.State
	stateMu sync.RWMutex

	stateHub  *hub.Hub
	cameraHub *hub.Hub
	hubsOnce  sync.Once

	camera *camera.Manager
	stats  func() poller.Stats
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithCameraManager exposes camera settings under /api/camera.
func WithCameraManager(m *camera.Manager) Option {
	return func(s *Server) { s.camera = m }
}

// WithStats exposes poller counters under /api/stats.
func WithStats(fn func() poller.Stats) Option {
	return func(s *Server) { s.stats = fn }
}

// NewServer creates a dashboard that will listen on addr (":8080" or "8080").
func NewServer(addr string, opts ...Option) *Server {
	s := &Server{
		addr:   normalizeAddr(addr),
		logger: slog.Default(),
		state:  display.State{Playlist: []string{}},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "web")
	s.stateHub = hub.New("state", s.logger)
	s.cameraHub = hub.New("camera", s.logger)

	app := fiber.New(fiber.Config{
		AppName:               "moodcam",
		DisableStartupMessage: true,
	})

	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/state", s.handleState)
	api.Get("/stats", s.handleStats)
	api.Get("/camera", s.handleGetCamera)
	api.Put("/camera", s.handleUpdateCamera)
	api.Get("/camera/presets", s.handleCameraPresets)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/state", websocket.New(s.handleStateWS))
	app.Get("/ws/camera", websocket.New(s.handleCameraWS))

	app.Use("/", filesystem.New(filesystem.Config{
		Root:       http.FS(staticFS),
		PathPrefix: "static",
		Index:      "index.html",
	}))

	s.app = app
	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Start starts the hubs and blocks serving HTTP on the configured address.
func (s *Server) Start() error {
	s.startHubs()
	s.logger.Info("dashboard listening", "url", "http://localhost"+s.addr)
	return s.app.Listen(s.addr)
}

// Serve is like Start but uses an existing listener.
func (s *Server) Serve(ln net.Listener) error {
	s.startHubs()
	s.logger.Info("dashboard listening", "addr", ln.Addr().String())
	return s.app.Listener(ln)
}

// StartAsync starts the web server in a goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			s.logger.Warn("web server stopped", "error", err)
		}
	}()
}

// Shutdown stops the hubs and gracefully stops the web server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stateHub.Stop()
	s.cameraHub.Stop()
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) startHubs() {
	s.hubsOnce.Do(func() {
		go s.stateHub.Run()
		go s.cameraHub.Run()
		// Seed the state hub so the first subscriber gets a snapshot.
		if err := s.stateHub.BroadcastJSON(s.State()); err != nil {
			s.logger.Warn("encode state failed", "error", err)
		}
	})
}

// State returns a copy of what the dashboard currently shows.
func (s *Server) State() display.State {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	st := s.state
	st.Playlist = display.CopyPlaylist(s.state.Playlist)
	return st
}

// RenderEmotion implements display.Renderer.
func (s *Server) RenderEmotion(emotion string) {
	s.updateState(func(st *display.State) {
		st.Emotion = emotion
		st.Label = display.FormatEmotion(emotion)
		st.Error = ""
	})
}

// RenderPlaylist implements display.Renderer. The list is replaced, never appended.
func (s *Server) RenderPlaylist(urls []string) {
	s.updateState(func(st *display.State) {
		st.Playlist = display.CopyPlaylist(urls)
	})
}

// RenderError implements display.Renderer.
func (s *Server) RenderError(msg string) {
	s.updateState(func(st *display.State) {
		st.Error = msg
	})
}

// PreviewFrame implements display.PreviewSink.
func (s *Server) PreviewFrame(jpeg []byte) {
	if s.cameraHub.ClientCount() == 0 {
		return
	}
	s.cameraHub.BroadcastBinary(jpeg)
}

func (s *Server) updateState(update func(*display.State)) {
	s.stateMu.Lock()
	update(&s.state)
	s.state.UpdatedAt = time.Now()
	st := s.state
	st.Playlist = display.CopyPlaylist(s.state.Playlist)
	s.stateMu.Unlock()

	if err := s.stateHub.BroadcastJSON(st); err != nil {
		s.logger.Warn("encode state failed", "error", err)
	}
}

func normalizeAddr(addr string) string {
	if addr == "" || addr[0] == ':' {
		return addr
	}
	if _, _, err := net.SplitHostPort(addr); err == nil {
		return addr
	}
	return ":" + addr
}

var (
	_ display.Renderer    = (*Server)(nil)
	_ display.PreviewSink = (*Server)(nil)
)
