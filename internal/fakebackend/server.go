// Package fakebackend serves the two moodcam backend endpoints without a model
// or music service behind them. Labels are derived from the uploaded bytes so a
// given frame always yields the same emotion.
package fakebackend

import (
	"bytes"
	"hash/fnv"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net"
	"net/url"
	"sync/atomic"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Labels are the emotions the backend can report, in model output order.
var Labels = []string{"angry", "disgusted", "fearful", "happy", "neutral", "sad", "surprised"}

// MaxFrameSize bounds an uploaded frame.
const MaxFrameSize = 8 << 20

// Server is the fake backend.
type Server struct {
	app       *fiber.App
	logger    *slog.Logger
	playlists map[string][]string
	fixed     string

	detections      atomic.Uint64
	playlistsServed atomic.Uint64
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithPlaylists replaces the emotion -> URLs table.
func WithPlaylists(p map[string][]string) Option {
	return func(s *Server) { s.playlists = p }
}

// WithFixedEmotion makes every detection report emotion.
func WithFixedEmotion(emotion string) Option {
	return func(s *Server) { s.fixed = emotion }
}

// New creates the fake backend app.
func New(opts ...Option) *Server {
	s := &Server{
		logger:    slog.Default(),
		playlists: DefaultPlaylists(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "fakebackend")

	app := fiber.New(fiber.Config{
		AppName:               "moodcam-fakebackend",
		DisableStartupMessage: true,
		BodyLimit:             MaxFrameSize + 64<<10,
	})
	app.Use(recover.New())

	app.Get("/", s.handleRoot)
	app.Post("/detect_emotion", s.handleDetect)
	app.Get("/get_playlist", s.handlePlaylist)

	s.app = app
	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	s.logger.Info("fake backend listening", "addr", addr)
	return s.app.Listen(addr)
}

// Serve serves on an existing listener until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	return s.app.Listener(ln)
}

// Shutdown stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// Counts returns how many detections and playlists were served.
func (s *Server) Counts() (detections, playlists uint64) {
	return s.detections.Load(), s.playlistsServed.Load()
}

// LabelFor returns the emotion reported for a frame.
func LabelFor(frame []byte) string {
	h := fnv.New32a()
	h.Write(frame)
	return Labels[h.Sum32()%uint32(len(Labels))]
}

// DefaultPlaylists returns a small static table keyed by Labels.
func DefaultPlaylists() map[string][]string {
	table := make(map[string][]string, len(Labels))
	for _, label := range Labels {
		table[label] = []string{
			"https://open.spotify.com/search/" + url.PathEscape(label+" playlist"),
			"https://www.youtube.com/results?search_query=" + url.QueryEscape(label+" music"),
		}
	}
	return table
}

func (s *Server) handleRoot(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "API is live!"})
}

func (s *Server) handleDetect(c *fiber.Ctx) error {
	fh, err := c.FormFile("frame")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No frame provided"})
	}
	if fh.Size > MaxFrameSize {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": "Frame too large"})
	}

	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unreadable frame"})
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxFrameSize))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unreadable frame"})
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width == 0 || cfg.Height == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Frame is not an image"})
	}

	emotion := s.fixed
	if emotion == "" {
		emotion = LabelFor(data)
	}
	s.detections.Add(1)
	s.logger.Debug("detected emotion",
		"emotion", emotion,
		"format", format,
		"width", cfg.Width,
		"height", cfg.Height,
		"bytes", len(data),
	)
	return c.JSON(fiber.Map{"emotion": emotion})
}

func (s *Server) handlePlaylist(c *fiber.Ctx) error {
	emotion := c.Query("emotion")
	if emotion == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No emotion provided"})
	}

	playlist, ok := s.playlists[emotion]
	if !ok {
		playlist = []string{}
	}
	s.playlistsServed.Add(1)
	return c.JSON(fiber.Map{"playlist": playlist})
}
