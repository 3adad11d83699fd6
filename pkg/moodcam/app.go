// Package moodcam wires the capture-and-poll client together: camera source,
// backend client, terminal and web displays.
package moodcam

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/teslashibe/go-moodcam/internal/config"
	"github.com/teslashibe/go-moodcam/internal/httpc"
	"github.com/teslashibe/go-moodcam/pkg/backend"
	"github.com/teslashibe/go-moodcam/pkg/camera"
	"github.com/teslashibe/go-moodcam/pkg/display"
	"github.com/teslashibe/go-moodcam/pkg/frame"
	"github.com/teslashibe/go-moodcam/pkg/poller"
	"github.com/teslashibe/go-moodcam/pkg/web"
	"github.com/teslashibe/go-moodcam/pkg/webcam"
)

// healthTimeout bounds the startup reachability check.
const healthTimeout = 3 * time.Second

// ConfigError reports an invalid configuration.
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

// App owns every component of a moodcam run.
type App struct {
	config config.Config
	logger *slog.Logger
	out    io.Writer

	source  camera.Source
	encoder frame.Encoder
	camera  *camera.Manager
	backend *backend.Client
	web     *web.Server
	poller  *poller.Client
}

// New validates cfg and returns an App ready for Init.
func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	if problems := cfg.Validate(); len(problems) > 0 {
		return nil, &ConfigError{Problems: problems}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		config: cfg,
		logger: logger,
		out:    os.Stdout,
	}, nil
}

// SetOutput redirects the terminal display.
func (a *App) SetOutput(w io.Writer) {
	a.out = w
}

// Init builds the camera source, backend client, displays and poller.
// Nothing is opened or started yet.
func (a *App) Init() error {
	a.initSource()

	client, err := backend.NewClient(a.config.BackendURL,
		backend.WithHTTPClient(httpc.NewClient(a.config.RequestTimeout)),
		backend.WithLogger(a.logger),
	)
	if err != nil {
		return fmt.Errorf("backend client: %w", err)
	}
	a.backend = client

	renderers := display.Multi{display.NewTerminal(a.out)}
	if a.config.WebPort != "" {
		opts := []web.Option{web.WithLogger(a.logger)}
		if a.camera != nil {
			opts = append(opts, web.WithCameraManager(a.camera))
		}
		// The poller is created below; the closure reads it lazily.
		opts = append(opts, web.WithStats(func() poller.Stats { return a.poller.Stats() }))
		a.web = web.NewServer(a.config.WebPort, opts...)
		renderers = append(renderers, a.web)
	}

	overlap, err := poller.ParseOverlap(a.config.Overlap)
	if err != nil {
		return err
	}
	p, err := poller.New(a.source, a.encoder, a.backend, renderers,
		poller.WithInterval(a.config.Interval),
		poller.WithOverlap(overlap),
		poller.WithLogger(a.logger),
	)
	if err != nil {
		return fmt.Errorf("poller: %w", err)
	}
	a.poller = p
	return nil
}

func (a *App) initSource() {
	if a.config.FramesDir != "" {
		a.source = camera.NewFileSource(a.config.FramesDir)
		a.encoder = frame.NewJPEGEncoder()
		a.logger.Info("using image files as camera", "dir", a.config.FramesDir)
		return
	}

	cfg := camera.DefaultConfig()
	cfg.Device = a.config.Camera
	src := webcam.NewSource(cfg, a.logger)

	a.camera = camera.NewManager(cfg)
	a.camera.OnConfigChange = src.Apply
	a.source = src
	a.encoder = webcam.NewEncoder()
}

// Run checks the backend, starts the dashboard and runs the poller until ctx
// is done. With Once set a single cycle runs and its failure is returned.
func (a *App) Run(ctx context.Context) error {
	a.checkBackend(ctx)

	if a.web != nil {
		a.web.StartAsync()
	}

	if a.config.Once {
		return a.RunOnce(ctx)
	}

	err := a.poller.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// RunOnce opens the camera, runs one cycle and closes the camera.
func (a *App) RunOnce(ctx context.Context) error {
	if err := a.poller.Acquire(ctx); err != nil {
		return err
	}
	defer a.source.Close()

	res := a.poller.RunCycle(ctx)
	if res.Err != nil {
		return fmt.Errorf("cycle %s: %s: %w", res.ID, res.Outcome, res.Err)
	}
	if res.Outcome != poller.OutcomeRendered {
		return fmt.Errorf("cycle %s: %s", res.ID, res.Outcome)
	}
	return nil
}

// Stats returns poller counters.
func (a *App) Stats() poller.Stats {
	return a.poller.Stats()
}

// Shutdown releases the backend client and stops the dashboard.
func (a *App) Shutdown() {
	if a.web != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.web.Shutdown(ctx); err != nil {
			a.logger.Warn("dashboard shutdown", "error", err)
		}
	}
	if a.backend != nil {
		a.backend.Close()
	}
	if a.poller != nil {
		st := a.poller.Stats()
		a.logger.Info("goodbye", "cycles", st.CyclesStarted, "renders", st.Renders)
	}
}

// checkBackend logs whether the backend answers; it never fails the run.
func (a *App) checkBackend(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	if err := a.backend.Health(ctx); err != nil {
		a.logger.Warn("backend not reachable yet, will keep polling", "url", a.config.BackendURL, "error", err)
		return
	}
	a.logger.Info("backend reachable", "url", a.config.BackendURL)
}
