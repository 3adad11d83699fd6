// moodcam samples the webcam on a timer, asks the backend which emotion it
// sees and shows a matching playlist in the terminal and a web dashboard.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/teslashibe/go-moodcam/internal/config"
	"github.com/teslashibe/go-moodcam/internal/log"
	"github.com/teslashibe/go-moodcam/pkg/moodcam"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := parseFlags()
	log.Init(cfg.LogLevel)

	app, err := moodcam.New(cfg, log.L())
	if err != nil {
		log.Error("configuration error", "error", err)
		return 2
	}

	if err := app.Init(); err != nil {
		log.Error("initialization failed", "error", err)
		return 1
	}
	defer app.Shutdown()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.Run(ctx); err != nil {
		log.Error("stopped", "error", err)
		return 1
	}
	return 0
}

// parseFlags layers command line flags over the environment configuration.
func parseFlags() config.Config {
	cfg := config.Load()

	flag.StringVar(&cfg.BackendURL, "backend", cfg.BackendURL, "Backend base URL (MOODCAM_BACKEND_URL)")
	flag.DurationVar(&cfg.Interval, "interval", cfg.Interval, "Time between captures (MOODCAM_INTERVAL)")
	flag.StringVar(&cfg.Camera, "camera", cfg.Camera, "Camera device index or capture URL (MOODCAM_CAMERA)")
	flag.StringVar(&cfg.FramesDir, "frames-dir", cfg.FramesDir, "Read frames from image files in this directory instead of a camera (MOODCAM_FRAMES_DIR)")
	flag.StringVar(&cfg.WebPort, "web-port", cfg.WebPort, "Dashboard port, empty to disable (MOODCAM_WEB_PORT)")
	flag.StringVar(&cfg.Overlap, "overlap", cfg.Overlap, "Overlapping cycles: supersede or allow (MOODCAM_OVERLAP)")
	flag.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "Per-request timeout, 0 for none (MOODCAM_REQUEST_TIMEOUT)")
	debug := flag.Bool("debug", false, "Enable verbose debug logging (LOG_LEVEL=debug)")
	flag.BoolVar(&cfg.Once, "once", false, "Run a single capture cycle and exit")
	flag.Parse()

	if *debug {
		cfg.LogLevel = "debug"
	}
	return cfg
}
