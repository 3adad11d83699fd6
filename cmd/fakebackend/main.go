// fakebackend serves /detect_emotion and /get_playlist for local development.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/teslashibe/go-moodcam/internal/config"
	"github.com/teslashibe/go-moodcam/internal/fakebackend"
	"github.com/teslashibe/go-moodcam/internal/log"
)

func main() {
	addr := flag.String("addr", config.Env("FAKEBACKEND_ADDR", ":5000"), "Listen address (FAKEBACKEND_ADDR)")
	emotion := flag.String("emotion", "", "Always report this emotion instead of hashing the frame")
	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	flag.Parse()

	level := config.Env("LOG_LEVEL", config.DefaultLogLevel)
	if *debug {
		level = "debug"
	}
	log.Init(level)

	opts := []fakebackend.Option{fakebackend.WithLogger(log.L())}
	if *emotion != "" {
		opts = append(opts, fakebackend.WithFixedEmotion(*emotion))
	}
	srv := fakebackend.New(opts...)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		<-ctx.Done()
		srv.Shutdown()
	}()

	if err := srv.Listen(*addr); err != nil {
		log.Error("fake backend stopped", "error", err)
		os.Exit(1)
	}
}
