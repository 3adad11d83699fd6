// Package poller implements the capture-and-poll loop: on every tick it samples
// a camera frame, uploads it for emotion detection, fetches the matching
// playlist, and renders both.
//
// Each tick runs its cycle in its own goroutine. With OverlapSupersede (the
// default) a new cycle cancels the one still in flight and only the newest
// cycle may render, so a slow response can never overwrite a fresher one.
// OverlapAllow keeps the historical behavior where the last response wins.
package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/teslashibe/go-moodcam/pkg/backend"
	"github.com/teslashibe/go-moodcam/pkg/camera"
	"github.com/teslashibe/go-moodcam/pkg/display"
	"github.com/teslashibe/go-moodcam/pkg/frame"
)

// ErrMissingDependency is returned by New when a collaborator is nil.
var ErrMissingDependency = errors.New("poller: missing dependency")

// Client is the capture-and-poll client.
type Client struct {
	config   Config
	source   camera.Source
	encoder  frame.Encoder
	backend  backend.Provider
	renderer display.Renderer
	logger   *slog.Logger

	// mu guards generation and cancelCurrent, and serializes renders.
	mu            sync.Mutex
	generation    uint64
	cancelCurrent context.CancelFunc

	wg    sync.WaitGroup
	stats counters
}

// New creates a poller from its collaborators.
func New(source camera.Source, encoder frame.Encoder, provider backend.Provider, renderer display.Renderer, opts ...Option) (*Client, error) {
	switch {
	case source == nil:
		return nil, fmt.Errorf("%w: camera source", ErrMissingDependency)
	case encoder == nil:
		return nil, fmt.Errorf("%w: frame encoder", ErrMissingDependency)
	case provider == nil:
		return nil, fmt.Errorf("%w: backend", ErrMissingDependency)
	case renderer == nil:
		return nil, fmt.Errorf("%w: renderer", ErrMissingDependency)
	}

	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Client{
		config:   cfg,
		source:   source,
		encoder:  encoder,
		backend:  provider,
		renderer: renderer,
		logger:   cfg.Logger.With("component", "poller"),
	}, nil
}

// Run acquires the camera and starts a cycle on every tick until ctx is done.
// If the camera cannot be acquired, the problem is rendered and Run returns
// without ever starting the timer. Cycle failures are never fatal.
func (c *Client) Run(ctx context.Context) error {
	if err := c.Acquire(ctx); err != nil {
		return err
	}
	defer c.source.Close()

	c.logger.Info("capture started",
		"interval", c.config.Interval,
		"overlap", string(c.config.Overlap),
	)

	ticker := time.NewTicker(c.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Cycle contexts derive from ctx, so in-flight work is already cancelled.
			c.wg.Wait()
			c.logger.Info("capture stopped", "cycles", c.stats.cyclesStarted.Load())
			return nil
		case <-ticker.C:
			c.startCycle(ctx)
		}
	}
}

// Acquire opens the camera. On failure the problem is rendered for the user
// and the wrapped error is returned.
func (c *Client) Acquire(ctx context.Context) error {
	if err := c.source.Open(ctx); err != nil {
		c.renderer.RenderError(cameraMessage(err))
		c.logger.Error("camera unavailable, not starting capture", "error", err)
		return fmt.Errorf("acquire camera: %w", err)
	}
	return nil
}

// RunCycle runs one cycle synchronously and returns its result.
// It follows the same overlap policy as cycles started by Run.
func (c *Client) RunCycle(ctx context.Context) CycleResult {
	cycleCtx, gen, done := c.begin(ctx)
	defer done()
	return c.runCycle(cycleCtx, gen)
}

// Stats returns a snapshot of the poller counters.
func (c *Client) Stats() Stats {
	return c.stats.snapshot()
}

// Config returns the poller configuration.
func (c *Client) Config() Config {
	return c.config
}

func (c *Client) startCycle(ctx context.Context) {
	cycleCtx, gen, done := c.begin(ctx)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer done()
		c.runCycle(cycleCtx, gen)
	}()
}

// begin allocates the next generation and, under OverlapSupersede, cancels
// the cycle that is still running. The returned func must be called when the
// cycle finishes.
func (c *Client) begin(parent context.Context) (context.Context, uint64, func()) {
	ctx, cancel := context.WithCancel(parent)

	c.mu.Lock()
	c.generation++
	gen := c.generation
	if c.config.Overlap == OverlapSupersede && c.cancelCurrent != nil {
		c.cancelCurrent()
	}
	c.cancelCurrent = cancel
	c.mu.Unlock()

	return ctx, gen, func() {
		c.mu.Lock()
		if c.generation == gen {
			c.cancelCurrent = nil
		}
		c.mu.Unlock()
		cancel()
	}
}

// current reports whether gen may still render.
func (c *Client) current(gen uint64) bool {
	if c.config.Overlap == OverlapAllow {
		return true
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation == gen
}

// render applies fn if gen may still render. Renders are serialized.
func (c *Client) render(gen uint64, fn func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.config.Overlap == OverlapSupersede && c.generation != gen {
		return false
	}
	fn()
	return true
}

func (c *Client) runCycle(ctx context.Context, gen uint64) (res CycleResult) {
	start := time.Now()
	res = CycleResult{ID: uuid.NewString(), Generation: gen}
	c.stats.cyclesStarted.Add(1)

	logger := c.logger.With("cycle", res.ID, "generation", gen)

	defer func() {
		res.Duration = time.Since(start)
		c.stats.finish(res)

		attrs := []any{"outcome", string(res.Outcome), "duration_ms", res.Duration.Milliseconds()}
		if res.Emotion != "" {
			attrs = append(attrs, "emotion", res.Emotion)
		}
		switch res.Outcome {
		case OutcomeRendered:
			logger.Info("cycle complete", append(attrs, "playlist_len", len(res.Playlist))...)
		case OutcomeNotReady, OutcomeSuperseded, OutcomeCancelled:
			logger.Debug("cycle skipped", attrs...)
		default:
			logger.Warn("cycle failed", append(attrs, "error", res.Err)...)
		}
	}()

	f, err := c.source.Sample(ctx)
	switch {
	case errors.Is(err, camera.ErrNotReady):
		res.Outcome = OutcomeNotReady
		return res
	case err != nil:
		return c.fail(ctx, gen, res, OutcomeSampleFailed, err)
	case f.Empty():
		res.Outcome = OutcomeNotReady
		return res
	}

	data, err := c.encoder.Encode(f)
	if err != nil {
		return c.fail(ctx, gen, res, OutcomeEncodeFailed, err)
	}
	res.FrameBytes = len(data)

	if p, ok := c.renderer.(display.PreviewSink); ok && c.current(gen) {
		p.PreviewFrame(data)
	}

	c.stats.framesSubmitted.Add(1)
	emotion, err := c.backend.DetectEmotion(ctx, data)
	if err != nil {
		return c.fail(ctx, gen, res, OutcomeDetectFailed, err)
	}
	res.Emotion = emotion

	if !c.render(gen, func() { c.renderer.RenderEmotion(emotion) }) {
		res.Outcome = OutcomeSuperseded
		return res
	}

	playlist, err := c.backend.Playlist(ctx, emotion)
	if err != nil {
		return c.fail(ctx, gen, res, OutcomePlaylistFailed, err)
	}
	res.Playlist = playlist

	if !c.render(gen, func() { c.renderer.RenderPlaylist(playlist) }) {
		res.Outcome = OutcomeSuperseded
		return res
	}

	res.Outcome = OutcomeRendered
	return res
}

// fail classifies an error: a cycle overtaken by a newer one is superseded,
// one stopped by shutdown is cancelled, anything else keeps outcome.
func (c *Client) fail(ctx context.Context, gen uint64, res CycleResult, outcome Outcome, err error) CycleResult {
	res.Err = err
	switch {
	case !c.current(gen):
		res.Outcome = OutcomeSuperseded
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		res.Outcome = OutcomeCancelled
	default:
		res.Outcome = outcome
	}
	return res
}

// cameraMessage is the user-visible text for a failed camera acquisition.
func cameraMessage(err error) string {
	if camera.IsMediaAccess(err) {
		return fmt.Sprintf("Camera access failed: %v. Check that a camera is connected and access is allowed.", err)
	}
	return fmt.Sprintf("Camera could not be started: %v", err)
}
