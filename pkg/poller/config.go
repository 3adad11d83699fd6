package poller

import (
	"fmt"
	"log/slog"
	"time"
)

// DefaultInterval is the time between capture cycles.
const DefaultInterval = 5000 * time.Millisecond

// Overlap decides what happens when a cycle is still running at the next tick.
type Overlap string

const (
	// OverlapSupersede cancels the running cycle and never renders its result.
	OverlapSupersede Overlap = "supersede"

	// OverlapAllow lets cycles overlap; whichever response arrives last is shown.
	OverlapAllow Overlap = "allow"
)

// Config holds poller configuration.
type Config struct {
	Interval time.Duration
	Overlap  Overlap
	Logger   *slog.Logger
}

// Option is a functional option for configuring the poller.
type Option func(*Config)

// WithInterval sets the capture interval.
func WithInterval(d time.Duration) Option {
	return func(c *Config) { c.Interval = d }
}

// WithOverlap sets the overlap policy.
func WithOverlap(o Overlap) Option {
	return func(c *Config) { c.Overlap = o }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// DefaultConfig returns a 5 s interval with supersede semantics.
func DefaultConfig() Config {
	return Config{
		Interval: DefaultInterval,
		Overlap:  OverlapSupersede,
		Logger:   slog.Default(),
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("poller: interval must be positive, got %v", c.Interval)
	}
	switch c.Overlap {
	case OverlapSupersede, OverlapAllow:
	default:
		return fmt.Errorf("poller: unknown overlap policy %q", c.Overlap)
	}
	return nil
}

// ParseOverlap converts a flag or env value to an Overlap.
func ParseOverlap(s string) (Overlap, error) {
	switch o := Overlap(s); o {
	case OverlapSupersede, OverlapAllow:
		return o, nil
	default:
		return "", fmt.Errorf("poller: unknown overlap policy %q (want supersede or allow)", s)
	}
}
