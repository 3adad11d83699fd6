// Package config provides configuration helpers for moodcam commands.
// Values come from environment variables with defaults; commands override them with flags.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

// Defaults.
const (
	DefaultBackendURL     = "http://localhost:5000"
	DefaultInterval       = 5 * time.Second
	DefaultCamera         = "0"
	DefaultWebPort        = "8080"
	DefaultOverlap        = "supersede"
	DefaultRequestTimeout = 30 * time.Second
	DefaultLogLevel       = "info"
)

// Config holds runtime configuration for the moodcam client.
type Config struct {
	BackendURL     string
	Interval       time.Duration
	Camera         string // device index or capture URL
	FramesDir      string // when set, frames are read from image files instead of a camera
	WebPort        string // empty disables the dashboard
	Overlap        string // "supersede" or "allow"
	RequestTimeout time.Duration
	LogLevel       string
	Once           bool
}

// Load reads configuration from the environment.
// Malformed durations fall back to their defaults.
func Load() Config {
	return Config{
		BackendURL:     Env("MOODCAM_BACKEND_URL", DefaultBackendURL),
		Interval:       EnvDuration("MOODCAM_INTERVAL", DefaultInterval),
		Camera:         Env("MOODCAM_CAMERA", DefaultCamera),
		FramesDir:      Env("MOODCAM_FRAMES_DIR", ""),
		WebPort:        envAllowEmpty("MOODCAM_WEB_PORT", DefaultWebPort),
		Overlap:        Env("MOODCAM_OVERLAP", DefaultOverlap),
		RequestTimeout: EnvDuration("MOODCAM_REQUEST_TIMEOUT", DefaultRequestTimeout),
		LogLevel:       Env("LOG_LEVEL", DefaultLogLevel),
	}
}

// Validate checks the configuration and returns all problems found.
func (c *Config) Validate() []string {
	var problems []string

	u, err := url.Parse(c.BackendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		problems = append(problems, fmt.Sprintf("backend URL %q must be an absolute http(s) URL", c.BackendURL))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		problems = append(problems, fmt.Sprintf("backend URL scheme %q must be http or https", u.Scheme))
	}

	if c.Interval <= 0 {
		problems = append(problems, "interval must be positive")
	}
	if c.RequestTimeout < 0 {
		problems = append(problems, "request timeout must not be negative")
	}
	if c.Overlap != "supersede" && c.Overlap != "allow" {
		problems = append(problems, "overlap must be supersede or allow")
	}
	if c.Camera == "" && c.FramesDir == "" {
		problems = append(problems, "either a camera or a frames directory is required")
	}

	return problems
}

// Env returns the value of key, or def when unset or empty.
func Env(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// EnvDuration parses key as a time.Duration, or returns def.
func EnvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

// envAllowEmpty distinguishes unset (default) from explicitly empty.
func envAllowEmpty(key, def string) string {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	return strings.TrimSpace(v)
}
