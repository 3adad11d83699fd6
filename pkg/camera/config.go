// Package camera provides the video sources moodcam samples frames from,
// together with runtime-configurable capture settings.
package camera

import "fmt"

// Config holds capture settings applied to a live camera.
// Zero Width, Height or FPS leaves the driver default in place.
type Config struct {
	Device string `json:"device"` // Device index ("0") or capture URL
	Width  int    `json:"width"`  // Requested frame width in pixels
	Height int    `json:"height"` // Requested frame height in pixels
	FPS    int    `json:"fps"`    // Requested capture rate
}

// Capture limits accepted by Validate.
const (
	MaxWidth  = 4096
	MaxHeight = 2160
	MaxFPS    = 120
)

// DefaultConfig returns 640x480, the resolution most webcams open with.
func DefaultConfig() Config {
	return Config{
		Device: "0",
		Width:  640,
		Height: 480,
		FPS:    30,
	}
}

// NativeConfig leaves resolution and rate to the driver.
func NativeConfig() Config {
	return Config{Device: "0"}
}

// Validate checks if the config values are within valid ranges.
// Returns a list of validation errors, or nil if valid.
func (c *Config) Validate() []string {
	var errors []string

	if c.Device == "" {
		errors = append(errors, "device must not be empty")
	}
	if c.Width != 0 && (c.Width < 160 || c.Width > MaxWidth) {
		errors = append(errors, fmt.Sprintf("width must be 0 (native) or between 160 and %d", MaxWidth))
	}
	if c.Height != 0 && (c.Height < 120 || c.Height > MaxHeight) {
		errors = append(errors, fmt.Sprintf("height must be 0 (native) or between 120 and %d", MaxHeight))
	}
	if c.FPS != 0 && (c.FPS < 1 || c.FPS > MaxFPS) {
		errors = append(errors, fmt.Sprintf("fps must be 0 (native) or between 1 and %d", MaxFPS))
	}

	return errors
}
