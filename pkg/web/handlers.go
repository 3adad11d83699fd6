package web

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/teslashibe/go-moodcam/pkg/camera"
	"github.com/teslashibe/go-moodcam/pkg/hub"
)

// handleState returns what the dashboard currently shows
func (s *Server) handleState(c *fiber.Ctx) error {
	return c.JSON(s.State())
}

// handleStats returns poller counters
func (s *Server) handleStats(c *fiber.Ctx) error {
	if s.stats == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "stats not available",
		})
	}
	return c.JSON(s.stats())
}

// handleGetCamera returns the current camera configuration
func (s *Server) handleGetCamera(c *fiber.Ctx) error {
	if s.camera == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "camera settings not available",
		})
	}
	return c.JSON(s.camera.GetConfig())
}

// handleUpdateCamera applies a partial update, optionally starting from a preset
func (s *Server) handleUpdateCamera(c *fiber.Ctx) error {
	if s.camera == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "camera settings not available",
		})
	}

	var params map[string]interface{}
	if err := c.BodyParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid JSON body",
		})
	}

	if err := s.camera.UpdateConfig(params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	cfg := s.camera.GetConfig()
	s.logger.Info("camera settings updated", "device", cfg.Device, "width", cfg.Width, "height", cfg.Height, "fps", cfg.FPS)
	return c.JSON(cfg)
}

// handleCameraPresets lists the named camera presets
func (s *Server) handleCameraPresets(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"names":   camera.PresetNames(),
		"presets": camera.Presets(),
	})
}

// handleStateWS streams state updates; the latest state is sent on connect
func (s *Server) handleStateWS(c *websocket.Conn) {
	hub.Serve(s.stateHub, c)
}

// handleCameraWS streams JPEG preview frames as binary messages
func (s *Server) handleCameraWS(c *websocket.Conn) {
	hub.Serve(s.cameraHub, c)
}
