package server

import (
	"newsloom/internal/ingest"
	"newsloom/internal/models"

	"github.com/gofiber/fiber/v2"
)

// RunIngestion triggers a full ingestion cycle synchronously and returns the
// per-run counters. Returns 503 when the pipeline is not configured.
func (s *Server) RunIngestion(c *fiber.Ctx) error {
	if s.ingestRunner == nil {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewValidationError("News ingestion is not configured"))
	}

	result, err := s.ingestRunner.Run(c.Context(), ingest.TriggerManual)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}

// GetFeatureFlags returns the raw feature flag configuration. Admin only.
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"flags": s.featureFlags.Raw(),
	})
}

// GetAllUsers lists registered users. Admin only.
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	p := parsePagination(c, 50)
	users, err := s.userService.ListUsers(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"users": users})
}
