package server

import (
	"strings"

	"newsloom/internal/models"
	"newsloom/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GetCategories lists active categories.
func (s *Server) GetCategories(c *fiber.Ctx) error {
	categories, err := s.categoryRepo.ListActive(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"categories": categories})
}

// CreateCategory creates an interest category. Admin only.
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	var input struct {
		Name        string `json:"name"`
		Slug        string `json:"slug"`
		Description string `json:"description"`
		Color       string `json:"color"`
	}
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Category name is required"))
	}

	slug := input.Slug
	if slug == "" {
		slug = validation.Slugify(name)
	}
	if err := validation.ValidateCategorySlug(slug); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	category := &models.Category{
		Name:        name,
		Slug:        slug,
		Description: input.Description,
		Color:       input.Color,
		IsActive:    true,
	}
	if err := s.categoryRepo.Create(c.Context(), category); err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// UpdateCategory edits a category's display fields. Admin only.
func (s *Server) UpdateCategory(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var input struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Color       string `json:"color"`
		IsActive    *bool  `json:"is_active"`
	}
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	category, err := s.categoryRepo.GetByID(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		category.Name = name
	}
	if input.Description != "" {
		category.Description = input.Description
	}
	if input.Color != "" {
		category.Color = input.Color
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	if err := s.categoryRepo.Update(c.Context(), category); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(category)
}

// DeactivateCategory hides a category from browsing without deleting it, so
// existing posts keep their references. Admin only.
func (s *Server) DeactivateCategory(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.categoryRepo.Deactivate(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
