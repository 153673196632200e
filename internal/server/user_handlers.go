package server

import (
	"io"

	"newsloom/internal/models"
	"newsloom/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile godoc
// @Summary Get the authenticated user's profile with interests
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Router /users/me [get]
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userService.GetProfile(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// UpdateMyProfile updates name and avatar of the authenticated user.
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var input struct {
		Name   string `json:"name"`
		Avatar string `json:"avatar"`
	}
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID: currentUserID(c),
		Name:   input.Name,
		Avatar: input.Avatar,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// SetMyInterests replaces the authenticated user's interest categories.
func (s *Server) SetMyInterests(c *fiber.Ctx) error {
	var input struct {
		CategoryIDs []uint `json:"category_ids"`
	}
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.SetInterests(c.Context(), currentUserID(c), input.CategoryIDs)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// UpdateMyDigestPrefs updates the email digest preferences.
func (s *Server) UpdateMyDigestPrefs(c *fiber.Ctx) error {
	var input struct {
		Enabled   bool   `json:"digest_enabled"`
		Frequency string `json:"digest_frequency"`
	}
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateDigestPrefs(c.Context(), service.UpdateDigestInput{
		UserID:    currentUserID(c),
		Enabled:   input.Enabled,
		Frequency: input.Frequency,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// UploadAvatar accepts a multipart image upload, processes it, and stores the
// resulting URL on the user profile.
func (s *Server) UploadAvatar(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("avatar file is required"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Could not read uploaded file"))
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Could not read uploaded file"))
	}

	userID := currentUserID(c)
	url, err := s.imageService.UploadAvatar(service.UploadAvatarInput{
		UserID:      userID,
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Content:     content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID: userID,
		Avatar: url,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"avatar": url,
		"user":   user,
	})
}

// ServeAvatar serves a processed avatar file from the upload directory.
func (s *Server) ServeAvatar(c *fiber.Ctx) error {
	path, err := s.imageService.ResolveAvatarPath(c.Params("filename"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.SendFile(path)
}

// GetUserProfile returns a public user profile by ID.
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetProfile(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// GetUserPosts lists posts authored by the given user.
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	p := parsePagination(c, 20)
	posts, err := s.postService.GetUserPosts(c.Context(), id, p.Limit, p.Offset, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}
