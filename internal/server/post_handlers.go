package server

import (
	"newsloom/internal/models"
	"newsloom/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost godoc
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var input struct {
		Title       string   `json:"title"`
		Content     string   `json:"content"`
		PostType    string   `json:"type"`
		ImageURL    string   `json:"image_url"`
		LinkURL     string   `json:"link_url"`
		CategoryIDs []uint   `json:"category_ids"`
		Tags        []string `json:"tags"`
	}
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		UserID:      currentUserID(c),
		Title:       input.Title,
		Content:     input.Content,
		PostType:    input.PostType,
		ImageURL:    input.ImageURL,
		LinkURL:     input.LinkURL,
		CategoryIDs: input.CategoryIDs,
		Tags:        input.Tags,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	s.publishPostCreated(post)
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPosts lists posts sorted by recency or engagement. Supported query
// params: sort (new|hot), category (slug), news (true to restrict to
// ingested news), limit, offset.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	posts, err := s.postService.ListPosts(c.Context(), service.ListPostsInput{
		Sort:          c.Query("sort", "new"),
		CategorySlug:  c.Query("category"),
		NewsOnly:      c.QueryBool("news"),
		Limit:         p.Limit,
		Offset:        p.Offset,
		CurrentUserID: optionalUserID(c),
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// SearchPosts performs a text search over titles and content.
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	posts, err := s.postService.SearchPosts(
		c.Context(), c.Query("q"), p.Limit, p.Offset, optionalUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// GetPost returns a single post by ID.
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.Context(), id, optionalUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// RecordView counts a view and refreshes the post's engagement score.
func (s *Server) RecordView(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.RecordView(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UpdatePost edits a post owned by the authenticated user. Ingested news
// posts are immutable.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var input struct {
		Title    string `json:"title"`
		Content  string `json:"content"`
		ImageURL string `json:"image_url"`
		LinkURL  string `json:"link_url"`
	}
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		UserID:   currentUserID(c),
		PostID:   id,
		Title:    input.Title,
		Content:  input.Content,
		ImageURL: input.ImageURL,
		LinkURL:  input.LinkURL,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// DeletePost removes a post. Admins may delete any post.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), service.DeletePostInput{
		UserID: currentUserID(c),
		PostID: id,
	}); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ToggleLike likes the post, or unlikes it when already liked, and returns
// the post with its refreshed engagement score.
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.ToggleLike(c.Context(), currentUserID(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// SharePost counts a share and returns the post with its refreshed
// engagement score.
func (s *Server) SharePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.SharePost(c.Context(), id, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// GetDigest returns top news posts from the user's interest categories.
func (s *Server) GetDigest(c *fiber.Ctx) error {
	p := parsePagination(c, 10)
	posts, err := s.postService.Digest(c.Context(), currentUserID(c), p.Limit)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}
