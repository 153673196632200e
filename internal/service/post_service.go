package service

import (
	"context"
	"net/url"
	"strings"

	"newsloom/internal/cache"
	"newsloom/internal/featureflags"
	"newsloom/internal/models"
	"newsloom/internal/repository"
)

// Enricher suggests a category and tags for a post body. Implemented by the
// AI layer; a nil Enricher disables enrichment entirely.
type Enricher interface {
	SuggestCategory(ctx context.Context, content string, categoryNames []string) string
	SuggestTags(ctx context.Context, content string) []string
}

type PostService struct {
	postRepo     repository.PostRepository
	categoryRepo repository.CategoryRepository
	userRepo     repository.UserRepository
	enricher     Enricher
	flags        *featureflags.Manager
	isAdmin      func(ctx context.Context, userID uint) (bool, error)
}

type CreatePostInput struct {
	UserID      uint
	Title       string
	Content     string
	PostType    string
	ImageURL    string
	LinkURL     string
	CategoryIDs []uint
	Tags        []string
}

type ListPostsInput struct {
	Sort          string
	CategorySlug  string
	NewsOnly      bool
	Limit         int
	Offset        int
	CurrentUserID uint
}

type UpdatePostInput struct {
	UserID   uint
	PostID   uint
	Title    string
	Content  string
	ImageURL string
	LinkURL  string
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

func NewPostService(
	postRepo repository.PostRepository,
	categoryRepo repository.CategoryRepository,
	userRepo repository.UserRepository,
	enricher Enricher,
	flags *featureflags.Manager,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *PostService {
	return &PostService{
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
		enricher:     enricher,
		flags:        flags,
		isAdmin:      isAdmin,
	}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	postType := in.PostType
	if postType == "" {
		postType = models.PostTypeText
	}
	switch postType {
	case models.PostTypeText, models.PostTypeImage, models.PostTypeLink:
		// valid
	case models.PostTypeNews:
		// News posts are created by the ingestion pipeline only.
		return nil, models.NewValidationError("Invalid post_type")
	default:
		return nil, models.NewValidationError("Invalid post_type")
	}

	const maxTitleLen = 300
	const maxContentLen = 50000

	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	if len(in.Content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}

	switch postType {
	case models.PostTypeText:
		if in.Content == "" {
			return nil, models.NewValidationError("Content is required")
		}
	case models.PostTypeImage:
		if strings.TrimSpace(in.ImageURL) == "" {
			return nil, models.NewValidationError("image_url is required for image posts")
		}
	case models.PostTypeLink:
		if in.LinkURL == "" {
			return nil, models.NewValidationError("link_url is required for link posts")
		}
		if _, err := url.ParseRequestURI(in.LinkURL); err != nil {
			return nil, models.NewValidationError("link_url must be a valid URL")
		}
	}

	categories, err := s.resolveCategories(ctx, in.CategoryIDs)
	if err != nil {
		return nil, err
	}

	tags := in.Tags
	if s.enrichmentEnabled(in.UserID) {
		if len(categories) == 0 {
			categories = s.suggestCategory(ctx, in.Title+"\n"+in.Content)
		}
		if len(tags) == 0 {
			tags = s.enricher.SuggestTags(ctx, in.Title+"\n"+in.Content)
		}
	}

	post := &models.Post{
		Title:      in.Title,
		Content:    in.Content,
		PostType:   postType,
		ImageURL:   in.ImageURL,
		LinkURL:    in.LinkURL,
		UserID:     in.UserID,
		Categories: categories,
		Tags:       tags,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

func (s *PostService) resolveCategories(ctx context.Context, ids []uint) ([]models.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	categories, err := s.categoryRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(categories) != len(dedupeIDs(ids)) {
		return nil, models.NewValidationError("One or more categories do not exist")
	}
	for _, c := range categories {
		if !c.IsActive {
			return nil, models.NewValidationError("Cannot post to an inactive category")
		}
	}
	return categories, nil
}

func (s *PostService) enrichmentEnabled(userID uint) bool {
	return s.enricher != nil && s.flags.EnabledDefault(featureflags.FlagAIEnrichment, userID, false)
}

// suggestCategory asks the model to pick from the active categories. Any
// failure or non-answer leaves the post uncategorized.
func (s *PostService) suggestCategory(ctx context.Context, content string) []models.Category {
	active, err := s.categoryRepo.ListActive(ctx)
	if err != nil || len(active) == 0 {
		return nil
	}
	names := make([]string, len(active))
	for i, c := range active {
		names[i] = c.Name
	}

	name := s.enricher.SuggestCategory(ctx, content, names)
	if name == "" {
		return nil
	}
	for _, c := range active {
		if c.Name == name {
			return []models.Category{c}
		}
	}
	return nil
}

func (s *PostService) GetPost(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id, currentUserID)
}

func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	// Anonymous pages are cache-friendly: no liked flags to personalize.
	if in.CurrentUserID == 0 {
		var posts []*models.Post
		page := 0
		if in.Limit > 0 {
			page = in.Offset / in.Limit
		}
		key := cache.PostsListKey(in.Sort, in.CategorySlug, in.NewsOnly, page, in.Limit)
		err := cache.Aside(ctx, key, &posts, cache.ListTTL, func() error {
			var fetchErr error
			posts, fetchErr = s.postRepo.List(ctx, listOptions(in), 0)
			return fetchErr
		})
		return posts, err
	}

	return s.postRepo.List(ctx, listOptions(in), in.CurrentUserID)
}

func listOptions(in ListPostsInput) repository.ListOptions {
	return repository.ListOptions{
		Sort:         in.Sort,
		CategorySlug: in.CategorySlug,
		NewsOnly:     in.NewsOnly,
		Limit:        in.Limit,
		Offset:       in.Offset,
	}
}

func (s *PostService) SearchPosts(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	if strings.TrimSpace(query) == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	return s.postRepo.Search(ctx, query, limit, offset, currentUserID)
}

func (s *PostService) GetUserPosts(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.GetByUserID(ctx, userID, limit, offset, currentUserID)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}

	if post.UserID != in.UserID {
		return nil, models.NewUnauthorizedError("You can only update your own posts")
	}
	if post.IsNews {
		return nil, models.NewValidationError("Ingested news posts cannot be edited")
	}

	if in.Title != "" {
		post.Title = in.Title
	}
	if in.Content != "" {
		post.Content = in.Content
	}
	if in.ImageURL != "" {
		post.ImageURL = in.ImageURL
	}
	if in.LinkURL != "" {
		post.LinkURL = in.LinkURL
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return err
	}

	if post.UserID != in.UserID {
		if s.isAdmin == nil {
			return models.NewUnauthorizedError("You can only delete your own posts")
		}
		admin, err := s.isAdmin(ctx, in.UserID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewUnauthorizedError("You can only delete your own posts")
		}
	}

	return s.postRepo.Delete(ctx, in.PostID)
}

// ToggleLike flips the like state and refreshes the post's engagement score.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID uint) (*models.Post, error) {
	liked, err := s.postRepo.IsLiked(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	if liked {
		err = s.postRepo.Unlike(ctx, userID, postID)
	} else {
		err = s.postRepo.Like(ctx, userID, postID)
	}
	if err != nil {
		return nil, err
	}

	if err := s.postRepo.RefreshEngagement(ctx, postID); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, postID, userID)
}

// RecordView bumps the view counter. Views are anonymous and fire on every
// read, so the engagement refresh is best effort.
func (s *PostService) RecordView(ctx context.Context, postID uint) error {
	if err := s.postRepo.IncrementViews(ctx, postID); err != nil {
		return err
	}
	return s.postRepo.RefreshEngagement(ctx, postID)
}

// SharePost bumps the share counter and returns the updated post.
func (s *PostService) SharePost(ctx context.Context, postID uint, currentUserID uint) (*models.Post, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return nil, err
	}
	if err := s.postRepo.IncrementShares(ctx, postID); err != nil {
		return nil, err
	}
	if err := s.postRepo.RefreshEngagement(ctx, postID); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, postID, currentUserID)
}

// Digest returns the top posts across the user's interest categories. Users
// without interests fall back to the hot news feed.
func (s *PostService) Digest(ctx context.Context, userID uint, limit int) ([]*models.Post, error) {
	if limit <= 0 {
		limit = 10
	}

	user, err := s.userRepo.GetByIDWithInterests(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(user.Interests) == 0 {
		return s.postRepo.List(ctx, repository.ListOptions{
			Sort:     "hot",
			NewsOnly: true,
			Limit:    limit,
		}, userID)
	}

	categoryIDs := make([]uint, len(user.Interests))
	for i, c := range user.Interests {
		categoryIDs[i] = c.ID
	}

	var posts []*models.Post
	err = cache.Aside(ctx, cache.DigestKey(userID), &posts, cache.DigestTTL, func() error {
		var fetchErr error
		posts, fetchErr = s.postRepo.TopByCategories(ctx, categoryIDs, limit)
		return fetchErr
	})
	return posts, err
}
