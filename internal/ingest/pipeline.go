package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"newsloom/internal/ai"
	"newsloom/internal/middleware"
	"newsloom/internal/models"
	"newsloom/internal/news"
	"newsloom/internal/observability"
)

// placeholderTitle is what the news source substitutes for withdrawn articles.
const placeholderTitle = "[Removed]"

// Result is the aggregate outcome of one pipeline run.
type Result struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
}

// Trigger labels for metrics and logs.
const (
	TriggerManual    = "manual"
	TriggerScheduled = "scheduled"
)

// AdminFinder locates the admin account news posts are attributed to.
type AdminFinder interface {
	GetAdmin(ctx context.Context) (*models.User, error)
}

// CategoryResolver maps a topic's category name onto a stored category.
type CategoryResolver interface {
	FindByName(ctx context.Context, name string) (*models.Category, error)
}

// PostStore is the persistence surface the pipeline depends on.
type PostStore interface {
	ExistsNewsBySource(ctx context.Context, originalSource string) (bool, error)
	Create(ctx context.Context, post *models.Post) error
	RefreshEngagement(ctx context.Context, id uint) error
}

// Pipeline fetches, rewrites, and persists news articles topic by topic.
// Processing is deliberately sequential with a pacing delay between topics;
// both the news source and the model backend are rate limited.
type Pipeline struct {
	users      AdminFinder
	categories CategoryResolver
	posts      PostStore
	source     news.Source
	rewriter   ai.ArticleRewriter

	topics     []Topic
	pageSize   int
	topicDelay time.Duration
	logger     *slog.Logger

	// OnPost, when set, is called for every persisted news post. The server
	// uses it to push feed events to WebSocket subscribers.
	OnPost func(post *models.Post)
}

// Options configure a Pipeline.
type Options struct {
	Topics     []Topic
	PageSize   int
	TopicDelay time.Duration
	Logger     *slog.Logger
}

// NewPipeline wires the pipeline's collaborators.
func NewPipeline(users AdminFinder, categories CategoryResolver, posts PostStore, source news.Source, rewriter ai.ArticleRewriter, opts Options) *Pipeline {
	if len(opts.Topics) == 0 {
		opts.Topics = DefaultTopics()
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 5
	}
	if opts.TopicDelay <= 0 {
		opts.TopicDelay = 2 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = middleware.Logger
	}
	return &Pipeline{
		users:      users,
		categories: categories,
		posts:      posts,
		source:     source,
		rewriter:   rewriter,
		topics:     opts.Topics,
		pageSize:   opts.PageSize,
		topicDelay: opts.TopicDelay,
		logger:     opts.Logger,
	}
}

// Run executes one full ingestion pass. Per-topic and per-article failures
// are absorbed into the failed counter; the only fatal precondition is a
// missing admin account, checked before any external call.
func (p *Pipeline) Run(ctx context.Context, trigger string) (Result, error) {
	observability.IngestionRunsTotal.WithLabelValues(trigger).Inc()

	var result Result

	admin, err := p.users.GetAdmin(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to look up admin user: %w", err)
	}
	if admin == nil {
		return result, fmt.Errorf("no admin user exists to attribute news posts to")
	}

	p.logger.InfoContext(ctx, "ingestion run started",
		slog.String("trigger", trigger),
		slog.Int("topics", len(p.topics)),
	)

	for i, topic := range p.topics {
		if i > 0 {
			if err := p.pause(ctx); err != nil {
				return result, err
			}
		}
		p.runTopic(ctx, topic, admin.ID, &result)
	}

	p.logger.InfoContext(ctx, "ingestion run finished",
		slog.String("trigger", trigger),
		slog.Int("success", result.Success),
		slog.Int("failed", result.Failed),
	)
	return result, nil
}

func (p *Pipeline) runTopic(ctx context.Context, topic Topic, adminID uint, result *Result) {
	category, err := p.categories.FindByName(ctx, topic.Category)
	if err != nil {
		p.logger.WarnContext(ctx, "topic category lookup failed",
			slog.String("topic", topic.Category),
			slog.String("error", err.Error()),
		)
		result.Failed++
		return
	}
	if category == nil {
		// Configuration drift: the topic list names a category that was
		// never seeded or has been renamed.
		p.logger.WarnContext(ctx, "topic has no matching category, skipping",
			slog.String("topic", topic.Category),
		)
		return
	}

	articles, err := p.source.Search(ctx, topic.Query(), p.pageSize)
	if err != nil {
		p.logger.WarnContext(ctx, "news source query failed",
			slog.String("topic", topic.Category),
			slog.String("error", err.Error()),
		)
		result.Failed++
		return
	}
	if len(articles) == 0 {
		return
	}

	for _, article := range articles {
		p.ingestArticle(ctx, article, topic.Category, category.ID, adminID, result)
	}
}

func (p *Pipeline) ingestArticle(ctx context.Context, article news.Article, topicName string, categoryID, adminID uint, result *Result) {
	if !isUsable(article) {
		observability.IngestionArticlesTotal.WithLabelValues(observability.OutcomeSkipped).Inc()
		return
	}

	exists, err := p.posts.ExistsNewsBySource(ctx, article.URL)
	if err != nil {
		p.logger.WarnContext(ctx, "dedup check failed",
			slog.String("url", article.URL),
			slog.String("error", err.Error()),
		)
		result.Failed++
		observability.IngestionArticlesTotal.WithLabelValues(observability.OutcomeFailed).Inc()
		return
	}
	if exists {
		observability.IngestionArticlesTotal.WithLabelValues(observability.OutcomeDuplicate).Inc()
		return
	}

	rewritten, err := p.rewriter.Rewrite(ctx, article, topicName)
	if err != nil {
		p.logger.WarnContext(ctx, "article rewrite failed",
			slog.String("url", article.URL),
			slog.String("topic", topicName),
			slog.String("error", err.Error()),
		)
		result.Failed++
		observability.IngestionArticlesTotal.WithLabelValues(observability.OutcomeFailed).Inc()
		return
	}

	publishedAt := rewritten.PublishedAt
	post := &models.Post{
		Title:          rewritten.Title,
		Content:        rewritten.Content,
		PostType:       models.PostTypeNews,
		ImageURL:       rewritten.Image,
		LinkURL:        rewritten.OriginalURL,
		LinkTitle:      article.Title,
		LinkDescription: article.Description,
		LinkImage:      rewritten.Image,
		UserID:         adminID,
		Categories:     []models.Category{{ID: categoryID}},
		Tags:           rewritten.Tags,
		IsNews:         true,
		OriginalSource: rewritten.OriginalURL,
		PublishedAt:    &publishedAt,
	}
	if err := p.posts.Create(ctx, post); err != nil {
		p.logger.WarnContext(ctx, "failed to persist news post",
			slog.String("url", article.URL),
			slog.String("error", err.Error()),
		)
		result.Failed++
		observability.IngestionArticlesTotal.WithLabelValues(observability.OutcomeFailed).Inc()
		return
	}

	// Best effort; a new post's score is all view weight anyway.
	if err := p.posts.RefreshEngagement(ctx, post.ID); err != nil {
		p.logger.WarnContext(ctx, "engagement refresh failed",
			slog.Any("post_id", post.ID),
			slog.String("error", err.Error()),
		)
	}

	if p.OnPost != nil {
		p.OnPost(post)
	}

	result.Success++
	observability.IngestionArticlesTotal.WithLabelValues(observability.OutcomeIngested).Inc()
}

// isUsable rejects source placeholders: withdrawn articles keep their URL but
// lose title and description.
func isUsable(article news.Article) bool {
	title := strings.TrimSpace(article.Title)
	if title == "" || title == placeholderTitle {
		return false
	}
	if strings.TrimSpace(article.Description) == "" {
		return false
	}
	return article.URL != ""
}

func (p *Pipeline) pause(ctx context.Context) error {
	timer := time.NewTimer(p.topicDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
