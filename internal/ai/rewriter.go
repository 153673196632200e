package ai

import (
	"context"
	"fmt"
	"time"

	"newsloom/internal/news"
	"newsloom/internal/observability"
)

// RewrittenArticle is the platform-ready form of one external article.
type RewrittenArticle struct {
	Title       string
	Content     string
	Tags        []string
	Image       string
	OriginalURL string
	PublishedAt time.Time
}

// ArticleRewriter turns a raw article into original platform content.
type ArticleRewriter interface {
	Rewrite(ctx context.Context, article news.Article, topic string) (*RewrittenArticle, error)
}

// Rewriter implements ArticleRewriter on top of a Completer.
type Rewriter struct {
	completer Completer
}

// NewRewriter returns a Rewriter using the given model backend.
func NewRewriter(completer Completer) *Rewriter {
	return &Rewriter{completer: completer}
}

var _ ArticleRewriter = (*Rewriter)(nil)

const rewritePromptFormat = `You are a news editor for a social news platform. Rewrite the
following article about %s in your own words. Do NOT copy sentences from the original.

Original title: %s
Original description: %s
Original content: %s

Respond in exactly this format:
TITLE: <a new headline in distinct wording, at most 100 characters>
SUMMARY: <an original 200-400 word summary in your own words>
TAGS: <3 to 5 single-word tags, comma-separated>`

// Rewrite makes a single best-effort model call. There is no retry; a
// malformed or error response is a terminal failure for this article.
func (r *Rewriter) Rewrite(ctx context.Context, article news.Article, topic string) (*RewrittenArticle, error) {
	prompt := fmt.Sprintf(rewritePromptFormat, topic, article.Title, article.Description, article.Content)

	start := time.Now()
	raw, err := r.completer.Complete(ctx, prompt)
	observability.RewriteLatency.WithLabelValues(topic).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("rewrite call failed: %w", err)
	}

	parsed, err := ParseRewriteResponse(raw)
	if err != nil {
		return nil, err
	}

	return &RewrittenArticle{
		Title:       parsed.Title,
		Content:     parsed.Summary,
		Tags:        parsed.Tags,
		Image:       article.URLToImage,
		OriginalURL: article.URL,
		PublishedAt: article.PublishedAt,
	}, nil
}
