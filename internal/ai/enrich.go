package ai

import (
	"context"
	"fmt"
	"strings"
)

// Enricher makes best-effort single-shot calls to suggest a category or
// tags for user-authored posts. Every failure degrades to an empty result;
// enrichment never blocks a post.
type Enricher struct {
	completer Completer
}

// NewEnricher returns an Enricher using the given model backend.
func NewEnricher(completer Completer) *Enricher {
	return &Enricher{completer: completer}
}

// SuggestCategory asks the model for the single best-fitting category name
// out of the provided set. The answer is matched case-insensitively against
// the given names; no match means empty string.
func (e *Enricher) SuggestCategory(ctx context.Context, content string, categoryNames []string) string {
	if len(categoryNames) == 0 {
		return ""
	}

	prompt := fmt.Sprintf(`Pick the single best-fitting category for this post.
Answer with only the category name, nothing else.

Categories: %s

Post:
%s`, strings.Join(categoryNames, ", "), content)

	raw, err := e.completer.Complete(ctx, prompt)
	if err != nil {
		return ""
	}
	answer := strings.ToLower(cleanFences(raw))

	for _, name := range categoryNames {
		if strings.Contains(answer, strings.ToLower(name)) {
			return name
		}
	}
	return ""
}

// SuggestTags asks the model for freeform tags for the post body. Results
// are lower-cased and filtered to non-empty strings of at most 20 characters.
func (e *Enricher) SuggestTags(ctx context.Context, content string) []string {
	prompt := fmt.Sprintf(`Suggest 3 to 5 short single-word tags for this post.
Answer with only the tags, comma-separated, nothing else.

Post:
%s`, content)

	raw, err := e.completer.Complete(ctx, prompt)
	if err != nil {
		return nil
	}

	var tags []string
	for _, t := range strings.Split(cleanFences(raw), ",") {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || len(t) > 20 {
			continue
		}
		tags = append(tags, t)
	}
	return tags
}
