package ai

import (
	"errors"
	"strings"
)

// maxTitleLen is the hard cap on rewritten titles. The prompt asks for 100
// characters, but the model is not obliged to comply.
const maxTitleLen = 200

// ErrMalformedResponse is returned when the model output lacks the TITLE or
// SUMMARY marker. Callers treat this as a rewrite failure and persist nothing.
var ErrMalformedResponse = errors.New("model response missing TITLE or SUMMARY marker")

// RewriteResult is the parsed output of an article rewrite.
type RewriteResult struct {
	Title   string
	Summary string
	Tags    []string
}

// ParseRewriteResponse extracts title, summary, and tags from the model's
// free-text response using the TITLE:/SUMMARY:/TAGS: markers. The markers are
// fixed; anything that deviates is a malformed response, not something to
// recover from.
func ParseRewriteResponse(raw string) (*RewriteResult, error) {
	raw = cleanFences(raw)

	titleIdx := strings.Index(raw, "TITLE:")
	summaryIdx := strings.Index(raw, "SUMMARY:")
	if titleIdx < 0 || summaryIdx < 0 || summaryIdx < titleIdx {
		return nil, ErrMalformedResponse
	}
	tagsIdx := strings.Index(raw, "TAGS:")

	title := strings.TrimSpace(raw[titleIdx+len("TITLE:") : summaryIdx])

	summaryEnd := len(raw)
	if tagsIdx > summaryIdx {
		summaryEnd = tagsIdx
	}
	summary := strings.TrimSpace(raw[summaryIdx+len("SUMMARY:") : summaryEnd])

	if title == "" || summary == "" {
		return nil, ErrMalformedResponse
	}

	if runes := []rune(title); len(runes) > maxTitleLen {
		title = string(runes[:maxTitleLen])
	}

	var tags []string
	if tagsIdx > summaryIdx {
		for _, t := range strings.Split(raw[tagsIdx+len("TAGS:"):], ",") {
			t = strings.ToLower(strings.TrimSpace(t))
			if t != "" {
				tags = append(tags, t)
			}
		}
	}

	return &RewriteResult{Title: title, Summary: summary, Tags: tags}, nil
}
