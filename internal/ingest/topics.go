// Package ingest runs the news ingestion pipeline: fetch external articles
// per topic, rewrite them through the model backend, and persist them as
// admin-authored news posts.
package ingest

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Topic pairs a stored category name with the search keywords used to query
// the news source.
type Topic struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// Query returns the OR-joined keyword expression for the news source.
func (t Topic) Query() string {
	return strings.Join(t.Keywords, " OR ")
}

// DefaultTopics is the built-in topic list, matching the seeded categories.
func DefaultTopics() []Topic {
	return []Topic{
		{Category: "Technology", Keywords: []string{"technology", "software", "artificial intelligence"}},
		{Category: "Business", Keywords: []string{"business", "economy", "startup"}},
		{Category: "Science", Keywords: []string{"science", "research", "space"}},
		{Category: "Health", Keywords: []string{"health", "medicine", "wellness"}},
		{Category: "Sports", Keywords: []string{"sports", "football", "olympics"}},
		{Category: "Entertainment", Keywords: []string{"entertainment", "movies", "music"}},
		{Category: "World", Keywords: []string{"world news", "politics", "international"}},
		{Category: "Gaming", Keywords: []string{"gaming", "video games", "esports"}},
	}
}

// LoadTopics reads topic definitions from a YAML file, falling back to the
// built-in list when path is empty.
func LoadTopics(path string) ([]Topic, error) {
	if path == "" {
		return DefaultTopics(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read topics file: %w", err)
	}

	var parsed struct {
		Topics []Topic `yaml:"topics"`
	}
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse topics file: %w", err)
	}

	if len(parsed.Topics) == 0 {
		return nil, fmt.Errorf("topics file %s defines no topics", path)
	}
	for i, t := range parsed.Topics {
		if t.Category == "" || len(t.Keywords) == 0 {
			return nil, fmt.Errorf("topic %d is missing a category or keywords", i)
		}
	}
	return parsed.Topics, nil
}
