// Package ai wraps the generative model backend used to rewrite news
// articles and enrich user posts.
package ai

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"
)

// Completer produces a free-text completion for a prompt. Satisfied by
// Client; tests substitute stubs.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type modelConfig struct {
	Name string
	RPM  int
	RPD  int
}

// Client calls the Gemini API with per-model quota tracking and fallback.
// When the preferred model is rate limited or exhausted, the next one in the
// list is tried.
type Client struct {
	client *genai.Client
	models []modelConfig

	dailyCount   map[string]int
	minuteCount  map[string]int
	lastResetDay time.Time
	lastResetMin time.Time
	mu           sync.Mutex
}

// NewClient creates a Gemini-backed Client.
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		client: client,
		models: []modelConfig{
			{Name: "gemini-2.5-flash", RPM: 10, RPD: 250},
			{Name: "gemini-2.5-flash-lite", RPM: 15, RPD: 1000},
		},
		dailyCount:   make(map[string]int),
		minuteCount:  make(map[string]int),
		lastResetDay: time.Now(),
		lastResetMin: time.Now(),
	}, nil
}

var _ Completer = (*Client)(nil)

// Complete sends the prompt to the first available model and returns the raw
// response text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	for _, cfg := range c.models {
		if !c.canUseModel(cfg) {
			continue
		}

		result, err := c.client.Models.GenerateContent(ctx, cfg.Name, genai.Text(prompt), nil)
		if err != nil {
			errStr := strings.ToLower(err.Error())
			if strings.Contains(errStr, "429") || strings.Contains(errStr, "rate limit") ||
				strings.Contains(errStr, "exhausted") || strings.Contains(errStr, "404") ||
				strings.Contains(errStr, "not found") {
				lastErr = err
				continue
			}
			return "", err
		}

		if result != nil && len(result.Candidates) > 0 && len(result.Candidates[0].Content.Parts) > 0 {
			c.recordUsage(cfg)
			return result.Candidates[0].Content.Parts[0].Text, nil
		}
	}

	return "", fmt.Errorf("all models unavailable: %v", lastErr)
}

func (c *Client) canUseModel(cfg modelConfig) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	if now.YearDay() != c.lastResetDay.YearDay() {
		c.dailyCount = make(map[string]int)
		c.lastResetDay = now
	}
	if now.Sub(c.lastResetMin) >= time.Minute {
		c.minuteCount = make(map[string]int)
		c.lastResetMin = now
	}
	if c.dailyCount[cfg.Name] >= cfg.RPD {
		return false
	}
	if c.minuteCount[cfg.Name] >= cfg.RPM {
		return false
	}
	return true
}

func (c *Client) recordUsage(cfg modelConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dailyCount[cfg.Name]++
	c.minuteCount[cfg.Name]++
}

// cleanFences strips Markdown code fences models like to wrap output in.
func cleanFences(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
