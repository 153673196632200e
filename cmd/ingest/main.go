// Command main runs one news ingestion cycle and exits. Useful for cron
// setups and for verifying credentials outside the API server.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"newsloom/internal/ai"
	"newsloom/internal/config"
	"newsloom/internal/database"
	"newsloom/internal/ingest"
	"newsloom/internal/news"
	"newsloom/internal/repository"
)

func main() {
	timeout := flag.Duration("timeout", 30*time.Minute, "Abort the run after this duration")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if !cfg.IngestionConfigured() {
		log.Fatal("NEWS_API_KEY and GEMINI_API_KEY must be set")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	aiClient, err := ai.NewClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		log.Fatalf("Failed to create AI client: %v", err)
	}

	topics, err := ingest.LoadTopics(cfg.TopicsFile)
	if err != nil {
		log.Fatalf("Failed to load topics: %v", err)
	}

	pipeline := ingest.NewPipeline(
		repository.NewUserRepository(db),
		repository.NewCategoryRepository(db),
		repository.NewPostRepository(db),
		news.NewClient(cfg.NewsAPIURL, cfg.NewsAPIKey),
		ai.NewRewriter(aiClient),
		ingest.Options{
			Topics:     topics,
			PageSize:   cfg.IngestPageSize,
			TopicDelay: cfg.IngestTopicDelay,
		},
	)

	result, err := pipeline.Run(ctx, ingest.TriggerManual)
	if err != nil {
		log.Fatalf("Ingestion run failed: %v", err)
	}
	log.Printf("Ingestion complete: %d succeeded, %d failed", result.Success, result.Failed)
}
