// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"context"
	"fmt"
	"log"

	"newsloom/internal/ingest"
	"newsloom/internal/models"
	"newsloom/internal/repository"
	"newsloom/internal/validation"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// AdminEmail is the well-known account that authors ingested news posts.
const AdminEmail = "newsroom@newsloom.dev"

// Seed populates the database with demo data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	admin, err := EnsureAdmin(db)
	if err != nil {
		return fmt.Errorf("failed to ensure admin: %w", err)
	}
	log.Printf("✓ admin account ready (%s)", admin.Email)

	categories, err := EnsureCategories(db)
	if err != nil {
		return fmt.Errorf("failed to ensure categories: %w", err)
	}
	log.Printf("✓ %d categories available", len(categories))

	factory := NewFactory(db)

	users, err := factory.CreateUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d users created", len(users))

	posts, err := factory.CreatePosts(users, categories, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("✓ %d posts created", len(posts))

	if err := factory.CreateEngagement(users, posts); err != nil {
		return fmt.Errorf("failed to create engagement: %w", err)
	}
	if err := refreshEngagementScores(db, posts); err != nil {
		return fmt.Errorf("failed to refresh engagement scores: %w", err)
	}
	log.Println("✓ engagement scores computed")

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

// EnsureAdmin creates the admin account used as the author of record for
// ingested news posts, if it does not already exist.
func EnsureAdmin(db *gorm.DB) (*models.User, error) {
	var admin models.User
	err := db.Where("role = ?", models.RoleAdmin).First(&admin).Error
	if err == nil {
		return &admin, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("Newsr00m!ChangeMe"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	admin = models.User{
		Name:            "Newsroom",
		Email:           AdminEmail,
		Password:        string(hashed),
		Role:            models.RoleAdmin,
		IsVerified:      true,
		DigestEnabled:   false,
		DigestFrequency: models.DigestDaily,
	}
	if err := db.Create(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

// EnsureCategories creates one active category per built-in ingestion topic
// so scheduled runs always find their target categories.
func EnsureCategories(db *gorm.DB) ([]models.Category, error) {
	categories := make([]models.Category, 0, len(ingest.DefaultTopics()))

	for _, topic := range ingest.DefaultTopics() {
		var category models.Category
		err := db.Where("name = ?", topic.Category).First(&category).Error
		if err == gorm.ErrRecordNotFound {
			category = models.Category{
				Name:     topic.Category,
				Slug:     validation.Slugify(topic.Category),
				IsActive: true,
			}
			err = db.Create(&category).Error
		}
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, nil
}

func clearData(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE comments, likes, post_categories, user_interests, posts, categories, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func refreshEngagementScores(db *gorm.DB, posts []models.Post) error {
	repo := repository.NewPostRepository(db)
	ctx := context.Background()
	for _, post := range posts {
		if err := repo.RefreshEngagement(ctx, post.ID); err != nil {
			return err
		}
	}
	return nil
}
