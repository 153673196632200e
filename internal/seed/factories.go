package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"newsloom/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db *gorm.DB
	//nolint:gosec // Weak random number generator is fine for seeding
	rng *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUsers persists count demo users sharing a known password.
func (f *Factory) CreateUsers(count int) ([]models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		name := gofakeit.Name()
		user := models.User{
			Name:            name,
			Email:           fmt.Sprintf("%s%d@example.com", slugName(name), i),
			Password:        string(hashed),
			Role:            models.RoleUser,
			DigestEnabled:   true,
			DigestFrequency: models.DigestDaily,
			Avatar:          fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		}
		if err := f.db.Create(&user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// CreatePosts persists count posts spread across users and categories with a
// realistic created_at spread over the last 90 days.
func (f *Factory) CreatePosts(users []models.User, categories []models.Category, count int) ([]models.Post, error) {
	if len(users) == 0 {
		return nil, nil
	}

	posts := make([]models.Post, 0, count)
	for i := 0; i < count; i++ {
		user := users[f.rng.Intn(len(users))]
		post := f.BuildPost(&user)

		if len(categories) > 0 {
			post.Categories = []models.Category{categories[f.rng.Intn(len(categories))]}
		}
		if err := f.db.Create(post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	return posts, nil
}

// BuildPost constructs a post struct without persisting it.
func (f *Factory) BuildPost(user *models.User, overrides ...func(*models.Post)) *models.Post {
	post := &models.Post{
		Title:    gofakeit.Sentence(5),
		Content:  gofakeit.Paragraph(1, 3, 5, "\n"),
		UserID:   user.ID,
		PostType: models.PostTypeText,
		Tags:     []string{gofakeit.BuzzWord(), gofakeit.BuzzWord()},
	}

	daysBack := f.rng.Intn(90)
	hoursBack := f.rng.Intn(24)
	post.CreatedAt = time.Now().
		Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	switch f.rng.Intn(3) {
	case 1:
		post.PostType = models.PostTypeImage
		post.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID())
	case 2:
		post.PostType = models.PostTypeLink
		post.LinkURL = gofakeit.URL()
		post.LinkTitle = post.Title
	}

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreateEngagement sprinkles likes, comments, views and shares over posts so
// the hot sort has something to rank.
func (f *Factory) CreateEngagement(users []models.User, posts []models.Post) error {
	if len(users) == 0 {
		return nil
	}

	for i := range posts {
		post := &posts[i]

		for _, user := range pickUsers(f.rng, users, f.rng.Intn(5)) {
			like := models.Like{UserID: user.ID, PostID: post.ID}
			if err := f.db.Create(&like).Error; err != nil {
				return err
			}
		}

		for _, user := range pickUsers(f.rng, users, f.rng.Intn(3)) {
			comment := models.Comment{
				UserID:  user.ID,
				PostID:  post.ID,
				Content: gofakeit.Sentence(8),
			}
			if err := f.db.Create(&comment).Error; err != nil {
				return err
			}
		}

		updates := map[string]any{
			"views":  int64(f.rng.Intn(200)),
			"shares": int64(f.rng.Intn(4)),
		}
		if err := f.db.Model(post).Updates(updates).Error; err != nil {
			return err
		}
	}
	return nil
}

// pickUsers returns up to n distinct random users.
func pickUsers(rng *rand.Rand, users []models.User, n int) []models.User {
	if n >= len(users) {
		n = len(users)
	}
	picked := make([]models.User, 0, n)
	for _, idx := range rng.Perm(len(users))[:n] {
		picked = append(picked, users[idx])
	}
	return picked
}

func slugName(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", "."))
}
