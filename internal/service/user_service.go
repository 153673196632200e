// Package service holds the application's business logic between the HTTP
// handlers and the repositories.
package service

import (
	"context"

	"newsloom/internal/models"
	"newsloom/internal/repository"
	"newsloom/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	userRepo     repository.UserRepository
	categoryRepo repository.CategoryRepository
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
}

type UpdateProfileInput struct {
	UserID uint
	Name   string
	Avatar string
}

type UpdateDigestInput struct {
	UserID    uint
	Enabled   bool
	Frequency string
}

func NewUserService(userRepo repository.UserRepository, categoryRepo repository.CategoryRepository) *UserService {
	return &UserService{userRepo: userRepo, categoryRepo: categoryRepo}
}

func (s *UserService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	if err := validation.ValidateName(in.Name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	existing, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewValidationError("Email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Name:            in.Name,
		Email:           in.Email,
		Password:        string(hash),
		Role:            models.RoleUser,
		DigestEnabled:   true,
		DigestFrequency: models.DigestDaily,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials. The same error covers unknown email and wrong
// password so the endpoint does not leak which accounts exist.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid email or password")
	}
	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetProfile returns the user with their active interest categories preloaded.
func (s *UserService) GetProfile(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByIDWithInterests(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		if err := validation.ValidateName(in.Name); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Name = in.Name
	}
	if in.Avatar != "" {
		user.Avatar = in.Avatar
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetInterests replaces the user's interest set. Every referenced category
// must exist and be active.
func (s *UserService) SetInterests(ctx context.Context, userID uint, categoryIDs []uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	categories, err := s.categoryRepo.GetByIDs(ctx, categoryIDs)
	if err != nil {
		return nil, err
	}
	if len(categories) != len(dedupeIDs(categoryIDs)) {
		return nil, models.NewValidationError("One or more categories do not exist")
	}
	for _, c := range categories {
		if !c.IsActive {
			return nil, models.NewValidationError("Cannot follow an inactive category")
		}
	}

	if err := s.userRepo.SetInterests(ctx, user, categories); err != nil {
		return nil, err
	}
	return s.userRepo.GetByIDWithInterests(ctx, userID)
}

func (s *UserService) UpdateDigestPrefs(ctx context.Context, in UpdateDigestInput) (*models.User, error) {
	if in.Frequency != models.DigestDaily && in.Frequency != models.DigestWeekly {
		return nil, models.NewValidationError("digest_frequency must be daily or weekly")
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	user.DigestEnabled = in.Enabled
	user.DigestFrequency = in.Frequency
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// IsAdmin reports whether the given user has the admin role. Services take it
// as a callback so they do not depend on each other.
func (s *UserService) IsAdmin(ctx context.Context, userID uint) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.IsAdmin(), nil
}

func dedupeIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
