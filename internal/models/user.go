// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Digest frequency values for email preferences.
const (
	DigestDaily  = "daily"
	DigestWeekly = "weekly"
)

// User represents a registered account. A single admin-role user is the
// author of record for all ingested news posts.
type User struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Name       string     `gorm:"not null" json:"name"`
	Email      string     `gorm:"unique;not null" json:"email"`
	Password   string     `gorm:"not null" json:"-"`
	Avatar     string     `json:"avatar"`
	Role       string     `gorm:"not null;default:user" json:"role"`
	IsVerified bool       `gorm:"not null;default:false" json:"is_verified"`
	Interests  []Category `gorm:"many2many:user_interests" json:"interests,omitempty"`

	// Email preferences for the news digest.
	DigestEnabled   bool   `gorm:"not null;default:true" json:"digest_enabled"`
	DigestFrequency string `gorm:"not null;default:daily" json:"digest_frequency"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
