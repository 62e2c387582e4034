// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents a registered user of the Krok Nodes API.
type User struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	Username string  `gorm:"uniqueIndex;not null" json:"username"`
	Email    *string `json:"email"`
	// IsActive defaults to true; the repository applies the default so an
	// explicit false on creation is preserved.
	IsActive  bool       `gorm:"not null" json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`
	Flows     []Flow     `gorm:"foreignKey:UserID" json:"flows,omitempty"`
}

// UserCreate is the payload for creating a user. IsActive defaults to true
// when omitted.
type UserCreate struct {
	Username string  `json:"username"`
	Email    *string `json:"email"`
	IsActive *bool   `json:"is_active"`
}

// UserUpdate is the payload for partially updating a user. Nil fields are
// left untouched; only fields the caller set are applied.
type UserUpdate struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	IsActive *bool   `json:"is_active"`
}
