package models

import (
	"time"
)

// Flow represents a user-owned flow. The numeric ID is an internal surrogate
// key; FlowID is the externally-visible identifier callers address flows by.
type Flow struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	FlowID      string     `gorm:"uniqueIndex;not null" json:"flow_id"`
	Name        string     `gorm:"not null" json:"name"`
	Description *string    `json:"description"`
	UserID      uint       `gorm:"not null" json:"user_id"`
	User        *User      `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT" json:"user,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`
}

// FlowCreate is the payload for creating a flow.
type FlowCreate struct {
	FlowID      string  `json:"flow_id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	UserID      uint    `json:"user_id"`
}

// FlowUpdate is the payload for partially updating a flow. Nil fields are
// left untouched.
type FlowUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}
