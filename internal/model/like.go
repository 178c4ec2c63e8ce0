package model

import (
	"time"

	"github.com/google/uuid"
)

// Like is one row per (post, user). The composite primary key keeps the
// liked-by set duplicate-free at the database level.
type Like struct {
	PostID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"post_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"user"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
