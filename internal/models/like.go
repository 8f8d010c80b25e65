package models

import (
	"time"
)

// Like has no unique index on (user_id, comment_id): repeated likes are kept
// as separate rows.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	CommentID uint      `gorm:"not null;index" json:"comment_id"`
	Comment   Comment   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
