package models

import (
	"time"
)

type Article struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Category  string    `gorm:"size:100;not null" json:"category"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"user"`
	CreatedAt time.Time `json:"created_at"`

	// 非数据库字段，用于列表页填充
	CommentCount int `gorm:"-" json:"comment_count"`
}
