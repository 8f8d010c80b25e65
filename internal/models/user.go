package models

import (
	"time"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"size:150;uniqueIndex;not null" json:"email"`
	CreatedAt time.Time `json:"created_at"`

	Articles []Article `gorm:"foreignKey:UserID" json:"-"`
	Comments []Comment `gorm:"foreignKey:UserID" json:"-"`
	// Never updated or deleted by the application
}
