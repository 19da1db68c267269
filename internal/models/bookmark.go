package models

import "time"

// Bookmark represents a post a user saved for later
type Bookmark struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_post_bookmark"`
	PostID    string    `json:"post_id" gorm:"index;uniqueIndex:idx_user_post_bookmark"`
	CreatedAt time.Time `json:"created_at"`
}
