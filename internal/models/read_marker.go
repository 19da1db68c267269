package models

import "time"

// ReadMarker records that a user has seen a post (PostgreSQL).
// One marker per (post, user); created once, never updated or deleted.
type ReadMarker struct {
	ID     uint      `json:"id" gorm:"primaryKey"`
	PostID string    `json:"post_id" gorm:"index;uniqueIndex:idx_post_user_read"` // MongoDB ObjectID as string
	UserID uint      `json:"user_id" gorm:"index;uniqueIndex:idx_post_user_read"`
	ReadAt time.Time `json:"read_at"`
}
