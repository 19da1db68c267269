package models

import "time"

// Reaction kinds a user can attach to a post
const (
	ReactionLike   = "like"
	ReactionOK     = "ok"
	ReactionThanks = "thanks"
	ReactionCheck  = "check"
)

// ValidReactionKind reports whether kind is one of the enumerated types.
func ValidReactionKind(kind string) bool {
	switch kind {
	case ReactionLike, ReactionOK, ReactionThanks, ReactionCheck:
		return true
	}
	return false
}

// Reaction represents a typed marker on a post. At most one active reaction
// of a given kind per (post, user) pair; toggled by insert/delete.
type Reaction struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"post_id" gorm:"index;uniqueIndex:idx_post_user_kind"` // MongoDB ObjectID as string
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_post_user_kind"`
	Kind      string    `json:"kind" gorm:"type:varchar(20);uniqueIndex:idx_post_user_kind"`
	CreatedAt time.Time `json:"created_at"`
}

// ToggleReactionRequest defines the request body for toggling a reaction
type ToggleReactionRequest struct {
	Kind string `json:"type" validate:"required,oneof=like ok thanks check"`
}
