package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a shared update stored in MongoDB. Exactly one of
// GroupID/ClientID is set; posts are soft-deleted, never removed.
type Post struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	FacilityID uint               `json:"facility_id" bson:"facility_id"`
	AuthorID   uint               `json:"author_id" bson:"author_id"`
	GroupID    uint               `json:"group_id,omitempty" bson:"group_id,omitempty"`
	ClientID   uint               `json:"client_id,omitempty" bson:"client_id,omitempty"`
	Body       string             `json:"body" bson:"body"`
	Deleted    bool               `json:"deleted" bson:"deleted"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}

// HasValidScope reports whether exactly one scope target is set.
func (p *Post) HasValidScope() bool {
	return (p.GroupID == 0) != (p.ClientID == 0)
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	GroupID  uint   `json:"group_id,omitempty"`
	ClientID uint   `json:"client_id,omitempty"`
	Body     string `json:"body" validate:"required,min=1,max=2000"`
}

// ScopeKind distinguishes the two post scopes
type ScopeKind string

const (
	ScopeGroup  ScopeKind = "group"
	ScopeClient ScopeKind = "client"
)

// Scope identifies the target entity a feed is loaded for
type Scope struct {
	Kind ScopeKind
	ID   uint
}
