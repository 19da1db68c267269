package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Attachment file kinds, inferred from MIME/extension at upload time
const (
	AttachmentImage = "image"
	AttachmentPDF   = "pdf"
	AttachmentVideo = "video"
	AttachmentOther = "other"
)

// Attachment is a file owned by a post. StoragePath is the durable object
// path; signed URLs are generated fresh at display time and never persisted.
type Attachment struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	PostID      string             `json:"post_id" bson:"post_id"`
	FacilityID  uint               `json:"facility_id" bson:"facility_id"`
	TargetID    uint               `json:"target_id,omitempty" bson:"target_id,omitempty"`
	StoragePath string             `json:"-" bson:"storage_path"`
	FileName    string             `json:"file_name" bson:"file_name"`
	Kind        string             `json:"kind" bson:"kind"`
	Deleted     bool               `json:"deleted" bson:"deleted"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`

	// SignedURL is filled in at render time, never stored.
	SignedURL string `json:"signed_url,omitempty" bson:"-"`
}
