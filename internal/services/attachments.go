package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"path"
	"strings"
	"time"

	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/models"
	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/repositories"
)

// ObjectStore uploads and removes attachment objects. Implemented by
// pkg/storage.
type ObjectStore interface {
	Upload(ctx context.Context, path string, reader io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, path string) error
}

// Attachments handles attachment upload and removal against the object
// store and the attachment records.
type Attachments struct {
	attachmentRepo repositories.AttachmentRepository
	store          ObjectStore
}

// NewAttachments creates a new Attachments service
func NewAttachments(attachmentRepo repositories.AttachmentRepository, store ObjectStore) *Attachments {
	return &Attachments{attachmentRepo: attachmentRepo, store: store}
}

// Upload stores the file and creates the attachment record. If recording
// fails after the object landed, the object is removed again so storage
// never holds orphans.
func (s *Attachments) Upload(ctx context.Context, post *models.Post, fileName, contentType string, reader io.Reader, size int64) (*models.Attachment, error) {
	if s.store == nil {
		return nil, fmt.Errorf("object storage not configured")
	}

	targetID := post.GroupID
	if targetID == 0 {
		targetID = post.ClientID
	}
	storagePath := fmt.Sprintf("facilities/%d/posts/%s/%d_%s", post.FacilityID, post.ID.Hex(), time.Now().UnixNano(), fileName)

	if err := s.store.Upload(ctx, storagePath, reader, size, contentType); err != nil {
		return nil, fmt.Errorf("uploading %s: %w", fileName, err)
	}

	attachment := &models.Attachment{
		PostID:      post.ID.Hex(),
		FacilityID:  post.FacilityID,
		TargetID:    targetID,
		StoragePath: storagePath,
		FileName:    fileName,
		Kind:        KindFromContentType(contentType, fileName),
	}
	if err := s.attachmentRepo.CreateAttachment(ctx, attachment); err != nil {
		// Roll the upload back; the record is the source of truth.
		if rmErr := s.store.Remove(ctx, storagePath); rmErr != nil {
			log.Printf("WARN: removing orphaned object %s failed: %v", storagePath, rmErr)
		}
		return nil, err
	}
	return attachment, nil
}

// Delete soft-deletes the attachment record. The object stays in storage;
// the record's deleted flag hides it everywhere.
func (s *Attachments) Delete(ctx context.Context, id string) error {
	return s.attachmentRepo.SoftDeleteAttachment(ctx, id)
}

// KindFromContentType infers the display kind from the MIME type, falling
// back to the file extension.
func KindFromContentType(contentType, fileName string) string {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return models.AttachmentImage
	case strings.HasPrefix(contentType, "video/"):
		return models.AttachmentVideo
	case contentType == "application/pdf":
		return models.AttachmentPDF
	}
	switch strings.ToLower(path.Ext(fileName)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp", ".heic":
		return models.AttachmentImage
	case ".mp4", ".mov", ".webm":
		return models.AttachmentVideo
	case ".pdf":
		return models.AttachmentPDF
	}
	return models.AttachmentOther
}
