package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// AttachmentRepository defines the interface for attachment data operations
type AttachmentRepository interface {
	CreateAttachment(ctx context.Context, attachment *models.Attachment) error
	GetAttachmentByID(ctx context.Context, id string) (*models.Attachment, error)
	GetAttachmentsByPostIDs(ctx context.Context, postIDs []string) (map[string][]models.Attachment, error)
	SoftDeleteAttachment(ctx context.Context, id string) error
	UpdateStoragePath(ctx context.Context, id string, path string) error
}

// MongoAttachmentRepository implements AttachmentRepository for MongoDB
type MongoAttachmentRepository struct {
	collection *mongo.Collection
}

// NewMongoAttachmentRepository creates a new MongoAttachmentRepository
func NewMongoAttachmentRepository(db *mongo.Database) *MongoAttachmentRepository {
	return &MongoAttachmentRepository{collection: db.Collection("attachments")}
}

// CreateAttachment creates a new attachment in MongoDB
func (r *MongoAttachmentRepository) CreateAttachment(ctx context.Context, attachment *models.Attachment) error {
	attachment.ID = primitive.NewObjectID()
	attachment.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, attachment)
	return err
}

// GetAttachmentByID retrieves an attachment by ID
func (r *MongoAttachmentRepository) GetAttachmentByID(ctx context.Context, id string) (*models.Attachment, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid attachment ID format: %w", err)
	}

	var attachment models.Attachment
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&attachment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("attachment not found")
		}
		return nil, err
	}
	return &attachment, nil
}

// GetAttachmentsByPostIDs retrieves non-deleted attachments for a set of
// posts, mapped back by post ID
func (r *MongoAttachmentRepository) GetAttachmentsByPostIDs(ctx context.Context, postIDs []string) (map[string][]models.Attachment, error) {
	result := make(map[string][]models.Attachment)
	if len(postIDs) == 0 {
		return result, nil
	}
	filter := bson.M{"post_id": bson.M{"$in": postIDs}, "deleted": bson.M{"$ne": true}}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var attachments []models.Attachment
	if err = cursor.All(ctx, &attachments); err != nil {
		return nil, err
	}
	for _, a := range attachments {
		result[a.PostID] = append(result[a.PostID], a)
	}
	return result, nil
}

// SoftDeleteAttachment flips the deleted flag
func (r *MongoAttachmentRepository) SoftDeleteAttachment(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid attachment ID format: %w", err)
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{"deleted": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("attachment not found")
	}
	return nil
}

// UpdateStoragePath rewrites the stored locator with a durable object path
func (r *MongoAttachmentRepository) UpdateStoragePath(ctx context.Context, id string, path string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid attachment ID format: %w", err)
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{"storage_path": path}})
	return err
}
