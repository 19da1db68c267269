package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	GetPostsByScope(ctx context.Context, scope models.Scope, limit int64) ([]models.Post, error)
	GetPostIDsByScope(ctx context.Context, scope models.Scope) ([]string, error)
	HasPosts(ctx context.Context, scope models.Scope) (bool, error)
	SoftDeletePost(ctx context.Context, id string) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// scopeTargetFilter matches every post ever written to the scope, deleted
// or not.
func scopeTargetFilter(scope models.Scope) bson.M {
	if scope.Kind == models.ScopeGroup {
		return bson.M{"group_id": scope.ID}
	}
	return bson.M{"client_id": scope.ID}
}

func scopeFilter(scope models.Scope) bson.M {
	filter := scopeTargetFilter(scope)
	filter["deleted"] = bson.M{"$ne": true}
	return filter
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	if !post.HasValidScope() {
		return fmt.Errorf("post must target exactly one of group or client")
	}
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid post ID format: %w", err)
	}

	var post models.Post
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("post not found")
		}
		return nil, err
	}
	return &post, nil
}

// GetPostsByScope retrieves non-deleted posts for a scope, newest first
func (r *MongoPostRepository) GetPostsByScope(ctx context.Context, scope models.Scope, limit int64) ([]models.Post, error) {
	var posts []models.Post
	findOptions := options.Find().SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, scopeFilter(scope), findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPostIDsByScope retrieves the IDs of all non-deleted posts in a scope
func (r *MongoPostRepository) GetPostIDsByScope(ctx context.Context, scope models.Scope) ([]string, error) {
	findOptions := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := r.collection.Find(ctx, scopeFilter(scope), findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID.Hex()
	}
	return ids, nil
}

// HasPosts reports whether the scope has any post on record, including
// soft-deleted ones
func (r *MongoPostRepository) HasPosts(ctx context.Context, scope models.Scope) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, scopeTargetFilter(scope), options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// SoftDeletePost flips the deleted flag; posts are never hard-deleted
func (r *MongoPostRepository) SoftDeletePost(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid post ID format: %w", err)
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{"deleted": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("post not found")
	}
	return nil
}
