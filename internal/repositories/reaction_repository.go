package repositories

import (
	"fmt"

	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/models"
	"gorm.io/gorm"
)

// ReactionRepository defines the interface for reaction data operations
type ReactionRepository interface {
	CreateReaction(reaction *models.Reaction) error
	DeleteReaction(postID string, userID uint, kind string) error
	HasReaction(postID string, userID uint, kind string) (bool, error)
	GetReactionsByPostID(postID string) ([]models.Reaction, error)
	GetReactionsByPostIDs(postIDs []string) (map[string][]models.Reaction, error)
}

// PostgresReactionRepository implements ReactionRepository for PostgreSQL
type PostgresReactionRepository struct {
	db *gorm.DB
}

// NewPostgresReactionRepository creates a new PostgresReactionRepository
func NewPostgresReactionRepository(db *gorm.DB) *PostgresReactionRepository {
	return &PostgresReactionRepository{db: db}
}

// CreateReaction creates a new reaction in PostgreSQL
func (r *PostgresReactionRepository) CreateReaction(reaction *models.Reaction) error {
	return r.db.Create(reaction).Error
}

// DeleteReaction deletes a reaction from PostgreSQL
func (r *PostgresReactionRepository) DeleteReaction(postID string, userID uint, kind string) error {
	res := r.db.Where("post_id = ? AND user_id = ? AND kind = ?", postID, userID, kind).Delete(&models.Reaction{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("reaction not found")
	}
	return nil
}

// HasReaction checks whether a reaction of this kind exists for (post, user)
func (r *PostgresReactionRepository) HasReaction(postID string, userID uint, kind string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Reaction{}).Where("post_id = ? AND user_id = ? AND kind = ?", postID, userID, kind).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetReactionsByPostID retrieves all reactions for a specific post
func (r *PostgresReactionRepository) GetReactionsByPostID(postID string) ([]models.Reaction, error) {
	var reactions []models.Reaction
	if err := r.db.Where("post_id = ?", postID).Find(&reactions).Error; err != nil {
		return nil, err
	}
	return reactions, nil
}

// GetReactionsByPostIDs retrieves reactions for a set of posts, mapped back
// by post ID
func (r *PostgresReactionRepository) GetReactionsByPostIDs(postIDs []string) (map[string][]models.Reaction, error) {
	result := make(map[string][]models.Reaction)
	if len(postIDs) == 0 {
		return result, nil
	}
	var reactions []models.Reaction
	if err := r.db.Where("post_id IN ?", postIDs).Find(&reactions).Error; err != nil {
		return nil, err
	}
	for _, reaction := range reactions {
		result[reaction.PostID] = append(result[reaction.PostID], reaction)
	}
	return result, nil
}
