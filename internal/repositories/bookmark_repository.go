package repositories

import (
	"fmt"

	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/models"
	"gorm.io/gorm"
)

// BookmarkRepository defines the interface for bookmark operations
type BookmarkRepository interface {
	SaveBookmark(bookmark *models.Bookmark) error
	RemoveBookmark(userID uint, postID string) error
	IsBookmarked(userID uint, postID string) (bool, error)
	GetBookmarksByUser(userID uint) ([]models.Bookmark, error)
	GetBookmarkedPostIDs(userID uint, postIDs []string) (map[string]bool, error)
}

// PostgresBookmarkRepository implements BookmarkRepository
type PostgresBookmarkRepository struct {
	db *gorm.DB
}

func NewPostgresBookmarkRepository(db *gorm.DB) *PostgresBookmarkRepository {
	return &PostgresBookmarkRepository{db: db}
}

func (r *PostgresBookmarkRepository) SaveBookmark(bookmark *models.Bookmark) error {
	return r.db.Create(bookmark).Error
}

func (r *PostgresBookmarkRepository) RemoveBookmark(userID uint, postID string) error {
	res := r.db.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Bookmark{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("bookmark not found")
	}
	return nil
}

func (r *PostgresBookmarkRepository) IsBookmarked(userID uint, postID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Bookmark{}).Where("user_id = ? AND post_id = ?", userID, postID).Count(&count).Error
	return count > 0, err
}

func (r *PostgresBookmarkRepository) GetBookmarksByUser(userID uint) ([]models.Bookmark, error) {
	var bookmarks []models.Bookmark
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&bookmarks).Error
	return bookmarks, err
}

func (r *PostgresBookmarkRepository) GetBookmarkedPostIDs(userID uint, postIDs []string) (map[string]bool, error) {
	result := make(map[string]bool)
	if len(postIDs) == 0 {
		return result, nil
	}
	var bookmarks []models.Bookmark
	err := r.db.Where("user_id = ? AND post_id IN ?", userID, postIDs).Find(&bookmarks).Error
	if err != nil {
		return nil, err
	}
	for _, b := range bookmarks {
		result[b.PostID] = true
	}
	return result, nil
}
