package repositories

import (
	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReadMarkerRepository defines the interface for read marker operations
type ReadMarkerRepository interface {
	CreateMarkers(markers []models.ReadMarker) (int64, error)
	GetMarkedPostIDs(userID uint, postIDs []string) (map[string]bool, error)
	GetMarkersByPostIDs(postIDs []string) (map[string][]models.ReadMarker, error)
	CountMarked(userID uint, postIDs []string) (int64, error)
}

// PostgresReadMarkerRepository implements ReadMarkerRepository
type PostgresReadMarkerRepository struct {
	db *gorm.DB
}

// NewPostgresReadMarkerRepository creates a new PostgresReadMarkerRepository
func NewPostgresReadMarkerRepository(db *gorm.DB) *PostgresReadMarkerRepository {
	return &PostgresReadMarkerRepository{db: db}
}

// CreateMarkers inserts read markers, skipping rows that already exist.
// A concurrent insert racing past the caller's existence check hits the
// unique index and is dropped rather than erroring. Returns the number of
// newly inserted markers.
func (r *PostgresReadMarkerRepository) CreateMarkers(markers []models.ReadMarker) (int64, error) {
	if len(markers) == 0 {
		return 0, nil
	}
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&markers)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// GetMarkedPostIDs returns which of the given posts the user has already
// read, as a set
func (r *PostgresReadMarkerRepository) GetMarkedPostIDs(userID uint, postIDs []string) (map[string]bool, error) {
	result := make(map[string]bool)
	if len(postIDs) == 0 {
		return result, nil
	}
	var markers []models.ReadMarker
	if err := r.db.Where("user_id = ? AND post_id IN ?", userID, postIDs).Find(&markers).Error; err != nil {
		return nil, err
	}
	for _, m := range markers {
		result[m.PostID] = true
	}
	return result, nil
}

// GetMarkersByPostIDs retrieves all read markers for a set of posts, mapped
// back by post ID
func (r *PostgresReadMarkerRepository) GetMarkersByPostIDs(postIDs []string) (map[string][]models.ReadMarker, error) {
	result := make(map[string][]models.ReadMarker)
	if len(postIDs) == 0 {
		return result, nil
	}
	var markers []models.ReadMarker
	if err := r.db.Where("post_id IN ?", postIDs).Find(&markers).Error; err != nil {
		return nil, err
	}
	for _, m := range markers {
		result[m.PostID] = append(result[m.PostID], m)
	}
	return result, nil
}

// CountMarked counts how many of the given posts the user has read
func (r *PostgresReadMarkerRepository) CountMarked(userID uint, postIDs []string) (int64, error) {
	if len(postIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.Model(&models.ReadMarker{}).Where("user_id = ? AND post_id IN ?", userID, postIDs).Count(&count).Error
	return count, err
}
