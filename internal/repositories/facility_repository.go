package repositories

import (
	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/models"
	"gorm.io/gorm"
)

// FacilityRepository defines lookups against the tenant entities
type FacilityRepository interface {
	GetFacilityByID(id uint) (*models.Facility, error)
	GetGroupByID(id uint) (*models.CareGroup, error)
	GetClientByID(id uint) (*models.Client, error)
}

// PostgresFacilityRepository implements FacilityRepository for PostgreSQL
type PostgresFacilityRepository struct {
	db *gorm.DB
}

// NewPostgresFacilityRepository creates a new PostgresFacilityRepository
func NewPostgresFacilityRepository(db *gorm.DB) *PostgresFacilityRepository {
	return &PostgresFacilityRepository{db: db}
}

// GetFacilityByID retrieves a facility by ID
func (r *PostgresFacilityRepository) GetFacilityByID(id uint) (*models.Facility, error) {
	var facility models.Facility
	if err := r.db.First(&facility, id).Error; err != nil {
		return nil, err
	}
	return &facility, nil
}

// GetGroupByID retrieves a care group by ID
func (r *PostgresFacilityRepository) GetGroupByID(id uint) (*models.CareGroup, error) {
	var group models.CareGroup
	if err := r.db.First(&group, id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// GetClientByID retrieves a client by ID
func (r *PostgresFacilityRepository) GetClientByID(id uint) (*models.Client, error) {
	var client models.Client
	if err := r.db.First(&client, id).Error; err != nil {
		return nil, err
	}
	return &client, nil
}
