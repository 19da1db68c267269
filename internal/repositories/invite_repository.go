package repositories

import (
	"time"

	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/models"
	"gorm.io/gorm"
)

// InviteRepository defines the interface for invite token operations
type InviteRepository interface {
	CreateInvite(invite *models.Invite) error
	GetByToken(token string) (*models.Invite, error)
	MarkUsed(id uint) error
}

// PostgresInviteRepository implements InviteRepository
type PostgresInviteRepository struct {
	db *gorm.DB
}

func NewPostgresInviteRepository(db *gorm.DB) *PostgresInviteRepository {
	return &PostgresInviteRepository{db: db}
}

func (r *PostgresInviteRepository) CreateInvite(invite *models.Invite) error {
	return r.db.Create(invite).Error
}

func (r *PostgresInviteRepository) GetByToken(token string) (*models.Invite, error) {
	var invite models.Invite
	if err := r.db.Where("token = ?", token).First(&invite).Error; err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r *PostgresInviteRepository) MarkUsed(id uint) error {
	now := time.Now()
	return r.db.Model(&models.Invite{}).Where("id = ?", id).Update("used_at", &now).Error
}
