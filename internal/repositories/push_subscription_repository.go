package repositories

import (
	"fmt"
	"time"

	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PushSubscriptionRepository defines the interface for push subscription
// operations
type PushSubscriptionRepository interface {
	UpsertSubscription(sub *models.PushSubscription) error
	GetByFacilityExcluding(facilityID uint, excludeUserID uint) ([]models.PushSubscription, error)
	DeleteByID(id uint) error
	DeleteByEndpointForUser(endpoint string, userID uint) error
}

// PostgresPushSubscriptionRepository implements PushSubscriptionRepository
type PostgresPushSubscriptionRepository struct {
	db *gorm.DB
}

func NewPostgresPushSubscriptionRepository(db *gorm.DB) *PostgresPushSubscriptionRepository {
	return &PostgresPushSubscriptionRepository{db: db}
}

// UpsertSubscription inserts the subscription or, if the endpoint is already
// registered, refreshes its keys and owner. An endpoint belongs to exactly
// one user at a time.
func (r *PostgresPushSubscriptionRepository) UpsertSubscription(sub *models.PushSubscription) error {
	sub.UpdatedAt = time.Now()
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "facility_id", "p256dh", "auth", "updated_at"}),
	}).Create(sub).Error
}

// GetByFacilityExcluding retrieves the facility's subscriptions, leaving out
// those owned by excludeUserID
func (r *PostgresPushSubscriptionRepository) GetByFacilityExcluding(facilityID uint, excludeUserID uint) ([]models.PushSubscription, error) {
	var subs []models.PushSubscription
	err := r.db.Where("facility_id = ? AND user_id <> ?", facilityID, excludeUserID).Find(&subs).Error
	return subs, err
}

// DeleteByID removes a subscription row; used when delivery reports the
// endpoint as gone
func (r *PostgresPushSubscriptionRepository) DeleteByID(id uint) error {
	return r.db.Delete(&models.PushSubscription{}, id).Error
}

// DeleteByEndpointForUser removes a subscription only if it belongs to the
// given user
func (r *PostgresPushSubscriptionRepository) DeleteByEndpointForUser(endpoint string, userID uint) error {
	res := r.db.Where("endpoint = ? AND user_id = ?", endpoint, userID).Delete(&models.PushSubscription{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("subscription not found")
	}
	return nil
}
