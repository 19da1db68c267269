package models

import "time"

// PushSubscription holds the information for a browser push subscription.
// Endpoint is globally unique; re-subscription upserts by endpoint and may
// reassign the row to the new owner.
type PushSubscription struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"index"`
	FacilityID uint      `json:"facility_id" gorm:"index"`
	Endpoint   string    `json:"endpoint" gorm:"uniqueIndex"`
	P256dh     string    `json:"p256dh" gorm:"column:p256dh;not null"`
	Auth       string    `json:"auth" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SubscribeRequest defines the request body for registering a push endpoint
type SubscribeRequest struct {
	Endpoint string `json:"endpoint" validate:"required,url"`
	Keys     struct {
		P256dh string `json:"p256dh" validate:"required"`
		Auth   string `json:"auth" validate:"required"`
	} `json:"keys"`
}

// UnsubscribeRequest defines the request body for removing a push endpoint
type UnsubscribeRequest struct {
	Endpoint string `json:"endpoint" validate:"required"`
}

// PushPayload is the notification content delivered to subscribers
type PushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
}
