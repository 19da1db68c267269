package models

import "time"

// Invite is a single-use token that grants membership in a facility.
type Invite struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	Token      string     `json:"token" gorm:"uniqueIndex"`
	FacilityID uint       `json:"facility_id" gorm:"index"`
	Role       string     `json:"role" gorm:"type:varchar(20);default:'staff'"`
	ExpiresAt  time.Time  `json:"expires_at"`
	UsedAt     *time.Time `json:"used_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Usable reports whether the invite can still be redeemed at t.
func (i *Invite) Usable(t time.Time) bool {
	return i.UsedAt == nil && t.Before(i.ExpiresAt)
}

// CreateInviteRequest defines the request body for issuing an invite
type CreateInviteRequest struct {
	Role          string `json:"role" validate:"required,oneof=admin staff"`
	ExpiresInDays int    `json:"expires_in_days" validate:"omitempty,min=1,max=30"`
}
