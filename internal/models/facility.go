package models

import "time"

// Facility is the tenant boundary; every row in the system is scoped to one.
type Facility struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CareGroup is a group of clients inside a facility; one of the two post scopes.
type CareGroup struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	FacilityID uint      `json:"facility_id" gorm:"index"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
}

// Client is a person the facility cares for; the other post scope.
type Client struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FacilityID  uint      `json:"facility_id" gorm:"index"`
	Name        string    `json:"name"`
	CareGroupID uint      `json:"care_group_id" gorm:"index"`
	CreatedAt   time.Time `json:"created_at"`
}
