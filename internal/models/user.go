package models

import (
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

// Role values for facility members
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User represents a staff member of a facility
type User struct {
	gorm.Model  `json:"-"`
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name"`
	Email       string `json:"email" gorm:"uniqueIndex"` // Ensure email is unique across all users
	Role        string `json:"role" gorm:"type:varchar(20);default:'staff'"`
	FacilityID  uint   `json:"facility_id" gorm:"index"`
	Password    string `json:"-"`                                         // Store hashed password, ignore for JSON serialization
	FirebaseUID string `json:"firebase_uid,omitempty" gorm:"uniqueIndex"` // Link to Firebase User UID
}

// UserCompact is the author shape embedded in feed entries
type UserCompact struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// ToCompact returns the reduced representation used in feed enrichment
func (u *User) ToCompact() UserCompact {
	return UserCompact{ID: u.ID, Name: u.Name, Role: u.Role}
}

// SignupRequest defines the request body for invite-based registration
type SignupRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=50"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	InviteToken string `json:"invite_token" validate:"required"`
}

// SignInRequest defines the request body for local sign in
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// FirebaseLoginRequest defines the request body for Firebase-backed login
type FirebaseLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

// AuthContext is the authenticated identity derived once per request
// by the auth middleware and read by every handler.
type AuthContext struct {
	UserID     uint
	FacilityID uint
	Role       string
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID     uint   `json:"user_id"`
	FacilityID uint   `json:"facility_id"`
	Role       string `json:"role"`
	Email      string `json:"email"`
	jwt.RegisteredClaims
}
