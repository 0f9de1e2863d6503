package models

import (
	"strings"
	"time"
)

// PresenceStatus is a user's online/offline marker.
type PresenceStatus string

const (
	StatusOnline  PresenceStatus = "online"
	StatusOffline PresenceStatus = "offline"
)

// User is an account record keyed by email.
type User struct {
	ID         string         `json:"_id,omitempty" bson:"_id,omitempty" gorm:"-"`
	Email      string         `json:"email" bson:"email" gorm:"primaryKey;size:255"`
	Name       string         `json:"name" bson:"name" gorm:"size:255"`
	Avatar     string         `json:"avatar" bson:"avatar" gorm:"size:1024"`
	Phone      string         `json:"phone" bson:"phone" gorm:"size:64"`
	University string         `json:"university" bson:"university" gorm:"size:255"`
	Status     PresenceStatus `json:"status" bson:"status" gorm:"size:16"`
	CreatedAt  time.Time      `json:"createdAt" bson:"createdAt"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// Validate checks that the user carries its identity key.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Email) == "" {
		return validationError([]string{"email is required"})
	}
	return nil
}

// UserUpdate holds the profile fields a user may edit.
type UserUpdate struct {
	Name       string         `json:"name"`
	Phone      string         `json:"phone"`
	University string         `json:"university"`
	Avatar     string         `json:"avatar"`
	Status     PresenceStatus `json:"status"`
}

// Normalize applies the default presence status.
func (u *UserUpdate) Normalize() {
	if u.Status == "" {
		u.Status = StatusOffline
	}
}

// Fields returns the update as column/field name pairs.
func (u *UserUpdate) Fields() map[string]interface{} {
	return map[string]interface{}{
		"name":       u.Name,
		"phone":      u.Phone,
		"university": u.University,
		"avatar":     u.Avatar,
		"status":     u.Status,
	}
}

// PublicProfile is the subset of a user shown to other users.
type PublicProfile struct {
	ID     string         `json:"_id,omitempty"`
	Name   string         `json:"name"`
	Email  string         `json:"email"`
	Avatar string         `json:"avatar"`
	Status PresenceStatus `json:"status"`
}

// Public projects the user onto its public profile.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Avatar: u.Avatar,
		Status: u.Status,
	}
}
