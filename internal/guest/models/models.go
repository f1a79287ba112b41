// Package models defines the guest profile entity.
package models

import (
	"hrms/internal/pkg/audit"
	"hrms/internal/pkg/messages"
)

// Guest is the profile record derived from a guest registration consumed
// from auth. AuthID is known at creation because the identity record is
// created first.
type Guest struct {
	ID           int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	AuthID       int64           `gorm:"uniqueIndex" json:"authId"`
	Email        string          `gorm:"uniqueIndex;size:254" json:"email"`
	PhoneNumber  string          `gorm:"uniqueIndex;size:32" json:"phoneNumber"`
	Name         string          `json:"name"`
	Surname      string          `json:"surname"`
	PasswordHash string          `json:"-"`
	Status       messages.Status `gorm:"size:16" json:"status"`
	Role         messages.Role   `gorm:"size:16" json:"role"`
	Gender       messages.Gender `gorm:"size:16" json:"gender"`
	audit.Fields
}

// GuestUpdate carries the PATCH semantics of a guest update: nil fields are
// left untouched.
type GuestUpdate struct {
	ID          int64
	Name        *string
	Surname     *string
	Email       *string
	PhoneNumber *string
	Password    *string
	Gender      *messages.Gender
}
