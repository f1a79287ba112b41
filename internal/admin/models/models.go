// Package models defines the admin profile entity.
package models

import (
	"hrms/internal/pkg/audit"
	"hrms/internal/pkg/messages"
)

// Admin is a provisioned back-office profile. AuthID is zero until auth
// replies with the identity correlation.
type Admin struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	AuthID         int64           `gorm:"index" json:"authId"`
	Email          string          `gorm:"uniqueIndex;size:254" json:"email"`
	PhoneNumber    string          `gorm:"uniqueIndex;size:32" json:"phoneNumber"`
	IdentityNumber string          `gorm:"uniqueIndex;size:32" json:"identityNumber"`
	Name           string          `json:"name"`
	Surname        string          `json:"surname"`
	PasswordHash   string          `json:"-"`
	Address        string          `json:"address"`
	DateOfBirth    string          `json:"dateOfBirth"`
	Status         messages.Status `gorm:"size:16" json:"status"`
	Role           messages.Role   `gorm:"size:16" json:"role"`
	Gender         messages.Gender `gorm:"size:16" json:"gender"`
	audit.Fields
}

// AdminSave carries the fields supplied when provisioning an admin. Admins
// choose their own password.
type AdminSave struct {
	Name           string
	Surname        string
	Email          string
	PhoneNumber    string
	IdentityNumber string
	Password       string
	Address        string
	DateOfBirth    string
	Gender         messages.Gender
}

// AdminUpdate carries PATCH semantics: nil fields stay untouched.
type AdminUpdate struct {
	ID             int64
	Name           *string
	Surname        *string
	Email          *string
	PhoneNumber    *string
	IdentityNumber *string
	Password       *string
	Address        *string
	DateOfBirth    *string
	Gender         *messages.Gender
}
