// Package models defines the authoritative identity record and the inputs
// of the registration flows.
package models

import (
	"hrms/internal/pkg/audit"
	"hrms/internal/pkg/messages"
)

// Identity is the source of truth for credentials, role and account
// lifecycle. It is never hard-deleted; Status moves to DELETED instead.
type Identity struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Email       string `gorm:"uniqueIndex;size:254" json:"email"`
	PhoneNumber string `gorm:"uniqueIndex;size:32" json:"phoneNumber"`
	// IdentityNumber is set only on company registers and provisioned
	// accounts, so uniqueness for it is enforced by the service pre-check,
	// not by an index over the empty values.
	IdentityNumber string           `gorm:"index;size:32" json:"identityNumber"`
	PasswordHash   string           `json:"-"`
	Name           string           `json:"name"`
	Surname        string           `json:"surname"`
	Role           messages.Role    `gorm:"size:16" json:"role"`
	Status         messages.Status  `gorm:"size:16" json:"status"`
	Gender         messages.Gender  `gorm:"size:16" json:"gender"`
	audit.Fields
}

// GuestRegistration is the input of a guest self-registration.
type GuestRegistration struct {
	Name        string
	Surname     string
	Email       string
	Password    string
	PhoneNumber string
	Gender      messages.Gender
}

// CompanyRegistration is the input of a manager self-registration together
// with the company they will manage.
type CompanyRegistration struct {
	Name           string
	Surname        string
	Email          string
	Password       string
	PhoneNumber    string
	IdentityNumber string
	Address        string
	DateOfBirth    string
	CompanyName    string
	Gender         messages.Gender
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	ID    int64         `json:"id"`
	Token string        `json:"token"`
	Role  messages.Role `json:"role"`
}
