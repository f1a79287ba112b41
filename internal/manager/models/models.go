// Package models defines the manager profile entity.
package models

import (
	"hrms/internal/pkg/audit"
	"hrms/internal/pkg/messages"
)

// Manager is the profile derived from a company registration. CompanyID is
// empty until the company service back-fills it after the manager saves a
// company; nothing may assume it is set.
type Manager struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	AuthID         int64           `gorm:"uniqueIndex" json:"authId"`
	CompanyID      string          `gorm:"index;size:64" json:"companyId"`
	Email          string          `gorm:"uniqueIndex;size:254" json:"email"`
	PhoneNumber    string          `gorm:"uniqueIndex;size:32" json:"phoneNumber"`
	IdentityNumber string          `gorm:"uniqueIndex;size:32" json:"identityNumber"`
	Name           string          `json:"name"`
	Surname        string          `json:"surname"`
	PasswordHash   string          `json:"-"`
	Address        string          `json:"address"`
	CompanyName    string          `gorm:"index;size:128" json:"companyName"`
	Title          string          `json:"title"`
	Salary         float64         `json:"salary"`
	Photo          string          `json:"photo"`
	DateOfBirth    string          `json:"dateOfBirth"`
	Status         messages.Status `gorm:"size:16" json:"status"`
	Role           messages.Role   `gorm:"size:16" json:"role"`
	Gender         messages.Gender `gorm:"size:16" json:"gender"`
	audit.Fields
}

// ManagerUpdate carries PATCH semantics: nil fields stay untouched.
type ManagerUpdate struct {
	ID             int64
	Name           *string
	Surname        *string
	Email          *string
	PhoneNumber    *string
	IdentityNumber *string
	Password       *string
	Address        *string
	CompanyName    *string
	Title          *string
	Salary         *float64
	Photo          *string
	DateOfBirth    *string
	Gender         *messages.Gender
}
