// Package models defines the employee profile entity.
package models

import (
	"hrms/internal/pkg/audit"
	"hrms/internal/pkg/messages"
)

// Employee is an administratively provisioned profile. AuthID is zero until
// auth creates the identity and replies over the bus; nothing may assume it
// is set.
type Employee struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	AuthID         int64           `gorm:"index" json:"authId"`
	Email          string          `gorm:"uniqueIndex;size:254" json:"email"`
	PersonalEmail  string          `gorm:"size:254" json:"personalEmail"`
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

// EmployeeCreate carries the fields an admin supplies when provisioning an
// employee. The password is generated, never supplied.
type EmployeeCreate struct {
	Name           string
	Surname        string
	Email          string
	PersonalEmail  string
	PhoneNumber    string
	IdentityNumber string
	Address        string
	CompanyName    string
	Title          string
	Salary         float64
	Photo          string
	DateOfBirth    string
	Gender         messages.Gender
}

// EmployeeUpdate carries PATCH semantics: nil fields stay untouched.
type EmployeeUpdate struct {
	ID             int64
	Name           *string
	Surname        *string
	Email          *string
	PersonalEmail  *string
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
