// Package models defines the aggregated user document.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"hrms/internal/pkg/audit"
	"hrms/internal/pkg/messages"
)

// UserInfo is the cross-role directory entry derived from the registration
// fan-out. AuthID is the correlation key for every record that came over the
// bus; directly inserted employees carry a username instead.
type UserInfo struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AuthID      int64              `bson:"authId" json:"authId"`
	Username    string             `bson:"username,omitempty" json:"username,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Surname     string             `bson:"surname" json:"surname"`
	Email       string             `bson:"email" json:"email"`
	PhoneNumber string             `bson:"phoneNumber" json:"phoneNumber"`
	Role        messages.Role      `bson:"role" json:"role"`
	Gender      messages.Gender    `bson:"gender" json:"gender"`
	Status      messages.Status    `bson:"status" json:"status"`
	audit.Fields `bson:",inline"`
}

// ProfileInfoUpdate carries PATCH semantics keyed by the auth correlation.
type ProfileInfoUpdate struct {
	AuthID      int64
	Name        *string
	Surname     *string
	Email       *string
	PhoneNumber *string
	Gender      *messages.Gender
}

// EmployeeInsert is the direct roster insert for employees that never pass
// through registration.
type EmployeeInsert struct {
	Username    string
	Name        string
	Surname     string
	Email       string
	PhoneNumber string
	Gender      messages.Gender
}

// HeadCount is the staffing summary across managers and employees.
type HeadCount struct {
	Employees int64 `json:"employees"`
	Managers  int64 `json:"managers"`
	Total     int64 `json:"total"`
}
