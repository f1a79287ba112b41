// Package models defines the company document.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"hrms/internal/pkg/audit"
	"hrms/internal/pkg/messages"
)

// Company is the document a manager creates for their business. ManagerID is
// zero until the manager service answers with its correlation; nothing may
// assume it is set.
type Company struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ManagerID   int64              `bson:"managerId" json:"managerId"`
	CompanyName string             `bson:"companyName" json:"companyName"`
	PhoneNumber string             `bson:"phoneNumber" json:"phoneNumber"`
	InfoEmail   string             `bson:"infoEmail" json:"infoEmail"`
	Address     string             `bson:"address" json:"address"`
	Logo        string             `bson:"logo" json:"logo"`
	Revenue     float64            `bson:"revenue" json:"revenue"`
	Expense     float64            `bson:"expense" json:"expense"`
	Profit      float64            `bson:"profit" json:"profit"`
	Loss        float64            `bson:"loss" json:"loss"`
	NetIncome   float64            `bson:"netIncome" json:"netIncome"`
	Salaries    float64            `bson:"salaries" json:"salaries"`
	Employees   int                `bson:"employees" json:"employees"`
	Shifts      int                `bson:"shifts" json:"shifts"`
	Holidays    int                `bson:"holidays" json:"holidays"`
	Status      messages.Status    `bson:"status" json:"status"`
	audit.Fields `bson:",inline"`
}

// CompanySave carries the fields supplied when a manager records their
// company.
type CompanySave struct {
	CompanyName string
	PhoneNumber string
	InfoEmail   string
	Address     string
	Logo        string
	Revenue     float64
	Expense     float64
	Salaries    float64
	Employees   int
	Shifts      int
	Holidays    int
}

// CompanyUpdate carries PATCH semantics: nil fields stay untouched.
type CompanyUpdate struct {
	ID          string
	CompanyName *string
	PhoneNumber *string
	InfoEmail   *string
	Address     *string
	Logo        *string
	Revenue     *float64
	Expense     *float64
	Salaries    *float64
	Employees   *int
	Shifts      *int
	Holidays    *int
}
