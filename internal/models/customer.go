// internal/models/customer.go
package models

import "github.com/google/uuid"

type Customer struct {
	BaseModel
	FirstName   string `json:"first_name" gorm:"size:100"`
	LastName    string `json:"last_name" gorm:"size:100"`
	Email       string `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PhoneNumber string `json:"phone_number" gorm:"size:50"`
	Currency    string `json:"currency" gorm:"size:3;default:'usd'"`

	// Relationships
	Orders   []Order           `json:"orders,omitempty" gorm:"foreignKey:CustomerID"`
	Accounts []CustomerAccount `json:"-" gorm:"foreignKey:CustomerID"`
}

// CustomerAccount holds per-provider credentials. The "credentials" provider
// keeps a bcrypt hash under auth_meta.password.
type CustomerAccount struct {
	BaseModel
	CustomerID uuid.UUID `json:"customer_id" gorm:"type:uuid;not null;index"`
	Provider   string    `json:"provider" gorm:"size:50;not null"`
	AuthMeta   JSONB     `json:"-" gorm:"type:jsonb"`
}
