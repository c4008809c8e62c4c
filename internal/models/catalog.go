// internal/models/catalog.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type StoreCategory struct {
	BaseModel
	Name    string `json:"name" gorm:"size:255;not null"`
	Slug    string `json:"slug" gorm:"size:255;uniqueIndex;not null"`
	Ordinal int    `json:"ordinal" gorm:"not null;default:0"`
	// No column default: the service always writes the flag explicitly, and a
	// default tag would make gorm drop a false value from the INSERT.
	Visible bool `json:"visible" gorm:"not null"`

	// Relationships
	Products []Product `json:"products,omitempty" gorm:"foreignKey:StoreCategoryID"`
}

type Product struct {
	BaseModel
	Name            string      `json:"name" gorm:"size:255;not null"`
	Slug            string      `json:"slug" gorm:"size:255;uniqueIndex;not null"`
	Price           float64     `json:"price" gorm:"type:decimal(10,2);not null"`
	Type            ProductType `json:"type" gorm:"type:varchar(20);default:'generic'"`
	MinQuantity     *int        `json:"min_quantity"`
	Public          bool        `json:"public" gorm:"default:false;index"`
	Description     string      `json:"description" gorm:"type:text"`
	Meta            JSONB       `json:"meta" gorm:"type:jsonb"`
	Archived        bool        `json:"archived" gorm:"default:false;index"`
	ArchivedAt      *time.Time  `json:"archived_at"`
	StoreCategoryID *uuid.UUID  `json:"store_category_id" gorm:"type:uuid;index"`

	// Relationships
	StoreCategory *StoreCategory    `json:"store_category,omitempty" gorm:"foreignKey:StoreCategoryID"`
	Modifiers     []ProductModifier `json:"modifiers,omitempty" gorm:"foreignKey:ProductID"`
}

// ProductModifier is a customization axis on a product (size, extras, ...).
// Modifiers are append/update only: rows are deactivated, never deleted.
type ProductModifier struct {
	BaseModel
	ProductID        uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	Name             string    `json:"name" gorm:"size:255;not null"`
	Type             string    `json:"type" gorm:"size:50"`
	DefaultValue     string    `json:"default_value" gorm:"size:255"`
	TemplateAccessor string    `json:"template_accessor" gorm:"size:255"`
	Active           bool      `json:"active" gorm:"not null"`
	Ordinal          int       `json:"-" gorm:"not null;default:0"`

	// Relationships
	Items []ProductModifierItem `json:"items" gorm:"foreignKey:ModifierID"`
}

type ProductModifierItem struct {
	BaseModel
	ModifierID uuid.UUID `json:"modifier_id" gorm:"type:uuid;not null;index"`
	Name       string    `json:"name" gorm:"size:255;not null"`
	Cost       float64   `json:"cost" gorm:"type:decimal(10,2);default:0"`
	Percentage bool      `json:"percentage" gorm:"default:false"`
	Active     bool      `json:"active" gorm:"not null"`
	Ordinal    int       `json:"-" gorm:"not null;default:0"`
	Meta       JSONB     `json:"meta" gorm:"type:jsonb"`
}
