// internal/models/order.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// BillingData is the snapshot taken at order creation. It is stored as one
// JSON blob; Coords stays nil until the client or the enrichment resolver
// supplies a location.
type BillingData struct {
	FirstName string       `json:"firstName,omitempty"`
	LastName  string       `json:"lastName,omitempty"`
	Email     string       `json:"email,omitempty"`
	Phone     string       `json:"phone,omitempty"`
	Address   string       `json:"address,omitempty"`
	City      string       `json:"city,omitempty"`
	Province  string       `json:"province,omitempty"`
	Zip       string       `json:"zip,omitempty"`
	Country   string       `json:"country,omitempty"`
	IP        string       `json:"ip,omitempty"`
	Coords    *Coordinates `json:"coords,omitempty"`
}

func (b BillingData) Value() (driver.Value, error) {
	return json.Marshal(b)
}

func (b *BillingData) Scan(value interface{}) error {
	if value == nil {
		*b = BillingData{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, b)
	case string:
		return json.Unmarshal([]byte(v), b)
	default:
		return fmt.Errorf("unsupported BillingData source type %T", value)
	}
}

type OrderFee struct {
	Name       string  `json:"name"`
	Fixed      float64 `json:"fixed"`
	Percentage float64 `json:"percentage"`
}

type FeeList []OrderFee

func (l FeeList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *FeeList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported FeeList source type %T", value)
	}
}

type Order struct {
	BaseModel
	PaymentMethods    StringList        `json:"payment_methods" gorm:"type:jsonb"`
	Status            OrderStatus       `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	FulfillmentStatus FulfillmentStatus `json:"fulfillment_status" gorm:"type:varchar(30);default:'unfulfilled';index"`
	CustomerID        *uuid.UUID        `json:"customer_id" gorm:"type:uuid;index"`
	Token             *string           `json:"token,omitempty" gorm:"size:64;index"`
	BillingData       BillingData       `json:"billing_data" gorm:"type:jsonb"`
	ShippingData      JSONB             `json:"shipping_data" gorm:"type:jsonb"`
	Fees              FeeList           `json:"fees" gorm:"type:jsonb"`
	Total             float64           `json:"total" gorm:"type:decimal(10,2);default:0"`

	// Relationships
	Customer *Customer   `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Items    []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
}

// OrderItem snapshots product and modifier pricing at purchase time; it is
// never re-derived from the live product.
type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID `json:"order_id" gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	Modifiers JSONB     `json:"modifiers" gorm:"type:jsonb"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	Fulfilled int       `json:"fulfilled" gorm:"default:0"`
	Cost      float64   `json:"cost" gorm:"type:decimal(10,2);not null"`
	BasePrice float64   `json:"base_price" gorm:"type:decimal(10,2);not null"`

	// Relationships
	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
