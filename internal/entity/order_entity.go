package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusCancelled = "cancelled"
)

type Order struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyId uuid.UUID `gorm:"type:uuid;index"`
	StoreId   uuid.UUID `gorm:"type:uuid;index"`
	Channel   string
	Status    string
	Items     []OrderLine
	// TotalAmount is the sum of all line totals, rounded to 2 decimals.
	TotalAmount float64
	// SourceMessageId is the inbound channel message that produced this
	// order. One message id maps to at most one order.
	SourceMessageId string
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

type OrderLine struct {
	ProductId  uuid.UUID `json:"product_id"`
	Sku        string    `json:"sku"`
	Name       string    `json:"name"`
	Mention    string    `json:"mention"`
	Quantity   float64   `json:"quantity"`
	Unit       string    `json:"unit,omitempty"`
	UnitPrice  float64   `json:"unit_price"`
	LineTotal  float64   `json:"line_total"`
	Confidence float64   `json:"confidence"`
}
