package entity

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyId   uuid.UUID `gorm:"type:uuid;index"`
	Sku         string
	Name        string
	Category    string
	SubCategory string
	Unit        string
	Price       float64
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
