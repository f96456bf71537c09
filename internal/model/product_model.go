package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Product struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyId   uuid.UUID      `gorm:"type:uuid;not null;index;uniqueIndex:ux_products_company_sku"`
	Sku         string         `gorm:"type:varchar(64);not null;uniqueIndex:ux_products_company_sku"`
	Name        string         `gorm:"type:varchar(255);not null"`
	Category    string         `gorm:"type:varchar(128)"`
	SubCategory string         `gorm:"type:varchar(128)"`
	Unit        string         `gorm:"type:varchar(32)"`
	Price       float64        `gorm:"type:numeric(12,2);not null"`
	IsActive    bool           `gorm:"not null;default:true"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (Product) TableName() string {
	return "products"
}
