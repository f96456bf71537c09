package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Order struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyId       uuid.UUID      `gorm:"type:uuid;not null;index"`
	StoreId         uuid.UUID      `gorm:"type:uuid;not null;index"`
	Channel         string         `gorm:"type:varchar(32);not null;default:'whatsapp'"`
	Status          string         `gorm:"type:varchar(32);not null;default:'pending'"`
	Items           datatypes.JSON `gorm:"type:jsonb;not null"`
	TotalAmount     float64        `gorm:"type:numeric(12,2);not null"`
	SourceMessageId string         `gorm:"type:varchar(128);not null;uniqueIndex:ux_orders_source_message"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
}

func (Order) TableName() string {
	return "orders"
}
