package specification

import "gorm.io/gorm"

// BySku filters by exact SKU code, case-insensitive.
type BySku struct {
	Sku string
}

func (s BySku) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("LOWER(sku) = LOWER(?)", s.Sku)
}
