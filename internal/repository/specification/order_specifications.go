package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByStoreId filters orders belonging to one store.
type ByStoreId struct {
	StoreId uuid.UUID
}

func (s ByStoreId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("store_id = ?", s.StoreId)
}

// BySourceMessageId looks up the order created from one inbound channel
// message. This is the idempotency probe for webhook redeliveries.
type BySourceMessageId struct {
	MessageId string
}

func (s BySourceMessageId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("source_message_id = ?", s.MessageId)
}

// ByStatus filters orders by lifecycle status.
type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}
