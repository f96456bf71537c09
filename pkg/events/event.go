package events

import (
	"time"

	"github.com/google/uuid"
)

// EventOrderCreated is published once per order row written. Fulfillment
// consumers key on it to start picking.
const EventOrderCreated = "ORDER_CREATED"

// Event defines the contract for all bus events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "ORDER_CREATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the plain implementation used for everything published today.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewOrderCreated builds the ORDER_CREATED event for one persisted order.
// The payload carries ids and totals only; consumers that need line items
// read the orders table.
func NewOrderCreated(orderId, companyId, storeId uuid.UUID, totalAmount float64, itemCount int, sourceMessageId string) BaseEvent {
	return BaseEvent{
		Type: EventOrderCreated,
		Data: map[string]interface{}{
			"order_id":          orderId,
			"company_id":        companyId,
			"store_id":          storeId,
			"total_amount":      totalAmount,
			"item_count":        itemCount,
			"source_message_id": sourceMessageId,
		},
		OccurredAt: time.Now(),
	}
}
