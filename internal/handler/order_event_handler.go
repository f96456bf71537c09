// FILE: internal/handler/order_event_handler.go
package handler

import (
	"context"

	"ai-ordertaking-be/internal/pkg/logger"
	"ai-ordertaking-be/pkg/events"
	pktNats "ai-ordertaking-be/pkg/nats"
)

// OrderEventHandler is the in-process stand-in for the fulfillment side: it
// drains ORDER_CREATED events off the bus and writes them to the isolated
// order log, so a missed downstream consumer never blocks the stream.
type OrderEventHandler struct {
	subscriber *pktNats.Subscriber
	logger     logger.ILogger
}

func NewOrderEventHandler(subscriber *pktNats.Subscriber, log logger.ILogger) *OrderEventHandler {
	return &OrderEventHandler{
		subscriber: subscriber,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (h *OrderEventHandler) Start() {
	// Durable consumer so restarts resume where the stream left off
	err := h.subscriber.Subscribe("events.ORDER_CREATED", "order-event-logger", h.handleEvent)
	if err != nil {
		h.logger.Error("OrderEvents", "Failed to start order event subscriber", map[string]interface{}{"error": err})
		return
	}
	h.logger.Info("OrderEvents", "Order event log started, listening to events.ORDER_CREATED", nil)
}

func (h *OrderEventHandler) handleEvent(ctx context.Context, event events.Event) error {
	h.logger.Info("OrderEvents", "order created", event.Payload())
	return nil
}
