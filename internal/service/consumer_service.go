// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"log"

	"ai-ordertaking-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub              *gochannel.GoChannel
	topicName           string
	conversationService IConversationService
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	conversationService IConversationService,
) IConsumerService {
	return &consumerService{
		pubSub:              pubSub,
		topicName:           topicName,
		conversationService: conversationService,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	// The webhook already acked the channel; a crash here must not take the
	// consumer loop down with it.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ERROR] Panic while processing inbound message: %v", r)
			msg.Ack()
		}
	}()

	var inbound dto.InboundMessage
	err := json.Unmarshal(msg.Payload, &inbound)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal inbound message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Processing inbound message %s (kind: %s)", inbound.MessageId, inbound.Kind)

	result, err := cs.conversationService.HandleInbound(ctx, &inbound)
	if err != nil {
		// The pipeline apologizes internally; redelivering would message the
		// sender twice. Ack and leave the root cause to the logs.
		log.Printf("[ERROR] Pipeline failed for message %s: %v", inbound.MessageId, err)
		msg.Ack()
		return
	}

	log.Printf("[SUCCESS] Message %s processed with outcome: %s", inbound.MessageId, result.Outcome)
	msg.Ack()
}
