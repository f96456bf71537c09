package dto

import (
	"time"

	"ai-ordertaking-be/internal/constant"

	"github.com/google/uuid"
)

// InboundMessage is the decoded unit of work handed from the webhook handler
// to the pipeline consumer. The handler acks the channel first, then the
// consumer processes one of these at a time.
type InboundMessage struct {
	MessageId        string               `json:"message_id"`
	From             string               `json:"from"`
	SenderName       string               `json:"sender_name,omitempty"`
	Kind             constant.MessageKind `json:"kind"`
	Text             string               `json:"text,omitempty"`
	MediaId          string               `json:"media_id,omitempty"`
	MimeType         string               `json:"mime_type,omitempty"`
	InteractiveId    string               `json:"interactive_id,omitempty"`
	InteractiveTitle string               `json:"interactive_title,omitempty"`
	PhoneNumberId    string               `json:"phone_number_id,omitempty"`
	ReceivedAt       time.Time            `json:"received_at"`
}

// ConversationResult is what one pipeline run produced. The reply has already
// been sent by the time this is returned; it is kept for logging and for the
// synchronous simulate endpoint.
type ConversationResult struct {
	Outcome       string                `json:"outcome"`
	Reply         string                `json:"reply,omitempty"`
	Language      string                `json:"language,omitempty"`
	StoreId       *uuid.UUID            `json:"store_id,omitempty"`
	OrderId       *uuid.UUID            `json:"order_id,omitempty"`
	Clarification *ClarificationPayload `json:"clarification,omitempty"`
}

type SimulateMessageRequest struct {
	Phone string `json:"phone" validate:"required,min=8,max=20"`
	Text  string `json:"text" validate:"required,min=1"`
}

type SimulateMessageResponse struct {
	Outcome       string                `json:"outcome"`
	Reply         string                `json:"reply,omitempty"`
	StoreId       string                `json:"store_id,omitempty"`
	OrderId       string                `json:"order_id,omitempty"`
	Clarification *ClarificationPayload `json:"clarification,omitempty"`
}
