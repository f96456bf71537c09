package dto

import "ai-ordertaking-be/internal/constant"

// WhatsApp Cloud API webhook envelope. Only the fields the gateway reads are
// modeled; everything else is ignored on unmarshal.

type WebhookEnvelope struct {
	Object string         `json:"object"`
	Entry  []WebhookEntry `json:"entry"`
}

type WebhookEntry struct {
	Id      string          `json:"id"`
	Changes []WebhookChange `json:"changes"`
}

type WebhookChange struct {
	Field string       `json:"field"`
	Value WebhookValue `json:"value"`
}

type WebhookValue struct {
	MessagingProduct string           `json:"messaging_product"`
	Metadata         WebhookMetadata  `json:"metadata"`
	Contacts         []WebhookContact `json:"contacts"`
	Messages         []WebhookMessage `json:"messages"`
	Statuses         []WebhookStatus  `json:"statuses"`
}

type WebhookMetadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberId      string `json:"phone_number_id"`
}

type WebhookContact struct {
	WaId    string         `json:"wa_id"`
	Profile WebhookProfile `json:"profile"`
}

type WebhookProfile struct {
	Name string `json:"name"`
}

type WebhookMessage struct {
	From        string              `json:"from"`
	Id          string              `json:"id"`
	Timestamp   string              `json:"timestamp"`
	Type        string              `json:"type"`
	Text        *WebhookText        `json:"text,omitempty"`
	Audio       *WebhookMedia       `json:"audio,omitempty"`
	Image       *WebhookImage       `json:"image,omitempty"`
	Interactive *WebhookInteractive `json:"interactive,omitempty"`
}

type WebhookText struct {
	Body string `json:"body"`
}

type WebhookMedia struct {
	Id       string `json:"id"`
	MimeType string `json:"mime_type"`
}

type WebhookImage struct {
	Id       string `json:"id"`
	MimeType string `json:"mime_type"`
	Caption  string `json:"caption,omitempty"`
}

type WebhookInteractive struct {
	Type        string              `json:"type"`
	ButtonReply *WebhookReplyOption `json:"button_reply,omitempty"`
	ListReply   *WebhookReplyOption `json:"list_reply,omitempty"`
}

type WebhookReplyOption struct {
	Id    string `json:"id"`
	Title string `json:"title"`
}

type WebhookStatus struct {
	Id          string `json:"id"`
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	RecipientId string `json:"recipient_id"`
}

// Kind maps the wire-level type string onto the closed MessageKind set.
func (m *WebhookMessage) Kind() constant.MessageKind {
	switch m.Type {
	case "text":
		return constant.MessageKindText
	case "audio", "voice":
		return constant.MessageKindAudio
	case "image":
		return constant.MessageKindImage
	case "interactive":
		if m.Interactive == nil {
			return constant.MessageKindUnknown
		}
		switch m.Interactive.Type {
		case "button_reply":
			return constant.MessageKindInteractiveButton
		case "list_reply":
			return constant.MessageKindInteractiveList
		default:
			return constant.MessageKindUnknown
		}
	default:
		return constant.MessageKindUnknown
	}
}
