// FILE: internal/controller/webhook_controller.go
package controller

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"strconv"
	"time"

	"ai-ordertaking-be/internal/constant"
	"ai-ordertaking-be/internal/dto"
	"ai-ordertaking-be/internal/pkg/serverutils"
	"ai-ordertaking-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IWebhookController interface {
	RegisterRoutes(r fiber.Router)
	Verify(ctx *fiber.Ctx) error
	Receive(ctx *fiber.Ctx) error
	Simulate(ctx *fiber.Ctx) error
}

type webhookController struct {
	verifyToken         string
	appSecret           string
	publisherService    service.IPublisherService
	conversationService service.IConversationService
}

func NewWebhookController(
	verifyToken string,
	appSecret string,
	publisherService service.IPublisherService,
	conversationService service.IConversationService,
) IWebhookController {
	return &webhookController{
		verifyToken:         verifyToken,
		appSecret:           appSecret,
		publisherService:    publisherService,
		conversationService: conversationService,
	}
}

func (c *webhookController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/webhook/v1")
	h.Get("", c.Verify)
	h.Post("", c.Receive)
	h.Post("simulate", serverutils.JwtMiddleware, c.Simulate)
}

// Verify answers the channel's subscription handshake: echo the challenge
// when the token matches, 403 otherwise.
func (c *webhookController) Verify(ctx *fiber.Ctx) error {
	mode := ctx.Query("hub.mode")
	token := ctx.Query("hub.verify_token")
	challenge := ctx.Query("hub.challenge")

	if mode == "subscribe" && token == c.verifyToken && challenge != "" {
		return ctx.SendString(challenge)
	}

	return ctx.Status(fiber.StatusForbidden).JSON(serverutils.ErrorResponse(fiber.StatusForbidden, "Verification failed"))
}

func (c *webhookController) Receive(ctx *fiber.Ctx) error {
	// 1. Signature check, only when an app secret is configured.
	if c.appSecret != "" {
		if !c.validSignature(ctx.Body(), ctx.Get("X-Hub-Signature-256")) {
			return ctx.Status(fiber.StatusForbidden).JSON(serverutils.ErrorResponse(fiber.StatusForbidden, "Invalid signature"))
		}
	}

	// 2. Whatever happens past this point, the channel gets its 200. A
	// non-200 only makes the channel redeliver what we already queued.
	var envelope dto.WebhookEnvelope
	if err := json.Unmarshal(ctx.Body(), &envelope); err != nil {
		log.Printf("[WARN] Malformed webhook payload: %v", err)
		return ctx.SendString("EVENT_RECEIVED")
	}

	c.enqueue(ctx, &envelope)

	return ctx.SendString("EVENT_RECEIVED")
}

func (c *webhookController) enqueue(ctx *fiber.Ctx, envelope *dto.WebhookEnvelope) {
	for _, entry := range envelope.Entry {
		for _, change := range entry.Changes {
			value := change.Value

			names := make(map[string]string, len(value.Contacts))
			for _, contact := range value.Contacts {
				names[contact.WaId] = contact.Profile.Name
			}

			for i := range value.Messages {
				m := &value.Messages[i]

				inbound := dto.InboundMessage{
					MessageId:     m.Id,
					From:          m.From,
					SenderName:    names[m.From],
					Kind:          m.Kind(),
					PhoneNumberId: value.Metadata.PhoneNumberId,
					ReceivedAt:    parseWebhookTimestamp(m.Timestamp),
				}

				if m.Text != nil {
					inbound.Text = m.Text.Body
				}
				if m.Audio != nil {
					inbound.MediaId = m.Audio.Id
					inbound.MimeType = m.Audio.MimeType
				}
				if m.Image != nil {
					inbound.MediaId = m.Image.Id
					inbound.MimeType = m.Image.MimeType
					if m.Image.Caption != "" {
						inbound.Text = m.Image.Caption
					}
				}
				if m.Interactive != nil {
					reply := m.Interactive.ButtonReply
					if reply == nil {
						reply = m.Interactive.ListReply
					}
					if reply != nil {
						inbound.InteractiveId = reply.Id
						inbound.InteractiveTitle = reply.Title
					}
				}

				c.publish(ctx, &inbound)
			}

			// Delivery receipts ride the same pipeline so they reach the
			// conversation log, they just never produce a reply.
			for _, status := range value.Statuses {
				c.publish(ctx, &dto.InboundMessage{
					MessageId:  status.Id,
					From:       status.RecipientId,
					Kind:       constant.MessageKindStatus,
					ReceivedAt: parseWebhookTimestamp(status.Timestamp),
				})
			}
		}
	}
}

func (c *webhookController) publish(ctx *fiber.Ctx, inbound *dto.InboundMessage) {
	payload, err := json.Marshal(inbound)
	if err != nil {
		log.Printf("[ERROR] Failed to marshal inbound message %s: %v", inbound.MessageId, err)
		return
	}

	if err := c.publisherService.Publish(ctx.Context(), payload); err != nil {
		log.Printf("[ERROR] Failed to enqueue inbound message %s: %v", inbound.MessageId, err)
	}
}

// Simulate runs a text message through the pipeline synchronously. Staff
// only; meant for checking catalog matching without a phone in hand.
func (c *webhookController) Simulate(ctx *fiber.Ctx) error {
	var req dto.SimulateMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	err := serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	msg := dto.InboundMessage{
		MessageId:  "sim-" + uuid.NewString(),
		From:       req.Phone,
		Kind:       constant.MessageKindText,
		Text:       req.Text,
		ReceivedAt: time.Now(),
	}

	result, err := c.conversationService.HandleInbound(ctx.Context(), &msg)
	if err != nil {
		return err
	}

	res := dto.SimulateMessageResponse{
		Outcome:       result.Outcome,
		Reply:         result.Reply,
		Clarification: result.Clarification,
	}
	if result.StoreId != nil {
		res.StoreId = result.StoreId.String()
	}
	if result.OrderId != nil {
		res.OrderId = result.OrderId.String()
	}

	return ctx.JSON(serverutils.SuccessResponse("Success simulate message", res))
}

func (c *webhookController) validSignature(body []byte, header string) bool {
	const prefix = "sha256="
	if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
		return false
	}

	mac := hmac.New(sha256.New, []byte(c.appSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(header[len(prefix):]))
}

func parseWebhookTimestamp(ts string) time.Time {
	if secs, err := strconv.ParseInt(ts, 10, 64); err == nil && secs > 0 {
		return time.Unix(secs, 0)
	}
	return time.Now()
}
