package controller

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"ai-ordertaking-be/internal/constant"
	"ai-ordertaking-be/internal/dto"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakePublisher struct {
	payloads [][]byte
	err      error
}

func (f *fakePublisher) Publish(ctx context.Context, payload []byte) error {
	if f.err != nil {
		return f.err
	}
	f.payloads = append(f.payloads, payload)
	return nil
}

func (f *fakePublisher) inbound(t *testing.T) []dto.InboundMessage {
	t.Helper()
	out := make([]dto.InboundMessage, 0, len(f.payloads))
	for _, p := range f.payloads {
		var m dto.InboundMessage
		if err := json.Unmarshal(p, &m); err != nil {
			t.Fatalf("enqueued payload is not an InboundMessage: %v", err)
		}
		out = append(out, m)
	}
	return out
}

type fakeConversationService struct {
	handled []*dto.InboundMessage
	result  *dto.ConversationResult
	err     error
}

func (f *fakeConversationService) HandleInbound(ctx context.Context, msg *dto.InboundMessage) (*dto.ConversationResult, error) {
	f.handled = append(f.handled, msg)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func newWebhookApp(verifyToken, appSecret string, pub *fakePublisher, convo *fakeConversationService) *fiber.App {
	app := fiber.New()
	api := app.Group("/api")
	NewWebhookController(verifyToken, appSecret, pub, convo).RegisterRoutes(api)
	return app
}

func TestWebhookVerify(t *testing.T) {
	app := newWebhookApp("vt-123", "", &fakePublisher{}, &fakeConversationService{})

	t.Run("echoes challenge on token match", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/webhook/v1?hub.mode=subscribe&hub.verify_token=vt-123&hub.challenge=4242", nil)
		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "4242", string(body))
	})

	t.Run("rejects wrong token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/webhook/v1?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=4242", nil)
		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 403, resp.StatusCode)
	})

	t.Run("rejects missing challenge", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/webhook/v1?hub.mode=subscribe&hub.verify_token=vt-123", nil)
		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 403, resp.StatusCode)
	})
}

func webhookEnvelope() dto.WebhookEnvelope {
	return dto.WebhookEnvelope{
		Object: "whatsapp_business_account",
		Entry: []dto.WebhookEntry{{
			Id: "entry-1",
			Changes: []dto.WebhookChange{{
				Field: "messages",
				Value: dto.WebhookValue{
					MessagingProduct: "whatsapp",
					Metadata:         dto.WebhookMetadata{PhoneNumberId: "15550001111"},
					Contacts: []dto.WebhookContact{
						{WaId: "919876543210", Profile: dto.WebhookProfile{Name: "Sharma Kirana"}},
					},
					Messages: []dto.WebhookMessage{
						{
							From: "919876543210", Id: "wamid.text-1", Timestamp: "1700000000",
							Type: "text", Text: &dto.WebhookText{Body: "2 maggi aur 1 kg cheeni"},
						},
						{
							From: "919876543210", Id: "wamid.img-1", Timestamp: "1700000001",
							Type:  "image",
							Image: &dto.WebhookImage{Id: "media-7", MimeType: "image/jpeg", Caption: "meri list"},
						},
						{
							From: "919876543210", Id: "wamid.btn-1", Timestamp: "1700000002",
							Type: "interactive",
							Interactive: &dto.WebhookInteractive{
								Type:        "button_reply",
								ButtonReply: &dto.WebhookReplyOption{Id: "confirm_draft", Title: "Confirm"},
							},
						},
					},
					Statuses: []dto.WebhookStatus{
						{Id: "wamid.text-0", Status: "delivered", Timestamp: "1700000003", RecipientId: "919876543210"},
					},
				},
			}},
		}},
	}
}

func TestWebhookReceiveEnqueues(t *testing.T) {
	pub := &fakePublisher{}
	convo := &fakeConversationService{}
	app := newWebhookApp("vt-123", "", pub, convo)

	payload, _ := json.Marshal(webhookEnvelope())
	req := httptest.NewRequest("POST", "/api/webhook/v1", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "EVENT_RECEIVED", string(body))

	// Three messages plus one delivery status, decoded and queued in order
	msgs := pub.inbound(t)
	assert.Len(t, msgs, 4)

	assert.Equal(t, constant.MessageKindText, msgs[0].Kind)
	assert.Equal(t, "2 maggi aur 1 kg cheeni", msgs[0].Text)
	assert.Equal(t, "Sharma Kirana", msgs[0].SenderName)
	assert.Equal(t, "15550001111", msgs[0].PhoneNumberId)
	assert.Equal(t, time.Unix(1700000000, 0).Unix(), msgs[0].ReceivedAt.Unix())

	assert.Equal(t, constant.MessageKindImage, msgs[1].Kind)
	assert.Equal(t, "media-7", msgs[1].MediaId)
	assert.Equal(t, "image/jpeg", msgs[1].MimeType)
	assert.Equal(t, "meri list", msgs[1].Text)

	assert.Equal(t, constant.MessageKindInteractiveButton, msgs[2].Kind)
	assert.Equal(t, "confirm_draft", msgs[2].InteractiveId)

	assert.Equal(t, constant.MessageKindStatus, msgs[3].Kind)
	assert.Equal(t, "wamid.text-0", msgs[3].MessageId)

	// The webhook layer never runs the pipeline itself
	assert.Empty(t, convo.handled)
}

func TestWebhookReceiveMalformedStillAcked(t *testing.T) {
	pub := &fakePublisher{}
	app := newWebhookApp("vt-123", "", pub, &fakeConversationService{})

	req := httptest.NewRequest("POST", "/api/webhook/v1", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "EVENT_RECEIVED", string(body))
	assert.Empty(t, pub.payloads)
}

func TestWebhookReceiveSignature(t *testing.T) {
	const secret = "app-secret-7"
	pub := &fakePublisher{}
	app := newWebhookApp("vt-123", secret, pub, &fakeConversationService{})

	payload, _ := json.Marshal(webhookEnvelope())

	sign := func(body []byte) string {
		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write(body)
		return "sha256=" + hex.EncodeToString(mac.Sum(nil))
	}

	t.Run("valid signature is accepted", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/webhook/v1", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Hub-Signature-256", sign(payload))

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Len(t, pub.payloads, 4)
	})

	t.Run("bad signature is rejected without enqueueing", func(t *testing.T) {
		before := len(pub.payloads)

		req := httptest.NewRequest("POST", "/api/webhook/v1", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Hub-Signature-256", "sha256=deadbeef")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 403, resp.StatusCode)
		assert.Len(t, pub.payloads, before)
	})

	t.Run("missing signature is rejected", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/webhook/v1", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 403, resp.StatusCode)
	})
}

func signTestToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return token
}

func TestWebhookSimulate(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	storeId := uuid.New()
	orderId := uuid.New()
	convo := &fakeConversationService{
		result: &dto.ConversationResult{
			Outcome: constant.OutcomeAutoOrder,
			Reply:   "Order ABCD1234 placed with status pending",
			StoreId: &storeId,
			OrderId: &orderId,
		},
	}
	app := newWebhookApp("vt-123", "", &fakePublisher{}, convo)

	token := signTestToken(t, "test-secret", jwt.MapClaims{
		"user_id":    uuid.NewString(),
		"company_id": uuid.NewString(),
		"exp":        time.Now().Add(time.Hour).Unix(),
	})

	body, _ := json.Marshal(dto.SimulateMessageRequest{Phone: "919876543210", Text: "2 maggi"})

	t.Run("runs the pipeline synchronously", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/webhook/v1/simulate", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var envelope struct {
			Success bool                        `json:"success"`
			Data    dto.SimulateMessageResponse `json:"data"`
		}
		raw, _ := io.ReadAll(resp.Body)
		assert.NoError(t, json.Unmarshal(raw, &envelope))

		assert.True(t, envelope.Success)
		assert.Equal(t, constant.OutcomeAutoOrder, envelope.Data.Outcome)
		assert.Equal(t, storeId.String(), envelope.Data.StoreId)
		assert.Equal(t, orderId.String(), envelope.Data.OrderId)

		assert.Len(t, convo.handled, 1)
		assert.Equal(t, constant.MessageKindText, convo.handled[0].Kind)
		assert.Equal(t, "919876543210", convo.handled[0].From)
	})

	t.Run("rejects missing token", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/webhook/v1/simulate", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 401, resp.StatusCode)
	})

	t.Run("rejects token without company scope", func(t *testing.T) {
		scopeless := signTestToken(t, "test-secret", jwt.MapClaims{
			"user_id": uuid.NewString(),
			"exp":     time.Now().Add(time.Hour).Unix(),
		})

		req := httptest.NewRequest("POST", "/api/webhook/v1/simulate", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+scopeless)

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 401, resp.StatusCode)
	})
}
