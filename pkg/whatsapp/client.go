package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// Client talks to a Graph-style Cloud API: outbound text, interactive reply
// buttons, and media url resolution for inbound voice notes and photos.
// Without credentials the client degrades to logging the would-be message,
// which keeps local runs alive with no WhatsApp number attached.

type IClient interface {
	SendText(ctx context.Context, to, body string) error
	SendButtons(ctx context.Context, to, body string, buttons []Button) error
	ResolveMediaURL(ctx context.Context, mediaId string) (string, error)
	Enabled() bool
}

// Button is one interactive reply option, at most three per message.
type Button struct {
	Id    string
	Title string
}

type Client struct {
	baseURL       string
	phoneNumberId string
	httpClient    *http.Client
	limiter       *rate.Limiter
	enabled       bool
}

func NewClient(baseURL, phoneNumberId, accessToken string) IClient {
	c := &Client{
		baseURL:       baseURL,
		phoneNumberId: phoneNumberId,
		// Cloud API pair throughput is capped upstream, keep a margin under it.
		limiter: rate.NewLimiter(rate.Limit(20), 40),
		enabled: baseURL != "" && phoneNumberId != "" && accessToken != "",
	}

	if c.enabled {
		tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
		c.httpClient = oauth2.NewClient(context.Background(), tokenSource)
		c.httpClient.Timeout = 30 * time.Second
	}

	return c
}

func (c *Client) Enabled() bool {
	return c.enabled
}

type outboundMessage struct {
	MessagingProduct string              `json:"messaging_product"`
	RecipientType    string              `json:"recipient_type"`
	To               string              `json:"to"`
	Type             string              `json:"type"`
	Text             *textBody           `json:"text,omitempty"`
	Interactive      *interactivePayload `json:"interactive,omitempty"`
}

type textBody struct {
	Body string `json:"body"`
}

type interactivePayload struct {
	Type   string            `json:"type"`
	Body   interactiveBody   `json:"body"`
	Action interactiveAction `json:"action"`
}

type interactiveBody struct {
	Text string `json:"text"`
}

type interactiveAction struct {
	Buttons []interactiveButton `json:"buttons"`
}

type interactiveButton struct {
	Type  string      `json:"type"`
	Reply buttonReply `json:"reply"`
}

type buttonReply struct {
	Id    string `json:"id"`
	Title string `json:"title"`
}

type mediaResponse struct {
	URL      string `json:"url"`
	MimeType string `json:"mime_type"`
}

func (c *Client) SendText(ctx context.Context, to, body string) error {
	if !c.enabled {
		log.Printf("[INFO] [WhatsAppClient] dry-run text to=%s body=%q", to, body)
		return nil
	}

	payload := outboundMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "text",
		Text:             &textBody{Body: body},
	}

	return c.sendMessage(ctx, payload)
}

func (c *Client) SendButtons(ctx context.Context, to, body string, buttons []Button) error {
	if !c.enabled {
		log.Printf("[INFO] [WhatsAppClient] dry-run buttons to=%s body=%q buttons=%d", to, body, len(buttons))
		return nil
	}

	// The API rejects more than three reply buttons per message.
	if len(buttons) > 3 {
		buttons = buttons[:3]
	}

	replies := make([]interactiveButton, 0, len(buttons))
	for _, b := range buttons {
		replies = append(replies, interactiveButton{
			Type:  "reply",
			Reply: buttonReply{Id: b.Id, Title: b.Title},
		})
	}

	payload := outboundMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "interactive",
		Interactive: &interactivePayload{
			Type:   "button",
			Body:   interactiveBody{Text: body},
			Action: interactiveAction{Buttons: replies},
		},
	}

	return c.sendMessage(ctx, payload)
}

func (c *Client) sendMessage(ctx context.Context, payload outboundMessage) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberId)

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadJson))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf(
			"status error, got status %d. with response body %s",
			res.StatusCode,
			string(resBody),
		)
	}

	return nil
}

// ResolveMediaURL exchanges an inbound media id for a short-lived download
// url. Media cannot be dry-run: without credentials there is nothing to
// download, so the caller gets an error and apologizes to the sender.
func (c *Client) ResolveMediaURL(ctx context.Context, mediaId string) (string, error) {
	if !c.enabled {
		return "", fmt.Errorf("whatsapp client not configured, cannot resolve media %s", mediaId)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, mediaId)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", err
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf(
			"status error, got status %d. with response body %s",
			res.StatusCode,
			string(resBody),
		)
	}

	var media mediaResponse
	if err := json.Unmarshal(resBody, &media); err != nil {
		return "", err
	}

	return media.URL, nil
}
