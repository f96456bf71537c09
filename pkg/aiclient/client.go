package aiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client for the order AI service. Three endpoints: /agent/chat structures
// free text into order items, /agent/stt transcribes a voice note,
// /agent/vision reads a photographed list. Every call carries the tenant id
// as a header and is bounded by an explicit timeout with zero retries; the
// caller falls back to local extraction (text) or apologizes (media) on any
// failure.

type IClient interface {
	StructureText(ctx context.Context, companyId, text, language string) (*StructuredOrder, error)
	TranscribeAudio(ctx context.Context, companyId, mediaURL, mimeType string) (*Transcript, error)
	ExtractImageText(ctx context.Context, companyId, mediaURL, mimeType string) (*Transcript, error)
}

// StructuredOrder is the structuring endpoint's parsed output.
type StructuredOrder struct {
	Items      []StructuredItem `json:"items"`
	Confidence float64          `json:"confidence"`
	Language   string           `json:"language,omitempty"`
}

type StructuredItem struct {
	Name       string  `json:"name"`
	Quantity   float64 `json:"quantity"`
	Unit       string  `json:"unit,omitempty"`
	Confidence float64 `json:"confidence"`
}

// Transcript is the text recovered from audio or image media.
type Transcript struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}

type Client struct {
	baseURL      string
	token        string
	textTimeout  time.Duration
	mediaTimeout time.Duration
	httpClient   *http.Client
}

func NewClient(baseURL, token string, textTimeout, mediaTimeout time.Duration) IClient {
	if textTimeout <= 0 {
		textTimeout = 30 * time.Second
	}
	if mediaTimeout <= 0 {
		mediaTimeout = 60 * time.Second
	}
	return &Client{
		baseURL:      baseURL,
		token:        token,
		textTimeout:  textTimeout,
		mediaTimeout: mediaTimeout,
		httpClient:   &http.Client{},
	}
}

type chatRequest struct {
	SessionId string `json:"session_id"`
	UserType  string `json:"user_type"`
	CompanyId string `json:"company_id"`
	Message   string `json:"message"`
	Language  string `json:"language"`
}

type chatResponse struct {
	Response         string          `json:"response"`
	Intent           string          `json:"intent"`
	Confidence       float64         `json:"confidence"`
	StructuredOutput json.RawMessage `json:"structured_output"`
}

type mediaRequest struct {
	MediaURL string `json:"media_url"`
	MimeType string `json:"mime_type"`
	Language string `json:"language,omitempty"`
}

type mediaResponse struct {
	Text                string  `json:"text"`
	Language            string  `json:"language"`
	LanguageProbability float64 `json:"language_probability"`
	DurationSeconds     float64 `json:"duration_seconds"`
}

func (c *Client) StructureText(ctx context.Context, companyId, text, language string) (*StructuredOrder, error) {
	ctx, cancel := context.WithTimeout(ctx, c.textTimeout)
	defer cancel()

	payload := chatRequest{
		UserType:  "retailer",
		CompanyId: companyId,
		Message:   text,
		Language:  language,
	}

	resBody, err := c.doRequest(ctx, "/agent/chat", companyId, payload)
	if err != nil {
		return nil, err
	}

	var chatRes chatResponse
	if err := json.Unmarshal(resBody, &chatRes); err != nil {
		return nil, err
	}

	// The items normally arrive as structured_output. Some model versions
	// answer with the JSON embedded in the response text instead, wrapped
	// in a markdown fence, so try that before giving up.
	var structured StructuredOrder
	if len(chatRes.StructuredOutput) > 0 && string(chatRes.StructuredOutput) != "null" {
		if err := json.Unmarshal(chatRes.StructuredOutput, &structured); err != nil {
			return nil, fmt.Errorf("parse error: %w | raw: %s", err, string(chatRes.StructuredOutput))
		}
	} else if chatRes.Response != "" {
		cleaned := stripMarkdownFence([]byte(chatRes.Response))
		if err := json.Unmarshal(cleaned, &structured); err != nil {
			return nil, fmt.Errorf("parse error: %w | raw: %s", err, string(cleaned))
		}
	}

	if structured.Confidence == 0 && chatRes.Confidence > 0 {
		structured.Confidence = chatRes.Confidence
	}

	return &structured, nil
}

func (c *Client) TranscribeAudio(ctx context.Context, companyId, mediaURL, mimeType string) (*Transcript, error) {
	return c.doMediaRequest(ctx, "/agent/stt", companyId, mediaURL, mimeType)
}

func (c *Client) ExtractImageText(ctx context.Context, companyId, mediaURL, mimeType string) (*Transcript, error) {
	return c.doMediaRequest(ctx, "/agent/vision", companyId, mediaURL, mimeType)
}

func (c *Client) doMediaRequest(ctx context.Context, path, companyId, mediaURL, mimeType string) (*Transcript, error) {
	ctx, cancel := context.WithTimeout(ctx, c.mediaTimeout)
	defer cancel()

	payload := mediaRequest{
		MediaURL: mediaURL,
		MimeType: mimeType,
	}

	resBody, err := c.doRequest(ctx, path, companyId, payload)
	if err != nil {
		return nil, err
	}

	var mediaRes mediaResponse
	if err := json.Unmarshal(resBody, &mediaRes); err != nil {
		return nil, err
	}

	return &Transcript{
		Text:     mediaRes.Text,
		Language: mediaRes.Language,
	}, nil
}

func (c *Client) doRequest(ctx context.Context, path, companyId string, payload interface{}) ([]byte, error) {
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(
		ctx,
		"POST",
		c.baseURL+path,
		bytes.NewBuffer(payloadJson),
	)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Company-Id", companyId)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"status error, got status %d. with response body %s",
			res.StatusCode,
			string(resBody),
		)
	}

	return resBody, nil
}

func stripMarkdownFence(raw []byte) []byte {
	raw = bytes.TrimSpace(raw)
	raw = bytes.TrimPrefix(raw, []byte("```json"))
	raw = bytes.TrimPrefix(raw, []byte("```"))
	raw = bytes.TrimSuffix(raw, []byte("```"))
	return bytes.TrimSpace(raw)
}
