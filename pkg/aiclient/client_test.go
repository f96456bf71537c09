package aiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructureTextParsesStructuredOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/agent/chat", r.URL.Path)
		assert.Equal(t, "company-1", r.Header.Get("X-Company-Id"))
		assert.Equal(t, "Bearer svc-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"response": "done",
			"intent": "place_order",
			"confidence": 0.91,
			"structured_output": {
				"items": [
					{"name": "maggi noodles", "quantity": 2, "unit": "case", "confidence": 0.95}
				],
				"confidence": 0.95
			}
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "svc-token", 5*time.Second, 5*time.Second)

	result, err := client.StructureText(context.Background(), "company-1", "2 cases maggi noodles", "en")
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "maggi noodles", result.Items[0].Name)
	assert.Equal(t, 2.0, result.Items[0].Quantity)
	assert.Equal(t, "case", result.Items[0].Unit)
	assert.Equal(t, 0.95, result.Confidence)
}

func TestStructureTextRecoversFencedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"response": "` + "```json\\n{\\\"items\\\":[{\\\"name\\\":\\\"sugar\\\",\\\"quantity\\\":1,\\\"confidence\\\":0.8}],\\\"confidence\\\":0.8}\\n```" + `",
			"confidence": 0.8
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 5*time.Second, 5*time.Second)

	result, err := client.StructureText(context.Background(), "company-1", "1 sugar", "en")
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "sugar", result.Items[0].Name)
	assert.Equal(t, 0.8, result.Confidence)
}

func TestStructureTextStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"detail": "model overloaded"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 5*time.Second, 5*time.Second)

	result, err := client.StructureText(context.Background(), "company-1", "anything", "en")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "status 502")
}

func TestStructureTextTimesOut(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 50*time.Millisecond, 50*time.Millisecond)

	_, err := client.StructureText(context.Background(), "company-1", "anything", "en")
	require.Error(t, err)
}

func TestTranscribeAudio(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/agent/stt", r.URL.Path)
		assert.Equal(t, "company-7", r.Header.Get("X-Company-Id"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"text": "do kilo cheeni bhejo",
			"language": "hi",
			"language_probability": 0.97,
			"duration_seconds": 3.4
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 5*time.Second, 5*time.Second)

	transcript, err := client.TranscribeAudio(context.Background(), "company-7", "https://cdn.example/media/42", "audio/ogg")
	require.NoError(t, err)
	assert.Equal(t, "do kilo cheeni bhejo", transcript.Text)
	assert.Equal(t, "hi", transcript.Language)
}

func TestExtractImageText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/agent/vision", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text": "5 kg sugar, 2 parle g", "language": "en"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 5*time.Second, 5*time.Second)

	transcript, err := client.ExtractImageText(context.Background(), "company-7", "https://cdn.example/media/43", "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "5 kg sugar, 2 parle g", transcript.Text)
}

func TestStripMarkdownFence(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"no fence", `{"a":1}`, `{"a":1}`},
		{"padded", "  {\"a\":1}  ", `{"a":1}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, string(stripMarkdownFence([]byte(tc.input))))
		})
	}
}
