package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendTextPostsCloudAPIPayload(t *testing.T) {
	var captured map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/554433/messages", r.URL.Path)
		assert.Equal(t, "Bearer wa-token", r.Header.Get("Authorization"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"messages": [{"id": "wamid.out.1"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "554433", "wa-token")

	err := client.SendText(context.Background(), "919876543210", "Hello! How can I help you today?")
	require.NoError(t, err)

	assert.Equal(t, "whatsapp", captured["messaging_product"])
	assert.Equal(t, "919876543210", captured["to"])
	assert.Equal(t, "text", captured["type"])

	text := captured["text"].(map[string]interface{})
	assert.Equal(t, "Hello! How can I help you today?", text["body"])
}

func TestSendButtonsCapsAtThree(t *testing.T) {
	var captured map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(`{"messages": [{"id": "wamid.out.2"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "554433", "wa-token")

	err := client.SendButtons(context.Background(), "919876543210", "Confirm this order?", []Button{
		{Id: "confirm_draft", Title: "Confirm"},
		{Id: "cancel_draft", Title: "Cancel"},
		{Id: "repeat_last", Title: "Repeat"},
		{Id: "extra", Title: "Extra"},
	})
	require.NoError(t, err)

	assert.Equal(t, "interactive", captured["type"])

	interactive := captured["interactive"].(map[string]interface{})
	assert.Equal(t, "button", interactive["type"])

	action := interactive["action"].(map[string]interface{})
	buttons := action["buttons"].([]interface{})
	require.Len(t, buttons, 3)

	first := buttons[0].(map[string]interface{})
	assert.Equal(t, "reply", first["type"])
	assert.Equal(t, "confirm_draft", first["reply"].(map[string]interface{})["id"])
}

func TestSendTextStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "rate limit hit"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "554433", "wa-token")

	err := client.SendText(context.Background(), "919876543210", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestResolveMediaURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/media-9001", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"url": "https://lookaside.example/v/t62/media-9001", "mime_type": "audio/ogg"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "554433", "wa-token")

	url, err := client.ResolveMediaURL(context.Background(), "media-9001")
	require.NoError(t, err)
	assert.Equal(t, "https://lookaside.example/v/t62/media-9001", url)
}

func TestUnconfiguredClientDryRuns(t *testing.T) {
	client := NewClient("", "", "")

	assert.False(t, client.Enabled())
	assert.NoError(t, client.SendText(context.Background(), "919876543210", "hello"))
	assert.NoError(t, client.SendButtons(context.Background(), "919876543210", "pick", []Button{{Id: "a", Title: "A"}}))

	_, err := client.ResolveMediaURL(context.Background(), "media-1")
	assert.Error(t, err)
}
