package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const (
	webhookURL    = "http://localhost:3000/api/webhook/v1"
	storePhone    = "919876543210" // Sharma Kirana Store from the seeder
	phoneNumberId = "15550001111"
)

// Simplified webhook DTOs for the script. Shapes mirror what the WhatsApp
// Cloud API actually posts; replies come back out-of-band (watch the server
// logs in dry-run mode).

type envelope struct {
	Object string  `json:"object"`
	Entry  []entry `json:"entry"`
}

type entry struct {
	Id      string   `json:"id"`
	Changes []change `json:"changes"`
}

type change struct {
	Field string `json:"field"`
	Value value  `json:"value"`
}

type value struct {
	MessagingProduct string                   `json:"messaging_product"`
	Metadata         map[string]string        `json:"metadata"`
	Contacts         []map[string]interface{} `json:"contacts,omitempty"`
	Messages         []map[string]interface{} `json:"messages,omitempty"`
	Statuses         []map[string]interface{} `json:"statuses,omitempty"`
}

func wrap(messages, statuses []map[string]interface{}) envelope {
	v := value{
		MessagingProduct: "whatsapp",
		Metadata: map[string]string{
			"display_phone_number": "15550001111",
			"phone_number_id":      phoneNumberId,
		},
		Messages: messages,
		Statuses: statuses,
	}
	if messages != nil {
		v.Contacts = []map[string]interface{}{
			{"wa_id": storePhone, "profile": map[string]string{"name": "Sharma Kirana"}},
		}
	}
	return envelope{
		Object: "whatsapp_business_account",
		Entry:  []entry{{Id: "entry-1", Changes: []change{{Field: "messages", Value: v}}}},
	}
}

func textMessage(id, body string) envelope {
	return wrap([]map[string]interface{}{{
		"from":      storePhone,
		"id":        id,
		"timestamp": fmt.Sprintf("%d", time.Now().Unix()),
		"type":      "text",
		"text":      map[string]string{"body": body},
	}}, nil)
}

func buttonReply(id, buttonId, title string) envelope {
	return wrap([]map[string]interface{}{{
		"from":      storePhone,
		"id":        id,
		"timestamp": fmt.Sprintf("%d", time.Now().Unix()),
		"type":      "interactive",
		"interactive": map[string]interface{}{
			"type":         "button_reply",
			"button_reply": map[string]string{"id": buttonId, "title": title},
		},
	}}, nil)
}

func deliveryStatus(messageId string) envelope {
	return wrap(nil, []map[string]interface{}{{
		"id":           messageId,
		"status":       "delivered",
		"timestamp":    fmt.Sprintf("%d", time.Now().Unix()),
		"recipient_id": storePhone,
	}})
}

func main() {
	fmt.Println("=== WhatsApp Order Intake Simulation Client ===")
	fmt.Printf("Posting as store phone: %s\n", storePhone)

	runId := time.Now().UnixNano()

	steps := []struct {
		label   string
		payload envelope
	}{
		{"Greeting", textMessage(fmt.Sprintf("wamid.sim-%d-1", runId), "namaste")},
		{"Clean order (auto-place)", textMessage(fmt.Sprintf("wamid.sim-%d-2", runId), "2 maggi MGN-070 aur 1 sugar 1kg bhejo")},
		{"Fuzzy order (clarification)", textMessage(fmt.Sprintf("wamid.sim-%d-3", runId), "do packet wali cheez aur kuch biskut")},
		{"Confirm draft", buttonReply(fmt.Sprintf("wamid.sim-%d-4", runId), "confirm_draft", "Confirm")},
		{"Repeat prompt", textMessage(fmt.Sprintf("wamid.sim-%d-5", runId), "wahi order dobara")},
		{"Delivery receipt (no reply expected)", deliveryStatus(fmt.Sprintf("wamid.sim-%d-2", runId))},
	}

	for _, step := range steps {
		fmt.Printf("\nSENDING: %s\n", step.label)

		start := time.Now()
		ack, err := post(step.payload)
		elapsed := time.Since(start)

		if err != nil {
			fmt.Printf("Error: %v\n", err)
		} else {
			fmt.Printf("ACK (%v): %s\n", elapsed, ack)
		}

		// Let the async pipeline drain before the next hop
		time.Sleep(2 * time.Second)
	}

	fmt.Println("\nDone. Replies are visible in the server logs (dry-run) or on the phone.")
}

func post(payload envelope) (string, error) {
	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		log.Fatalf("Failed to marshal payload: %v", err)
	}

	req, _ := http.NewRequest("POST", webhookURL, bytes.NewBuffer(jsonBytes))
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != 200 {
		return "", fmt.Errorf("API Error %d: %s", resp.StatusCode, string(body))
	}
	return string(body), nil
}
