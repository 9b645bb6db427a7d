package telegram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Update is the inbound webhook payload from the messaging provider. Only
// the fields the auth handshake cares about are mapped.
type Update struct {
	Message *Message `json:"message"`
}

// Message is a single inbound chat message.
type Message struct {
	Chat    Chat     `json:"chat"`
	Text    string   `json:"text"`
	Contact *Contact `json:"contact"`
}

// Chat identifies the conversation an update belongs to.
type Chat struct {
	ID int64 `json:"id"`
}

// Contact is a shared phone contact.
type Contact struct {
	PhoneNumber string `json:"phone_number"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
}

// Config holds the connection details for the bot API.
type Config struct {
	BaseURL string // e.g. https://api.telegram.org
	Token   string
}

// Client is a thin outbound adapter for the bot sendMessage API. It holds
// no state beyond the HTTP client; callers treat sends as fire-and-forget.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a new messaging gateway client.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SendContactRequest asks the remote party to share their phone contact
// via a one-time keyboard.
func (c *Client) SendContactRequest(chatID int64) error {
	payload := map[string]interface{}{
		"chat_id": chatID,
		"text":    "Please share your contact number to proceed with registration:",
		"reply_markup": map[string]interface{}{
			"keyboard": [][]map[string]interface{}{
				{{"text": "Share Contact", "request_contact": true}},
			},
			"one_time_keyboard": true,
			"resize_keyboard":   true,
		},
	}
	return c.send(payload)
}

// SendMessage sends a plain text message and removes any custom keyboard.
func (c *Client) SendMessage(chatID int64, text string) error {
	payload := map[string]interface{}{
		"chat_id":      chatID,
		"text":         text,
		"reply_markup": map[string]interface{}{"remove_keyboard": true},
	}
	return c.send(payload)
}

func (c *Client) send(payload map[string]interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)
	resp, err := c.httpClient.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to call sendMessage: %w", err)
	}
	defer resp.Body.Close()

	// Nothing from the response body is consumed; only the status matters.
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sendMessage returned status %d", resp.StatusCode)
	}
	return nil
}
