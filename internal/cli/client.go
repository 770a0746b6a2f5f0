package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gamedex/internal/api"
)

// Client speaks the action webhook protocol, standing in for the dialogue
// engine so the bot can be exercised from a terminal.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) RunAction(ctx context.Context, action, senderID string, slotValues map[string]any) (api.WebhookResponse, error) {
	req := api.WebhookRequest{
		NextAction: action,
		SenderID:   senderID,
		Tracker: api.Tracker{
			SenderID: senderID,
			Slots:    slotValues,
		},
	}
	body, err := json.Marshal(req)
	if err != nil {
		return api.WebhookResponse{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/webhook", bytes.NewReader(body))
	if err != nil {
		return api.WebhookResponse{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return api.WebhookResponse{}, fmt.Errorf("webhook request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return api.WebhookResponse{}, fmt.Errorf("webhook status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var out api.WebhookResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return api.WebhookResponse{}, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}

func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/healthz", nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("health request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health status %d", resp.StatusCode)
	}
	return nil
}
