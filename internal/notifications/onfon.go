package notifications

import (
	"bytes"         // Request body buffer
	"context"       // Request-scoped cancellation
	"encoding/json" // JSON request encoding
	"fmt"           // Error wrapping
	"io"            // Response draining
	"net/http"      // HTTP client
	"strings"       // URL trimming
	"time"          // Client timeout

	"farmer_registry/internal/utils" // Phone normalization
)

const onfonSendPath = "/v1/sms/SendBulkSMS"

// OnfonConfig holds Onfon Media credentials
type OnfonConfig struct {
	BaseURL     string
	APIKey      string
	ClientID    string
	SenderID    string
	CountryCode string
}

// Onfon sends SMS through the Onfon Media bulk API
type Onfon struct {
	cfg    OnfonConfig
	client *http.Client
}

type onfonMessage struct {
	Number string `json:"Number"`
	Text   string `json:"Text"`
}

type onfonRequest struct {
	SenderID          string         `json:"SenderId"`
	IsUnicode         bool           `json:"IsUnicode"`
	IsFlash           bool           `json:"IsFlash"`
	MessageParameters []onfonMessage `json:"MessageParameters"`
	APIKey            string         `json:"ApiKey"`
	ClientID          string         `json:"ClientId"`
}

// NewOnfon creates an Onfon gateway; a nil client gets a 10 second timeout
func NewOnfon(cfg OnfonConfig, client *http.Client) *Onfon {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Onfon{cfg: cfg, client: client}
}

// SendSMS posts message to phone; only a 200 response counts as delivered
func (o *Onfon) SendSMS(ctx context.Context, phone, message string) error {
	body, err := json.Marshal(onfonRequest{
		SenderID:  o.cfg.SenderID,
		IsUnicode: true,
		IsFlash:   true,
		MessageParameters: []onfonMessage{{
			Number: utils.NormalizePhone(phone, o.cfg.CountryCode),
			Text:   message,
		}},
		APIKey:   o.cfg.APIKey,
		ClientID: o.cfg.ClientID,
	})
	if err != nil {
		return fmt.Errorf("encode onfon request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.cfg.BaseURL+onfonSendPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build onfon request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json") // Onfon expects JSON

	resp, err := o.client.Do(req)
	if err != nil {
		return fmt.Errorf("send onfon request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10)) // Drain so the connection is reused

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: onfon returned %d", ErrDeliveryFailed, resp.StatusCode)
	}
	return nil
}
