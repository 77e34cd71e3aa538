package pkg

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// WebhookClient forwards chat messages to the n8n workflow webhook. Calls
// are best-effort: the caller logs a failure and keeps the request alive.
type WebhookClient struct {
	BaseURL       string
	Path          string
	SigningSecret string
	HTTPClient    *http.Client
}

type WebhookPayload struct {
	SessionID   uint64 `json:"sessionId"`
	Content     string `json:"content"`
	CommunityID uint64 `json:"communityId"`
	UserID      uint64 `json:"userId"`
}

func NewWebhookClient(baseURL, path, secret string) *WebhookClient {
	return &WebhookClient{
		BaseURL:       baseURL,
		Path:          path,
		SigningSecret: secret,
		HTTPClient:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (w *WebhookClient) sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(w.SigningSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func (w *WebhookClient) Send(ctx context.Context, payload WebhookPayload) error {
	if w == nil || w.BaseURL == "" {
		return nil
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.BaseURL+w.Path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-N8N-Signature", w.sign(body))

	resp, err := w.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook responded %d", resp.StatusCode)
	}
	return nil
}

// VerifySignature checks the callback signature on the n8n reply path.
func (w *WebhookClient) VerifySignature(body []byte, signature string) bool {
	if w == nil {
		return false
	}
	expected := w.sign(body)
	return hmac.Equal([]byte(expected), []byte(signature))
}
