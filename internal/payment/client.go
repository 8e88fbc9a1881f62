package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// SignatureHeader carries the HMAC of the raw webhook body.
const SignatureHeader = "X-CC-Webhook-Signature"

// Client talks to the hosted-checkout payment provider. All failures are
// wrapped; callers treat any error as an upstream payment error.
type Client struct {
	APIURL        string
	APIKey        string
	WebhookSecret string
	HTTPClient    *http.Client
}

func NewClient(apiURL, apiKey, webhookSecret string) *Client {
	return &Client{
		APIURL:        apiURL,
		APIKey:        apiKey,
		WebhookSecret: webhookSecret,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// CreateCharge creates a checkout session and returns the charge including
// its hosted payment page URL.
func (c *Client) CreateCharge(ctx context.Context, reqBody CreateChargeRequest) (*Charge, error) {
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/charges", c.APIURL), bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-CC-Api-Key", c.APIKey)
	req.Header.Set("Idempotence-Key", uuid.New().String())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("api error: %s (status: %d)", string(respBody), resp.StatusCode)
	}

	var env chargeEnvelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &env.Data, nil
}

// VerifySignature checks the HMAC-SHA256 of the raw webhook body against the
// shared webhook secret.
func (c *Client) VerifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(c.WebhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ParseWebhook validates the signature and decodes the event from a raw
// webhook body.
func (c *Client) ParseWebhook(body []byte, signature string) (*WebhookEvent, error) {
	if !c.VerifySignature(body, signature) {
		return nil, fmt.Errorf("invalid webhook signature")
	}
	var env webhookEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal webhook: %w", err)
	}
	return &env.Event, nil
}
