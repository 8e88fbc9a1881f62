package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_CreateCharge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/charges", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-CC-Api-Key"))
		assert.NotEmpty(t, r.Header.Get("Idempotence-Key"))

		var req CreateChargeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "fixed_price", req.PricingType)
		assert.Equal(t, "49.00", req.LocalPrice.Amount)

		json.NewEncoder(w).Encode(chargeEnvelope{Data: Charge{
			ID:        "charge-1",
			Code:      "ABCDEF",
			HostedURL: "https://pay.example.com/charges/ABCDEF",
		}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "whsec")
	charge, err := c.CreateCharge(context.Background(), CreateChargeRequest{
		Name:        "Course access",
		PricingType: "fixed_price",
		LocalPrice:  Money{Amount: "49.00", Currency: "USD"},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/charges/ABCDEF", charge.HostedURL)
	assert.Equal(t, "ABCDEF", charge.Code)
}

func TestClient_CreateChargeAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bad-key", "whsec")
	_, err := c.CreateCharge(context.Background(), CreateChargeRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status: 401")
}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestClient_VerifySignature(t *testing.T) {
	c := NewClient("http://unused", "key", "whsec")
	body := []byte(`{"event":{"type":"charge:confirmed"}}`)

	assert.True(t, c.VerifySignature(body, sign("whsec", body)))
	assert.False(t, c.VerifySignature(body, sign("other", body)))
	assert.False(t, c.VerifySignature(body, "deadbeef"))
}

func TestClient_ParseWebhook(t *testing.T) {
	c := NewClient("http://unused", "key", "whsec")
	body := []byte(`{"event":{"id":"evt-1","type":"charge:confirmed","data":{"code":"ABCDEF","pricing":{"local":{"amount":"49.00","currency":"USD"}},"metadata":{"referral_code":"OWNER123"}}}}`)

	ev, err := c.ParseWebhook(body, sign("whsec", body))
	require.NoError(t, err)
	assert.Equal(t, EventChargeConfirmed, ev.Type)
	assert.Equal(t, "ABCDEF", ev.Data.Code)
	assert.Equal(t, "OWNER123", ev.Data.Metadata["referral_code"])
	assert.Equal(t, "49.00", ev.Data.Pricing["local"].Amount)

	// A tampered body fails even with a previously valid signature shape.
	_, err = c.ParseWebhook(append(body, ' '), sign("whsec", body))
	assert.Error(t, err)
}
