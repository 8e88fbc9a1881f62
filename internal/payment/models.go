package payment

// Money is an amount/currency pair as the provider represents it.
type Money struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// CreateChargeRequest asks the provider for a hosted checkout page.
type CreateChargeRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	PricingType string            `json:"pricing_type"`
	LocalPrice  Money             `json:"local_price"`
	RedirectURL string            `json:"redirect_url,omitempty"`
	CancelURL   string            `json:"cancel_url,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Charge is the provider's view of a checkout session.
type Charge struct {
	ID          string            `json:"id"`
	Code        string            `json:"code"`
	HostedURL   string            `json:"hosted_url"`
	PricingType string            `json:"pricing_type"`
	LocalPrice  Money             `json:"local_price,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type chargeEnvelope struct {
	Data Charge `json:"data"`
}

// Webhook event types we act on.
const (
	EventChargeConfirmed = "charge:confirmed"
	EventChargeFailed    = "charge:failed"
)

// WebhookEvent is the payment-status callback payload.
type WebhookEvent struct {
	ID   string      `json:"id"`
	Type string      `json:"type"`
	Data WebhookData `json:"data"`
}

// WebhookData carries the charge state inside an event.
type WebhookData struct {
	ID       string            `json:"id"`
	Code     string            `json:"code"`
	Pricing  map[string]Money  `json:"pricing,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type webhookEnvelope struct {
	Event WebhookEvent `json:"event"`
}
