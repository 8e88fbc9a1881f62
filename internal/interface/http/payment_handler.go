package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/coinacademia/affiliate-api/config"
	"github.com/coinacademia/affiliate-api/internal/application"
	"github.com/coinacademia/affiliate-api/internal/payment"
	"github.com/coinacademia/affiliate-api/pkg/response"
	"github.com/coinacademia/affiliate-api/pkg/validation"
)

// metadata keys set on charges and read back from webhooks
const (
	metaReferralCode = "referral_code"
	metaRedirect     = "redirect"
)

type PaymentHandler struct {
	Client     *payment.Client
	Affiliates *application.AffiliateService
	Logger     *logrus.Logger
	Cfg        *config.Config
}

func NewPaymentHandler(client *payment.Client, affiliates *application.AffiliateService, logger *logrus.Logger, cfg *config.Config) *PaymentHandler {
	return &PaymentHandler{Client: client, Affiliates: affiliates, Logger: logger, Cfg: cfg}
}

type createCheckoutRequest struct {
	SuccessURL   string `json:"success_url" binding:"required"`
	ReferralCode string `json:"referral_code"`
}

// CreateCheckout POST /api/create-checkout
func (h *PaymentHandler) CreateCheckout(c *gin.Context) {
	var req createCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	meta := map[string]string{metaRedirect: req.SuccessURL}
	if req.ReferralCode != "" {
		meta[metaReferralCode] = req.ReferralCode
	}
	charge, err := h.Client.CreateCharge(c.Request.Context(), payment.CreateChargeRequest{
		Name:        h.Cfg.ProductName,
		PricingType: "fixed_price",
		LocalPrice: payment.Money{
			Amount:   strconv.FormatFloat(h.Cfg.ProductPrice, 'f', 2, 64),
			Currency: h.Cfg.ProductCurrency,
		},
		RedirectURL: h.Cfg.FrontendURL + "/" + req.SuccessURL,
		Metadata:    meta,
	})
	if err != nil {
		h.Logger.WithError(err).Error("checkout creation failed")
		response.Error(c, http.StatusBadGateway, "failed to start payment", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hosted_url": charge.HostedURL})
}

// Webhook POST /webhook handles the raw-body payment-status callback from
// the provider. Always acknowledges verified events; processing problems
// are logged, not returned, so the provider does not retry forever.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.String(http.StatusBadRequest, "unreadable body")
		return
	}
	event, err := h.Client.ParseWebhook(body, c.GetHeader(payment.SignatureHeader))
	if err != nil {
		h.Logger.WithError(err).Warn("webhook rejected")
		c.String(http.StatusBadRequest, "invalid webhook")
		return
	}

	if event.Type == payment.EventChargeConfirmed {
		if err := h.creditReferrer(c, event); err != nil {
			h.Logger.WithError(err).WithField("charge", event.Data.Code).Warn("webhook commission not credited")
		}
	} else {
		h.Logger.WithField("type", event.Type).Debug("webhook event ignored")
	}
	c.String(http.StatusOK, "ok")
}

func (h *PaymentHandler) creditReferrer(c *gin.Context, event *payment.WebhookEvent) error {
	code, ok := event.Data.Metadata[metaReferralCode]
	if !ok || code == "" {
		return nil
	}
	amount := h.Cfg.ProductPrice
	if local, ok := event.Data.Pricing["local"]; ok {
		if v, err := strconv.ParseFloat(local.Amount, 64); err == nil {
			amount = v
		}
	}
	commission := amount * h.Cfg.CommissionRate
	err := h.Affiliates.Credit(c.Request.Context(), code, commission)
	if errors.Is(err, application.ErrUnknownAffiliate) {
		return fmt.Errorf("unknown affiliate code %q", code)
	}
	return err
}
