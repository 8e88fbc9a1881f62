package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/coinacademia/affiliate-api/internal/application"
	"github.com/coinacademia/affiliate-api/internal/interface/middleware"
	"github.com/coinacademia/affiliate-api/pkg/response"
	"github.com/coinacademia/affiliate-api/pkg/validation"
)

type AffiliateHandler struct {
	Svc    *application.AffiliateService
	Logger *logrus.Logger
}

func NewAffiliateHandler(svc *application.AffiliateService, logger *logrus.Logger) *AffiliateHandler {
	return &AffiliateHandler{Svc: svc, Logger: logger}
}

// Amount is intentionally unconstrained beyond presence: the endpoint
// mirrors the provider's settlement call and trusts its caller.
type commissionRequest struct {
	AffiliateCode string  `json:"affiliateCode" binding:"required"`
	Amount        float64 `json:"amount" binding:"required"`
}

// Dashboard GET /api/affiliate/dashboard (bearer)
func (h *AffiliateHandler) Dashboard(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	d, err := h.Svc.GetDashboard(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, application.ErrUnknownUser) {
			response.Error(c, http.StatusNotFound, "user not found", nil)
			return
		}
		h.Logger.WithError(err).Error("dashboard lookup failed")
		response.Error(c, http.StatusInternalServerError, "dashboard unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, d, "affiliate dashboard")
}

// Commission POST /api/affiliate/commission
func (h *AffiliateHandler) Commission(c *gin.Context) {
	var req commissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.Credit(c.Request.Context(), req.AffiliateCode, req.Amount); err != nil {
		if errors.Is(err, application.ErrUnknownAffiliate) {
			response.Error(c, http.StatusNotFound, "affiliate not found", nil)
			return
		}
		h.Logger.WithError(err).Error("commission credit failed")
		response.Error(c, http.StatusInternalServerError, "commission credit failed", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"success": true}, "commission recorded")
}

// Withdraw POST /api/affiliate/withdraw (bearer)
func (h *AffiliateHandler) Withdraw(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Svc.Withdraw(c.Request.Context(), uid); err != nil {
		if errors.Is(err, application.ErrUnknownUser) {
			response.Error(c, http.StatusNotFound, "user not found", nil)
			return
		}
		h.Logger.WithError(err).Error("withdraw failed")
		response.Error(c, http.StatusInternalServerError, "withdraw failed", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"success": true, "commission": 0}, "withdraw requested")
}
