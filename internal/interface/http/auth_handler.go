package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/coinacademia/affiliate-api/internal/application"
	"github.com/coinacademia/affiliate-api/pkg/response"
	"github.com/coinacademia/affiliate-api/pkg/validation"
)

type AuthHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,pwd"`
	Username   string `json:"username" binding:"omitempty,alphanum,min=3,max=32"`
	Name       string `json:"name"`
	ReferredBy string `json:"referredBy"`
}

type loginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

type requestResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,pwd"`
}

// resetRequestedMsg is identical for registered and unregistered emails to
// prevent account enumeration.
const resetRequestedMsg = "If that email is registered, a reset link has been sent."

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Email:      req.Email,
		Password:   req.Password,
		Username:   req.Username,
		Name:       req.Name,
		ReferredBy: req.ReferredBy,
	})
	if err != nil {
		if errors.Is(err, application.ErrDuplicateAccount) {
			response.Error(c, http.StatusBadRequest, "email or username already registered", nil)
			return
		}
		h.Logger.WithError(err).Error("registration failed")
		response.Error(c, http.StatusInternalServerError, "registration failed", nil)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"token": res.Token,
		"user":  res.User,
	}, "Registration successful. Please check your email to verify your account.")
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			response.Error(c, http.StatusBadRequest, "invalid credentials", nil)
			return
		}
		h.Logger.WithError(err).Error("login failed")
		response.Error(c, http.StatusInternalServerError, "login failed", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"token": res.Token,
		"user":  res.User,
	}, "login successful")
}

// VerifyEmail GET /api/auth/verify-email?token=
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusBadRequest, "missing token", nil)
		return
	}
	if err := h.Svc.VerifyEmail(c.Request.Context(), token); err != nil {
		if errors.Is(err, application.ErrInvalidToken) {
			response.Error(c, http.StatusBadRequest, "invalid or expired token", nil)
			return
		}
		h.Logger.WithError(err).Error("email verification failed")
		response.Error(c, http.StatusInternalServerError, "verification failed", nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Email verified successfully.")
}

// RequestPasswordReset POST /api/auth/request-password-reset
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req requestResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		h.Logger.WithError(err).Error("password reset request failed")
		response.Error(c, http.StatusInternalServerError, "reset request failed", nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, resetRequestedMsg)
}

// ResetPassword POST /api/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		if errors.Is(err, application.ErrInvalidToken) {
			response.Error(c, http.StatusBadRequest, "invalid or expired token", nil)
			return
		}
		h.Logger.WithError(err).Error("password reset failed")
		response.Error(c, http.StatusInternalServerError, "reset failed", nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Password reset successful. You can now log in.")
}
