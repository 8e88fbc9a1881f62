package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/coinacademia/affiliate-api/internal/interface/http"
)

// AuthModule wires local registration/login, the Google OAuth dance, email
// verification, and password reset.
// Public: POST /api/auth/register, POST /api/auth/login,
//
//	GET /api/auth/google, GET /api/auth/google/callback,
//	GET /api/auth/verify-email, POST /api/auth/request-password-reset,
//	POST /api/auth/reset-password
type AuthModule struct {
	Handler *handlers.AuthHandler
	OAuth   *handlers.OAuthHandler
}

func NewAuthModule(h *handlers.AuthHandler, oauth *handlers.OAuthHandler) *AuthModule {
	return &AuthModule{Handler: h, OAuth: oauth}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", m.Handler.Register)
		auth.POST("/login", m.Handler.Login)
		auth.GET("/verify-email", m.Handler.VerifyEmail)
		auth.POST("/request-password-reset", m.Handler.RequestPasswordReset)
		auth.POST("/reset-password", m.Handler.ResetPassword)

		auth.GET("/google", m.OAuth.GoogleRedirect)
		auth.GET("/google/callback", m.OAuth.GoogleCallback)
	}
}
