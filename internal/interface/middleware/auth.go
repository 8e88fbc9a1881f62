package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/coinacademia/affiliate-api/pkg/helpers"
	"github.com/coinacademia/affiliate-api/pkg/response"
)

const (
	CtxUserIDKey = "userID"
	CtxEmailKey  = "userEmail"
)

// BearerAuth validates the Authorization header and injects the token's
// user identity into the Gin context. Tokens are verified statelessly;
// there is no session store lookup.
func BearerAuth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			response.AbortError(c, http.StatusUnauthorized, "missing bearer token", nil)
			return
		}
		claims, err := jwt.Parse(token)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "invalid or expired token", nil)
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxEmailKey, claims.Email)
		c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
