package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/coinacademia/affiliate-api/internal/application"
	"github.com/coinacademia/affiliate-api/pkg/helpers"
)

const (
	oauthStateTTL     = 10 * time.Minute
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// OAuthHandler runs the Google redirect dance. Provider failures redirect
// the browser to the frontend failure page; they are never surfaced as API
// errors to the caller.
type OAuthHandler struct {
	Svc         *application.AuthService
	OAuth       *oauth2.Config
	RDB         *redis.Client
	Logger      *logrus.Logger
	FrontendURL string

	userInfoURL string
}

func NewOAuthHandler(svc *application.AuthService, oauthCfg *oauth2.Config, rdb *redis.Client, logger *logrus.Logger, frontendURL string) *OAuthHandler {
	return &OAuthHandler{
		Svc:         svc,
		OAuth:       oauthCfg,
		RDB:         rdb,
		Logger:      logger,
		FrontendURL: frontendURL,
		userInfoURL: googleUserInfoURL,
	}
}

type googleUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// GoogleRedirect GET /api/auth/google
func (h *OAuthHandler) GoogleRedirect(c *gin.Context) {
	state, err := helpers.RandomToken(16)
	if err != nil {
		h.failure(c, err, "state generation failed")
		return
	}
	if err := h.RDB.Set(c.Request.Context(), helpers.KeyOAuthState(state), "1", oauthStateTTL).Err(); err != nil {
		h.failure(c, err, "state store failed")
		return
	}
	c.Redirect(http.StatusFound, h.OAuth.AuthCodeURL(state))
}

// GoogleCallback GET /api/auth/google/callback
func (h *OAuthHandler) GoogleCallback(c *gin.Context) {
	ctx := c.Request.Context()

	state := c.Query("state")
	if state == "" {
		h.failure(c, nil, "missing oauth state")
		return
	}
	// Single use: delete returns 0 when the state is unknown or expired.
	deleted, err := h.RDB.Del(ctx, helpers.KeyOAuthState(state)).Result()
	if err != nil || deleted == 0 {
		h.failure(c, err, "unknown oauth state")
		return
	}

	code := c.Query("code")
	if code == "" {
		h.failure(c, nil, "missing oauth code")
		return
	}
	token, err := h.OAuth.Exchange(ctx, code)
	if err != nil {
		h.failure(c, err, "code exchange failed")
		return
	}

	info, err := h.fetchUserInfo(ctx, token)
	if err != nil {
		h.failure(c, err, "userinfo fetch failed")
		return
	}

	res, err := h.Svc.OAuthLogin(ctx, application.OAuthProfile{
		GoogleID:  info.ID,
		Email:     info.Email,
		Name:      info.Name,
		AvatarURL: info.Picture,
	})
	if err != nil {
		h.failure(c, err, "oauth login failed")
		return
	}
	c.Redirect(http.StatusFound, h.FrontendURL+"/auth-success.html?token="+res.Token)
}

func (h *OAuthHandler) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := h.OAuth.Client(ctx, token)
	resp, err := client.Get(h.userInfoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// Error payloads are JSON too and would decode into zero values.
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo: unexpected status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (h *OAuthHandler) failure(c *gin.Context, err error, msg string) {
	if err != nil {
		h.Logger.WithError(err).Warn("oauth: " + msg)
	} else {
		h.Logger.Warn("oauth: " + msg)
	}
	c.Redirect(http.StatusFound, h.FrontendURL+"/login.html?error=oauth")
}
