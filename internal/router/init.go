package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coinacademia/affiliate-api/internal/application"
	"github.com/coinacademia/affiliate-api/internal/container"
	pginfra "github.com/coinacademia/affiliate-api/internal/infrastructure/postgres"
	handlers "github.com/coinacademia/affiliate-api/internal/interface/http"
	"github.com/coinacademia/affiliate-api/internal/router/modules"
)

// InitModules builds all application modules from the container singletons
// and registers them with the router registry. Called once at startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	repo := pginfra.NewUserRepository(container.GetPGPool())

	affiliates := application.NewAffiliateService(repo, logger)
	auth := application.NewAuthService(
		repo,
		affiliates,
		container.GetJWT(),
		container.GetRabbitPub(),
		logger,
		cfg.AppName,
		cfg.FrontendURL,
		cfg.MailSendEnabled,
	)

	authHandler := handlers.NewAuthHandler(auth, logger)
	oauthHandler := handlers.NewOAuthHandler(auth, container.GetOAuthConfig(), container.GetRedis(), logger, cfg.FrontendURL)
	affiliateHandler := handlers.NewAffiliateHandler(affiliates, logger)
	paymentHandler := handlers.NewPaymentHandler(container.GetPaymentClient(), affiliates, logger, cfg)

	r.Add(modules.NewAuthModule(authHandler, oauthHandler))
	r.Add(modules.NewAffiliateModule(affiliateHandler, container.GetJWT(), cfg.CommissionAuthRequired))
	r.Add(modules.NewPaymentModule(paymentHandler))

	r.API.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
