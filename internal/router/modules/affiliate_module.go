package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/coinacademia/affiliate-api/internal/interface/http"
	"github.com/coinacademia/affiliate-api/internal/interface/middleware"
	"github.com/coinacademia/affiliate-api/pkg/helpers"
)

// AffiliateModule wires the affiliate dashboard and the commission ledger.
// Dashboard and withdraw require a bearer token. The commission endpoint is
// open by default for trusted internal callers (the payment webhook);
// CommissionAuthRequired switches it behind bearer auth.
type AffiliateModule struct {
	Handler                *handlers.AffiliateHandler
	JWT                    *helpers.JWTManager
	CommissionAuthRequired bool
}

func NewAffiliateModule(h *handlers.AffiliateHandler, jwt *helpers.JWTManager, commissionAuthRequired bool) *AffiliateModule {
	return &AffiliateModule{Handler: h, JWT: jwt, CommissionAuthRequired: commissionAuthRequired}
}

func (m *AffiliateModule) Register(rg *gin.RouterGroup) {
	bearer := middleware.BearerAuth(m.JWT)

	aff := rg.Group("/affiliate")
	{
		aff.GET("/dashboard", bearer, m.Handler.Dashboard)
		aff.POST("/withdraw", bearer, m.Handler.Withdraw)

		if m.CommissionAuthRequired {
			aff.POST("/commission", bearer, m.Handler.Commission)
		} else {
			aff.POST("/commission", m.Handler.Commission)
		}
	}
}
