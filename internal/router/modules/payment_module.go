package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/coinacademia/affiliate-api/internal/interface/http"
)

// PaymentModule wires checkout creation under /api and the provider
// webhook on the engine root, outside the API envelope middleware.
type PaymentModule struct {
	Handler *handlers.PaymentHandler
}

func NewPaymentModule(h *handlers.PaymentHandler) *PaymentModule {
	return &PaymentModule{Handler: h}
}

func (m *PaymentModule) Register(rg *gin.RouterGroup) {
	rg.POST("/create-checkout", m.Handler.CreateCheckout)
}

func (m *PaymentModule) RegisterRoot(e *gin.Engine) {
	e.POST("/webhook", m.Handler.Webhook)
}
