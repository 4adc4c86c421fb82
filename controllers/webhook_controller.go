package controllers

import (
	"io"
	"net/http"

	"pawperfection/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type WebhookController struct {
	gateway  services.CheckoutGateway
	webhooks *services.WebhookService
	logger   *zap.Logger
}

func NewWebhookController(gateway services.CheckoutGateway, webhooks *services.WebhookService, logger *zap.Logger) *WebhookController {
	return &WebhookController{gateway: gateway, webhooks: webhooks, logger: logger}
}

// HandleStripeWebhook verifies the provider signature against the raw
// body, then dispatches the event. A 500 response makes the provider
// redeliver; a 200 acknowledges the event for good.
func (wc *WebhookController) HandleStripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		wc.logger.Error("Failed to read webhook body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	event, err := wc.gateway.VerifyWebhook(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		wc.logger.Error("Webhook signature verification failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Webhook signature verification failed"})
		return
	}

	if err := wc.webhooks.HandleEvent(c.Request.Context(), event); err != nil {
		wc.logger.Error("Webhook processing failed",
			zap.String("event_type", string(event.Type)),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook processing failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
