package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/kesorhosting-wq/testtopupkesor/internal/utils"
)

type paymentConfirmer interface {
	ConfirmPayment(orderID, transactionID string) (string, error)
}

type webhookSecretSource interface {
	WebhookSecret() (string, error)
}

// WebhookHandler receives payment confirmations from the KHQR gateway.
// Responses use the gateway's expected {status, message} shape, not the
// standard API envelope.
type WebhookHandler struct {
	orders  paymentConfirmer
	gateway webhookSecretSource
}

// NewWebhookHandler constructs a WebhookHandler.
func NewWebhookHandler(orders paymentConfirmer, gateway webhookSecretSource) *WebhookHandler {
	return &WebhookHandler{orders: orders, gateway: gateway}
}

type webhookPayload struct {
	TransactionID    string  `json:"transaction_id"`
	TransactionIDAlt string  `json:"transactionId"`
	Amount           float64 `json:"amount"`
}

func (p *webhookPayload) transactionID() string {
	if p.TransactionID != "" {
		return p.TransactionID
	}
	return p.TransactionIDAlt
}

// HandlePaymentWebhook handles POST /webhook/:orderId.
func (h *WebhookHandler) HandlePaymentWebhook(c *gin.Context) {
	orderID := c.Param("orderId")

	// Authenticate before touching anything else. A missing or disabled
	// gateway secret rejects: never accept unauthenticated confirmations.
	secret, err := h.gateway.WebhookSecret()
	if err != nil {
		log.Error().Err(err).Msg("webhook secret unavailable")
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Webhook not configured"})
		return
	}

	authHeader := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok || !utils.SecureCompare(token, secret) {
		log.Warn().Str("order_id", orderID).Msg("webhook rejected: bad secret")
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Unauthorized"})
		return
	}

	var payload webhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid payload"})
		return
	}
	txID := payload.transactionID()
	if txID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Missing transaction id"})
		return
	}

	message, err := h.orders.ConfirmPayment(orderID, txID)
	if err != nil {
		if errors.Is(err, utils.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Order not found"})
			return
		}
		log.Error().Err(err).Str("order_id", orderID).Msg("failed to record payment")
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to update order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": message})
}
