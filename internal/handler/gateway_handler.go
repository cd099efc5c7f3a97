package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/kesorhosting-wq/testtopupkesor/internal/service"
)

type publicGatewayReader interface {
	PublicKHQRConfig() (*service.PublicGatewayConfig, error)
}

// GatewayHandler exposes the public-safe gateway configuration. The webhook
// secret is never part of this response.
type GatewayHandler struct {
	gateway publicGatewayReader
}

// NewGatewayHandler constructs a GatewayHandler.
func NewGatewayHandler(gateway publicGatewayReader) *GatewayHandler {
	return &GatewayHandler{gateway: gateway}
}

// GetKHQRConfig handles GET /gateway/khqr.
func (h *GatewayHandler) GetKHQRConfig(c *gin.Context) {
	cfg, err := h.gateway.PublicKHQRConfig()
	if err != nil {
		log.Error().Err(err).Msg("gateway config read failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to read gateway config"})
		return
	}

	resp := gin.H{
		"success":       true,
		"enabled":       cfg.Enabled,
		"websocket_url": cfg.WebsocketURL,
	}
	if cfg.ID != "" {
		resp["id"] = cfg.ID
	}
	c.JSON(http.StatusOK, resp)
}
