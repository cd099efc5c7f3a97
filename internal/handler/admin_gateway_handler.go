package handler

import (
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/kesorhosting-wq/testtopupkesor/internal/service"
	"github.com/kesorhosting-wq/testtopupkesor/internal/utils"
)

// AdminGatewayHandler manages payment gateway rows. Unlike the public
// endpoint, admins see the full config blob including the webhook secret.
type AdminGatewayHandler struct {
	gateway *service.GatewayService
}

// NewAdminGatewayHandler constructs an AdminGatewayHandler.
func NewAdminGatewayHandler(gateway *service.GatewayService) *AdminGatewayHandler {
	return &AdminGatewayHandler{gateway: gateway}
}

// List handles GET /admin/gateways.
func (h *AdminGatewayHandler) List(c *gin.Context) {
	gateways, err := h.gateway.List()
	if err != nil {
		log.Error().Err(err).Msg("gateway list failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to list gateways")
		return
	}

	// Models hide Config from JSON; re-expose it for the admin view.
	out := make([]gin.H, 0, len(gateways))
	for _, gw := range gateways {
		out = append(out, gin.H{
			"id":        gw.ID,
			"slug":      gw.Slug,
			"name":      gw.Name,
			"enabled":   gw.Enabled,
			"config":    json.RawMessage(gw.Config),
			"updatedAt": gw.UpdatedAt,
		})
	}
	utils.Success(c, 200, "OK", out)
}

type gatewayUpdateRequest struct {
	Enabled bool            `json:"enabled"`
	Config  json.RawMessage `json:"config" binding:"required"`
}

// Update handles PUT /admin/gateways/:slug.
func (h *AdminGatewayHandler) Update(c *gin.Context) {
	var req gatewayUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "VALIDATION_ERROR", "config is required")
		return
	}
	if !json.Valid(req.Config) {
		utils.Error(c, 400, "VALIDATION_ERROR", "config must be valid JSON")
		return
	}

	if err := h.gateway.Update(c.Param("slug"), req.Enabled, req.Config); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.Error(c, 404, "GATEWAY_NOT_FOUND", "Gateway not found")
			return
		}
		log.Error().Err(err).Msg("gateway update failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to update gateway")
		return
	}
	utils.Success(c, 200, "Gateway updated", nil)
}

// RotateSecret handles POST /admin/gateways/:slug/rotate-secret. The new
// secret is returned once so the admin can copy it into the gateway side.
func (h *AdminGatewayHandler) RotateSecret(c *gin.Context) {
	secret, err := h.gateway.RotateWebhookSecret(c.Param("slug"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.Error(c, 404, "GATEWAY_NOT_FOUND", "Gateway not found")
			return
		}
		log.Error().Err(err).Msg("webhook secret rotation failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to rotate secret")
		return
	}
	utils.Success(c, 200, "Secret rotated", gin.H{"webhook_secret": secret})
}
