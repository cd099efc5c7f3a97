package handler

import (
	"database/sql"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/kesorhosting-wq/testtopupkesor/internal/models"
	"github.com/kesorhosting-wq/testtopupkesor/internal/repository"
	"github.com/kesorhosting-wq/testtopupkesor/internal/utils"
)

type configCacheInvalidator interface {
	InvalidateConfigCache()
}

// AdminVerificationHandler manages game verification configs. Every
// mutation invalidates the adapter's cache so edits apply immediately.
type AdminVerificationHandler struct {
	configs  *repository.VerificationConfigRepository
	verifier configCacheInvalidator
}

// NewAdminVerificationHandler constructs an AdminVerificationHandler.
func NewAdminVerificationHandler(configs *repository.VerificationConfigRepository, verifier configCacheInvalidator) *AdminVerificationHandler {
	return &AdminVerificationHandler{configs: configs, verifier: verifier}
}

type verificationConfigRequest struct {
	GameName     string  `json:"gameName" binding:"required"`
	APICode      string  `json:"apiCode" binding:"required"`
	APIProvider  string  `json:"apiProvider" binding:"required"`
	RequiresZone bool    `json:"requiresZone"`
	DefaultZone  *string `json:"defaultZone"`
	IsActive     *bool   `json:"isActive"`
}

func (r *verificationConfigRequest) provider() (models.VerificationProvider, bool) {
	switch models.VerificationProvider(r.APIProvider) {
	case models.ProviderG2Bulk, models.ProviderRoblox, models.ProviderMinecraft, models.ProviderFreeFallback:
		return models.VerificationProvider(r.APIProvider), true
	}
	return "", false
}

// List handles GET /admin/verification-configs.
func (h *AdminVerificationHandler) List(c *gin.Context) {
	configs, err := h.configs.List()
	if err != nil {
		log.Error().Err(err).Msg("verification config list failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to list configs")
		return
	}
	utils.Success(c, 200, "OK", configs)
}

// Create handles POST /admin/verification-configs.
func (h *AdminVerificationHandler) Create(c *gin.Context) {
	var req verificationConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "VALIDATION_ERROR", "gameName, apiCode, and apiProvider are required")
		return
	}
	provider, ok := req.provider()
	if !ok {
		utils.Error(c, 400, "VALIDATION_ERROR", "apiProvider must be one of g2bulk, roblox, minecraft, free")
		return
	}

	cfg := &models.GameVerificationConfig{
		ID:           uuid.New().String(),
		GameName:     req.GameName,
		APICode:      req.APICode,
		APIProvider:  provider,
		RequiresZone: req.RequiresZone,
		DefaultZone:  req.DefaultZone,
		IsActive:     req.IsActive == nil || *req.IsActive,
	}
	if err := h.configs.Create(cfg); err != nil {
		log.Error().Err(err).Msg("verification config create failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create config")
		return
	}
	h.verifier.InvalidateConfigCache()
	utils.Success(c, 201, "Config created", cfg)
}

// Update handles PUT /admin/verification-configs/:id.
func (h *AdminVerificationHandler) Update(c *gin.Context) {
	var req verificationConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "VALIDATION_ERROR", "gameName, apiCode, and apiProvider are required")
		return
	}
	provider, ok := req.provider()
	if !ok {
		utils.Error(c, 400, "VALIDATION_ERROR", "apiProvider must be one of g2bulk, roblox, minecraft, free")
		return
	}

	cfg := &models.GameVerificationConfig{
		ID:           c.Param("id"),
		GameName:     req.GameName,
		APICode:      req.APICode,
		APIProvider:  provider,
		RequiresZone: req.RequiresZone,
		DefaultZone:  req.DefaultZone,
		IsActive:     req.IsActive == nil || *req.IsActive,
	}
	if err := h.configs.Update(cfg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.Error(c, 404, "CONFIG_NOT_FOUND", "Config not found")
			return
		}
		log.Error().Err(err).Msg("verification config update failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to update config")
		return
	}
	h.verifier.InvalidateConfigCache()
	utils.Success(c, 200, "Config updated", cfg)
}

// Delete handles DELETE /admin/verification-configs/:id.
func (h *AdminVerificationHandler) Delete(c *gin.Context) {
	if err := h.configs.Delete(c.Param("id")); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.Error(c, 404, "CONFIG_NOT_FOUND", "Config not found")
			return
		}
		log.Error().Err(err).Msg("verification config delete failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to delete config")
		return
	}
	h.verifier.InvalidateConfigCache()
	utils.Success(c, 200, "Config deleted", nil)
}
