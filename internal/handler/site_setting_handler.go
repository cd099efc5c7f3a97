package handler

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/kesorhosting-wq/testtopupkesor/internal/repository"
	"github.com/kesorhosting-wq/testtopupkesor/internal/utils"
)

// SiteSettingHandler serves storefront content settings. Reads are public
// (the storefront renders from them); writes are admin-only.
type SiteSettingHandler struct {
	settings *repository.SiteSettingRepository
}

// NewSiteSettingHandler constructs a SiteSettingHandler.
func NewSiteSettingHandler(settings *repository.SiteSettingRepository) *SiteSettingHandler {
	return &SiteSettingHandler{settings: settings}
}

// List handles GET /site-settings.
func (h *SiteSettingHandler) List(c *gin.Context) {
	settings, err := h.settings.List()
	if err != nil {
		log.Error().Err(err).Msg("site settings list failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to list settings")
		return
	}
	utils.Success(c, 200, "OK", settings)
}

// Get handles GET /site-settings/:key.
func (h *SiteSettingHandler) Get(c *gin.Context) {
	setting, err := h.settings.Get(c.Param("key"))
	if err != nil {
		log.Error().Err(err).Msg("site setting read failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to read setting")
		return
	}
	if setting == nil {
		utils.Error(c, 404, "SETTING_NOT_FOUND", "Setting not found")
		return
	}
	utils.Success(c, 200, "OK", setting)
}

type siteSettingRequest struct {
	Value json.RawMessage `json:"value" binding:"required"`
}

// Upsert handles PUT /admin/site-settings/:key.
func (h *SiteSettingHandler) Upsert(c *gin.Context) {
	var req siteSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil || !json.Valid(req.Value) {
		utils.Error(c, 400, "VALIDATION_ERROR", "value must be valid JSON")
		return
	}

	setting, err := h.settings.Upsert(c.Param("key"), req.Value)
	if err != nil {
		log.Error().Err(err).Msg("site setting upsert failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to save setting")
		return
	}
	utils.Success(c, 200, "Setting saved", setting)
}
