package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/kesorhosting-wq/testtopupkesor/internal/service"
	"github.com/kesorhosting-wq/testtopupkesor/internal/utils"
)

// CatalogHandler serves the public storefront catalog.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListGames handles GET /games.
func (h *CatalogHandler) ListGames(c *gin.Context) {
	games, err := h.catalog.ListGames(true)
	if err != nil {
		log.Error().Err(err).Msg("game list failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to list games")
		return
	}
	utils.Success(c, 200, "OK", games)
}

// GetGame handles GET /games/:id.
func (h *CatalogHandler) GetGame(c *gin.Context) {
	game, err := h.catalog.GetGame(c.Param("id"))
	if err != nil {
		log.Error().Err(err).Msg("game read failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to read game")
		return
	}
	if game == nil || !game.IsActive {
		utils.Error(c, 404, "GAME_NOT_FOUND", "Game not found")
		return
	}
	utils.Success(c, 200, "OK", game)
}

// ListGamePackages handles GET /games/:id/packages.
func (h *CatalogHandler) ListGamePackages(c *gin.Context) {
	packages, err := h.catalog.ListGamePackages(c.Param("id"), true)
	if err != nil {
		log.Error().Err(err).Msg("package list failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to list packages")
		return
	}
	utils.Success(c, 200, "OK", packages)
}
