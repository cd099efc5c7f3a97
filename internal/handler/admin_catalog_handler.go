package handler

import (
	"database/sql"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/kesorhosting-wq/testtopupkesor/internal/models"
	"github.com/kesorhosting-wq/testtopupkesor/internal/repository"
	"github.com/kesorhosting-wq/testtopupkesor/internal/utils"
)

// AdminCatalogHandler manages games, packages, and special packages.
type AdminCatalogHandler struct {
	games    *repository.GameRepository
	packages *repository.PackageRepository
}

// NewAdminCatalogHandler constructs an AdminCatalogHandler.
func NewAdminCatalogHandler(games *repository.GameRepository, packages *repository.PackageRepository) *AdminCatalogHandler {
	return &AdminCatalogHandler{games: games, packages: packages}
}

type gameRequest struct {
	Name             string  `json:"name" binding:"required"`
	Image            string  `json:"image"`
	Description      *string `json:"description"`
	G2BulkCategoryID *string `json:"g2bulkCategoryId"`
	IsActive         *bool   `json:"isActive"`
	SortOrder        int     `json:"sortOrder"`
}

// ListGames handles GET /admin/games (inactive rows included).
func (h *AdminCatalogHandler) ListGames(c *gin.Context) {
	games, err := h.games.List(false)
	if err != nil {
		log.Error().Err(err).Msg("admin game list failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to list games")
		return
	}
	utils.Success(c, 200, "OK", games)
}

// CreateGame handles POST /admin/games.
func (h *AdminCatalogHandler) CreateGame(c *gin.Context) {
	var req gameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "VALIDATION_ERROR", "name is required")
		return
	}

	game := &models.Game{
		ID:               uuid.New().String(),
		Name:             req.Name,
		Image:            req.Image,
		Description:      req.Description,
		G2BulkCategoryID: req.G2BulkCategoryID,
		IsActive:         req.IsActive == nil || *req.IsActive,
		SortOrder:        req.SortOrder,
	}
	if err := h.games.Create(game); err != nil {
		log.Error().Err(err).Msg("game create failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create game")
		return
	}
	utils.Success(c, 201, "Game created", game)
}

// UpdateGame handles PUT /admin/games/:id.
func (h *AdminCatalogHandler) UpdateGame(c *gin.Context) {
	var req gameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "VALIDATION_ERROR", "name is required")
		return
	}

	game := &models.Game{
		ID:               c.Param("id"),
		Name:             req.Name,
		Image:            req.Image,
		Description:      req.Description,
		G2BulkCategoryID: req.G2BulkCategoryID,
		IsActive:         req.IsActive == nil || *req.IsActive,
		SortOrder:        req.SortOrder,
	}
	if err := h.games.Update(game); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.Error(c, 404, "GAME_NOT_FOUND", "Game not found")
			return
		}
		log.Error().Err(err).Msg("game update failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to update game")
		return
	}
	utils.Success(c, 200, "Game updated", game)
}

// DeleteGame handles DELETE /admin/games/:id.
func (h *AdminCatalogHandler) DeleteGame(c *gin.Context) {
	if err := h.games.Delete(c.Param("id")); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.Error(c, 404, "GAME_NOT_FOUND", "Game not found")
			return
		}
		log.Error().Err(err).Msg("game delete failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to delete game")
		return
	}
	utils.Success(c, 200, "Game deleted", nil)
}

type packageRequest struct {
	GameID          string           `json:"gameId" binding:"required"`
	Name            string           `json:"name" binding:"required"`
	Amount          string           `json:"amount"`
	Price           decimal.Decimal  `json:"price"`
	OriginalPrice   *decimal.Decimal `json:"originalPrice"`
	Badge           *string          `json:"badge"`
	G2BulkProductID *string          `json:"g2bulkProductId"`
	G2BulkTypeID    *string          `json:"g2bulkTypeId"`
	IsActive        *bool            `json:"isActive"`
	SortOrder       int              `json:"sortOrder"`
	Special         bool             `json:"special"`
}

// ListPackages handles GET /admin/games/:id/packages.
func (h *AdminCatalogHandler) ListPackages(c *gin.Context) {
	gameID := c.Param("id")
	pkgs, err := h.packages.ListByGame(gameID, false)
	if err != nil {
		log.Error().Err(err).Msg("admin package list failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to list packages")
		return
	}
	special, err := h.packages.ListSpecialByGame(gameID, false)
	if err != nil {
		log.Error().Err(err).Msg("admin special package list failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to list packages")
		return
	}
	utils.Success(c, 200, "OK", gin.H{"packages": pkgs, "specialPackages": special})
}

// CreatePackage handles POST /admin/packages. Special packages carry
// special=true plus optional originalPrice/badge.
func (h *AdminCatalogHandler) CreatePackage(c *gin.Context) {
	var req packageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "VALIDATION_ERROR", "gameId and name are required")
		return
	}
	active := req.IsActive == nil || *req.IsActive

	if req.Special {
		pkg := &models.SpecialPackage{
			ID:              uuid.New().String(),
			GameID:          req.GameID,
			Name:            req.Name,
			Amount:          req.Amount,
			Price:           req.Price,
			OriginalPrice:   req.OriginalPrice,
			Badge:           req.Badge,
			G2BulkProductID: req.G2BulkProductID,
			G2BulkTypeID:    req.G2BulkTypeID,
			IsActive:        active,
			SortOrder:       req.SortOrder,
		}
		if err := h.packages.CreateSpecial(pkg); err != nil {
			log.Error().Err(err).Msg("special package create failed")
			utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create package")
			return
		}
		utils.Success(c, 201, "Package created", pkg)
		return
	}

	pkg := &models.Package{
		ID:              uuid.New().String(),
		GameID:          req.GameID,
		Name:            req.Name,
		Amount:          req.Amount,
		Price:           req.Price,
		G2BulkProductID: req.G2BulkProductID,
		G2BulkTypeID:    req.G2BulkTypeID,
		IsActive:        active,
		SortOrder:       req.SortOrder,
	}
	if err := h.packages.Create(pkg); err != nil {
		log.Error().Err(err).Msg("package create failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create package")
		return
	}
	utils.Success(c, 201, "Package created", pkg)
}

// UpdatePackage handles PUT /admin/packages/:id.
func (h *AdminCatalogHandler) UpdatePackage(c *gin.Context) {
	var req packageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "VALIDATION_ERROR", "gameId and name are required")
		return
	}
	active := req.IsActive == nil || *req.IsActive
	id := c.Param("id")

	var err error
	var payload any
	if req.Special {
		pkg := &models.SpecialPackage{
			ID: id, GameID: req.GameID, Name: req.Name, Amount: req.Amount,
			Price: req.Price, OriginalPrice: req.OriginalPrice, Badge: req.Badge,
			G2BulkProductID: req.G2BulkProductID, G2BulkTypeID: req.G2BulkTypeID,
			IsActive: active, SortOrder: req.SortOrder,
		}
		err = h.packages.UpdateSpecial(pkg)
		payload = pkg
	} else {
		pkg := &models.Package{
			ID: id, GameID: req.GameID, Name: req.Name, Amount: req.Amount,
			Price: req.Price, G2BulkProductID: req.G2BulkProductID,
			G2BulkTypeID: req.G2BulkTypeID, IsActive: active, SortOrder: req.SortOrder,
		}
		err = h.packages.Update(pkg)
		payload = pkg
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.Error(c, 404, "PACKAGE_NOT_FOUND", "Package not found")
			return
		}
		log.Error().Err(err).Msg("package update failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to update package")
		return
	}
	utils.Success(c, 200, "Package updated", payload)
}

// DeletePackage handles DELETE /admin/packages/:id?special=true|false.
func (h *AdminCatalogHandler) DeletePackage(c *gin.Context) {
	id := c.Param("id")
	var err error
	if c.Query("special") == "true" {
		err = h.packages.DeleteSpecial(id)
	} else {
		err = h.packages.Delete(id)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.Error(c, 404, "PACKAGE_NOT_FOUND", "Package not found")
			return
		}
		log.Error().Err(err).Msg("package delete failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to delete package")
		return
	}
	utils.Success(c, 200, "Package deleted", nil)
}
