package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/kesorhosting-wq/testtopupkesor/internal/service"
	"github.com/kesorhosting-wq/testtopupkesor/internal/utils"
	"github.com/kesorhosting-wq/testtopupkesor/pkg/g2bulk"
)

type supplierAccount interface {
	GetMe(ctx context.Context) (*g2bulk.AccountInfo, error)
	GetGames(ctx context.Context) (*g2bulk.GamesResponse, error)
}

type catalogInvalidator interface {
	Invalidate(ctx context.Context, gameCodes ...string)
}

// AdminSyncHandler drives catalog synchronization from the admin panel.
type AdminSyncHandler struct {
	sync     *service.CatalogSyncService
	supplier supplierAccount
	cache    catalogInvalidator
}

// NewAdminSyncHandler constructs an AdminSyncHandler. cache may be nil.
func NewAdminSyncHandler(sync *service.CatalogSyncService, supplier supplierAccount, cache catalogInvalidator) *AdminSyncHandler {
	return &AdminSyncHandler{sync: sync, supplier: supplier, cache: cache}
}

// SyncProducts handles POST /admin/sync/products. A manual sync drops the
// cached supplier listings first so it always sees the live catalog.
func (h *AdminSyncHandler) SyncProducts(c *gin.Context) {
	if h.cache != nil {
		h.cache.Invalidate(c.Request.Context())
	}
	result, err := h.sync.SyncProducts(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("product sync failed")
		utils.Error(c, 502, "SYNC_FAILED", "Product sync failed")
		return
	}
	utils.Success(c, 200, "Sync complete", result)
}

// BulkImport handles POST /admin/sync/bulk-import.
func (h *AdminSyncHandler) BulkImport(c *gin.Context) {
	var opts service.BulkImportOptions
	if err := c.ShouldBindJSON(&opts); err != nil {
		utils.Error(c, 400, "VALIDATION_ERROR", "Invalid import options")
		return
	}

	result, err := h.sync.BulkImport(c.Request.Context(), opts)
	if err != nil {
		log.Error().Err(err).Msg("bulk import failed")
		utils.Error(c, 502, "SYNC_FAILED", "Bulk import failed")
		return
	}
	utils.Success(c, 200, "Import complete", result)
}

type batchSyncRequest struct {
	GameCodes []string `json:"game_codes" binding:"required"`
}

// SyncGamesBatch handles POST /admin/sync/games-batch.
func (h *AdminSyncHandler) SyncGamesBatch(c *gin.Context) {
	var req batchSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.GameCodes) == 0 {
		utils.Error(c, 400, "VALIDATION_ERROR", "game_codes is required")
		return
	}

	result, err := h.sync.SyncGamesBatch(c.Request.Context(), req.GameCodes)
	if err != nil {
		log.Error().Err(err).Msg("batch sync failed")
		utils.Error(c, 502, "SYNC_FAILED", "Batch sync failed")
		return
	}
	utils.Success(c, 200, "Batch sync complete", result)
}

// Stats handles GET /admin/sync/stats.
func (h *AdminSyncHandler) Stats(c *gin.Context) {
	stats, err := h.sync.Stats()
	if err != nil {
		log.Error().Err(err).Msg("sync stats failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to read sync stats")
		return
	}
	utils.Success(c, 200, "OK", stats)
}

// SupplierBalance handles GET /admin/g2bulk/balance.
func (h *AdminSyncHandler) SupplierBalance(c *gin.Context) {
	info, err := h.supplier.GetMe(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("supplier account read failed")
		utils.Error(c, 502, "SUPPLIER_UNAVAILABLE", "Failed to reach supplier")
		return
	}
	utils.Success(c, 200, "OK", gin.H{"name": info.Name, "balance": info.Balance})
}

// SupplierGames handles GET /admin/g2bulk/games. Feeds the selection list
// for targeted imports.
func (h *AdminSyncHandler) SupplierGames(c *gin.Context) {
	resp, err := h.supplier.GetGames(c.Request.Context())
	if err != nil || !resp.Success {
		log.Error().Err(err).Msg("supplier games read failed")
		utils.Error(c, 502, "SUPPLIER_UNAVAILABLE", "Failed to list supplier games")
		return
	}
	utils.Success(c, 200, "OK", resp.Games)
}
