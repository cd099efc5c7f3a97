package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/kesorhosting-wq/testtopupkesor/internal/utils"
)

// HealthHandler reports process and database liveness.
type HealthHandler struct {
	db *sqlx.DB
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(db *sqlx.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check handles GET /health.
func (h *HealthHandler) Check(c *gin.Context) {
	if err := h.db.Ping(); err != nil {
		utils.Error(c, 503, "DB_UNAVAILABLE", "database unreachable")
		return
	}
	utils.Success(c, 200, "OK", gin.H{"status": "healthy"})
}
