package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/kesorhosting-wq/testtopupkesor/internal/models"
	"github.com/kesorhosting-wq/testtopupkesor/internal/service"
	"github.com/kesorhosting-wq/testtopupkesor/internal/utils"
)

type orderOps interface {
	Create(userID *string, req service.CreateOrderRequest) (*models.Order, error)
	Get(id string) (*models.Order, error)
	ListForUser(userID string, limit int) ([]models.Order, error)
}

// OrderHandler exposes checkout and order-status reads.
type OrderHandler struct {
	orders orderOps
}

// NewOrderHandler constructs an OrderHandler.
func NewOrderHandler(orders orderOps) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Create handles POST /orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "VALIDATION_ERROR", "gameId and playerId are required")
		return
	}

	var userID *string
	if id := c.GetString("user_id"); id != "" {
		userID = &id
	}

	order, err := h.orders.Create(userID, req)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrGameNotFound):
			utils.Error(c, 404, "GAME_NOT_FOUND", "Game not found")
		case errors.Is(err, utils.ErrPackageNotFound):
			utils.Error(c, 404, "PACKAGE_NOT_FOUND", "Package not found")
		case errors.Is(err, utils.ErrInsufficientBalance):
			utils.Error(c, 400, "INSUFFICIENT_BALANCE", "Insufficient wallet balance")
		case errors.Is(err, utils.ErrInvalidToken):
			utils.Error(c, 401, "UNAUTHORIZED", "Sign in to pay with wallet")
		default:
			log.Error().Err(err).Msg("order creation failed")
			utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create order")
		}
		return
	}

	utils.Success(c, 201, "Order created", order)
}

// Get handles GET /orders/:id. The payment watcher polls this.
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.orders.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, utils.ErrOrderNotFound) {
			utils.Error(c, 404, "ORDER_NOT_FOUND", "Order not found")
			return
		}
		log.Error().Err(err).Msg("order read failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to read order")
		return
	}
	utils.Success(c, 200, "OK", order)
}

// ListMine handles GET /orders for the authenticated user.
func (h *OrderHandler) ListMine(c *gin.Context) {
	userID := c.GetString("user_id")
	orders, err := h.orders.ListForUser(userID, 50)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("order list failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to list orders")
		return
	}
	utils.Success(c, 200, "OK", orders)
}
