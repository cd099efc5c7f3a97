package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/kesorhosting-wq/testtopupkesor/internal/models"
	"github.com/kesorhosting-wq/testtopupkesor/internal/utils"
)

type walletOps interface {
	GetBalance(userID string) (decimal.Decimal, error)
	Topup(userID string, amount decimal.Decimal, orderID *string) (*models.WalletTransaction, error)
	Purchase(userID string, amount decimal.Decimal, orderID *string) (*models.WalletTransaction, error)
	History(userID string, limit int) ([]models.WalletTransaction, error)
}

// WalletHandler exposes the wallet action endpoint. Response shapes follow
// the storefront's wallet contract ({balance} / {success, newBalance} /
// {error}) rather than the standard envelope.
type WalletHandler struct {
	wallet walletOps
}

// NewWalletHandler constructs a WalletHandler.
func NewWalletHandler(wallet walletOps) *WalletHandler {
	return &WalletHandler{wallet: wallet}
}

type walletRequest struct {
	Action  string   `json:"action" binding:"required"`
	Amount  *float64 `json:"amount"`
	OrderID *string  `json:"orderId"`
}

// Handle handles POST /wallet. The authenticated caller is the only account
// ever credited or debited.
func (h *WalletHandler) Handle(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req walletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing action"})
		return
	}

	switch req.Action {
	case "get-balance":
		balance, err := h.wallet.GetBalance(userID)
		if err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("balance read failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read balance"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"balance": balance})

	case "topup", "purchase":
		if req.Amount == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing amount"})
			return
		}
		amount := decimal.NewFromFloat(*req.Amount)

		var (
			entry *models.WalletTransaction
			err   error
		)
		if req.Action == "topup" {
			entry, err = h.wallet.Topup(userID, amount, req.OrderID)
		} else {
			entry, err = h.wallet.Purchase(userID, amount, req.OrderID)
		}
		if err != nil {
			switch {
			case errors.Is(err, utils.ErrInvalidAmount):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be between 0 and 10000"})
			case errors.Is(err, utils.ErrInsufficientBalance):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient balance"})
			default:
				log.Error().Err(err).Str("user_id", userID).Str("action", req.Action).Msg("wallet operation failed")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Wallet operation failed"})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "newBalance": entry.BalanceAfter})

	case "history":
		entries, err := h.wallet.History(userID, 50)
		if err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("history read failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read history"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"transactions": entries})

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown action"})
	}
}
