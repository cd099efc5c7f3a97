package service

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/kesorhosting-wq/testtopupkesor/internal/models"
	"github.com/kesorhosting-wq/testtopupkesor/internal/sse"
	"github.com/kesorhosting-wq/testtopupkesor/internal/utils"
)

// PaymentMethodKHQR is the label recorded when the KHQR gateway confirms.
const PaymentMethodKHQR = "KHQR"

// PaymentMethodWallet is the label recorded for wallet-balance purchases.
const PaymentMethodWallet = "Wallet"

type orderStore interface {
	Create(o *models.Order) error
	GetByID(id string) (*models.Order, error)
	MarkPaid(id, paymentMethod, statusMessage string) error
	ListByUser(userID string, limit int) ([]models.Order, error)
}

type catalogReader interface {
	GetGame(id string) (*models.Game, error)
	GetPackage(id string) (*models.Package, error)
	GetSpecialPackage(id string) (*models.SpecialPackage, error)
}

type walletDebiter interface {
	Purchase(userID string, amount decimal.Decimal, orderID *string) (*models.WalletTransaction, error)
}

// CreateOrderRequest is the checkout payload. Exactly one of PackageID or
// SpecialPackageID must be set.
type CreateOrderRequest struct {
	GameID           string `json:"gameId" binding:"required"`
	PackageID        string `json:"packageId"`
	SpecialPackageID string `json:"specialPackageId"`
	PlayerID         string `json:"playerId" binding:"required"`
	ServerID         string `json:"serverId"`
	PlayerName       string `json:"playerName"`
	PayWithWallet    bool   `json:"payWithWallet"`
}

// OrderService creates orders and records payment confirmations. Fulfillment
// is not performed here: marking an order paid hands it to the fulfillment
// worker, so gateway webhook retries can never double-purchase upstream.
type OrderService struct {
	orders   orderStore
	catalog  catalogReader
	wallet   walletDebiter
	notifier sse.OrderNotifier
}

// NewOrderService creates an OrderService.
func NewOrderService(orders orderStore, catalog catalogReader, wallet walletDebiter, notifier sse.OrderNotifier) *OrderService {
	if notifier == nil {
		notifier = &sse.NopNotifier{}
	}
	return &OrderService{orders: orders, catalog: catalog, wallet: wallet, notifier: notifier}
}

// Create places a new pending order priced from the catalog, never from
// client-supplied amounts. Wallet payments debit and confirm immediately.
func (s *OrderService) Create(userID *string, req CreateOrderRequest) (*models.Order, error) {
	game, err := s.catalog.GetGame(req.GameID)
	if err != nil {
		return nil, err
	}
	if game == nil || !game.IsActive {
		return nil, utils.ErrGameNotFound
	}

	var (
		pkgName  string
		pkgPrice decimal.Decimal
		pkgID    *string
	)
	switch {
	case req.PackageID != "":
		pkg, err := s.catalog.GetPackage(req.PackageID)
		if err != nil {
			return nil, err
		}
		if pkg == nil || !pkg.IsActive || pkg.GameID != game.ID {
			return nil, utils.ErrPackageNotFound
		}
		pkgName, pkgPrice, pkgID = pkg.Name, pkg.Price, &pkg.ID
	case req.SpecialPackageID != "":
		pkg, err := s.catalog.GetSpecialPackage(req.SpecialPackageID)
		if err != nil {
			return nil, err
		}
		if pkg == nil || !pkg.IsActive || pkg.GameID != game.ID {
			return nil, utils.ErrPackageNotFound
		}
		pkgName, pkgPrice, pkgID = pkg.Name, pkg.Price, &pkg.ID
	default:
		return nil, utils.ErrPackageNotFound
	}

	order := &models.Order{
		ID:          uuid.New().String(),
		UserID:      userID,
		GameID:      &game.ID,
		PackageID:   pkgID,
		GameName:    game.Name,
		PackageName: pkgName,
		PlayerID:    req.PlayerID,
		Amount:      pkgPrice,
		Currency:    "USD",
		Status:      models.OrderPending,
	}
	if req.ServerID != "" {
		order.ServerID = &req.ServerID
	}
	if req.PlayerName != "" {
		order.PlayerName = &req.PlayerName
	}

	if err := s.orders.Create(order); err != nil {
		return nil, err
	}

	if req.PayWithWallet {
		if userID == nil {
			return nil, utils.ErrInvalidToken
		}
		if _, err := s.wallet.Purchase(*userID, order.Amount, &order.ID); err != nil {
			return nil, err
		}
		msg := "Paid from wallet balance"
		if err := s.orders.MarkPaid(order.ID, PaymentMethodWallet, msg); err != nil {
			// The debit committed; leave the order pending and let support
			// reconcile rather than guessing a refund here.
			log.Error().Err(err).Str("order_id", order.ID).Msg("wallet debit succeeded but paid transition failed")
			return nil, err
		}
		order.Status = models.OrderPaid
		order.StatusMessage = &msg
		pm := PaymentMethodWallet
		order.PaymentMethod = &pm
		s.notifier.NotifyOrderPaid(order)
	}

	return order, nil
}

// Get returns one order.
func (s *OrderService) Get(id string) (*models.Order, error) {
	o, err := s.orders.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrOrderNotFound
		}
		return nil, err
	}
	return o, nil
}

// ListForUser returns a user's recent orders.
func (s *OrderService) ListForUser(userID string, limit int) ([]models.Order, error) {
	return s.orders.ListByUser(userID, limit)
}

// ConfirmPayment records a gateway payment confirmation for an order. It is
// idempotent: terminal and already-processing orders are acknowledged with a
// message and no mutation. Returns the human-readable webhook message.
func (s *OrderService) ConfirmPayment(orderID, transactionID string) (string, error) {
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", utils.ErrOrderNotFound
		}
		return "", err
	}

	if !order.Status.Processable() {
		return fmt.Sprintf("Order already %s", order.Status), nil
	}

	msg := fmt.Sprintf("Payment confirmed (transaction %s)", transactionID)
	if err := s.orders.MarkPaid(orderID, PaymentMethodKHQR, msg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Lost the race against another delivery or the fulfillment
			// worker; re-read for an accurate acknowledgement.
			if current, rerr := s.orders.GetByID(orderID); rerr == nil {
				return fmt.Sprintf("Order already %s", current.Status), nil
			}
			return "Order already processed", nil
		}
		return "", err
	}

	order.Status = models.OrderPaid
	order.StatusMessage = &msg
	pm := PaymentMethodKHQR
	order.PaymentMethod = &pm
	s.notifier.NotifyOrderPaid(order)

	log.Info().Str("order_id", orderID).Str("transaction_id", transactionID).Msg("order marked paid")
	return "Payment recorded", nil
}
