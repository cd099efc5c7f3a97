package service

import (
	"github.com/shopspring/decimal"

	"github.com/kesorhosting-wq/testtopupkesor/internal/models"
	"github.com/kesorhosting-wq/testtopupkesor/internal/utils"
)

// maxWalletAmount caps a single top-up or purchase.
var maxWalletAmount = decimal.NewFromInt(10000)

type walletStore interface {
	GetBalance(userID string) (decimal.Decimal, error)
	Credit(userID string, amount decimal.Decimal, description string, referenceID *string) (*models.WalletTransaction, error)
	Debit(userID string, amount decimal.Decimal, description string, referenceID *string) (*models.WalletTransaction, error)
	History(userID string, limit int) ([]models.WalletTransaction, error)
}

// WalletService enforces amount limits on top of the atomic wallet store.
// The store owns the race-free balance mutation; this layer owns validation
// and descriptions.
type WalletService struct {
	store walletStore
}

// NewWalletService creates a WalletService.
func NewWalletService(store walletStore) *WalletService {
	return &WalletService{store: store}
}

// validateAmount enforces 0 < amount <= 10000.
func validateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) || amount.GreaterThan(maxWalletAmount) {
		return utils.ErrInvalidAmount
	}
	return nil
}

// GetBalance returns the caller's current balance.
func (s *WalletService) GetBalance(userID string) (decimal.Decimal, error) {
	return s.store.GetBalance(userID)
}

// Topup credits the caller's wallet and returns the ledger entry carrying
// the new balance.
func (s *WalletService) Topup(userID string, amount decimal.Decimal, orderID *string) (*models.WalletTransaction, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	return s.store.Credit(userID, amount, "Wallet top-up", orderID)
}

// Purchase debits the caller's wallet. Insufficient funds surface as
// utils.ErrInsufficientBalance with no state change.
func (s *WalletService) Purchase(userID string, amount decimal.Decimal, orderID *string) (*models.WalletTransaction, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	return s.store.Debit(userID, amount, "Wallet purchase", orderID)
}

// History returns the caller's ledger entries, newest first.
func (s *WalletService) History(userID string, limit int) ([]models.WalletTransaction, error) {
	return s.store.History(userID, limit)
}
