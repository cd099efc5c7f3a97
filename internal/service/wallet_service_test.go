package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kesorhosting-wq/testtopupkesor/internal/models"
	"github.com/kesorhosting-wq/testtopupkesor/internal/utils"
)

type fakeWalletStore struct {
	balance decimal.Decimal
	credits []decimal.Decimal
	debits  []decimal.Decimal
}

func (f *fakeWalletStore) GetBalance(userID string) (decimal.Decimal, error) {
	return f.balance, nil
}

func (f *fakeWalletStore) Credit(userID string, amount decimal.Decimal, description string, referenceID *string) (*models.WalletTransaction, error) {
	f.credits = append(f.credits, amount)
	f.balance = f.balance.Add(amount)
	return &models.WalletTransaction{UserID: userID, Type: models.WalletTopup, Amount: amount, BalanceAfter: f.balance}, nil
}

func (f *fakeWalletStore) Debit(userID string, amount decimal.Decimal, description string, referenceID *string) (*models.WalletTransaction, error) {
	after := f.balance.Sub(amount)
	if after.IsNegative() {
		return nil, utils.ErrInsufficientBalance
	}
	f.debits = append(f.debits, amount)
	f.balance = after
	return &models.WalletTransaction{UserID: userID, Type: models.WalletPurchase, Amount: amount.Neg(), BalanceAfter: f.balance}, nil
}

func (f *fakeWalletStore) History(userID string, limit int) ([]models.WalletTransaction, error) {
	return nil, nil
}

func TestWalletTopupRejectsOutOfRangeAmounts(t *testing.T) {
	store := &fakeWalletStore{}
	svc := NewWalletService(store)

	for _, amount := range []decimal.Decimal{
		decimal.Zero,
		decimal.NewFromInt(-5),
		decimal.NewFromInt(10001),
	} {
		_, err := svc.Topup("u1", amount, nil)
		assert.ErrorIs(t, err, utils.ErrInvalidAmount, "amount %s", amount)
	}
	assert.Empty(t, store.credits, "rejected amounts must not reach the store")
}

func TestWalletTopupAcceptsBoundaryAmount(t *testing.T) {
	store := &fakeWalletStore{}
	svc := NewWalletService(store)

	tx, err := svc.Topup("u1", decimal.NewFromInt(10000), nil)
	require.NoError(t, err)
	assert.True(t, tx.BalanceAfter.Equal(decimal.NewFromInt(10000)))
}

func TestWalletPurchaseInsufficientBalance(t *testing.T) {
	store := &fakeWalletStore{balance: decimal.NewFromInt(5)}
	svc := NewWalletService(store)

	_, err := svc.Purchase("u1", decimal.NewFromInt(10), nil)
	assert.ErrorIs(t, err, utils.ErrInsufficientBalance)
	assert.True(t, store.balance.Equal(decimal.NewFromInt(5)), "balance must be untouched")
}

func TestWalletPurchaseDebits(t *testing.T) {
	store := &fakeWalletStore{balance: decimal.NewFromInt(25)}
	svc := NewWalletService(store)

	tx, err := svc.Purchase("u1", decimal.NewFromFloat(9.99), nil)
	require.NoError(t, err)
	assert.True(t, tx.Amount.IsNegative(), "ledger amount for purchases is signed negative")
	assert.True(t, store.balance.Equal(decimal.NewFromFloat(15.01)))
}
