package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type WalletTransactionType string

const (
	WalletTopup    WalletTransactionType = "topup"
	WalletPurchase WalletTransactionType = "purchase"
)

// WalletTransaction is one immutable ledger entry. Amount is signed: positive
// for topups, negative for purchases. BalanceAfter = BalanceBefore + Amount
// holds for every row; both are computed inside the atomic balance mutation,
// never by re-reading in the handler.
type WalletTransaction struct {
	ID            int64                 `db:"id" json:"-"`
	UserID        string                `db:"user_id" json:"userId"`
	Type          WalletTransactionType `db:"type" json:"type"`
	Amount        decimal.Decimal       `db:"amount" json:"amount"`
	BalanceBefore decimal.Decimal       `db:"balance_before" json:"balanceBefore"`
	BalanceAfter  decimal.Decimal       `db:"balance_after" json:"balanceAfter"`
	Description   string                `db:"description" json:"description"`
	ReferenceID   *string               `db:"reference_id" json:"referenceId,omitempty"`
	CreatedAt     time.Time             `db:"created_at" json:"createdAt"`
}
