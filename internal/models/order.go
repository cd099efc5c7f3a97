package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderPaid       OrderStatus = "paid"
	OrderProcessing OrderStatus = "processing"
	OrderCompleted  OrderStatus = "completed"
	OrderFailed     OrderStatus = "failed"
)

// Processable reports whether the payment webhook may still act on an order
// in this status. Terminal orders are acknowledged but never mutated again.
func (s OrderStatus) Processable() bool {
	return s == OrderPending || s == OrderPaid
}

// Terminal reports whether the order has reached a final state.
func (s OrderStatus) Terminal() bool {
	return s == OrderCompleted || s == OrderFailed
}

// Order captures one purchase attempt from checkout through fulfillment.
type Order struct {
	ID            string          `db:"id" json:"id"`
	UserID        *string         `db:"user_id" json:"userId,omitempty"`
	GameID        *string         `db:"game_id" json:"gameId,omitempty"`
	PackageID     *string         `db:"package_id" json:"packageId,omitempty"`
	GameName      string          `db:"game_name" json:"gameName"`
	PackageName   string          `db:"package_name" json:"packageName"`
	PlayerID      string          `db:"player_id" json:"playerId"`
	ServerID      *string         `db:"server_id" json:"serverId,omitempty"`
	PlayerName    *string         `db:"player_name" json:"playerName,omitempty"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	Currency      string          `db:"currency" json:"currency"`
	Status        OrderStatus     `db:"status" json:"status"`
	StatusMessage *string         `db:"status_message" json:"statusMessage,omitempty"`
	PaymentMethod *string         `db:"payment_method" json:"paymentMethod,omitempty"`
	PaidAt        *time.Time      `db:"paid_at" json:"paidAt,omitempty"`
	G2BulkOrderID *string         `db:"g2bulk_order_id" json:"-"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updatedAt"`
}
