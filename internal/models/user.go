package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// User is a storefront account. WalletBalance is the materialized balance
// kept consistent with the wallet_transactions ledger by the wallet repo.
type User struct {
	ID            string          `db:"id" json:"id"`
	Email         string          `db:"email" json:"email"`
	PasswordHash  string          `db:"password_hash" json:"-"`
	Name          string          `db:"name" json:"name"`
	Role          UserRole        `db:"role" json:"role"`
	WalletBalance decimal.Decimal `db:"wallet_balance" json:"walletBalance"`
	IsActive      bool            `db:"is_active" json:"isActive"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time       `db:"updated_at" json:"-"`
}
