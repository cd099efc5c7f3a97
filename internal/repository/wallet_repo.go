package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/kesorhosting-wq/testtopupkesor/internal/models"
	"github.com/kesorhosting-wq/testtopupkesor/internal/utils"
)

// WalletRepository handles wallet balances and the immutable transaction
// ledger. Every balance change runs in a single transaction that locks the
// user row, so concurrent top-ups and purchases serialize and the ledger's
// balance_before/balance_after chain stays consistent.
type WalletRepository struct {
	db *sqlx.DB
}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository(db *sqlx.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

// GetBalance returns the user's current wallet balance.
func (r *WalletRepository) GetBalance(userID string) (decimal.Decimal, error) {
	const q = `SELECT wallet_balance FROM users WHERE id = $1`
	var balance decimal.Decimal
	if err := r.db.Get(&balance, q, userID); err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

// Credit adds amount to the user's balance and appends a ledger row.
// amount must already be validated positive by the caller.
func (r *WalletRepository) Credit(userID string, amount decimal.Decimal, description string, referenceID *string) (*models.WalletTransaction, error) {
	return r.apply(userID, models.WalletTopup, amount, description, referenceID)
}

// Debit subtracts amount from the user's balance and appends a ledger row.
// Returns utils.ErrInsufficientBalance when the locked balance cannot cover
// the amount.
func (r *WalletRepository) Debit(userID string, amount decimal.Decimal, description string, referenceID *string) (*models.WalletTransaction, error) {
	return r.apply(userID, models.WalletPurchase, amount.Neg(), description, referenceID)
}

// apply performs the locked read-modify-write plus ledger insert. amount is
// signed: positive credits, negative debits.
func (r *WalletRepository) apply(userID string, txType models.WalletTransactionType, amount decimal.Decimal, description string, referenceID *string) (*models.WalletTransaction, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	const lockQ = `SELECT wallet_balance FROM users WHERE id = $1 FOR UPDATE`
	var before decimal.Decimal
	if err := tx.Get(&before, lockQ, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s not found", userID)
		}
		return nil, err
	}

	after := before.Add(amount)
	if after.IsNegative() {
		return nil, utils.ErrInsufficientBalance
	}

	const updateQ = `UPDATE users SET wallet_balance = $2, updated_at = NOW() WHERE id = $1`
	if _, err := tx.Exec(updateQ, userID, after); err != nil {
		return nil, err
	}

	wt := &models.WalletTransaction{
		UserID:        userID,
		Type:          txType,
		Amount:        amount,
		BalanceBefore: before,
		BalanceAfter:  after,
		Description:   description,
		ReferenceID:   referenceID,
	}

	const insertQ = `
        INSERT INTO wallet_transactions (
            user_id, type, amount, balance_before, balance_after,
            description, reference_id, created_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,NOW())
        RETURNING id, created_at`
	if err := tx.QueryRow(insertQ,
		wt.UserID, wt.Type, wt.Amount, wt.BalanceBefore, wt.BalanceAfter,
		wt.Description, wt.ReferenceID,
	).Scan(&wt.ID, &wt.CreatedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return wt, nil
}

// History returns the user's ledger rows, newest first.
func (r *WalletRepository) History(userID string, limit int) ([]models.WalletTransaction, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `
        SELECT * FROM wallet_transactions
        WHERE user_id = $1
        ORDER BY created_at DESC
        LIMIT $2`
	var rows []models.WalletTransaction
	if err := r.db.Select(&rows, q, userID, limit); err != nil {
		return nil, err
	}
	return rows, nil
}
