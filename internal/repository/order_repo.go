package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kesorhosting-wq/testtopupkesor/internal/models"
)

// OrderRepository handles data access for top-up orders.
type OrderRepository struct {
	db *sqlx.DB
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts a new order row in pending state.
func (r *OrderRepository) Create(o *models.Order) error {
	const q = `
        INSERT INTO topup_orders (
            id, user_id, game_id, package_id, game_name, package_name,
            player_id, server_id, player_name, amount, currency, status,
            status_message, payment_method, created_at, updated_at
        ) VALUES (
            $1,$2,$3,$4,$5,$6,
            $7,$8,$9,$10,$11,$12,
            $13,$14,NOW(),NOW()
        ) RETURNING created_at, updated_at`

	return r.db.QueryRow(q,
		o.ID, o.UserID, o.GameID, o.PackageID, o.GameName, o.PackageName,
		o.PlayerID, o.ServerID, o.PlayerName, o.Amount, o.Currency, o.Status,
		o.StatusMessage, o.PaymentMethod,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
}

// GetByID returns an order by id.
func (r *OrderRepository) GetByID(id string) (*models.Order, error) {
	const q = `SELECT * FROM topup_orders WHERE id = $1 LIMIT 1`
	var o models.Order
	if err := r.db.Get(&o, q, id); err != nil {
		return nil, err
	}
	return &o, nil
}

// MarkPaid transitions an order to paid if and only if it is still
// processable, stamping paid_at on the first transition. Returns
// sql.ErrNoRows when the precondition fails so the caller can distinguish a
// lost race from a missing order.
func (r *OrderRepository) MarkPaid(id, paymentMethod, statusMessage string) error {
	const q = `
        UPDATE topup_orders SET
            status = $2,
            payment_method = $3,
            status_message = $4,
            paid_at = COALESCE(paid_at, NOW()),
            updated_at = NOW()
        WHERE id = $1 AND status IN ('pending', 'paid')`

	res, err := r.db.Exec(q, id, models.OrderPaid, paymentMethod, statusMessage)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ClaimPaid atomically claims up to limit paid orders for fulfillment by
// moving them to processing. SKIP LOCKED keeps concurrent workers from
// claiming the same rows.
func (r *OrderRepository) ClaimPaid(limit int) ([]models.Order, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	const selectQ = `
        SELECT * FROM topup_orders
        WHERE status = 'paid'
        ORDER BY updated_at ASC
        LIMIT $1
        FOR UPDATE SKIP LOCKED`

	var orders []models.Order
	if err := tx.Select(&orders, selectQ, limit); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, tx.Commit()
	}

	const updateQ = `
        UPDATE topup_orders SET status = 'processing', updated_at = NOW()
        WHERE id = $1`
	for i := range orders {
		if _, err := tx.Exec(updateQ, orders[i].ID); err != nil {
			return nil, fmt.Errorf("failed to claim order %s: %w", orders[i].ID, err)
		}
		orders[i].Status = models.OrderProcessing
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return orders, nil
}

// SetFulfillmentResult records the terminal outcome of a fulfillment attempt.
func (r *OrderRepository) SetFulfillmentResult(id string, status models.OrderStatus, statusMessage string, g2bulkOrderID *string) error {
	const q = `
        UPDATE topup_orders SET
            status = $2,
            status_message = $3,
            g2bulk_order_id = COALESCE($4, g2bulk_order_id),
            updated_at = NOW()
        WHERE id = $1`
	_, err := r.db.Exec(q, id, status, statusMessage, g2bulkOrderID)
	return err
}

// Requeue returns a processing order to paid so a later tick retries it
// after an ambiguous upstream failure.
func (r *OrderRepository) Requeue(id, statusMessage string) error {
	const q = `
        UPDATE topup_orders SET status = 'paid', status_message = $2, updated_at = NOW()
        WHERE id = $1 AND status = 'processing'`
	_, err := r.db.Exec(q, id, statusMessage)
	return err
}

// FailExpired marks paid orders as failed once maxAge has passed since the
// payment landed, so retries do not loop forever when the supplier stays
// unreachable. Age is measured from paid_at, not created_at: the gateway may
// legitimately confirm long after checkout, and a late payment still deserves
// the full retry budget.
func (r *OrderRepository) FailExpired(maxAge time.Duration) (int64, error) {
	const q = `
        UPDATE topup_orders SET
            status = 'failed',
            status_message = 'Fulfillment timed out. Please contact support.',
            updated_at = NOW()
        WHERE status = 'paid' AND paid_at IS NOT NULL AND paid_at < NOW() - $1::interval`

	res, err := r.db.Exec(q, fmt.Sprintf("%f seconds", maxAge.Seconds()))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListByUser returns a user's orders, newest first.
func (r *OrderRepository) ListByUser(userID string, limit int) ([]models.Order, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `SELECT * FROM topup_orders WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`
	var orders []models.Order
	if err := r.db.Select(&orders, q, userID, limit); err != nil {
		return nil, err
	}
	return orders, nil
}
